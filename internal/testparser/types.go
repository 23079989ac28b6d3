// Package testparser parses the files the Unity editor writes in batch mode:
// the editor log (compiler diagnostics) and the test runner's results XML.
//
// Both formats are owned by Unity and may drift between editor versions, so
// every parser ignores what it does not recognise instead of failing.
package testparser

import (
	"fmt"
	"io"
	"time"
)

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Diagnostic is a single message extracted from the editor log.
type Diagnostic struct {
	Severity Severity
	Message  string
	File     string // empty when the message has no source location
	Line     int    // 0 when unknown
	Column   int    // 0 when unknown
	Code     string // compiler code such as "CS0246", if any
}

// String formats the diagnostic the way the C# compiler does.
func (d Diagnostic) String() string {
	prefix := d.Severity.String()
	if d.Code != "" {
		prefix += " " + d.Code
	}
	switch {
	case d.File != "" && d.Line > 0:
		return fmt.Sprintf("%s(%d,%d): %s: %s", d.File, d.Line, d.Column, prefix, d.Message)
	case d.File != "":
		return fmt.Sprintf("%s: %s: %s", d.File, prefix, d.Message)
	default:
		return fmt.Sprintf("%s: %s", prefix, d.Message)
	}
}

// CountErrors returns the number of error-severity diagnostics.
func CountErrors(diags []Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}

// TestResult is the outcome of a single test case.
type TestResult int

const (
	ResultPassed TestResult = iota
	ResultFailed
	ResultSkipped
	ResultInconclusive
)

func (r TestResult) String() string {
	switch r {
	case ResultPassed:
		return "Passed"
	case ResultFailed:
		return "Failed"
	case ResultSkipped:
		return "Skipped"
	default:
		return "Inconclusive"
	}
}

// FailedTest holds information about a single failed test.
type FailedTest struct {
	Name   string // Full test name (e.g., "Game.Tests.PlayerTests.Jumps")
	Reason string // Failure message
}

// TestCounts holds parsed test result counts.
type TestCounts struct {
	Passed       int
	Failed       int
	Skipped      int
	Inconclusive int
	Total        int
	FailedTests  []FailedTest
}

// Add adds another TestCounts to this one, aggregating the counts.
func (tc *TestCounts) Add(other *TestCounts) {
	if other == nil {
		return
	}
	tc.Passed += other.Passed
	tc.Failed += other.Failed
	tc.Skipped += other.Skipped
	tc.Inconclusive += other.Inconclusive
	tc.Total += other.Total
	tc.FailedTests = append(tc.FailedTests, other.FailedTests...)
}

// record counts one case outcome.
func (tc *TestCounts) record(c *TestCase) {
	tc.Total++
	switch c.Result {
	case ResultPassed:
		tc.Passed++
	case ResultFailed:
		tc.Failed++
		tc.FailedTests = append(tc.FailedTests, FailedTest{Name: c.FullName, Reason: c.Message})
	case ResultSkipped:
		tc.Skipped++
	default:
		tc.Inconclusive++
	}
}

// TestCase is a leaf of the results tree.
type TestCase struct {
	Name       string
	FullName   string
	Result     TestResult
	Duration   time.Duration
	Message    string // failure or skip message
	StackTrace string
	Output     string // console output captured during the test
}

// TestSuite is an inner node of the results tree (assembly, namespace,
// fixture or parameterized test).
type TestSuite struct {
	Type     string // "Assembly", "TestFixture", ...
	Name     string
	Counts   TestCounts
	Suites   []*TestSuite
	Cases    []*TestCase
	Message  string // failure reason reported on the suite itself
	Output   string
	Duration time.Duration
}

// Report is the parsed test results file.
type Report struct {
	Counts TestCounts
	Suites []*TestSuite
}

// LogParser extracts diagnostics from an editor log.
type LogParser interface {
	// ParseLog scans the log and returns the recognised diagnostics in order
	// of first appearance. Unrecognised lines are ignored.
	ParseLog(r io.Reader) ([]Diagnostic, error)
	// Name returns the name of the parser.
	Name() string
}

// ResultsParser reads a test results file.
type ResultsParser interface {
	// ParseResults decodes the results file. It fails only when the file is
	// not a results document at all.
	ParseResults(r io.Reader) (*Report, error)
	// Name returns the name of the parser.
	Name() string
}
