package testparser

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// NUnitParser parses the NUnit 3 XML the Unity Test Framework writes to the
// path given by -testResults.
//
// The document is a <test-run> root holding nested <test-suite> elements
// (assembly, namespace, fixture, parameterized method) whose leaves are
// <test-case> elements:
//
//	<test-run total="4" passed="3" failed="1" skipped="0" inconclusive="0">
//	  <test-suite type="Assembly" name="EditTests.dll">
//	    <test-suite type="TestFixture" name="PlayerTests" fullname="Game.PlayerTests">
//	      <test-case name="Jumps" fullname="Game.PlayerTests.Jumps" result="Passed" duration="0.01"/>
//	      <test-case name="Lands" fullname="Game.PlayerTests.Lands" result="Failed">
//	        <failure><message>Expected 1 but was 0</message><stack-trace>...</stack-trace></failure>
//	      </test-case>
//	    </test-suite>
//	  </test-suite>
//	</test-run>
type NUnitParser struct{}

type nunitRun struct {
	XMLName      xml.Name     `xml:"test-run"`
	Total        int          `xml:"total,attr"`
	Passed       int          `xml:"passed,attr"`
	Failed       int          `xml:"failed,attr"`
	Skipped      int          `xml:"skipped,attr"`
	Inconclusive int          `xml:"inconclusive,attr"`
	Suites       []nunitSuite `xml:"test-suite"`
}

type nunitSuite struct {
	Type     string       `xml:"type,attr"`
	Name     string       `xml:"name,attr"`
	Duration string       `xml:"duration,attr"`
	Failure  nunitFailure `xml:"failure"`
	Reason   nunitFailure `xml:"reason"`
	Output   string       `xml:"output"`
	Suites   []nunitSuite `xml:"test-suite"`
	Cases    []nunitCase  `xml:"test-case"`
}

type nunitCase struct {
	Name     string       `xml:"name,attr"`
	FullName string       `xml:"fullname,attr"`
	Result   string       `xml:"result,attr"`
	Duration string       `xml:"duration,attr"`
	Failure  nunitFailure `xml:"failure"`
	Reason   nunitFailure `xml:"reason"`
	Output   string       `xml:"output"`
}

type nunitFailure struct {
	Message    string `xml:"message"`
	StackTrace string `xml:"stack-trace"`
}

// Name returns the parser name.
func (p *NUnitParser) Name() string {
	return "nunit3"
}

// ParseResults decodes an NUnit 3 results document.
// Counts are recomputed from the test cases so that suite totals always match
// the cases shown; the <test-run> attributes are used only when the document
// carries no cases at all.
func (p *NUnitParser) ParseResults(r io.Reader) (*Report, error) {
	var run nunitRun
	if err := xml.NewDecoder(r).Decode(&run); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("no <test-run> element found")
		}
		return nil, fmt.Errorf("invalid NUnit results: %w", err)
	}

	report := &Report{}
	for i := range run.Suites {
		suite := convertSuite(&run.Suites[i])
		report.Suites = append(report.Suites, suite)
		report.Counts.Add(&suite.Counts)
	}

	if report.Counts.Total == 0 && run.Total > 0 {
		c := TestCounts{
			Passed:       max(run.Passed, 0),
			Failed:       max(run.Failed, 0),
			Skipped:      max(run.Skipped, 0),
			Inconclusive: max(run.Inconclusive, 0),
		}
		c.Total = c.Passed + c.Failed + c.Skipped + c.Inconclusive
		report.Counts = c
	}

	return report, nil
}

func convertSuite(s *nunitSuite) *TestSuite {
	suite := &TestSuite{
		Type:     s.Type,
		Name:     s.Name,
		Message:  strings.TrimSpace(firstNonEmpty(s.Failure.Message, s.Reason.Message)),
		Output:   strings.TrimSpace(s.Output),
		Duration: parseSeconds(s.Duration),
	}

	for i := range s.Suites {
		child := convertSuite(&s.Suites[i])
		suite.Suites = append(suite.Suites, child)
		suite.Counts.Add(&child.Counts)
	}

	for i := range s.Cases {
		c := convertCase(&s.Cases[i])
		suite.Cases = append(suite.Cases, c)
		suite.Counts.record(c)
	}

	return suite
}

func convertCase(c *nunitCase) *TestCase {
	fullName := c.FullName
	if fullName == "" {
		fullName = c.Name
	}
	return &TestCase{
		Name:       c.Name,
		FullName:   fullName,
		Result:     parseResult(c.Result),
		Duration:   parseSeconds(c.Duration),
		Message:    strings.TrimSpace(firstNonEmpty(c.Failure.Message, c.Reason.Message)),
		StackTrace: strings.TrimSpace(c.Failure.StackTrace),
		Output:     strings.TrimSpace(c.Output),
	}
}

func parseResult(s string) TestResult {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "passed":
		return ResultPassed
	case "failed":
		return ResultFailed
	case "skipped", "ignored":
		return ResultSkipped
	default:
		return ResultInconclusive
	}
}

// parseSeconds converts NUnit's fractional-second durations. Malformed values
// yield zero.
func parseSeconds(s string) time.Duration {
	if s == "" {
		return 0
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
