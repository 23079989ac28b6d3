package cli

import (
	"fmt"

	"github.com/AndreyAkinshin/unitool/internal/engine"
	"github.com/AndreyAkinshin/unitool/internal/output"
	"github.com/AndreyAkinshin/unitool/internal/request"
	"github.com/AndreyAkinshin/unitool/internal/testparser"
)

// printResult prints the test tree (unless quiet) and the run summary.
func printResult(r *engine.Result, maxDiagnostics int) {
	if r.Tests != nil && !out.Quiet() {
		out.Println("")
		for _, s := range r.Tests.Suites {
			printSuite(s, 0)
		}
	}

	out.SummaryHeader("Summary")

	// A test run only proves compilation when results were written.
	compilerErrors := countCompilerErrors(r.Diagnostics)
	switch {
	case r.Command == request.Compile && r.Succeeded,
		r.Command == request.Test && r.Tests != nil && compilerErrors == 0:
		out.SummaryPassed("Compilation", "succeeded")
	case r.Command == request.Test && compilerErrors == 0:
		out.SummaryFailed("Compilation", "not completed")
	default:
		out.SummaryFailed("Compilation", "failed")
	}

	if r.Tests != nil {
		c := r.Tests.Counts
		line := formatCounts(&c)
		if c.Failed > 0 {
			out.SummaryFailed("Tests", line)
		} else {
			out.SummaryPassed("Tests", line)
		}
		if out.Quiet() && len(c.FailedTests) > 0 {
			out.SummarySectionLabel("Failed tests:")
			for _, ft := range c.FailedTests {
				out.Diagnostic(failedTestLine(ft), true)
			}
		}
	}

	printDiagnostics(r.Diagnostics, maxDiagnostics)

	out.SummaryItem("Log", r.LogPath)
	if r.Tests != nil {
		out.SummaryItem("Results", r.ResultsPath)
	}
	out.SummaryItem("Duration", output.FormatDuration(r.Duration))

	switch {
	case r.Succeeded && r.Command == request.Compile:
		out.FinalSuccess("Compilation succeeded.")
	case r.Succeeded && r.Tests.Counts.Total == 0:
		out.FinalSuccess("No tests were run.")
	case r.Succeeded:
		out.FinalSuccess("All %d tests passed.", r.Tests.Counts.Passed)
	case r.Tests != nil && r.Tests.Counts.Failed > 0:
		out.FinalFailure("%d of %d tests failed.", r.Tests.Counts.Failed, r.Tests.Counts.Total)
	case compilerErrors > 0:
		out.FinalFailure("Compilation failed.")
	default:
		out.FinalFailure("Editor exited with code %d.", r.ExitCode)
	}
}

// formatCounts renders "N passed, M failed, K skipped (T total)".
func formatCounts(c *testparser.TestCounts) string {
	s := fmt.Sprintf("%d passed, %d failed, %d skipped", c.Passed, c.Failed, c.Skipped)
	if c.Inconclusive > 0 {
		s += fmt.Sprintf(", %d inconclusive", c.Inconclusive)
	}
	return s + fmt.Sprintf(" (%d total)", c.Total)
}

func failedTestLine(ft testparser.FailedTest) string {
	if ft.Reason == "" {
		return ft.Name
	}
	return ft.Name + ": " + firstLine(ft.Reason)
}

// printDiagnostics prints up to limit diagnostics, errors before warnings.
func printDiagnostics(diags []testparser.Diagnostic, limit int) {
	if len(diags) == 0 || limit == 0 {
		return
	}

	var errs, warns []testparser.Diagnostic
	for _, d := range diags {
		if d.Severity == testparser.SeverityError {
			errs = append(errs, d)
		} else {
			warns = append(warns, d)
		}
	}

	out.SummarySectionLabel(fmt.Sprintf("Diagnostics (%s, %s):",
		plural(len(errs), "error"), plural(len(warns), "warning")))
	shown := 0
	for _, d := range append(errs, warns...) {
		if shown == limit {
			break
		}
		out.Diagnostic(d.String(), d.Severity == testparser.SeverityError)
		shown++
	}
	if rest := len(diags) - shown; rest > 0 {
		out.Diagnostic(fmt.Sprintf("... and %d more (see log)", rest), false)
	}
}

func countCompilerErrors(diags []testparser.Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == testparser.SeverityError && d.Code != "" {
			n++
		}
	}
	return n
}

// printSuite prints a suite and its children. Output of passing cases is
// not shown.
func printSuite(s *testparser.TestSuite, depth int) {
	out.TreeSuite(depth, s.Name, s.Counts.Passed, s.Counts.Failed, s.Counts.Skipped)
	if s.Message != "" && s.Counts.Failed > 0 {
		out.TreeDetail(depth+1, s.Message)
	}
	for _, child := range s.Suites {
		printSuite(child, depth+1)
	}
	for _, c := range s.Cases {
		printCase(c, depth+1)
	}
}

func printCase(c *testparser.TestCase, depth int) {
	var duration string
	if c.Duration > 0 {
		duration = output.FormatDuration(c.Duration)
	}

	switch c.Result {
	case testparser.ResultPassed:
		out.TreeCase(depth, output.OutcomePassed, c.Name, duration)
		return
	case testparser.ResultFailed:
		out.TreeCase(depth, output.OutcomeFailed, c.Name, duration)
	default:
		out.TreeCase(depth, output.OutcomeSkipped, c.Name, duration)
	}

	for _, detail := range []string{c.Message, c.StackTrace, c.Output} {
		if detail != "" {
			out.TreeDetail(depth+1, detail)
		}
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' || s[i] == '\r' {
			return s[:i]
		}
	}
	return s
}
