// Package output provides formatted output utilities for the CLI.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Writer handles CLI output formatting.
type Writer struct {
	out   io.Writer
	err   io.Writer
	color bool
	quiet bool
}

// New creates a new Writer with default settings. Colour is enabled when
// stdout is a terminal and NO_COLOR is unset.
func New() *Writer {
	return &Writer{
		out:   os.Stdout,
		err:   os.Stderr,
		color: isTerminal() && os.Getenv("NO_COLOR") == "",
	}
}

// NewWithWriters creates a Writer with custom io.Writers (for testing).
func NewWithWriters(out, err io.Writer, color bool) *Writer {
	return &Writer{
		out:   out,
		err:   err,
		color: color,
	}
}

// SetQuiet enables or disables quiet mode.
func (w *Writer) SetQuiet(quiet bool) {
	w.quiet = quiet
}

// Quiet reports whether quiet mode is on.
func (w *Writer) Quiet() bool {
	return w.quiet
}

// DisableColor turns ANSI colours off.
func (w *Writer) DisableColor() {
	w.color = false
}

// Out returns the stdout writer.
func (w *Writer) Out() io.Writer {
	return w.out
}

// Print writes to stdout.
func (w *Writer) Print(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes a line to stdout.
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Error writes to stderr.
func (w *Writer) Error(format string, args ...interface{}) {
	fmt.Fprintf(w.err, format, args...)
}

// Errorln writes a line to stderr.
func (w *Writer) Errorln(format string, args ...interface{}) {
	fmt.Fprintf(w.err, format+"\n", args...)
}

// Info prints an info message (skipped in quiet mode).
func (w *Writer) Info(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println(format, args...)
}

// Status prints a progress line such as "Compiling..." (skipped in quiet mode).
func (w *Writer) Status(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Println("%s%s%s", cyan, msg, reset)
	} else {
		w.Println("%s", msg)
	}
}

// Warning prints a warning message to stderr.
func (w *Writer) Warning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Errorln("%swarning:%s %s", yellow, reset, msg)
	} else {
		w.Errorln("warning: %s", msg)
	}
}

// ErrorPrefix prints an error message with unitool prefix to stderr.
func (w *Writer) ErrorPrefix(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Errorln("%sunitool:%s %s", red, reset, msg)
	} else {
		w.Errorln("unitool: %s", msg)
	}
}

// SummaryHeader prints a summary section header.
func (w *Writer) SummaryHeader(title string) {
	w.Println("")
	if w.color {
		w.Println("%s=== %s ===%s", bold+cyan, title, reset)
	} else {
		w.Println("=== %s ===", title)
	}
	w.Println("")
}

// SummaryItem prints a labeled summary item with value.
func (w *Writer) SummaryItem(label, value string) {
	if w.color {
		w.Println("  %s%s:%s %s", dim, label, reset, value)
	} else {
		w.Println("  %s: %s", label, value)
	}
}

// SummaryPassed prints a labeled value in the success colour.
func (w *Writer) SummaryPassed(label, value string) {
	if w.color {
		w.Println("  %s%s:%s %s%s%s", dim, label, reset, green, value, reset)
	} else {
		w.Println("  %s: %s", label, value)
	}
}

// SummaryFailed prints a labeled value in the failure colour.
func (w *Writer) SummaryFailed(label, value string) {
	if w.color {
		w.Println("  %s%s:%s %s%s%s", dim, label, reset, red, value, reset)
	} else {
		w.Println("  %s: %s", label, value)
	}
}

// SummarySectionLabel prints a label for a summary section (e.g., "Errors:").
func (w *Writer) SummarySectionLabel(label string) {
	if w.color {
		w.Println("  %s%s%s", dim, label, reset)
	} else {
		w.Println("  %s", label)
	}
}

// Diagnostic prints one compiler or editor message under a section label.
func (w *Writer) Diagnostic(text string, isError bool) {
	switch {
	case !w.color:
		w.Println("    %s", text)
	case isError:
		w.Println("    %s%s%s", red, text, reset)
	default:
		w.Println("    %s%s%s", yellow, text, reset)
	}
}

// FinalSuccess prints a final success message.
func (w *Writer) FinalSuccess(format string, args ...interface{}) {
	w.Println("")
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Println("%s%s%s", green, msg, reset)
	} else {
		w.Println("%s", msg)
	}
}

// FinalFailure prints a final failure message.
func (w *Writer) FinalFailure(format string, args ...interface{}) {
	w.Println("")
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Println("%s%s%s", red, msg, reset)
	} else {
		w.Println("%s", msg)
	}
}

// Hint prints a dimmed hint message.
func (w *Writer) Hint(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Println("%s%s%s", dim, msg, reset)
	} else {
		w.Println("%s", msg)
	}
}

// Outcome of a test tree line.
type Outcome int

const (
	OutcomePassed Outcome = iota
	OutcomeFailed
	OutcomeSkipped
)

// Marker returns the symbol printed before a test case.
func (o Outcome) Marker() string {
	switch o {
	case OutcomeFailed:
		return "✗"
	case OutcomeSkipped:
		return "-"
	default:
		return "✓"
	}
}

func (o Outcome) color() string {
	switch o {
	case OutcomeFailed:
		return red
	case OutcomeSkipped:
		return yellow
	default:
		return green
	}
}

// TreeSuite prints a suite line with its counts.
func (w *Writer) TreeSuite(depth int, name string, passed, failed, skipped int) {
	indent := strings.Repeat("  ", depth)
	if w.color {
		w.Println("%s%s%s%s  %s%d passed%s, %s%d failed%s, %s%d skipped%s",
			indent, bold, name, reset,
			green, passed, reset,
			failedColor(failed), failed, reset,
			dim, skipped, reset)
	} else {
		w.Println("%s%s  %d passed, %d failed, %d skipped", indent, name, passed, failed, skipped)
	}
}

func failedColor(n int) string {
	if n > 0 {
		return red
	}
	return dim
}

// TreeCase prints a test case line with its marker and optional duration.
func (w *Writer) TreeCase(depth int, o Outcome, name, duration string) {
	indent := strings.Repeat("  ", depth)
	if w.color {
		if duration != "" {
			w.Println("%s%s%s%s %s %s(%s)%s", indent, o.color(), o.Marker(), reset, name, dim, duration, reset)
		} else {
			w.Println("%s%s%s%s %s", indent, o.color(), o.Marker(), reset, name)
		}
		return
	}
	if duration != "" {
		w.Println("%s%s %s (%s)", indent, o.Marker(), name, duration)
	} else {
		w.Println("%s%s %s", indent, o.Marker(), name)
	}
}

// TreeDetail prints multi-line text indented beneath a tree line.
func (w *Writer) TreeDetail(depth int, text string) {
	indent := strings.Repeat("  ", depth)
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		line = strings.TrimRight(line, "\r")
		if w.color {
			w.Println("%s%s%s%s", indent, dim, line, reset)
		} else {
			w.Println("%s%s", indent, line)
		}
	}
}

// FormatDuration formats a duration in a human-readable way.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", m, s)
}

// isTerminal returns true if stdout is a terminal.
func isTerminal() bool {
	if fi, _ := os.Stdout.Stat(); fi != nil {
		return (fi.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// ANSI color codes.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)
