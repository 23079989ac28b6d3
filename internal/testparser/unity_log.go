package testparser

import (
	"bufio"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// UnityLogParser parses the editor log written via -logFile.
//
// The C# compiler reports through the log with lines like:
//
//	Assets/Scripts/Player.cs(12,34): error CS0103: The name 'foo' does not exist in the current context
//	Assets/Scripts/Player.cs(40,13): warning CS0168: The variable 'e' is declared but never used
//	error CS2001: Source file 'Assets/Missing.cs' could not be found
//
// The editor itself reports fatal batch mode conditions with fixed phrases,
// which are turned into error diagnostics without a location.
type UnityLogParser struct{}

var (
	locatedDiagRegex = regexp.MustCompile(`^(.+?)\((\d+),(\d+)\):\s*(error|warning)\s+([A-Z]+\d+):\s*(.*)$`)
	bareDiagRegex    = regexp.MustCompile(`(?:^|\s)(error|warning)\s+(CS\d+):\s*(.*)$`)
)

type fatalMarker struct {
	phrase string
	// redundant markers only summarise compiler errors already reported
	// with a location and are dropped when such errors exist.
	redundant bool
}

var fatalMarkers = []fatalMarker{
	{phrase: "Scripts have compiler errors.", redundant: true},
	{phrase: "No valid Unity Editor license found"},
	{phrase: "Aborting batchmode due to failure"},
	{phrase: "Multiple Unity instances cannot open the same project."},
	{phrase: "It looks like another Unity instance is running with this project open."},
}

// Name returns the parser name.
func (p *UnityLogParser) Name() string {
	return "unity"
}

// ParseLog extracts compiler diagnostics and fatal editor errors.
// Duplicates are collapsed; the editor prints most compiler errors twice.
func (p *UnityLogParser) ParseLog(r io.Reader) ([]Diagnostic, error) {
	var (
		diags     []Diagnostic
		markers   []fatalHit
		seen      = make(map[string]bool)
		hasErrors bool
	)

	add := func(d Diagnostic) {
		key := d.String()
		if seen[key] {
			return
		}
		seen[key] = true
		diags = append(diags, d)
		if d.Severity == SeverityError {
			hasErrors = true
		}
	}

	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			line = strings.TrimSpace(strings.TrimRight(line, "\r\n"))
			if d, ok := parseDiagnosticLine(line); ok {
				add(d)
			} else if m, ok := matchFatalMarker(line); ok {
				markers = append(markers, m)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return diags, err
		}
	}

	for _, m := range markers {
		if m.redundant && hasErrors {
			continue
		}
		add(m.diag)
	}

	return diags, nil
}

func parseDiagnosticLine(line string) (Diagnostic, bool) {
	if match := locatedDiagRegex.FindStringSubmatch(line); match != nil {
		lineNo, _ := strconv.Atoi(match[2])
		col, _ := strconv.Atoi(match[3])
		return Diagnostic{
			Severity: parseSeverity(match[4]),
			File:     strings.TrimSpace(match[1]),
			Line:     lineNo,
			Column:   col,
			Code:     match[5],
			Message:  strings.TrimSpace(match[6]),
		}, true
	}
	if match := bareDiagRegex.FindStringSubmatch(line); match != nil {
		return Diagnostic{
			Severity: parseSeverity(match[1]),
			Code:     match[2],
			Message:  strings.TrimSpace(match[3]),
		}, true
	}
	return Diagnostic{}, false
}

type fatalHit struct {
	diag      Diagnostic
	redundant bool
}

func matchFatalMarker(line string) (fatalHit, bool) {
	for _, m := range fatalMarkers {
		if strings.Contains(line, m.phrase) {
			return fatalHit{
				diag:      Diagnostic{Severity: SeverityError, Message: line},
				redundant: m.redundant,
			}, true
		}
	}
	return fatalHit{}, false
}

func parseSeverity(s string) Severity {
	if s == "error" {
		return SeverityError
	}
	return SeverityWarning
}
