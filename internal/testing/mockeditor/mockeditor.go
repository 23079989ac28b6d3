//go:build !windows

// Package mockeditor writes fake Unity editor executables for tests.
//
// The fake is a /bin/sh script that records its arguments, writes canned
// content to the paths given by -logFile and -testResults, optionally
// sleeps, and exits with a chosen code.
package mockeditor

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

// Editor describes the fake's behaviour. Use New() and the With* methods.
type Editor struct {
	log          string
	writeLog     bool
	results      string
	writeResults bool
	exitCode     int
	sleep        time.Duration
}

// New returns a fake that writes an empty log, no results and exits 0.
func New() *Editor {
	return &Editor{writeLog: true}
}

// WithLog sets the log content.
func (e *Editor) WithLog(content string) *Editor {
	e.log = content
	e.writeLog = true
	return e
}

// WithoutLog makes the fake skip writing the log file.
func (e *Editor) WithoutLog() *Editor {
	e.writeLog = false
	return e
}

// WithResults sets the test results XML.
func (e *Editor) WithResults(xml string) *Editor {
	e.results = xml
	e.writeResults = true
	return e
}

// WithExitCode sets the exit status.
func (e *Editor) WithExitCode(code int) *Editor {
	e.exitCode = code
	return e
}

// WithSleep makes the fake start a child "sleep" after writing its files
// and wait for it.
func (e *Editor) WithSleep(d time.Duration) *Editor {
	e.sleep = d
	return e
}

// Installed is a fake written to disk.
type Installed struct {
	Path         string // executable
	argsFile     string
	pidFile      string
	childPidFile string
}

// Install writes the fake into dir and returns it.
func (e *Editor) Install(t testing.TB, dir string) *Installed {
	t.Helper()

	in := &Installed{
		Path:         filepath.Join(dir, "Unity"),
		argsFile:     filepath.Join(dir, "args.txt"),
		pidFile:      filepath.Join(dir, "pid"),
		childPidFile: filepath.Join(dir, "child.pid"),
	}
	logSrc := filepath.Join(dir, "log.src")
	resultsSrc := filepath.Join(dir, "results.src")

	if e.writeLog {
		writeFile(t, logSrc, e.log, 0644)
	}
	if e.writeResults {
		writeFile(t, resultsSrc, e.results, 0644)
	}

	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&b, "ARGS=%s\n", quote(in.argsFile))
	b.WriteString(`: > "$ARGS"` + "\n")
	b.WriteString(`for a in "$@"; do printf '%s\n' "$a" >> "$ARGS"; done` + "\n")
	fmt.Fprintf(&b, "echo $$ > %s\n", quote(in.pidFile))
	b.WriteString("log=\nresults=\n")
	b.WriteString("while [ $# -gt 0 ]; do\n")
	b.WriteString("  case \"$1\" in\n")
	b.WriteString("    -logFile) shift; log=\"$1\" ;;\n")
	b.WriteString("    -testResults) shift; results=\"$1\" ;;\n")
	b.WriteString("  esac\n")
	b.WriteString("  [ $# -gt 0 ] && shift\n")
	b.WriteString("done\n")
	if e.writeLog {
		fmt.Fprintf(&b, "[ -n \"$log\" ] && cat %s > \"$log\"\n", quote(logSrc))
	}
	if e.writeResults {
		fmt.Fprintf(&b, "[ -n \"$results\" ] && cat %s > \"$results\"\n", quote(resultsSrc))
	}
	if e.sleep > 0 {
		secs := strconv.FormatFloat(e.sleep.Seconds(), 'f', -1, 64)
		fmt.Fprintf(&b, "sleep %s &\n", secs)
		fmt.Fprintf(&b, "echo $! > %s\n", quote(in.childPidFile))
		b.WriteString("wait\n")
	}
	fmt.Fprintf(&b, "exit %d\n", e.exitCode)

	writeFile(t, in.Path, b.String(), 0755)
	return in
}

// Args returns the arguments of the last invocation.
func (in *Installed) Args(t testing.TB) []string {
	t.Helper()
	data, err := os.ReadFile(in.argsFile)
	if err != nil {
		t.Fatalf("mock editor was not invoked: %v", err)
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

// Invoked reports whether the fake ran at least once.
func (in *Installed) Invoked() bool {
	_, err := os.Stat(in.argsFile)
	return err == nil
}

// ChildPID returns the PID of the sleeping child started by WithSleep.
// It waits briefly for the fake to record it.
func (in *Installed) ChildPID(t testing.TB) int {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		data, err := os.ReadFile(in.childPidFile)
		if err == nil {
			if pid, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil {
				return pid
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("mock editor did not record its child PID")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func writeFile(t testing.TB, path, content string, mode os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatal(err)
	}
}

// quote single-quotes s for sh.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
