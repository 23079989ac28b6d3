// Package engine runs the Unity editor in batch mode for one request and
// turns what it leaves behind into a Result.
package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/AndreyAkinshin/unitool/internal/config"
	"github.com/AndreyAkinshin/unitool/internal/errors"
	"github.com/AndreyAkinshin/unitool/internal/request"
	"github.com/AndreyAkinshin/unitool/internal/testparser"
)

// Result is the outcome of an editor run that reached the Collecting state.
type Result struct {
	Command     request.Command
	ExitCode    int
	LogPath     string
	ResultsPath string
	Succeeded   bool
	Diagnostics []testparser.Diagnostic
	Tests       *testparser.Report // nil for compile, or when tests never ran
	State       State
	Duration    time.Duration
}

// Err returns the failure for an unsuccessful result, or nil.
// The message names the first error diagnostic when there is one.
func (r *Result) Err() error {
	if r.Succeeded {
		return nil
	}
	var msg string
	switch n := testparser.CountErrors(r.Diagnostics); {
	case r.Tests != nil && r.Tests.Counts.Failed > 0:
		msg = fmt.Sprintf("%d of %d tests failed", r.Tests.Counts.Failed, r.Tests.Counts.Total)
	case n == 1:
		msg = "1 error: " + summarize(firstError(r.Diagnostics))
	case n > 1:
		msg = fmt.Sprintf("%d errors, first: %s", n, summarize(firstError(r.Diagnostics)))
	default:
		msg = fmt.Sprintf("editor exited with code %d", r.ExitCode)
	}
	return errors.Failure(msg).
		WithCommand(r.Command.String()).
		WithPath(r.LogPath).
		WithExitCode(r.ExitCode)
}

func firstError(diags []testparser.Diagnostic) testparser.Diagnostic {
	for _, d := range diags {
		if d.Severity == testparser.SeverityError {
			return d
		}
	}
	return testparser.Diagnostic{}
}

// summarize keeps the compiler's own format for located diagnostics and drops
// the severity prefix otherwise.
func summarize(d testparser.Diagnostic) string {
	switch {
	case d.File != "":
		return d.String()
	case d.Code != "":
		return d.Code + ": " + d.Message
	default:
		return d.Message
	}
}

// Invoker launches the editor. One Invoker runs one request at a time.
type Invoker struct {
	editor        string
	settings      *config.Settings
	logParser     testparser.LogParser
	resultsParser testparser.ResultsParser
	observer      Observer
	output        io.Writer
	verbose       bool
}

// NewInvoker creates an invoker for an editor binary.
// Fails when the configured log or results format has no parser.
func NewInvoker(editorPath string, settings *config.Settings) (*Invoker, error) {
	registry := testparser.NewRegistry()

	lp := registry.GetLogParser(settings.LogFormat)
	if lp == nil {
		return nil, errors.Usagef("unknown log format %q (available: %s)",
			settings.LogFormat, strings.Join(registry.LogFormats(), ", "))
	}
	rp := registry.GetResultsParser(settings.ResultsFormat)
	if rp == nil {
		return nil, errors.Usagef("unknown results format %q (available: %s)",
			settings.ResultsFormat, strings.Join(registry.ResultsFormats(), ", "))
	}

	return &Invoker{
		editor:        editorPath,
		settings:      settings,
		logParser:     lp,
		resultsParser: rp,
	}, nil
}

// SetObserver registers a callback for state transitions.
func (e *Invoker) SetObserver(o Observer) {
	e.observer = o
}

// SetVerbose streams the editor's stdout and stderr to w and prints the
// command line before launching.
func (e *Invoker) SetVerbose(w io.Writer) {
	e.output = w
	e.verbose = w != nil
}

// run tracks the state of a single invocation.
type run struct {
	state    State
	observer Observer
}

func (r *run) to(s State) {
	if !CanTransition(r.state, s) {
		panic(fmt.Sprintf("engine: invalid transition %s -> %s", r.state, s))
	}
	r.state = s
	if r.observer != nil {
		r.observer(s)
	}
}

// Run launches the editor for req and waits for it to finish, time out, or be
// cancelled through ctx. A Result is returned whenever the editor ran to
// completion, including compile and test failures; use Result.Err to map it
// to an exit status. Harness problems (launch, timeout, interrupt, missing
// output) are returned as errors.
func (e *Invoker) Run(ctx context.Context, req *request.Request) (*Result, error) {
	r := &run{state: StateIdle, observer: e.observer}
	cmdName := req.Command().String()
	start := time.Now()

	r.to(StateLaunching)

	artifacts := ArtifactsFor(e.settings.ArtifactsDir, req)
	if err := prepareArtifacts(e.settings.ArtifactsDir, artifacts); err != nil {
		r.to(StateLaunchFailed)
		return nil, errors.Launch("cannot prepare artifacts directory", err).WithCommand(cmdName)
	}

	args := BuildArgs(req, artifacts, e.settings.ExtraArgs)
	cmd := exec.Command(e.editor, args...)
	cmd.Dir = req.ProjectPath()
	cmd.Env = os.Environ()
	if e.output != nil {
		cmd.Stdout = e.output
		cmd.Stderr = e.output
	}
	startInGroup(cmd)

	if e.verbose {
		fmt.Fprintf(e.output, "Running: %s %s\n", e.editor, strings.Join(args, " "))
	}

	if err := cmd.Start(); err != nil {
		r.to(StateLaunchFailed)
		return nil, errors.Launch(fmt.Sprintf("failed to start editor %s", e.editor), err).WithCommand(cmdName)
	}
	r.to(StateRunning)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timeoutCtx, cancel := context.WithTimeout(ctx, e.settings.Timeout)
	defer cancel()

	var waitErr error
	select {
	case waitErr = <-done:
	case <-timeoutCtx.Done():
		_ = killGroup(cmd)
		<-done
		if ctx.Err() != nil {
			r.to(StateInterrupted)
			return nil, errors.Interrupted(ctx.Err()).WithCommand(cmdName).WithPath(artifacts.LogPath)
		}
		r.to(StateTimedOut)
		return nil, errors.Timeout(fmt.Sprintf("editor did not finish within %s", e.settings.Timeout)).
			WithCommand(cmdName).WithPath(artifacts.LogPath)
	}

	exitCode := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !stderrors.As(waitErr, &exitErr) {
			r.to(StateCollecting)
			r.to(StateFailed)
			return nil, errors.Launch("failed waiting for editor", waitErr).WithCommand(cmdName)
		}
		exitCode = exitErr.ExitCode()
	}

	r.to(StateCollecting)
	result, err := e.collect(req, artifacts, exitCode)
	if err != nil {
		r.to(StateFailed)
		return nil, err
	}
	result.Duration = time.Since(start)

	if result.Succeeded {
		r.to(StateSucceeded)
	} else {
		r.to(StateFailed)
	}
	result.State = r.state
	return result, nil
}

// collect parses the log and results files of a finished run.
func (e *Invoker) collect(req *request.Request, a Artifacts, exitCode int) (*Result, error) {
	cmdName := req.Command().String()
	result := &Result{
		Command:     req.Command(),
		ExitCode:    exitCode,
		LogPath:     a.LogPath,
		ResultsPath: a.ResultsPath,
	}

	diags, logErr := parseFile(a.LogPath, e.logParser.ParseLog)
	if logErr != nil && exitCode == 0 {
		return nil, errors.OutputParse("cannot read editor log", logErr).
			WithCommand(cmdName).WithPath(a.LogPath).WithExitCode(exitCode)
	}
	result.Diagnostics = diags
	compileErrors := testparser.CountErrors(diags)

	if req.Command() == request.Test {
		report, resErr := parseFile(a.ResultsPath, e.resultsParser.ParseResults)
		switch {
		case resErr == nil:
			result.Tests = report
		case compileErrors > 0 || exitCode != 0:
			// The editor stopped before running tests; the failure is reported
			// through the diagnostics below.
		default:
			return nil, errors.OutputParse("cannot read test results", resErr).
				WithCommand(cmdName).WithPath(a.ResultsPath).WithExitCode(exitCode)
		}
	}

	testsFailed := result.Tests != nil && result.Tests.Counts.Failed > 0
	if exitCode != 0 && compileErrors == 0 && !testsFailed {
		result.Diagnostics = append(result.Diagnostics, testparser.Diagnostic{
			Severity: testparser.SeverityError,
			Message:  exitMessage(exitCode),
		})
	}

	result.Succeeded = exitCode == 0 && testparser.CountErrors(result.Diagnostics) == 0 && !testsFailed
	return result, nil
}

func exitMessage(code int) string {
	if code < 0 {
		return "editor was terminated by a signal"
	}
	return fmt.Sprintf("editor exited with code %d", code)
}

// parseFile opens path and hands it to parse.
func parseFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	return parse(f)
}

// prepareArtifacts creates the artifacts directory and removes files left by
// an earlier run, so a file that is not rewritten shows up as missing.
func prepareArtifacts(dir string, a Artifacts) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, p := range []string{a.LogPath, a.ResultsPath} {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
