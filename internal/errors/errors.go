// Package errors provides structured error types and exit codes for unitool.
package errors

import (
	"fmt"
)

// Exit codes. Mirrored publicly in pkg/unitool.
const (
	ExitSuccess      = 0 // Success
	ExitUsageError   = 1 // Bad CLI input or missing project path
	ExitFailure      = 2 // The editor reported compile errors or failing tests
	ExitHarnessError = 3 // Launch, timeout, interrupt or output parse error
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindUsage ErrorKind = iota
	KindPathNotFound
	KindLaunch
	KindTimeout
	KindInterrupted
	KindOutputParse
	KindFailure
)

// String returns the taxonomy name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindUsage:
		return "UsageError"
	case KindPathNotFound:
		return "PathNotFoundError"
	case KindLaunch:
		return "LaunchError"
	case KindTimeout:
		return "TimeoutError"
	case KindInterrupted:
		return "InterruptedError"
	case KindOutputParse:
		return "OutputParseError"
	case KindFailure:
		return "BuildOrTestFailure"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// UnitoolError is the base error type for unitool.
type UnitoolError struct {
	Kind    ErrorKind
	Message string
	Command string // Subcommand if applicable ("compile", "test")
	Path    string // Log or results path that explains the error, if any
	Cause   error  // Underlying error

	// EditorExitCode is the raw exit code of the editor process when one ran.
	// -1 means no exit code was observed.
	EditorExitCode int
}

func (e *UnitoolError) Error() string {
	msg := e.Message
	if e.Command != "" {
		msg = fmt.Sprintf("%s: %s", e.Command, msg)
	}
	if e.Kind == KindOutputParse && e.EditorExitCode >= 0 {
		msg = fmt.Sprintf("%s; editor exited with code %d", msg, e.EditorExitCode)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s (see %s)", msg, e.Path)
	}
	return msg
}

func (e *UnitoolError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *UnitoolError) ExitCode() int {
	switch e.Kind {
	case KindUsage, KindPathNotFound:
		return ExitUsageError
	case KindFailure:
		return ExitFailure
	default:
		return ExitHarnessError
	}
}

// WithCommand sets the subcommand and returns the error for chaining.
func (e *UnitoolError) WithCommand(cmd string) *UnitoolError {
	e.Command = cmd
	return e
}

// WithPath sets the path to inspect and returns the error for chaining.
func (e *UnitoolError) WithPath(path string) *UnitoolError {
	e.Path = path
	return e
}

// WithExitCode records the editor exit code and returns the error for chaining.
func (e *UnitoolError) WithExitCode(code int) *UnitoolError {
	e.EditorExitCode = code
	return e
}

func newError(kind ErrorKind, message string, cause error) *UnitoolError {
	return &UnitoolError{
		Kind:           kind,
		Message:        message,
		Cause:          cause,
		EditorExitCode: -1,
	}
}

// Usage creates a usage error.
func Usage(message string) *UnitoolError {
	return newError(KindUsage, message, nil)
}

// Usagef creates a usage error with formatting.
func Usagef(format string, args ...interface{}) *UnitoolError {
	return Usage(fmt.Sprintf(format, args...))
}

// PathNotFound creates an error for a missing or invalid project path.
func PathNotFound(path, reason string) *UnitoolError {
	return newError(KindPathNotFound, fmt.Sprintf("%s: %s", reason, path), nil)
}

// Launch creates an error for an editor that could not be located or started.
func Launch(message string, cause error) *UnitoolError {
	return newError(KindLaunch, message, cause)
}

// Launchf creates a launch error with formatting.
func Launchf(format string, args ...interface{}) *UnitoolError {
	return Launch(fmt.Sprintf(format, args...), nil)
}

// Timeout creates an error for an editor killed after the configured timeout.
func Timeout(message string) *UnitoolError {
	return newError(KindTimeout, message, nil)
}

// Interrupted creates an error for a run canceled by a signal.
func Interrupted(cause error) *UnitoolError {
	return newError(KindInterrupted, "interrupted", cause)
}

// OutputParse creates an error for a missing or unreadable log or results file.
func OutputParse(message string, cause error) *UnitoolError {
	return newError(KindOutputParse, message, cause)
}

// Failure creates an error for a compile or test failure reported by the editor.
func Failure(message string) *UnitoolError {
	return newError(KindFailure, message, nil)
}

// Is reports whether err is a UnitoolError of the given kind.
func Is(err error, kind ErrorKind) bool {
	ue, ok := As(err)
	return ok && ue.Kind == kind
}

// As returns the first UnitoolError in err's chain.
func As(err error) (*UnitoolError, bool) {
	for err != nil {
		if ue, ok := err.(*UnitoolError); ok {
			return ue, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if ue, ok := As(err); ok {
		return ue.ExitCode()
	}
	return ExitHarnessError
}
