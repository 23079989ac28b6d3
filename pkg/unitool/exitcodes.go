// Package unitool provides public constants for external tools and CI scripts
// that drive the unitool CLI.
package unitool

// Exit codes returned by the unitool CLI.
// These constants allow external tools to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates the compile or test run succeeded.
	ExitSuccess = 0

	// ExitUsageError indicates bad command-line input or a missing project path.
	// No editor process was launched.
	ExitUsageError = 1

	// ExitFailure indicates the editor ran and reported compile errors or failing tests.
	ExitFailure = 2

	// ExitHarnessError indicates the editor could not be launched, timed out,
	// was interrupted, or produced output that could not be read.
	ExitHarnessError = 3
)
