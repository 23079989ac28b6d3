// Package cli provides the unitool command tree.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/unitool/internal/config"
	"github.com/AndreyAkinshin/unitool/internal/errors"
	"github.com/AndreyAkinshin/unitool/internal/output"
)

// Version is set at build time.
var Version = "dev"

var out = output.New()

// globalOptions holds the flags shared by every subcommand.
type globalOptions struct {
	timeout        time.Duration
	editor         string
	configFile     string
	quiet          bool
	verbose        bool
	noColor        bool
	maxDiagnostics int
}

// overrides converts the flags that were set into config overrides.
func (g *globalOptions) overrides(cmd *cobra.Command) (config.Overrides, error) {
	o := config.Overrides{
		ConfigFile: g.configFile,
		Editor:     g.editor,
	}
	if cmd.Flags().Changed("timeout") {
		if g.timeout <= 0 {
			return o, errors.Usagef("--timeout must be positive, got %s", g.timeout)
		}
		o.Timeout = g.timeout
	}
	if cmd.Flags().Changed("max-diagnostics") {
		n := g.maxDiagnostics
		o.MaxDiagnostics = &n
	}
	return o, nil
}

// Run executes the CLI with the given arguments and returns an exit code.
// SIGINT and SIGTERM cancel a running editor.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, args)
}

func run(ctx context.Context, args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(out.Out())

	err := root.ExecuteContext(ctx)
	if err == nil {
		return errors.ExitSuccess
	}

	out.ErrorPrefix("%v", err)
	if _, ok := errors.As(err); !ok {
		// Anything cobra rejects (unknown command, bad flag, missing
		// argument) is a usage error.
		return errors.ExitUsageError
	}
	return errors.GetExitCode(err)
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:   "unitool",
		Short: "Compile Unity projects and run their tests from the command line",
		Long: `unitool runs the Unity editor in batch mode to compile a project or run its
tests, then summarises the compiler diagnostics and test results.

Exit codes: 0 success, 1 usage error, 2 compile or test failure,
3 editor launch, timeout, interrupt or unreadable output.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			out.SetQuiet(g.quiet)
			if g.noColor {
				out.DisableColor()
			}
		},
	}
	root.SetVersionTemplate("unitool {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.DurationVar(&g.timeout, "timeout", 0, "maximum editor run time (default 30m)")
	pf.StringVar(&g.editor, "editor", "", "path to the Unity editor binary (env "+config.EnvEditor+")")
	pf.StringVar(&g.configFile, "config", "", "configuration file (default <project>/"+config.FileName+")")
	pf.BoolVarP(&g.quiet, "quiet", "q", false, "print only the summary")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "print the editor command line and output")
	pf.BoolVar(&g.noColor, "no-color", false, "disable coloured output")
	pf.IntVar(&g.maxDiagnostics, "max-diagnostics", config.DefaultMaxDiagnostics, "number of diagnostics shown in the summary")
	root.MarkFlagsMutuallyExclusive("quiet", "verbose")
	_ = root.MarkPersistentFlagFilename("config", "yaml", "yml")

	root.AddCommand(
		newCompileCmd(g),
		newTestCmd(g),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the unitool version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out.Println("unitool %s", Version)
		},
	}
}
