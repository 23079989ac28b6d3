package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/unitool/internal/config"
	"github.com/AndreyAkinshin/unitool/internal/editor"
	"github.com/AndreyAkinshin/unitool/internal/engine"
	"github.com/AndreyAkinshin/unitool/internal/request"
)

func newCompileCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "compile <projectPath>",
		Short: "Compile the project's scripts",
		Example: `  unitool compile ./MyGame
  unitool --timeout 1h compile ./MyGame`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := request.NewCompile(args[0])
			if err != nil {
				return err
			}
			return execute(cmd, g, req)
		},
	}
}

func newTestCmd(g *globalOptions) *cobra.Command {
	var opts request.TestOptions

	cmd := &cobra.Command{
		Use:   "test <projectPath> -m <edit-mode|play-mode>",
		Short: "Run the project's tests",
		Example: `  unitool test ./MyGame -m edit-mode
  unitool test ./MyGame -m play-mode -f "MyGame.Tests.Player*" -a "Game.Tests;Game.PlayTests"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.AssembliesSet = cmd.Flags().Changed("assemblies")
			req, err := request.NewTest(args[0], opts)
			if err != nil {
				return err
			}
			return execute(cmd, g, req)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Mode, "mode", "m", "", "test platform: edit-mode or play-mode")
	f.StringVarP(&opts.Filter, "filter", "f", "", "run only tests matching this filter")
	f.StringVarP(&opts.Assemblies, "assemblies", "a", "", "semicolon-separated test assemblies (default \"EditTests;PlayTest\")")
	_ = cmd.MarkFlagRequired("mode")
	_ = cmd.RegisterFlagCompletionFunc("mode", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return request.ValidModes, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// execute resolves settings, finds the editor, runs it and prints the
// summary. A non-nil error carries the exit code.
func execute(cmd *cobra.Command, g *globalOptions, req *request.Request) error {
	o, err := g.overrides(cmd)
	if err != nil {
		return err
	}
	settings, err := config.Resolve(req.ProjectPath(), o, os.Getenv)
	if err != nil {
		return err
	}

	sel, err := editor.NewLocator(settings.SearchPaths).Locate(settings.EditorPath, req.ProjectPath())
	if err != nil {
		return err
	}
	if sel.Mismatch() {
		out.Warning("project uses Unity %s but it is not installed; using %s", sel.Wanted, sel.Version)
	}

	inv, err := engine.NewInvoker(sel.Path, settings)
	if err != nil {
		return err
	}
	inv.SetObserver(statusObserver(req))
	if g.verbose {
		if settings.ConfigFile != "" {
			out.Info("Config: %s", settings.ConfigFile)
		}
		inv.SetVerbose(out.Out())
	}

	result, err := inv.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	printResult(result, settings.MaxDiagnostics)
	return result.Err()
}

// statusObserver prints a progress line when the editor starts running.
func statusObserver(req *request.Request) engine.Observer {
	return func(s engine.State) {
		if s != engine.StateRunning {
			return
		}
		if req.Command() == request.Test {
			out.Status("Compiling and running %s tests...", req.Mode())
		} else {
			out.Status("Compiling...")
		}
	}
}
