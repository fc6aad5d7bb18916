package configcmd

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wenyan-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/wenyan-cli/internal/library"
	"github.com/open-cli-collective/wenyan-cli/internal/logging"
)

type testOptions struct {
	cmdutil.Globals
}

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	opts := &testOptions{}

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Check that the configured tools are available",
		Long: `Check that the wenyan compiler and wyg can be found, and report which
configured packages are installed.`,
		Example: `  # Check the setup
  wy config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Globals = cmdutil.ReadGlobals(cmd)
			return runTest(cmd.Context(), opts, exec.LookPath, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runTest(ctx context.Context, opts *testOptions, lookPath func(string) (string, error), w io.Writer) error {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}

	renderer := cmdutil.Renderer(cfg, opts.NoColor, w)
	failed := 0

	for _, tool := range []struct{ name, command string }{
		{"Compiler", cfg.Compiler},
		{"wyg", cfg.Wyg},
	} {
		path, err := lookPath(tool.command)
		if err != nil {
			renderer.Error(fmt.Sprintf("%s not found: %s", tool.name, tool.command))
			failed++
			continue
		}
		renderer.Success(fmt.Sprintf("%s: %s", tool.name, path))
	}

	installer := library.New(cfg.LibraryDir, cfg.Wyg, logging.FromContext(ctx))
	missing, err := installer.Missing(ctx, cfg.WygPackages)
	if err != nil {
		return err
	}
	installed := len(cfg.WygPackages) - len(missing)
	if len(missing) > 0 {
		renderer.Warning(fmt.Sprintf("%d of %d packages installed in %s (run 'wy install')", installed, len(cfg.WygPackages), cfg.LibraryDir))
	} else {
		renderer.Success(fmt.Sprintf("%d of %d packages installed in %s", installed, len(cfg.WygPackages), cfg.LibraryDir))
	}

	if failed > 0 {
		return fmt.Errorf("%d tool(s) not found (check with: wy config show)", failed)
	}
	return nil
}
