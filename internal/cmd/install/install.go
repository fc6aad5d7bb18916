// Package install provides the install command.
package install

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wenyan-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/wenyan-cli/internal/i18n"
	"github.com/open-cli-collective/wenyan-cli/internal/library"
	"github.com/open-cli-collective/wenyan-cli/internal/logging"
)

type installOptions struct {
	cmdutil.Globals
}

// NewCmdInstall creates the install command.
func NewCmdInstall() *cobra.Command {
	opts := &installOptions{}

	cmd := &cobra.Command{
		Use:   "install [package...]",
		Short: "Install wyg packages into the library directory",
		Long: `Install wenyan packages with wyg.

Without arguments the packages listed in the config (wyg_packages) are
installed. Packages that are already present are skipped.`,
		Example: `  # Install the configured packages
  wy install

  # Install specific packages
  wy install 子曰 干支`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Globals = cmdutil.ReadGlobals(cmd)
			return runInstall(cmd.Context(), opts, args, nil, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runInstall(ctx context.Context, opts *installOptions, pkgs []string, installer *library.Installer, w io.Writer) error {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}
	p := cmdutil.Printer(cfg)
	renderer := cmdutil.Renderer(cfg, opts.NoColor, w)

	if installer == nil {
		installer = library.New(cfg.LibraryDir, cfg.Wyg, logging.FromContext(ctx))
	}
	if len(pkgs) == 0 {
		pkgs = cfg.WygPackages
	}

	missing, err := installer.Missing(ctx, pkgs)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		renderer.Success(p.Sprintf(i18n.InstallNothing))
		return nil
	}

	names := strings.Join(missing, "、")
	renderer.RenderText(p.Sprintf(i18n.InstallStart, len(missing), names))
	if err := installer.Install(ctx, missing); err != nil {
		return err
	}
	renderer.Success(p.Sprintf(i18n.InstallDone, names))
	return nil
}
