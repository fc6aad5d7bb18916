// Package init provides the init command for wy.
package init

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wenyan-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/wenyan-cli/internal/config"
	"github.com/open-cli-collective/wenyan-cli/internal/library"
	"github.com/open-cli-collective/wenyan-cli/internal/logging"
	"github.com/open-cli-collective/wenyan-cli/pkg/wenyan"
)

type initOptions struct {
	cmdutil.Globals
	libraryDir string
	roman      string
	noPrompt   bool
	force      bool
	install    bool
}

// promptFunc fills in cfg and the install choice interactively.
type promptFunc func(cfg *config.Config, install *bool) error

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize wy configuration",
		Long: `Initialize wy with your library directory, romanization and packages.

This command will guide you through the setup and save the result to
~/.config/wy/config.yml. Packages are installed with wyg, which puts them
in a 藏書樓 directory; the library directory should carry that name.`,
		Example: `  # Interactive setup
  wy init

  # Accept the defaults and install the default packages
  wy init --no-prompt --install`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Globals = cmdutil.ReadGlobals(cmd)
			return runInit(cmd.Context(), opts, runForm, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.libraryDir, "library-dir", "", "Library directory (default 藏書樓)")
	cmd.Flags().StringVar(&opts.roman, "roman", "", "Romanization: none, pinyin, unicode, baxter")
	cmd.Flags().BoolVar(&opts.noPrompt, "no-prompt", false, "Use flags and defaults without asking")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing configuration")
	cmd.Flags().BoolVar(&opts.install, "install", false, "Install the selected packages after saving")

	return cmd
}

func runInit(ctx context.Context, opts *initOptions, prompt promptFunc, w io.Writer) error {
	configPath := opts.Path()

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !opts.force {
		if opts.noPrompt {
			return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", configPath)
		}
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(w, "Initialization cancelled.")
			return nil
		}
	}

	cfg := &config.Config{
		LibraryDir: opts.libraryDir,
		Roman:      opts.roman,
	}
	cfg.ApplyDefaults()

	install := opts.install
	if !opts.noPrompt {
		if err := prompt(cfg, &install); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}
	fmt.Fprintf(w, "Configuration saved to %s\n", configPath)

	if install {
		installer := library.New(cfg.LibraryDir, cfg.Wyg, logging.FromContext(ctx))
		installed, err := installer.EnsureInstalled(ctx, cfg.WygPackages)
		if err != nil {
			return fmt.Errorf("failed to install packages: %w", err)
		}
		if len(installed) > 0 {
			fmt.Fprintf(w, "Installed %s\n", strings.Join(installed, "、"))
		}
	}

	fmt.Fprintln(w, "\nYou're all set! Try running:")
	fmt.Fprintln(w, "  wy macro extract 春秋.wy")
	fmt.Fprintln(w, "  wy compile 春秋.wy")

	return nil
}

func runForm(cfg *config.Config, install *bool) error {
	return newForm(cfg, install).Run()
}

func newForm(cfg *config.Config, install *bool) *huh.Form {
	romanOptions := make([]huh.Option[string], len(wenyan.RomanizeSystems))
	for i, r := range wenyan.RomanizeSystems {
		romanOptions[i] = huh.NewOption(string(r), string(r))
	}

	pkgOptions := make([]huh.Option[string], len(library.DefaultPackages))
	for i, p := range library.DefaultPackages {
		pkgOptions[i] = huh.NewOption(p, p).Selected(slices.Contains(cfg.WygPackages, p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Library directory").
				Description("Where wyg packages are installed").
				Placeholder(library.DefaultDir).
				Value(&cfg.LibraryDir).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("library directory is required")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Title("Romanization").
				Description("How identifiers appear in compiled JavaScript").
				Options(romanOptions...).
				Value(&cfg.Roman),

			huh.NewMultiSelect[string]().
				Title("Packages").
				Description("wyg packages to keep installed").
				Options(pkgOptions...).
				Value(&cfg.WygPackages),

			huh.NewConfirm().
				Title("Install packages now?").
				Value(install),
		),
	)
}
