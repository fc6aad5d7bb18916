// Package root provides the root command for the wy CLI.
package root

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wenyan-cli/internal/cmd/compile"
	"github.com/open-cli-collective/wenyan-cli/internal/cmd/completion"
	"github.com/open-cli-collective/wenyan-cli/internal/cmd/configcmd"
	initcmd "github.com/open-cli-collective/wenyan-cli/internal/cmd/init"
	"github.com/open-cli-collective/wenyan-cli/internal/cmd/install"
	"github.com/open-cli-collective/wenyan-cli/internal/cmd/macrocmd"
	"github.com/open-cli-collective/wenyan-cli/internal/i18n"
	"github.com/open-cli-collective/wenyan-cli/internal/logging"
	"github.com/open-cli-collective/wenyan-cli/internal/version"
	"github.com/open-cli-collective/wenyan-cli/internal/view"
)

// NewCmdRoot creates the root command for wy.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wy",
		Short: "A command-line toolkit for the wenyan programming language",
		Long: `wy expands macros in and compiles programs written in wenyan, the
classical Chinese programming language.

Macros declared with 或云「「…」」。蓋謂「「…」」。 rewrite the source
before compilation, but never inside string literals.

Get started by running: wy init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			output, _ := cmd.Flags().GetString("output")
			if err := view.ValidateFormat(output); err != nil {
				return err
			}
			if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
				color.NoColor = true
			}

			verbose, _ := cmd.Flags().GetBool("verbose")
			logger := logging.New(cmd.ErrOrStderr(), verbose)
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/wy/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "log debug details to stderr")
	cmd.PersistentFlags().String("lang", "", "message language: en, zh (default from config or $LANG)")

	_ = cmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return view.ValidFormats(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("lang", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		langs := make([]string, len(i18n.Supported))
		for i, tag := range i18n.Supported {
			langs[i] = tag.String()
		}
		return langs, cobra.ShellCompDirectiveNoFileComp
	})

	// Set version template
	cmd.SetVersionTemplate(version.Template())

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(macrocmd.NewCmdMacro())
	cmd.AddCommand(compile.NewCmdCompile())
	cmd.AddCommand(install.NewCmdInstall())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
