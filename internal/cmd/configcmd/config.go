// Package configcmd provides the config show, test and clear commands.
package configcmd

import (
	"github.com/spf13/cobra"
)

// NewCmdConfig creates the config command.
func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and check wy configuration",
		Long: `Commands for the wy configuration.

Settings come from ~/.config/wy/config.yml (see 'wy init'), overridden by
WY_* environment variables and then by the --output and --lang flags.
'config show' reports where each value came from.`,
	}

	cmd.AddCommand(NewCmdShow())
	cmd.AddCommand(NewCmdTest())
	cmd.AddCommand(NewCmdClear())

	return cmd
}
