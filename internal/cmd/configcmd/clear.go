package configcmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wenyan-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/wenyan-cli/internal/config"
)

// NewCmdClear creates the config clear command.
func NewCmdClear() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove stored configuration",
		Long:  `Delete the wy configuration file. Environment variables will still be used if set.`,
		Example: `  # Clear config
  wy config clear`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClear(cmdutil.ReadGlobals(cmd), cmd.OutOrStdout())
		},
	}

	return cmd
}

func runClear(g cmdutil.Globals, w io.Writer) error {
	if g.NoColor {
		color.NoColor = true
	}

	configPath := g.Path()

	err := os.Remove(configPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove config file: %w", err)
	}

	green := color.New(color.FgGreen)
	dim := color.New(color.Faint)

	if err != nil {
		_, _ = green.Fprintf(w, "✓ No config file to remove\n")
	} else {
		_, _ = green.Fprintf(w, "✓ Configuration cleared from %s\n", configPath)
	}

	// Check if env vars are set
	var activeVars []string
	for _, v := range config.EnvVars {
		if os.Getenv(v) != "" {
			activeVars = append(activeVars, v)
		}
	}

	if len(activeVars) > 0 {
		_, _ = dim.Fprintf(w, "\nNote: Environment variables will still be used: %s\n", strings.Join(activeVars, ", "))
	}

	return nil
}
