package configcmd

import (
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wenyan-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/wenyan-cli/internal/config"
	"github.com/open-cli-collective/wenyan-cli/internal/view"
)

type showOptions struct {
	cmdutil.Globals
}

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the effective wy configuration and where each value comes from.`,
		Example: `  # Show current config
  wy config show

  # As JSON
  wy config show -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Globals = cmdutil.ReadGlobals(cmd)
			return runShow(opts, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runShow(opts *showOptions, w io.Writer) error {
	configPath := opts.Path()

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		if !errors.Is(fileErr, os.ErrNotExist) {
			return fileErr
		}
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides
	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}

	steps := "unlimited"
	if n := cfg.Steps(); n > 0 {
		steps = strconv.Itoa(n)
	}
	fileSteps := ""
	if fileCfg.MaxSteps != nil {
		fileSteps = strconv.Itoa(*fileCfg.MaxSteps)
	}

	rows := [][]string{
		row("Library", cfg.LibraryDir, fileCfg.LibraryDir, "WY_LIBRARY_DIR"),
		row("Packages", strings.Join(cfg.WygPackages, ","), strings.Join(fileCfg.WygPackages, ","), "WY_PACKAGES"),
		row("Compiler", cfg.Compiler, fileCfg.Compiler, "WY_COMPILER"),
		row("Wyg", cfg.Wyg, fileCfg.Wyg, "WY_WYG"),
		row("Roman", cfg.Roman, fileCfg.Roman, "WY_ROMAN"),
		row("Strict", strconv.FormatBool(cfg.Strict), boolValue(fileCfg.Strict), "WY_STRICT"),
		row("Max steps", steps, fileSteps, "WY_MAX_STEPS"),
		row("Language", cfg.Language, fileCfg.Language, "WY_LANG"),
		row("Output", cfg.OutputFormat, fileCfg.OutputFormat),
	}
	language, output := rows[len(rows)-2], rows[len(rows)-1]
	// the locale only fills a language nothing else set
	if language[2] == "default" && os.Getenv("LANG") != "" {
		language[2] = "LANG"
	}
	if opts.Lang != "" {
		language[2] = "flag"
	}
	if opts.Output != "" {
		output[2] = "flag"
	}

	renderer := cmdutil.Renderer(cfg, opts.NoColor, w)
	renderer.RenderTable([]string{"KEY", "VALUE", "SOURCE"}, rows)

	if renderer.Format() == view.FormatTable {
		dim := color.New(color.Faint)
		_, _ = dim.Fprintf(w, "\nConfig file: %s\n", configPath)
		if fileErr != nil {
			_, _ = dim.Fprintln(w, "(file not found)")
		}
	}

	return nil
}

// row reports the first set environment variable as the source of a value,
// then the config file, then the built-in default.
func row(label, value, fileValue string, envVars ...string) []string {
	if value == "" {
		value = "-"
	}
	source := "default"
	if fileValue != "" {
		source = "config"
	}
	for _, envVar := range envVars {
		if os.Getenv(envVar) != "" {
			source = envVar
			break
		}
	}
	return []string{label, value, source}
}

func boolValue(b bool) string {
	if !b {
		return ""
	}
	return "true"
}
