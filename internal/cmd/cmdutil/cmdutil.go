// Package cmdutil holds helpers shared by the wy subcommands.
package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"github.com/open-cli-collective/wenyan-cli/internal/config"
	"github.com/open-cli-collective/wenyan-cli/internal/i18n"
	"github.com/open-cli-collective/wenyan-cli/internal/source"
	"github.com/open-cli-collective/wenyan-cli/internal/view"
)

// ErrNoInput is returned when no file is given and stdin is a terminal.
var ErrNoInput = errors.New("no input: pass a file or pipe source on stdin")

// Globals are the persistent flags of the root command.
type Globals struct {
	ConfigPath string
	Output     string
	Lang       string
	NoColor    bool
}

// ReadGlobals reads the persistent flags visible from cmd.
func ReadGlobals(cmd *cobra.Command) Globals {
	var g Globals
	g.ConfigPath, _ = cmd.Flags().GetString("config")
	g.Output, _ = cmd.Flags().GetString("output")
	g.Lang, _ = cmd.Flags().GetString("lang")
	g.NoColor, _ = cmd.Flags().GetBool("no-color")
	return g
}

// Path returns the config file in use.
func (g Globals) Path() string {
	if g.ConfigPath != "" {
		return g.ConfigPath
	}
	return config.DefaultConfigPath()
}

// LoadConfig loads the configuration file and environment, then applies
// the --output and --lang flags on top.
func (g Globals) LoadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithEnv(g.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if g.Output != "" {
		cfg.OutputFormat = g.Output
	}
	if g.Lang != "" {
		cfg.Language = g.Lang
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w (run 'wy init' to configure)", err)
	}
	return cfg, nil
}

// Printer returns the localized message printer for cfg.
func Printer(cfg *config.Config) *message.Printer {
	return i18n.NewPrinter(cfg.Language)
}

// Renderer returns a renderer for cfg writing to w.
func Renderer(cfg *config.Config, noColor bool, w io.Writer) *view.Renderer {
	r := view.NewRenderer(view.Format(cfg.OutputFormat), noColor)
	r.SetWriter(w)
	return r
}

// ReadSource loads the source named by the first argument, or stdin when
// there is none. An implicit read from an interactive terminal is refused;
// "-" reads stdin unconditionally.
func ReadSource(args []string, stdin io.Reader) (string, error) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		if f, ok := stdin.(*os.File); ok && !source.StdinIsPiped(f) {
			return "", ErrNoInput
		}
	}
	return source.Load(path, stdin)
}

// Error is a command failure whose message has already been localized.
type Error struct {
	Msg string
	Err error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Err }

// Localize wraps err with the message key, formatted with err as its
// only argument.
func Localize(p *message.Printer, key string, err error) error {
	return &Error{Msg: p.Sprintf(key, err), Err: err}
}
