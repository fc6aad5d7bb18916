package macrocmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"github.com/open-cli-collective/wenyan-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/wenyan-cli/internal/i18n"
	"github.com/open-cli-collective/wenyan-cli/internal/logging"
	"github.com/open-cli-collective/wenyan-cli/pkg/macro"
	"github.com/open-cli-collective/wenyan-cli/pkg/wenyan"
)

const replPrompt = "文> "

type replOptions struct {
	cmdutil.Globals
	macros   string
	maxSteps int
}

// NewCmdREPL creates the macro repl command.
func NewCmdREPL() *cobra.Command {
	opts := &replOptions{}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Try macros interactively",
		Long: `Start an interactive session for experimenting with macros.

A line containing a declaration (或云「「…」」。蓋謂「「…」」。) adds macros.
Any other line is expanded with the macros collected so far.
Type .help for commands, .quit to exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Globals = cmdutil.ReadGlobals(cmd)
			return runREPL(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.macros, "macros", "", "File of macro declarations or a JSON macro table to start with")
	cmd.Flags().IntVar(&opts.maxSteps, "max-steps", -1, "Substitution budget per macro, 0 for unlimited (default from config)")

	return cmd
}

func runREPL(cmd *cobra.Command, opts *replOptions) error {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}

	defs, err := loadMacroFile(opts.macros)
	if err != nil {
		return err
	}

	steps := cfg.Steps()
	if opts.maxSteps >= 0 {
		steps = opts.maxSteps
	}
	sess := &session{
		defs:    defs,
		exp:     macro.New(macro.WithMaxSteps(steps), macro.WithLogger(logging.FromContext(cmd.Context()))),
		printer: cmdutil.Printer(cfg),
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(sess.out, "wy macro REPL")
	_, _ = fmt.Fprintln(sess.out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(sess.out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if sess.handle(line) {
			return nil
		}
	}
}

// historyFile keeps REPL history next to the config file.
func historyFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "wy", "repl_history")
}

// session is the state of one REPL run.
type session struct {
	defs    []macro.Definition
	exp     *macro.Expander
	printer *message.Printer
	out     io.Writer
	errOut  io.Writer
}

// handle processes one input line and reports whether the session is over.
func (s *session) handle(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, ".") {
		return s.dotCommand(line)
	}

	defs, err := wenyan.ParseMacros(line)
	if err != nil {
		s.fail(err)
		return false
	}
	if len(defs) > 0 {
		if _, err := macro.Compile(defs); err != nil {
			s.fail(err)
			return false
		}
		s.defs = append(s.defs, defs...)
		for _, d := range defs {
			_, _ = fmt.Fprintf(s.out, "+ %s\n", d)
		}
		return false
	}

	out, err := s.exp.Expand(line, s.defs)
	if err != nil {
		s.fail(cmdutil.Localize(s.printer, i18n.ExpandError, err))
		return false
	}
	_, _ = fmt.Fprintln(s.out, out)
	return false
}

func (s *session) dotCommand(line string) bool {
	switch strings.ToLower(strings.Fields(line)[0]) {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.out)

	case ".macros":
		if len(s.defs) == 0 {
			_, _ = fmt.Fprintln(s.out, s.printer.Sprintf(i18n.NoMacro))
			break
		}
		_, _ = fmt.Fprintln(s.out, macro.Format(s.defs))

	case ".clear":
		s.defs = nil

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help)\n", line)
	}
	return false
}

func (s *session) fail(err error) {
	_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
}

func printREPLHelp(w io.Writer) {
	_, _ = fmt.Fprint(w, `Commands:
  .macros    List the macros defined so far
  .clear     Forget every macro
  .help      Show this help
  .quit      Exit (also .exit or Ctrl-D)

Any other line is either a macro declaration, which is added, or text,
which is expanded and printed.
`)
}
