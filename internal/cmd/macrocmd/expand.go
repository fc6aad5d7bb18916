package macrocmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wenyan-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/wenyan-cli/internal/i18n"
	"github.com/open-cli-collective/wenyan-cli/internal/logging"
	"github.com/open-cli-collective/wenyan-cli/internal/source"
	"github.com/open-cli-collective/wenyan-cli/internal/view"
	"github.com/open-cli-collective/wenyan-cli/pkg/macro"
)

type expandOptions struct {
	cmdutil.Globals
	macros   string
	maxSteps int // negative: use the configured budget
	escape   bool
	watch    bool
}

// NewCmdExpand creates the macro expand command.
func NewCmdExpand() *cobra.Command {
	opts := &expandOptions{}

	cmd := &cobra.Command{
		Use:   "expand [file]",
		Short: "Apply macros to a source file",
		Long: `Apply every macro declared in the source, plus any from --macros, and
print the rewritten source.

Macros are applied in order. Each one is applied until no match remains
outside of string literals, or until --max-steps substitutions have been
made. A budget of 0 means no limit.`,
		Example: `  # Expand a file
  wy macro expand 春秋.wy

  # Add macros from a shared file
  wy macro expand 春秋.wy --macros 通用.wy

  # Re-expand on every save
  wy macro expand 春秋.wy --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Globals = cmdutil.ReadGlobals(cmd)
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			if opts.watch {
				if len(args) == 0 || args[0] == "-" {
					return errors.New("--watch requires a file argument")
				}
				return runWatch(ctx, opts, args[0], w)
			}

			src, err := cmdutil.ReadSource(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runExpand(ctx, opts, src, w)
		},
	}

	cmd.Flags().StringVar(&opts.macros, "macros", "", "File of extra macro declarations or a JSON macro table")
	cmd.Flags().IntVar(&opts.maxSteps, "max-steps", -1, "Substitution budget per macro, 0 for unlimited (default from config)")
	cmd.Flags().BoolVar(&opts.escape, "escape", false, "HTML-escape the output")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-expand whenever the file changes")

	return cmd
}

func runExpand(ctx context.Context, opts *expandOptions, src string, w io.Writer) error {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}

	defs, err := collectMacros(src, opts.macros)
	if err != nil {
		return err
	}

	steps := cfg.Steps()
	if opts.maxSteps >= 0 {
		steps = opts.maxSteps
	}
	exp := macro.New(macro.WithMaxSteps(steps), macro.WithLogger(logging.FromContext(ctx)))

	out, err := exp.Expand(src, defs)
	if err != nil {
		return cmdutil.Localize(cmdutil.Printer(cfg), i18n.ExpandError, err)
	}

	if opts.escape {
		out = view.Escape(out)
	}
	_, err = fmt.Fprint(w, out)
	return err
}

// runWatch expands path once, then again after every change to it or to
// the --macros file, until ctx is cancelled.
func runWatch(ctx context.Context, opts *expandOptions, path string, w io.Writer) error {
	logger := logging.FromContext(ctx)

	expandFile := func() error {
		src, err := source.Load(path, nil)
		if err != nil {
			return err
		}
		return runExpand(ctx, opts, src, w)
	}

	paths := []string{path}
	if opts.macros != "" {
		paths = append(paths, opts.macros)
	}
	watcher, err := newWatcher(paths)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := expandFile(); err != nil {
		logger.Error("expansion failed", "file", path, "error", err)
	}
	watchLoop(ctx, watcher, paths, func() {
		if err := expandFile(); err != nil {
			logger.Error("expansion failed", "file", path, "error", err)
		}
	}, logger)
	return nil
}
