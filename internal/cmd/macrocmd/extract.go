package macrocmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wenyan-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/wenyan-cli/internal/i18n"
	"github.com/open-cli-collective/wenyan-cli/internal/view"
	"github.com/open-cli-collective/wenyan-cli/pkg/wenyan"
)

type extractOptions struct {
	cmdutil.Globals
}

// NewCmdExtract creates the macro extract command.
func NewCmdExtract() *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "List the macros declared in a source file",
		Long: `List the macros declared in wenyan source, in declaration order.

The source is read from the file argument or stdin. Markdown and HTML
files are searched for wenyan code blocks.`,
		Example: `  # List macros
  wy macro extract 春秋.wy

  # As JSON
  wy macro extract 春秋.wy -o json

  # From stdin
  cat 春秋.wy | wy macro extract`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Globals = cmdutil.ReadGlobals(cmd)
			src, err := cmdutil.ReadSource(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runExtract(opts, src, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runExtract(opts *extractOptions, src string, w io.Writer) error {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}

	defs, err := wenyan.ParseMacros(src)
	if err != nil {
		return err
	}

	renderer := cmdutil.Renderer(cfg, opts.NoColor, w)
	if len(defs) == 0 && renderer.Format() != view.FormatJSON {
		renderer.RenderText(cmdutil.Printer(cfg).Sprintf(i18n.NoMacro))
		return nil
	}
	return renderer.RenderMacros(defs)
}
