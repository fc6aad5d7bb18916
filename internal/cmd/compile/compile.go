// Package compile provides the compile command.
package compile

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wenyan-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/wenyan-cli/internal/i18n"
	"github.com/open-cli-collective/wenyan-cli/internal/logging"
	"github.com/open-cli-collective/wenyan-cli/internal/minify"
	"github.com/open-cli-collective/wenyan-cli/internal/view"
	"github.com/open-cli-collective/wenyan-cli/pkg/macro"
	"github.com/open-cli-collective/wenyan-cli/pkg/wenyan"
)

type compileOptions struct {
	cmdutil.Globals
	roman  string
	strict bool
	minify bool
	escape bool
}

// result is the json rendering of a compilation.
type result struct {
	JS     string             `json:"js"`
	Macros []macro.Definition `json:"macros"`
}

// NewCmdCompile creates the compile command.
func NewCmdCompile() *cobra.Command {
	opts := &compileOptions{}

	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile wenyan source to JavaScript",
		Long: `Compile wenyan source to JavaScript with the wenyan compiler.

The source is read from the file argument or stdin. Imports resolve
against the configured library directory; run 'wy install' first.`,
		Example: `  # Compile a file
  wy compile 春秋.wy

  # Romanize identifiers and minify
  wy compile 春秋.wy --roman pinyin -m

  # Compile the wenyan blocks of a markdown document
  wy compile README.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Globals = cmdutil.ReadGlobals(cmd)
			src, err := cmdutil.ReadSource(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runCompile(cmd.Context(), opts, src, nil, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.roman, "roman", "r", "", "Romanize identifiers: none, pinyin, unicode, baxter (default from config)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Enable strict type checking")
	cmd.Flags().BoolVarP(&opts.minify, "minify", "m", false, "Minify the compiled JavaScript")
	cmd.Flags().BoolVar(&opts.escape, "escape", false, "HTML-escape the output")

	_ = cmd.RegisterFlagCompletionFunc("roman", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(wenyan.RomanizeSystems))
		for i, r := range wenyan.RomanizeSystems {
			names[i] = string(r)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runCompile(ctx context.Context, opts *compileOptions, src string, compiler wenyan.Compiler, w io.Writer) error {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}
	p := cmdutil.Printer(cfg)

	romanName := opts.roman
	if romanName == "" {
		romanName = cfg.Roman
	}
	roman, err := wenyan.ParseRomanizeSystem(romanName)
	if err != nil {
		return &cmdutil.Error{Msg: p.Sprintf(i18n.InvalidRomanizeMethod), Err: err}
	}

	// Create compiler if not provided (allows injection for testing)
	if compiler == nil {
		compiler = &wenyan.ExecCompiler{Command: cfg.Compiler, Logger: logging.FromContext(ctx)}
	}

	res, err := compiler.Compile(ctx, src, wenyan.CompileOptions{
		Roman:   roman,
		Strict:  opts.strict || cfg.Strict,
		WorkDir: filepath.Dir(cfg.LibraryDir),
	})
	if err != nil {
		return cmdutil.Localize(p, i18n.CompileError, err)
	}

	js := res.JS
	if opts.minify {
		js, err = minify.JS(js)
		if err != nil {
			return cmdutil.Localize(p, i18n.MinifyError, err)
		}
	}
	if opts.escape {
		js = view.Escape(js)
	}

	renderer := cmdutil.Renderer(cfg, opts.NoColor, w)
	if renderer.Format() == view.FormatJSON {
		macros := res.Macros
		if macros == nil {
			macros = []macro.Definition{}
		}
		return renderer.RenderJSON(result{JS: js, Macros: macros})
	}

	_, err = fmt.Fprint(w, js)
	return err
}
