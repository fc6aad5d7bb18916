// Package completion provides shell completion generation commands.
package completion

import (
	"io"

	"github.com/spf13/cobra"
)

// shell describes one supported shell.
type shell struct {
	name     string
	install  string // how to load completions in every session
	example  string
	generate func(root *cobra.Command, w io.Writer) error
}

var shells = []shell{
	{
		name: "bash",
		install: `  # Linux
  wy completion bash > /etc/bash_completion.d/wy

  # macOS (requires bash-completion)
  wy completion bash > $(brew --prefix)/etc/bash_completion.d/wy`,
		example: "source <(wy completion bash)",
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenBashCompletionV2(w, true)
		},
	},
	{
		name: "zsh",
		install: `  # ensure completion is enabled in ~/.zshrc
  autoload -Uz compinit && compinit

  wy completion zsh > "${fpath[1]}/_wy"`,
		example: "source <(wy completion zsh)",
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenZshCompletion(w)
		},
	},
	{
		name:    "fish",
		install: "  wy completion fish > ~/.config/fish/completions/wy.fish",
		example: "wy completion fish | source",
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenFishCompletion(w, true)
		},
	},
	{
		name:    "powershell",
		install: "  wy completion powershell >> $PROFILE",
		example: "wy completion powershell | Out-String | Invoke-Expression",
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenPowerShellCompletionWithDesc(w)
		},
	},
}

// NewCmdCompletion creates the completion command.
func NewCmdCompletion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for wy.

These scripts enable tab-completion for commands, flags, and arguments.
See each sub-command's help for installation instructions.`,
	}

	for _, s := range shells {
		cmd.AddCommand(newCmdShell(s))
	}

	return cmd
}

func newCmdShell(s shell) *cobra.Command {
	return &cobra.Command{
		Use:   s.name,
		Short: "Generate " + s.name + " completion script",
		Long: `Generate ` + s.name + ` completion script for wy.

To load completions in your current shell session:

  ` + s.example + `

To load completions for every new session:

` + s.install,
		Example:               "  " + s.example,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.generate(cmd.Root(), cmd.OutOrStdout())
		},
	}
}
