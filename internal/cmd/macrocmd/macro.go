// Package macrocmd provides the macro extraction and expansion commands.
package macrocmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wenyan-cli/internal/source"
	"github.com/open-cli-collective/wenyan-cli/pkg/macro"
	"github.com/open-cli-collective/wenyan-cli/pkg/wenyan"
)

// NewCmdMacro creates the macro command.
func NewCmdMacro() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "macro",
		Aliases: []string{"macros"},
		Short:   "Extract and expand wenyan macros",
		Long: `Commands for working with wenyan macros.

A macro is declared in source as
  或云「「pattern」」。蓋謂「「replacement」」。
and rewrites every later occurrence of pattern outside of string literals.`,
	}

	cmd.AddCommand(NewCmdExtract())
	cmd.AddCommand(NewCmdExpand())
	cmd.AddCommand(NewCmdREPL())

	return cmd
}

// loadMacroFile reads extra macro definitions from path. The file is either
// a JSON table of [pattern, replacement] pairs or wenyan source containing
// declarations.
func loadMacroFile(path string) ([]macro.Definition, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read macro file: %w", err)
	}
	if defs, err := wenyan.FromJSTable(data); err == nil {
		return defs, nil
	}

	src, err := source.Load(path, nil)
	if err != nil {
		return nil, err
	}
	defs, err := wenyan.ParseMacros(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// collectMacros returns the macros of the --macros file followed by those
// declared in src.
func collectMacros(src, macroFile string) ([]macro.Definition, error) {
	defs, err := loadMacroFile(macroFile)
	if err != nil {
		return nil, err
	}
	declared, err := wenyan.ParseMacros(src)
	if err != nil {
		return nil, err
	}
	return append(defs, declared...), nil
}
