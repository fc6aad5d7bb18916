package wenyan

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/open-cli-collective/wenyan-cli/pkg/macro"
)

// RomanizeSystem selects how identifiers are romanized in compiled output.
type RomanizeSystem string

const (
	RomanNone    RomanizeSystem = "none"
	RomanPinyin  RomanizeSystem = "pinyin"
	RomanUnicode RomanizeSystem = "unicode"
	RomanBaxter  RomanizeSystem = "baxter"
)

// RomanizeSystems lists every accepted romanization, default first.
var RomanizeSystems = []RomanizeSystem{RomanNone, RomanPinyin, RomanUnicode, RomanBaxter}

// ParseRomanizeSystem validates s. The empty string means RomanNone.
func ParseRomanizeSystem(s string) (RomanizeSystem, error) {
	if s == "" {
		return RomanNone, nil
	}
	for _, r := range RomanizeSystems {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("invalid romanize method %q", s)
}

// CompileOptions configures a compilation.
type CompileOptions struct {
	Roman  RomanizeSystem
	Strict bool
	// WorkDir is where the compiler runs; imports resolve against the
	// 藏書樓 directory inside it.
	WorkDir string
}

// CompileResult is the output of a compilation.
type CompileResult struct {
	JS     string
	Macros []macro.Definition
}

// Compiler turns wenyan source into JavaScript.
type Compiler interface {
	Compile(ctx context.Context, src string, opts CompileOptions) (*CompileResult, error)
}

// ExecCompiler runs the wenyan command-line compiler.
type ExecCompiler struct {
	Command string // executable name or path, "wenyan" if empty
	Logger  *slog.Logger
}

// Compile writes src to a temporary file and compiles it. Macro
// definitions are read from src directly, since the command-line compiler
// does not report them.
func (c *ExecCompiler) Compile(ctx context.Context, src string, opts CompileOptions) (*CompileResult, error) {
	macros, err := ParseMacros(src)
	if err != nil {
		return nil, err
	}

	tmpfile, err := os.CreateTemp("", "wy-*.wy")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.WriteString(src); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	tmpfile.Close()

	command := c.Command
	if command == "" {
		command = "wenyan"
	}
	args := compileArgs(opts, tmpfile.Name())

	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Debug("running compiler", "command", command, "args", args)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = opts.WorkDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &CompileError{Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}

	return &CompileResult{JS: stdout.String(), Macros: macros}, nil
}

func compileArgs(opts CompileOptions, file string) []string {
	args := []string{"--compile"}
	if opts.Roman != "" && opts.Roman != RomanNone {
		args = append(args, "--roman", string(opts.Roman))
	}
	if opts.Strict {
		args = append(args, "--strict")
	}
	return append(args, file)
}
