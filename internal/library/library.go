// Package library installs wyg packages into the local 藏書樓 directory.
package library

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultDir is the directory wyg installs packages into.
	DefaultDir = "藏書樓"
	// EntryFile marks an installed package.
	EntryFile = "序.wy"
	// DefaultCommand is the wyg executable.
	DefaultCommand = "wyg"
)

// DefaultPackages are installed when no package list is configured.
var DefaultPackages = []string{
	"交互秘術",
	"刻漏",
	"器經",
	"子曰",
	"干支",
	"柯裡化法",
	"異步秘術",
	"符經",
	"简体秘术",
	"简化方言",
	"腳本秘術",
	"解析整數",
	"造類秘術",
	"閱文秘術",
}

// Installer checks for and installs wyg packages.
type Installer struct {
	Dir     string // library directory; wyg runs in its parent
	Command string
	Logger  *slog.Logger
}

// New returns an Installer with defaults filled in for empty values.
func New(dir, command string, logger *slog.Logger) *Installer {
	if dir == "" {
		dir = DefaultDir
	}
	if command == "" {
		command = DefaultCommand
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Installer{Dir: dir, Command: command, Logger: logger}
}

// Path returns the entry file path of pkg.
func (i *Installer) Path(pkg string) string {
	return filepath.Join(i.Dir, pkg, EntryFile)
}

// Missing returns the packages whose entry file does not exist, in the
// order given.
func (i *Installer) Missing(ctx context.Context, pkgs []string) ([]string, error) {
	present := make([]bool, len(pkgs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for idx, pkg := range pkgs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			info, err := os.Stat(i.Path(pkg))
			present[idx] = err == nil && info.Mode().IsRegular()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var missing []string
	for idx, pkg := range pkgs {
		if !present[idx] {
			missing = append(missing, pkg)
		}
	}
	return missing, nil
}

// Install runs `wyg install pkgs...` and logs its output line by line.
// Cancelling ctx kills the installer.
func (i *Installer) Install(ctx context.Context, pkgs []string) error {
	if len(pkgs) == 0 {
		return nil
	}
	if filepath.Base(i.Dir) != DefaultDir {
		i.Logger.Warn("wyg installs into "+DefaultDir+" next to the library directory", "dir", i.Dir)
	}

	args := append([]string{"install"}, pkgs...)
	i.Logger.Info("wyg", "args", args)

	cmd := exec.CommandContext(ctx, i.Command, args...)
	cmd.Dir = filepath.Dir(i.Dir)
	cmd.Cancel = func() error {
		i.Logger.Info("killing wyg installation")
		return cmd.Process.Kill()
	}
	cmd.WaitDelay = 5 * time.Second

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", i.Command, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			i.Logger.Info(scanner.Text())
		}
		// keep the writer from blocking if scanning stopped early
		_, _ = io.Copy(io.Discard, pr)
	}()

	err := cmd.Wait()
	_ = pw.Close()
	<-done

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		return fmt.Errorf("wyg install failed: %w", err)
	}
	i.Logger.Info("wyg install exited")
	return nil
}

// EnsureInstalled installs whichever of pkgs are missing and returns them.
func (i *Installer) EnsureInstalled(ctx context.Context, pkgs []string) ([]string, error) {
	missing, err := i.Missing(ctx, pkgs)
	if err != nil {
		return nil, err
	}
	if err := i.Install(ctx, missing); err != nil {
		return nil, err
	}
	return missing, nil
}
