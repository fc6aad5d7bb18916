package library

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/wenyan-cli/internal/logging"
)

const fakeWyg = `#!/bin/sh
shift
for p in "$@"; do
  mkdir -p "藏書樓/$p"
  echo "吾有一數。" > "藏書樓/$p/序.wy"
  echo "installed $p"
done
`

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "fake-wyg")
	require.NoError(t, os.WriteFile(path, []byte(body), 0755))
	return path
}

func installPackage(t *testing.T, dir, pkg string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, pkg), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, pkg, EntryFile), []byte("吾有一數。"), 0644))
}

func TestNew_Defaults(t *testing.T) {
	i := New("", "", nil)
	assert.Equal(t, DefaultDir, i.Dir)
	assert.Equal(t, DefaultCommand, i.Command)
	assert.NotNil(t, i.Logger)
	assert.Len(t, DefaultPackages, 14)
}

func TestMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), DefaultDir)
	installPackage(t, dir, "子曰")
	installPackage(t, dir, "干支")
	// a directory without the entry file does not count
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "刻漏"), 0755))

	i := New(dir, "", nil)
	missing, err := i.Missing(context.Background(), []string{"刻漏", "子曰", "符經", "干支", "器經"})
	require.NoError(t, err)
	assert.Equal(t, []string{"刻漏", "符經", "器經"}, missing)
}

func TestMissing_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(t.TempDir(), "", nil).Missing(ctx, DefaultPackages)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnsureInstalled(t *testing.T) {
	script := writeScript(t, fakeWyg)
	dir := filepath.Join(t.TempDir(), DefaultDir)
	installPackage(t, dir, "子曰")

	var logs bytes.Buffer
	i := New(dir, script, logging.New(&logs, false))

	installed, err := i.EnsureInstalled(context.Background(), []string{"子曰", "符經", "器經"})
	require.NoError(t, err)
	assert.Equal(t, []string{"符經", "器經"}, installed)

	assert.FileExists(t, i.Path("符經"))
	assert.FileExists(t, i.Path("器經"))
	assert.Contains(t, logs.String(), "installed 符經")
	assert.Contains(t, logs.String(), "wyg install exited")

	// everything present now
	installed, err = i.EnsureInstalled(context.Background(), []string{"子曰", "符經", "器經"})
	require.NoError(t, err)
	assert.Empty(t, installed)
}

func TestInstall_Nothing(t *testing.T) {
	i := New(t.TempDir(), "no-such-wyg", nil)
	assert.NoError(t, i.Install(context.Background(), nil))
}

func TestInstall_Failure(t *testing.T) {
	script := writeScript(t, "#!/bin/sh\necho 'package not found' >&2\nexit 2\n")
	var logs bytes.Buffer
	i := New(filepath.Join(t.TempDir(), DefaultDir), script, logging.New(&logs, false))

	err := i.Install(context.Background(), []string{"無此書"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wyg install failed")
	assert.Contains(t, logs.String(), "package not found")
}

func TestInstall_MissingExecutable(t *testing.T) {
	i := New(t.TempDir(), filepath.Join(t.TempDir(), "no-such-wyg"), nil)
	err := i.Install(context.Background(), []string{"子曰"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start")
}

func TestInstall_Cancel(t *testing.T) {
	script := writeScript(t, "#!/bin/sh\nexec sleep 10\n")
	var logs bytes.Buffer
	i := New(filepath.Join(t.TempDir(), DefaultDir), script, logging.New(&logs, false))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := i.Install(ctx, []string{"子曰"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Contains(t, logs.String(), "killing wyg installation")
}
