package install

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/wenyan-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/wenyan-cli/internal/library"
	"github.com/open-cli-collective/wenyan-cli/internal/testutil"
)

const fakeWyg = `#!/bin/sh
shift
for p in "$@"; do
  mkdir -p "藏書樓/$p"
  echo "吾有一數。" > "藏書樓/$p/序.wy"
done
`

func setup(t *testing.T) (*installOptions, *library.Installer) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}
	t.Setenv("WY_PACKAGES", "")

	script := filepath.Join(t.TempDir(), "fake-wyg")
	require.NoError(t, os.WriteFile(script, []byte(fakeWyg), 0755))

	dir := filepath.Join(t.TempDir(), library.DefaultDir)
	opts := &installOptions{Globals: cmdutil.Globals{
		ConfigPath: filepath.Join(t.TempDir(), "config.yml"),
		Lang:       "en",
		NoColor:    true,
	}}
	return opts, library.New(dir, script, testutil.NewTestLogger(t))
}

func TestRunInstall_Args(t *testing.T) {
	opts, installer := setup(t)

	var buf bytes.Buffer
	require.NoError(t, runInstall(context.Background(), opts, []string{"子曰", "干支"}, installer, &buf))

	assert.Equal(t, "Installing 2 package(s): 子曰、干支\n✓ Installed 子曰、干支\n", buf.String())
	assert.FileExists(t, installer.Path("子曰"))
	assert.FileExists(t, installer.Path("干支"))
}

func TestRunInstall_SkipsInstalled(t *testing.T) {
	opts, installer := setup(t)
	require.NoError(t, runInstall(context.Background(), opts, []string{"子曰"}, installer, &bytes.Buffer{}))

	var buf bytes.Buffer
	require.NoError(t, runInstall(context.Background(), opts, []string{"子曰", "刻漏"}, installer, &buf))
	assert.Equal(t, "Installing 1 package(s): 刻漏\n✓ Installed 刻漏\n", buf.String())

	buf.Reset()
	require.NoError(t, runInstall(context.Background(), opts, []string{"子曰", "刻漏"}, installer, &buf))
	assert.Equal(t, "✓ All packages are already installed.\n", buf.String())
}

func TestRunInstall_ConfiguredPackages(t *testing.T) {
	opts, installer := setup(t)
	t.Setenv("WY_PACKAGES", "符經,器經")

	var buf bytes.Buffer
	require.NoError(t, runInstall(context.Background(), opts, nil, installer, &buf))
	assert.Contains(t, buf.String(), "符經、器經")
	assert.FileExists(t, installer.Path("符經"))
}

func TestRunInstall_Failure(t *testing.T) {
	opts, installer := setup(t)
	installer.Command = filepath.Join(t.TempDir(), "missing-wyg")

	err := runInstall(context.Background(), opts, []string{"子曰"}, installer, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start")
}
