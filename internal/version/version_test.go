package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplate(t *testing.T) {
	commit, date := Commit, Date
	t.Cleanup(func() { Commit, Date = commit, date })

	Commit, Date = "abc1234", "2026-10-19"
	assert.Equal(t, "wy version {{.Version}} (commit: abc1234, built: 2026-10-19)\n", Template())
}
