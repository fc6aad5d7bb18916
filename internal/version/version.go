// Package version provides build-time version information.
package version

import "fmt"

// These variables are set at build time via ldflags:
//
//	-X github.com/open-cli-collective/wenyan-cli/internal/version.Version=v1.2.3
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Template is the cobra version template for the wy root command.
func Template() string {
	return fmt.Sprintf("wy version {{.Version}} (commit: %s, built: %s)\n", Commit, Date)
}
