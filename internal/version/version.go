// Package version holds build metadata injected via ldflags.
package version

import (
	"fmt"
	"runtime/debug"
)

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the build metadata for --version output. Without ldflags the
// VCS revision recorded by the Go toolchain is used when available.
func String() string {
	commit := Commit
	if commit == "unknown" {
		commit = vcsRevision(commit)
	}
	return fmt.Sprintf("%s (commit %s, built %s)", Version, commit, Date)
}

func vcsRevision(fallback string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return fallback
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			return s.Value
		}
	}
	return fallback
}
