// Package version exposes build metadata injected at link time.
package version

import (
	"fmt"
	"runtime"
)

// Set via -ldflags "-X .../internal/version.Version=... ".
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

func String() string {
	return fmt.Sprintf("umago %s", Version)
}

func Verbose() string {
	i := Get()
	return fmt.Sprintf("umago %s (commit: %s, built: %s, go: %s)",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion)
}
