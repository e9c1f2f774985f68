// Package version reports citrace's own build provenance, via variables
// injected at link time and via the Go module's embedded VCS metadata.
package version

import (
	"runtime/debug"

	"github.com/google/go-cmp/cmp"
)

var (
	// Set via -ldflags at release build time; empty in `go install`/`go run`.
	GitCommit string
	BuildTime string
)

// Info is citrace's own version, combined from linker-injected variables
// and the runtime's embedded build metadata.
type Info struct {
	GitCommit string           `json:"git_commit,omitempty"`
	BuildTime string           `json:"build_time,omitempty"`
	BuildInfo *debug.BuildInfo `json:"build_info,omitempty"`
}

// Get returns the current process's version information.
func Get() Info {
	buildInfo, ok := debug.ReadBuildInfo()
	info := Info{GitCommit: GitCommit, BuildTime: BuildTime}
	if ok {
		info.BuildInfo = buildInfo
	}
	return info
}

// Equal reports whether two Infos describe the same build, comparing
// module path, dependency set and Go version when both carry build info.
func (v Info) Equal(other Info) bool {
	if v.BuildInfo != nil {
		if other.BuildInfo == nil {
			return false
		}
		if v.BuildInfo.Main.Path != other.BuildInfo.Main.Path ||
			!cmp.Equal(v.BuildInfo.Deps, other.BuildInfo.Deps) ||
			v.BuildInfo.GoVersion != other.BuildInfo.GoVersion {
			return false
		}
	}
	return v.GitCommit == other.GitCommit && v.BuildTime == other.BuildTime
}
