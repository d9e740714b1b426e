package version

import "runtime"

// These variables are overridden at build time using -ldflags, e.g.
// -X github.com/ericogr/sphere-quiz/internal/version.Version=v1.2.0
var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
	Dirty   = "false"
)

// Info is the build metadata reported by the server.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Dirty     string `json:"dirty"`
	GoVersion string `json:"go_version"`
}

func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date, Dirty: Dirty, GoVersion: runtime.Version()}
}
