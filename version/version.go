package version

import (
	"fmt"
	"runtime"
)

// set by goreleaser via ldflags
var (
	GitCommit string
	Version   = "0.1.0-DEV"
	BuildDate = ""
)

var (
	GoVersion = runtime.Version()
	OsArch    = fmt.Sprintf("%s %s", runtime.GOOS, runtime.GOARCH)
)

// FullVersion is shown by `racehud --version`
var FullVersion = fmt.Sprintf("%s Build %s (Commit %s) Go %s [%s]",
	Version, BuildDate, GitCommit, GoVersion, OsArch)

// Info is the version information reported by the display feed
type Info struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GitCommit string `json:"gitCommit"`
	GoVersion string `json:"goVersion"`
}

func Current() Info {
	return Info{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: GoVersion,
	}
}
