// Package buildinfo holds the version stamp linked into the specgraph binary.
//
// Release builds set the variables with
//
//	-ldflags "-X github.com/papercomputeco/specgraph/pkg/buildinfo.Version=..."
package buildinfo

import "runtime/debug"

var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	Sha       string `json:"sha"`
	Buildtime string `json:"buildtime"`
}

// Current returns the linked stamp. A binary built without ldflags falls
// back to the VCS revision recorded by the Go toolchain, when there is one.
func Current() Info {
	info := Info{Version: Version, Sha: Sha, Buildtime: Buildtime}
	if info.Sha != "HEAD" {
		return info
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Sha = s.Value
		case "vcs.time":
			if info.Buildtime == "dev" {
				info.Buildtime = s.Value
			}
		}
	}
	return info
}
