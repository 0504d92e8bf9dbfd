// Package version reports the build version of sqgrid.
package version

import "runtime/debug"

// Version is set at build time with -ldflags "-X .../internal/version.Version=v1.2.3"
var Version string

// Commit is the VCS revision the binary was built from, if known
var Commit string

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		if Version == "" {
			Version = "devel"
		}
		return
	}

	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			Commit = s.Value[:7]
		}
	}

	if Version != "" {
		return
	}
	Version = info.Main.Version
	if Version == "" || Version == "(devel)" {
		Version = "devel"
	}
}

// String returns the version with the commit appended when known
func String() string {
	if Commit == "" {
		return Version
	}
	return Version + " (" + Commit + ")"
}
