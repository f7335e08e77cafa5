// Package version reports the build identity of the rbset binary.
package version

import (
	"runtime/debug"
)

const unknown = "<unknown>"

// Build identity. Release builds set these with -ldflags "-X".
var (
	Version = "dev"
	Commit  = unknown
	Date    = unknown
)

// InitBinaryVersion fills Version, Commit and Date from the embedded build
// info when they were not set at link time.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	apply(info)
}

func apply(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == unknown {
				Commit = setting.Value
			}
		case "vcs.time":
			if Date == unknown {
				Date = setting.Value
			}
		}
	}
}

// String returns the one-line version banner.
func String() string {
	return "rbset " + Version + " (commit: " + Commit + ", built: " + Date + ")"
}
