// Package version provides version information for guilddash.
package version

import (
	"runtime"
	"runtime/debug"
)

// These variables are set via ldflags during build
//
//nolint:gochecknoglobals // These are intentionally global for ldflags injection
var (
	version = "dev"
	buildID = "dev"
)

// GetVersion returns the current version. Builds without ldflags fall back to
// the module version recorded by the go tool.
func GetVersion() string {
	if version != "dev" {
		return version
	}

	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return version
}

// GetBuildID returns the current build ID
func GetBuildID() string {
	return buildID
}

// GetFullVersion returns version with build ID
func GetFullVersion() string {
	return GetVersion() + " (build: " + buildID + ", " + runtime.Version() + ")"
}

// UserAgent is the User-Agent sent to the export service.
func UserAgent() string {
	return "guilddash/" + GetVersion()
}
