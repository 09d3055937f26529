package version

import (
	_ "embed"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var rawVersion string

var current = strings.TrimSpace(rawVersion)

// Revision is the VCS revision recorded in the build info, or "unknown".
var Revision = readRevision()

// Get returns the version identifier embedded at build time.
func Get() string {
	return current
}

// String returns the version and revision, e.g. "1.0.0+abc1234".
func String() string {
	return current + "+" + Revision
}

func readRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			if len(s.Value) > 7 {
				return s.Value[:7]
			}

			return s.Value
		}
	}

	return "unknown"
}
