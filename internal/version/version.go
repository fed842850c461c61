// Package version exposes build metadata injected via -ldflags.
package version

import "time"

var (
	// Version is the release version.
	Version = ""
	// Commit is the git commit hash.
	Commit = ""
	// BuildTime is the build timestamp.
	BuildTime = ""
)

// String renders the version for --version output. Untagged builds fall
// back to the build timestamp, or the current time for go-run binaries.
func String() string {
	v := Version
	if v == "" {
		v = BuildTime
	}
	if v == "" {
		v = "dev-" + time.Now().UTC().Format("20060102T150405Z")
	}
	if Commit == "" {
		return v
	}
	c := Commit
	if len(c) > 12 {
		c = c[:12]
	}
	return v + " (" + c + ")"
}
