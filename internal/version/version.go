// Package version provides version information for kshell.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the version of kshell. This can be overridden at build time using ldflags.
var Version = "development"

// Commit is the git commit hash. This can be overridden at build time using ldflags.
var Commit = "unknown"

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// String returns the full version string including the commit hash if available.
// Without an ldflags commit the VCS revision stamped by the go tool is used.
func String() string {
	commit := Commit
	if commit == "unknown" {
		commit = vcsRevision()
	}
	if commit != "unknown" && commit != "" {
		return Version + "+" + commit
	}
	return Version
}

// Detail is the multi-line output of `kshell version`.
func Detail(schema int) string {
	return fmt.Sprintf("kshell %s\ngo: %s %s/%s\nschema: v%d\n", String(), runtime.Version(), runtime.GOOS, runtime.GOARCH, schema)
}

func vcsRevision() string {
	info, ok := readBuildInfo()
	if !ok {
		return ""
	}
	var rev string
	dirty := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if rev != "" && dirty {
		rev += "-dirty"
	}
	return rev
}
