// Package version holds build metadata and the platform identifiers sent
// to the update server.
package version

import "runtime"

// These variables are set at build time via -ldflags
var (
	// Version is the semantic version (e.g., "1.0.0")
	Version = "0.0.0"
	// Commit is the git commit hash
	Commit = "unknown"
	// BuildDate is the build timestamp
	BuildDate = "unknown"
)

// Info returns formatted version information
func Info() string {
	return Version + " (" + Commit + ")"
}

// Full returns full version information including build date
func Full() string {
	return Version + " (commit: " + Commit + ", built: " + BuildDate + ")"
}

// Target returns the operating system name used in update endpoints.
func Target() string {
	return targetFor(runtime.GOOS)
}

// Arch returns the CPU architecture name used in update endpoints.
func Arch() string {
	return archFor(runtime.GOARCH)
}

func targetFor(goos string) string {
	switch goos {
	case "darwin", "ios":
		return "darwin"
	default:
		return goos
	}
}

// archFor maps GOARCH to the names release bundles are published under.
func archFor(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "386":
		return "i686"
	case "arm":
		return "armv7"
	default:
		return goarch
	}
}
