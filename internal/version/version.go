// Package version carries build-time version information, set through
// -ldflags at release time.
package version

var (
	// Version is the semantic version of this build
	Version = "dev"
	// Commit is the short git commit hash of this build
	Commit = ""
)

// String returns the human-readable version
func String() string {
	if Commit != "" {
		return Version + " (" + Commit + ")"
	}
	return Version
}
