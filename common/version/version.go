// Package version holds build information injected with -ldflags.
package version

var (
	// Version is the release tag.
	Version = "v0.0.0-dev"

	// GitCommit is the commit the binary was built from.
	GitCommit = "unknown"

	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// Info returns "folio <version> (<commit>) built at <time>".
func Info() string {
	return "folio " + Version + " (" + GitCommit + ") built at " + BuildTime
}
