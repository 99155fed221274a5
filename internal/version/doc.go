// Package version holds the build metadata reported by "krwhois version" and
// embedded in the HTTP User-Agent. Values come from -ldflags; without them
// runtime/debug.BuildInfo fills in the module version and VCS metadata.
package version
