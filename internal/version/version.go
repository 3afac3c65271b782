// Package version holds the version string shared by the CLI.
package version

// Version is the current parsh version.
// This should be updated with each release.
const Version = "0.1.0"
