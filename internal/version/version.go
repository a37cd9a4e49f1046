// internal/version/version.go
package version

// Version is the release version stamped into --version output.
const Version = "1.1.0"
