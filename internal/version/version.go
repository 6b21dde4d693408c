// ABOUTME: Build identity constants
// ABOUTME: Reported by the version command and session logging
package version

var (
	// Version is the release version, overridden at build time via
	// -ldflags "-X .../internal/version.Version=...".
	Version = "0.3.0"

	// Product is the tool name reported to users.
	Product = "lanxictl"

	// Manufacturer identifies the project.
	Manufacturer = "lanxi-tools"
)
