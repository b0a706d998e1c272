// internal/version/version.go
package version

// Version is overridden at build time with
// -ldflags "-X af2tools/internal/version.Version=..."
var Version = "dev"
