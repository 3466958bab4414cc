// Package version carries the daemon's build identity.
package version

// Version is overridden at build time via -ldflags.
var Version = "dev"
