// Command hook-forward is the small binary the host tool actually
// invokes for every hook event: it relays stdin to the daemon's socket
// and prints back whatever the daemon answers, lazily starting the
// daemon on first use and always printing a well-formed response even
// when the daemon cannot be reached.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/forwarder"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/paths"
)

func main() {
	layout, err := paths.Resolve()
	if err != nil {
		// Can't even resolve a project root: there is nothing sensible to
		// forward to, so answer "no opinion" and exit clean regardless.
		fmt.Print(forwarder.EmptyResponse)
		return
	}

	daemonPath, err := daemonBinaryPath()
	var launch func() error
	if err == nil {
		launch = func() error {
			return forwarder.LaunchDetached(daemonPath, "start", "--foreground")
		}
	}

	forwarder.Forward(os.Stdin, os.Stdout, forwarder.Options{
		SocketPath:   layout.SocketPath,
		LaunchDaemon: launch,
	})
}

// daemonBinaryPath finds the hooksd binary next to this one, the layout
// an install of both binaries side by side produces.
func daemonBinaryPath() (string, error) {
	self, err := os.Executable()
	if err != nil {
		return "", err
	}
	candidate := filepath.Join(filepath.Dir(self), "hooksd")
	if _, err := os.Stat(candidate); err != nil {
		return "", err
	}
	return candidate, nil
}
