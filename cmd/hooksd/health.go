package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/paths"
)

// runHealth sends a "health" control request over the live socket and
// prints the daemon's own self-report, rather than inferring health from
// the PID file alone.
func runHealth(args []string) int {
	layout, err := paths.Resolve()
	if err != nil {
		fmt.Fprintln(os.Stderr, "hooksd health:", err)
		return exitFailure
	}

	resp, err := sendControl(layout.SocketPath, "health", nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hooksd health: daemon unreachable:", err)
		return exitFailure
	}

	b, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "hooksd health:", err)
		return exitFailure
	}
	fmt.Println(string(b))
	return exitOK
}
