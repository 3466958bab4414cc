// Command hooksd is the long-lived daemon that owns the handler
// registry, config, and Unix socket the hook forwarder talks to.
package main

import (
	"fmt"
	"os"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(exitUsage)
	}

	switch os.Args[1] {
	case "--version", "-v", "version":
		fmt.Printf("hooksd %s\n", version.Version)
		os.Exit(0)
	case "start":
		os.Exit(runStart(os.Args[2:]))
	case "stop":
		os.Exit(runStop(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "restart":
		os.Exit(runRestart(os.Args[2:]))
	case "logs":
		os.Exit(runLogs(os.Args[2:]))
	case "health":
		os.Exit(runHealth(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "generate-playbook":
		os.Exit(runGeneratePlaybook(os.Args[2:]))
	case "validate-config":
		os.Exit(runValidateConfig(os.Args[2:]))
	default:
		usage()
		os.Exit(exitUsage)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  hooksd start [--foreground]")
	fmt.Fprintln(os.Stderr, "  hooksd stop")
	fmt.Fprintln(os.Stderr, "  hooksd status [--json]")
	fmt.Fprintln(os.Stderr, "  hooksd restart")
	fmt.Fprintln(os.Stderr, "  hooksd logs [--follow] [--lines N]")
	fmt.Fprintln(os.Stderr, "  hooksd health")
	fmt.Fprintln(os.Stderr, "  hooksd reload")
	fmt.Fprintln(os.Stderr, "  hooksd generate-playbook [--out FILE]")
	fmt.Fprintln(os.Stderr, "  hooksd validate-config [--config FILE]")
}

// Exit codes, consistent across every subcommand: 0 success, 1 general
// failure, 2 usage error, 3 already-running (the single-instance guard
// tripped on "start"). Every other "couldn't reach the daemon" case is
// just a generic failure.
const (
	exitOK             = 0
	exitFailure        = 1
	exitUsage          = 2
	exitAlreadyRunning = 3
)
