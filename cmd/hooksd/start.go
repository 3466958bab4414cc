package main

import (
	"fmt"
	"os"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/config"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/daemonlifecycle"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/forwarder"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/paths"
)

func runStart(args []string) int {
	foreground := false
	for _, a := range args {
		if a == "--foreground" {
			foreground = true
		}
	}

	layout, err := paths.Resolve()
	if err != nil {
		fmt.Fprintln(os.Stderr, "hooksd start:", err)
		return exitFailure
	}

	if !foreground {
		exe, err := os.Executable()
		if err != nil {
			fmt.Fprintln(os.Stderr, "hooksd start:", err)
			return exitFailure
		}
		if err := forwarder.LaunchDetached(exe, "start", "--foreground"); err != nil {
			fmt.Fprintln(os.Stderr, "hooksd start:", err)
			return exitFailure
		}
		fmt.Println("hooksd starting in background")
		return exitOK
	}

	// A best-effort peek at daemon.enforce_single_daemon_process, ahead of
	// the full config load inside newDaemon: the PID guard needs the flag
	// before the daemon itself exists. A bad or missing config here just
	// falls back to the PID-file-only check; newDaemon's own load is what
	// actually reports config errors.
	enforceSingle := false
	if cfg, err := config.Load(layout.ConfigPath); err == nil {
		enforceSingle = cfg.Daemon.EnforceSingleDaemonProcess
	}

	if err := daemonlifecycle.AcquireOrReplace(layout.PIDPath, enforceSingle); err != nil {
		if already, ok := err.(daemonlifecycle.ErrAlreadyRunning); ok {
			fmt.Fprintf(os.Stderr, "hooksd start: %s\n", already.Error())
			return exitAlreadyRunning
		}
		fmt.Fprintln(os.Stderr, "hooksd start:", err)
		return exitFailure
	}
	defer daemonlifecycle.Release(layout.PIDPath)

	d, err := newDaemon(layout)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hooksd start:", err)
		return exitFailure
	}

	if err := d.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "hooksd start:", err)
		return exitFailure
	}
	return exitOK
}
