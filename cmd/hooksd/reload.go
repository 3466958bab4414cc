package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/paths"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/procutil"
)

func runReload(args []string) int {
	layout, err := paths.Resolve()
	if err != nil {
		fmt.Fprintln(os.Stderr, "hooksd reload:", err)
		return exitFailure
	}

	pid, ok := readPIDFile(layout.PIDPath)
	if !ok || !procutil.PIDAlive(pid) {
		fmt.Fprintln(os.Stderr, "hooksd reload: daemon is not running")
		return exitFailure
	}

	if err := syscall.Kill(pid, syscall.SIGHUP); err != nil {
		fmt.Fprintln(os.Stderr, "hooksd reload:", err)
		return exitFailure
	}

	fmt.Println("hooksd reload signal sent")
	return exitOK
}
