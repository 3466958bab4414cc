package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/paths"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/procutil"
)

func runStop(args []string) int {
	layout, err := paths.Resolve()
	if err != nil {
		fmt.Fprintln(os.Stderr, "hooksd stop:", err)
		return exitFailure
	}

	pid, ok := readPIDFile(layout.PIDPath)
	if !ok {
		fmt.Println("hooksd is not running")
		return exitOK
	}
	if !procutil.PIDAlive(pid) {
		_ = os.Remove(layout.PIDPath)
		fmt.Println("hooksd is not running (stale pid file removed)")
		return exitOK
	}

	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
		fmt.Fprintln(os.Stderr, "hooksd stop:", err)
		return exitFailure
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if !procutil.PIDAlive(pid) {
			fmt.Println("hooksd stopped")
			return exitOK
		}
		time.Sleep(100 * time.Millisecond)
	}

	fmt.Fprintln(os.Stderr, "hooksd stop: daemon did not exit within 5s")
	return exitFailure
}

func readPIDFile(path string) (int, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}
