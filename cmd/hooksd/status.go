package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/paths"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/procutil"
)

type statusReport struct {
	Running    bool   `json:"running"`
	PID        int    `json:"pid,omitempty"`
	SocketPath string `json:"socket_path"`
	ConfigPath string `json:"config_path"`
}

func runStatus(args []string) int {
	asJSON := false
	for _, a := range args {
		if a == "--json" {
			asJSON = true
		}
	}

	layout, err := paths.Resolve()
	if err != nil {
		fmt.Fprintln(os.Stderr, "hooksd status:", err)
		return exitFailure
	}

	report := statusReport{SocketPath: layout.SocketPath, ConfigPath: layout.ConfigPath}
	if pid, ok := readPIDFile(layout.PIDPath); ok && procutil.PIDAlive(pid) {
		report.Running = true
		report.PID = pid
	}

	if asJSON {
		b, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(b))
	} else if report.Running {
		fmt.Printf("hooksd running (pid %d), socket %s\n", report.PID, report.SocketPath)
	} else {
		fmt.Println("hooksd is not running")
	}

	if !report.Running {
		return exitFailure
	}
	return exitOK
}
