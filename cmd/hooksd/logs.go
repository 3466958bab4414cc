package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/paths"
)

// runLogs queries the daemon's in-memory ring buffer over a "logs"
// control request; --follow re-polls and prints only newly seen records,
// since the wire protocol has no persistent-connection streaming mode.
func runLogs(args []string) int {
	follow := false
	lines := 50
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--follow":
			follow = true
		case "--lines":
			if i+1 < len(args) {
				if n, err := strconv.Atoi(args[i+1]); err == nil {
					lines = n
				}
				i++
			}
		}
	}

	layout, err := paths.Resolve()
	if err != nil {
		fmt.Fprintln(os.Stderr, "hooksd logs:", err)
		return exitFailure
	}

	last := ""
	for {
		resp, err := sendControl(layout.SocketPath, "logs", map[string]any{"lines": lines})
		if err != nil {
			fmt.Fprintln(os.Stderr, "hooksd logs:", err)
			return exitFailure
		}
		records, _ := resp["records"].([]any)
		start := 0
		for i := len(records) - 1; i >= 0 && last != ""; i-- {
			if b, _ := json.Marshal(records[i]); string(b) == last {
				start = i + 1
				break
			}
		}
		for _, r := range records[start:] {
			printLogRecord(r)
		}
		if len(records) > 0 {
			b, _ := json.Marshal(records[len(records)-1])
			last = string(b)
		}

		if !follow {
			return exitOK
		}
		time.Sleep(2 * time.Second)
	}
}

func printLogRecord(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Println(string(b))
}
