package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// sendControl dials the daemon's socket, sends one kind-tagged control
// request, and decodes the single JSON response — the same one
// request/response-per-connection framing a hook event uses.
func sendControl(socketPath string, kind string, extra map[string]any) (map[string]any, error) {
	conn, err := net.DialTimeout("unix", socketPath, 3*time.Second)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	req := map[string]any{"kind": kind}
	for k, v := range extra {
		req[k] = v
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	_ = conn.SetDeadline(time.Now().Add(3 * time.Second))
	if _, err := conn.Write(append(body, '\n')); err != nil {
		return nil, err
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return nil, err
	}

	var resp map[string]any
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("decoding control response: %w", err)
	}
	if errMsg, ok := resp["error"].(string); ok {
		return nil, fmt.Errorf("daemon: %s", errMsg)
	}
	return resp, nil
}
