// Package forwarder implements the tiny binary the host tool actually
// invokes per hook event: read a request on stdin, relay it to the
// daemon over its Unix socket, and print whatever the daemon answers
// (or {} on any failure, so the host is never blocked by daemon trouble).
package forwarder

import (
	"bufio"
	"io"
	"net"
	"os/exec"
	"time"
)

// EmptyResponse is printed whenever the forwarder cannot get a real
// answer from the daemon; an empty object means "no opinion" to every
// event type's consumer.
const EmptyResponse = "{}"

// Options configures one forward attempt.
type Options struct {
	SocketPath string
	Timeout    time.Duration

	// LaunchDaemon is invoked once if the socket is unreachable, giving
	// the caller a chance to lazily start the daemon before retrying.
	LaunchDaemon func() error
}

// Forward reads one request from in, relays it to the daemon, and writes
// the daemon's response (or EmptyResponse on failure) to out. It never
// returns an error: any failure is represented in the output stream so
// the host always gets a well-formed reply.
func Forward(in io.Reader, out io.Writer, opts Options) {
	request, err := io.ReadAll(in)
	if err != nil {
		writeEmpty(out)
		return
	}

	resp, err := attempt(request, opts)
	if err != nil && opts.LaunchDaemon != nil {
		if launchErr := opts.LaunchDaemon(); launchErr == nil {
			resp, err = attempt(request, opts)
		}
	}
	if err != nil {
		writeEmpty(out)
		return
	}
	_, _ = out.Write(resp)
}

func attempt(request []byte, opts Options) ([]byte, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	conn, err := net.DialTimeout("unix", opts.SocketPath, timeout)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(timeout))
	if !hasTrailingNewline(request) {
		request = append(request, '\n')
	}
	if _, err := conn.Write(request); err != nil {
		return nil, err
	}

	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return nil, err
	}
	return line, nil
}

func hasTrailingNewline(b []byte) bool {
	return len(b) > 0 && b[len(b)-1] == '\n'
}

func writeEmpty(out io.Writer) {
	_, _ = out.Write([]byte(EmptyResponse))
}

// LaunchDetached starts the daemon binary as a background process,
// detached from the forwarder's own lifetime, and returns immediately
// without waiting for it to finish starting up. Forward retries once,
// right after the launch returns; a daemon that has not bound its socket
// by then leaves that invocation answering EmptyResponse.
func LaunchDetached(daemonPath string, args ...string) error {
	cmd := exec.Command(daemonPath, args...)
	return cmd.Start()
}
