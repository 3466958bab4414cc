package ipc

import (
	"bufio"
	"context"
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"
)

func newTestServer(t *testing.T, handle Handler) (*Server, string) {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "test.sock")
	s := &Server{SocketPath: socketPath, Handle: handle, RequestTimeout: time.Second, Workers: 2, QueueDepth: 1}
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go s.Serve(ctx)
	t.Cleanup(func() {
		cancel()
		s.Close()
	})
	return s, socketPath
}

func roundTrip(t *testing.T, socketPath string, request string) string {
	t.Helper()
	conn, err := net.DialTimeout("unix", socketPath, time.Second)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(2 * time.Second))

	if _, err := conn.Write([]byte(request + "\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	return line
}

func TestServer_RoundTripsOneRequestPerConnection(t *testing.T) {
	_, socketPath := newTestServer(t, func(ctx context.Context, request []byte) ([]byte, error) {
		return []byte(`{"decision":"allow"}`), nil
	})

	got := roundTrip(t, socketPath, `{"hook_event_name":"Notification"}`)
	if got != "{\"decision\":\"allow\"}\n" {
		t.Fatalf("got %q", got)
	}
}

func TestServer_HandlerError_ReturnsErrorEnvelope(t *testing.T) {
	_, socketPath := newTestServer(t, func(ctx context.Context, request []byte) ([]byte, error) {
		return nil, errors.New("boom")
	})

	got := roundTrip(t, socketPath, `{}`)
	if got != "{\"error\":\"boom\"}\n" {
		t.Fatalf("got %q", got)
	}
}

func TestServer_Backpressure_RejectsBeyondCapacity(t *testing.T) {
	release := make(chan struct{})
	_, socketPath := newTestServer(t, func(ctx context.Context, request []byte) ([]byte, error) {
		<-release
		return []byte(`{}`), nil
	})
	defer close(release)

	// Workers(2) + QueueDepth(1) = 3 in-flight slots.
	conns := make([]net.Conn, 0, 4)
	for i := 0; i < 3; i++ {
		conn, err := net.DialTimeout("unix", socketPath, time.Second)
		if err != nil {
			t.Fatalf("Dial: %v", err)
		}
		_, _ = conn.Write([]byte("{}\n"))
		conns = append(conns, conn)
	}
	defer func() {
		for _, c := range conns {
			c.Close()
		}
	}()

	time.Sleep(100 * time.Millisecond)

	rejected, err := net.DialTimeout("unix", socketPath, time.Second)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer rejected.Close()
	_, _ = rejected.Write([]byte("{}\n"))
	_ = rejected.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	buf := make([]byte, 16)
	n, err := rejected.Read(buf)
	if err == nil && n > 0 {
		t.Fatalf("expected the 4th connection to be rejected (closed with no response), got %q", buf[:n])
	}
}
