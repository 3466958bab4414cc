package daemonlifecycle

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func recordWithMessage(msg string) slog.Record {
	return slog.NewRecord(time.Now(), slog.LevelInfo, msg, 0)
}

func TestNewLogger_WritesAndRingBuffersRecords(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "hooksd.log")
	logger, ring, err := NewLogger(logPath, "INFO")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	logger.Info("hello", "handler_id", "block-dangerous-bash")

	recent := ring.Recent(10)
	if len(recent) != 1 {
		t.Fatalf("expected 1 ring record, got %d", len(recent))
	}
	if recent[0].Message != "hello" {
		t.Fatalf("Message = %q", recent[0].Message)
	}
	if recent[0].Fields["handler_id"] != "block-dangerous-bash" {
		t.Fatalf("Fields = %#v", recent[0].Fields)
	}
}

func TestRingHandler_Recent_BoundedByCapacity(t *testing.T) {
	h := NewRingHandler(3, nil)
	for i := 0; i < 5; i++ {
		_ = h.handle(recordWithMessage(string(rune('a' + i))))
	}
	recent := h.Recent(10)
	if len(recent) != 3 {
		t.Fatalf("expected ring capped at 3, got %d", len(recent))
	}
	if recent[0].Message != "c" || recent[2].Message != "e" {
		t.Fatalf("expected oldest-first window [c,d,e], got %v", messagesOf(recent))
	}
}

func TestNewLogger_BadLogPath_FallsBackToStderrWithoutError(t *testing.T) {
	_, _, err := NewLogger("/nonexistent-dir/does/not/exist.log", "INFO")
	if err != nil {
		t.Fatalf("expected NewLogger to degrade gracefully, got error: %v", err)
	}
}

func messagesOf(records []LogRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Message
	}
	return out
}
