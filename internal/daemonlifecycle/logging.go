package daemonlifecycle

import (
	"container/ring"
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// LogRecord is one structured log line, kept both in the in-memory ring
// buffer (for the "logs" control request) and optionally written to the
// on-disk log file.
type LogRecord struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// RingHandler is an slog.Handler that keeps the last N records in memory
// in addition to whatever it forwards to, so "hooksd logs" can answer
// without reading the log file back off disk.
type RingHandler struct {
	mu     sync.Mutex
	buf    *ring.Ring
	size   int
	attrs  []slog.Attr
	groups []string
	next   slog.Handler
}

// NewRingHandler wraps next (typically a slog.JSONHandler writing to the
// log file) with a bounded in-memory ring of size capacity records.
func NewRingHandler(capacity int, next slog.Handler) *RingHandler {
	return &RingHandler{buf: ring.New(capacity), size: capacity, next: next}
}

func (h *RingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.next != nil {
		return h.next.Enabled(ctx, level)
	}
	return true
}

func (h *RingHandler) Handle(ctx context.Context, record slog.Record) error {
	return h.handle(record)
}

func (h *RingHandler) handle(record slog.Record) error {
	fields := map[string]any{}
	record.Attrs(func(a slog.Attr) bool {
		fields[a.Key] = a.Value.Any()
		return true
	})
	for _, a := range h.attrs {
		fields[a.Key] = a.Value.Any()
	}

	h.mu.Lock()
	h.buf.Value = LogRecord{
		Time:    record.Time,
		Level:   record.Level.String(),
		Message: record.Message,
		Fields:  fields,
	}
	h.buf = h.buf.Next()
	h.mu.Unlock()

	if h.next != nil {
		return h.next.Handle(nil, record)
	}
	return nil
}

func (h *RingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	if h.next != nil {
		cp.next = h.next.WithAttrs(attrs)
	}
	return &cp
}

func (h *RingHandler) WithGroup(name string) slog.Handler {
	cp := *h
	cp.groups = append(append([]string{}, h.groups...), name)
	if h.next != nil {
		cp.next = h.next.WithGroup(name)
	}
	return &cp
}

// Recent returns up to n most recent records, oldest first.
func (h *RingHandler) Recent(n int) []LogRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []LogRecord
	h.buf.Do(func(v any) {
		if v == nil {
			return
		}
		out = append(out, v.(LogRecord))
	})
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// NewLogger builds the daemon's slog.Logger: JSON lines to logPath (best
// effort — a failure to open the file degrades to stderr only, never
// blocks startup) behind a ring buffer, leveled by levelName.
func NewLogger(logPath string, levelName string) (*slog.Logger, *RingHandler, error) {
	level := parseLevel(levelName)

	var sink io.Writer = os.Stderr
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err == nil {
			sink = f
		}
	}

	jsonHandler := slog.NewJSONHandler(sink, &slog.HandlerOptions{Level: level})
	ring := NewRingHandler(500, jsonHandler)
	return slog.New(ring), ring, nil
}

func parseLevel(name string) slog.Level {
	switch name {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
