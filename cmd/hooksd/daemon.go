package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/config"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/daemonlifecycle"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/dispatch"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/handler/builtin"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/hookevent"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/ipc"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/paths"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/registry"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/response"
)

// daemon wires together every long-lived component the process owns:
// config, registry, dispatch, response formatting, the IPC server, and
// the idle/PID-guard lifecycle machinery.
type daemon struct {
	layout    *paths.Layout
	startedAt time.Time

	// mu guards cfg/reg/degraded/lastConfigError, swapped wholesale on a
	// reload; every IPC request reads a consistent snapshot of all four.
	mu              sync.RWMutex
	cfg             *config.Config
	degraded        bool
	lastConfigError string
	reg             *registry.Registry

	formatter *response.Formatter
	logger    *slog.Logger
	ring      *daemonlifecycle.RingHandler
	idle      *daemonlifecycle.IdleMonitor
	server    *ipc.Server

	stopOnce sync.Once
	stopCh   chan struct{}
}

func newDaemon(layout *paths.Layout) (*daemon, error) {
	d := &daemon{layout: layout, startedAt: time.Now(), stopCh: make(chan struct{})}

	cfg, cfgErr := config.Load(layout.ConfigPath)
	if cfgErr != nil {
		d.cfg = config.Default()
		d.degraded = true
		d.lastConfigError = cfgErr.Error()
	} else {
		d.cfg = cfg
	}

	logger, ring, err := daemonlifecycle.NewLogger(layout.LogPath, d.cfg.Daemon.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	d.logger = logger
	d.ring = ring
	if cfgErr != nil {
		logger.Warn("starting in degraded mode: config failed to load", "error", cfgErr)
	}
	for _, key := range d.cfg.UnknownTopLevelKeys {
		logger.Warn("unknown top-level config key", "key", key)
	}

	formatter, err := response.NewFormatter()
	if err != nil {
		return nil, fmt.Errorf("compiling response schemas: %w", err)
	}
	formatter.Logger = logger
	d.formatter = formatter

	builder := registry.NewBuilder(builtin.All(d.cfg.Daemon.ProjectLanguages), registry.NewFilePluginLoader())
	reg, err := builder.Build(d.cfg, layout.ProjectRoot)
	if err != nil {
		logger.Warn("building registry, continuing in degraded mode", "error", err)
		d.degraded = true
		d.lastConfigError = err.Error()
		reg, err = builder.Build(config.Default(), layout.ProjectRoot)
		if err != nil {
			return nil, fmt.Errorf("building fallback registry: %w", err)
		}
	}
	d.reg = reg

	d.idle = daemonlifecycle.NewIdleMonitor(time.Duration(d.cfg.Daemon.IdleTimeoutSeconds) * time.Second)

	d.server = &ipc.Server{
		SocketPath: layout.SocketPath,
		Logger:     logger,
		Handle:     d.handle,
	}
	d.server.OnActivity(d.idle.Touch)
	return d, nil
}

// handle routes one decoded wire request by its "kind": an absent or
// "event" kind is a hook dispatch request; the remaining kinds are the
// control surface CLI subcommands speak over the same socket.
func (d *daemon) handle(ctx context.Context, raw []byte) ([]byte, error) {
	var envelope struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}

	switch envelope.Kind {
	case "", "event":
		return d.handleEvent(raw)
	case "status", "health":
		return d.handleHealth()
	case "logs":
		return d.handleLogs(raw)
	case "reload":
		d.reload()
		return json.Marshal(map[string]any{"ok": true})
	case "stop":
		d.requestStop()
		return json.Marshal(map[string]any{"ok": true, "stopping": true})
	default:
		return nil, fmt.Errorf("unknown request kind %q", envelope.Kind)
	}
}

// handleEvent decodes one hook-event request, runs it through dispatch,
// and renders the typed response.
func (d *daemon) handleEvent(raw []byte) ([]byte, error) {
	var wire struct {
		EventType  string `json:"hook_event_name"`
		SessionID  string `json:"session_id"`
		Transcript string `json:"transcript_path"`
		CWD        string `json:"cwd"`
	}
	var full map[string]any
	if err := json.Unmarshal(raw, &full); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}

	et := hookevent.EventType(wire.EventType)
	if !hookevent.Valid(et) {
		return nil, fmt.Errorf("unknown event type %q", wire.EventType)
	}

	event := hookevent.HookEvent{
		EventType: et,
		Payload:   full,
		Common: hookevent.Common{
			SessionID:      wire.SessionID,
			TranscriptPath: wire.Transcript,
			CWD:            wire.CWD,
		},
	}

	d.mu.RLock()
	reg := d.reg
	d.mu.RUnlock()

	chain := dispatch.Chain(reg.Chain(et))
	outcome := dispatch.Run(chain, event, d.logger)

	body, err := d.formatter.Render(et, outcome)
	if err != nil {
		return nil, err
	}
	return json.Marshal(body)
}

// handleHealth answers both the "status" and "health" control kinds with
// the JSON the health CLI subcommand documents: running is always true
// here (a daemon that can answer is, tautologically, running).
func (d *daemon) handleHealth() ([]byte, error) {
	d.mu.RLock()
	degraded := d.degraded
	reg := d.reg
	lastErr := d.lastConfigError
	d.mu.RUnlock()

	counts := map[string]int{}
	for _, et := range hookevent.All() {
		if n := len(reg.Chain(et)); n > 0 {
			counts[string(et)] = n
		}
	}

	var configErrors []string
	if degraded && lastErr != "" {
		configErrors = []string{lastErr}
	}

	return json.Marshal(map[string]any{
		"running":                true,
		"degraded":               degraded,
		"config_errors":          configErrors,
		"handler_count_by_event": counts,
		"uptime_seconds":         int(time.Since(d.startedAt).Seconds()),
	})
}

// handleLogs answers the "logs" control kind from the in-memory ring
// buffer — never the on-disk file, which may be rotated or absent.
func (d *daemon) handleLogs(raw []byte) ([]byte, error) {
	var req struct {
		Lines int `json:"lines"`
	}
	_ = json.Unmarshal(raw, &req)
	return json.Marshal(map[string]any{"records": d.ring.Recent(req.Lines)})
}

// requestStop triggers the same shutdown path a SIGTERM does; safe to
// call more than once (e.g. a racing signal and IPC stop request).
func (d *daemon) requestStop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
}

// Run starts the IPC server and blocks until the idle monitor fires or a
// shutdown signal is received.
func (d *daemon) Run() error {
	if err := d.server.Listen(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	serveErr := make(chan error, 1)
	go func() { serveErr <- d.server.Serve(ctx) }()

	go func() {
		if d.idle.Run() {
			d.logger.Info("idle timeout reached, shutting down")
			cancel()
		}
	}()

	for {
		select {
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				d.reload()
				continue
			}
			d.logger.Info("received signal, shutting down", "signal", sig.String())
		case <-d.stopCh:
			d.logger.Info("received stop control request, shutting down")
		case <-ctx.Done():
		case err := <-serveErr:
			d.idle.Stop()
			return err
		}
		break
	}

	cancel()
	d.idle.Stop()
	d.server.Close()
	return nil
}

// reload re-reads config and rebuilds the registry in place, swapping it
// under the same lock the IPC handler reads through. A config or registry
// build failure is logged, leaves the previous registry serving, and
// switches the degraded flag on.
func (d *daemon) reload() {
	cfg, err := config.Load(d.layout.ConfigPath)
	if err != nil {
		d.logger.Warn("reload: config failed to load, keeping previous config", "error", err)
		d.mu.Lock()
		d.degraded = true
		d.lastConfigError = err.Error()
		d.mu.Unlock()
		return
	}

	builder := registry.NewBuilder(builtin.All(cfg.Daemon.ProjectLanguages), registry.NewFilePluginLoader())
	reg, err := builder.Build(cfg, d.layout.ProjectRoot)
	if err != nil {
		d.logger.Warn("reload: building registry failed, keeping previous registry", "error", err)
		d.mu.Lock()
		d.degraded = true
		d.lastConfigError = err.Error()
		d.mu.Unlock()
		return
	}

	d.mu.Lock()
	previousFingerprint := d.reg.Fingerprint()
	d.cfg = cfg
	d.reg = reg
	d.degraded = false
	d.lastConfigError = ""
	d.mu.Unlock()

	if reg.Fingerprint() == previousFingerprint {
		d.logger.Info("reload: config unchanged, fingerprint matches")
		return
	}
	d.logger.Info("reload: registry rebuilt", "fingerprint", reg.Fingerprint())
}
