package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/hookevent"
)

// rawConfig mirrors Config's shape for strict decoding, plus an inline
// catch-all so Load can report unknown top-level keys as a warning
// instead of a hard failure.
type rawConfig struct {
	Daemon          DaemonConfig                        `yaml:"daemon"`
	Handlers        map[string]map[string]HandlerOptions `yaml:"handlers"`
	Plugins         []PluginDescriptor                   `yaml:"plugins"`
	ProjectHandlers ProjectHandlersConfig                 `yaml:"project_handlers"`
	EnableTags      []string                              `yaml:"enable_tags"`
	DisableTags     []string                              `yaml:"disable_tags"`
	Extra           map[string]any                        `yaml:",inline"`
}

var knownTopLevelKeys = map[string]struct{}{
	"daemon": {}, "handlers": {}, "plugins": {}, "project_handlers": {},
	"enable_tags": {}, "disable_tags": {},
}

// Load reads and validates the config file at path. A missing file is not
// an error: Load returns Default(). A malformed file (bad YAML, a field
// outside its declared type, an out-of-range priority) is an error that
// the caller turns into degraded mode rather than a failed start.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(b)
}

// Parse decodes and validates raw YAML bytes into a Config.
func Parse(b []byte) (*Config, error) {
	var raw rawConfig
	if err := decodeYAMLStrict(b, &raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg := &Config{
		Daemon:          raw.Daemon,
		Handlers:        raw.Handlers,
		Plugins:         raw.Plugins,
		ProjectHandlers: raw.ProjectHandlers,
		EnableTags:      raw.EnableTags,
		DisableTags:     raw.DisableTags,
	}
	cfg.UnknownTopLevelKeys = unknownKeys(b)
	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeYAMLStrict(b []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	var trailing any
	if err := dec.Decode(&trailing); err != io.EOF {
		if err == nil {
			return fmt.Errorf("multiple YAML documents are not allowed")
		}
		return err
	}
	return nil
}

// unknownKeys does a permissive, non-strict decode to find top-level keys
// the strict pass above would have rejected had it not already succeeded;
// used only to surface a warning, never to fail config loading.
func unknownKeys(b []byte) []string {
	var loose map[string]any
	if err := yaml.Unmarshal(b, &loose); err != nil {
		return nil
	}
	var unknown []string
	for k := range loose {
		if _, ok := knownTopLevelKeys[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	return unknown
}

func applyDefaults(cfg *Config) {
	if cfg.Daemon.IdleTimeoutSeconds == 0 {
		cfg.Daemon.IdleTimeoutSeconds = 600
	}
	if cfg.Daemon.LogLevel == "" {
		cfg.Daemon.LogLevel = "INFO"
	}
	if cfg.Handlers == nil {
		cfg.Handlers = map[string]map[string]HandlerOptions{}
	}
	if cfg.ProjectHandlers.Path == "" {
		cfg.ProjectHandlers.Path = ".claude/hooks"
	}
}

func validate(cfg *Config) error {
	switch cfg.Daemon.LogLevel {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("daemon.log_level %q is not one of DEBUG, INFO, WARN, ERROR", cfg.Daemon.LogLevel)
	}
	if cfg.Daemon.IdleTimeoutSeconds < 0 {
		return fmt.Errorf("daemon.idle_timeout_seconds must be >= 0")
	}
	for event, byID := range cfg.Handlers {
		if !hookevent.Valid(hookevent.EventType(event)) {
			return fmt.Errorf("handlers.%s is not a known event type", event)
		}
		for id, opts := range byID {
			if opts.Priority != nil {
				if *opts.Priority < 5 || *opts.Priority > 60 {
					return fmt.Errorf("handlers.%s.%s.priority %d out of range [5, 60]", event, id, *opts.Priority)
				}
			}
		}
	}
	for i, p := range cfg.Plugins {
		if p.Path == "" {
			return fmt.Errorf("plugins[%d].path is required", i)
		}
		if p.EventType == "" {
			return fmt.Errorf("plugins[%d].event_type is required", i)
		}
		if !hookevent.Valid(hookevent.EventType(p.EventType)) {
			return fmt.Errorf("plugins[%d].event_type %q is not a known event type", i, p.EventType)
		}
	}
	return nil
}
