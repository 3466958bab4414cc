// Package config loads and validates the daemon's on-disk configuration
// into an immutable Config tree.
package config

// HandlerOptions is a single handler's entry under handlers.<event>.<id>.
type HandlerOptions struct {
	Enabled  *bool          `yaml:"enabled,omitempty"`
	Priority *int           `yaml:"priority,omitempty"`
	Opts     map[string]any `yaml:",inline"`
}

// IsEnabled reports the effective enabled flag, defaulting to true when
// the config doesn't name this handler at all.
func (h HandlerOptions) IsEnabled() bool {
	if h.Enabled == nil {
		return true
	}
	return *h.Enabled
}

// DaemonConfig holds the daemon.* top-level section.
type DaemonConfig struct {
	IdleTimeoutSeconds        int      `yaml:"idle_timeout_seconds"`
	LogLevel                  string   `yaml:"log_level"`
	SelfInstallMode           bool     `yaml:"self_install_mode"`
	EnforceSingleDaemonProcess bool    `yaml:"enforce_single_daemon_process"`
	ProjectLanguages          []string `yaml:"project_languages,omitempty"`
}

// PluginDescriptor is one entry in the plugins list.
type PluginDescriptor struct {
	Path      string   `yaml:"path"`
	EventType string   `yaml:"event_type"`
	Handlers  []string `yaml:"handlers,omitempty"`
	Enabled   bool     `yaml:"enabled"`
}

// ProjectHandlersConfig controls discovery of the project's own plugin tree.
type ProjectHandlersConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Config is the fully validated, immutable configuration tree. Once
// returned from Load, nothing in the daemon mutates it; a reload produces
// a brand new Config and a brand new registry.Registry.
type Config struct {
	Daemon           DaemonConfig                            `yaml:"daemon"`
	Handlers         map[string]map[string]HandlerOptions     `yaml:"handlers"`
	Plugins          []PluginDescriptor                       `yaml:"plugins,omitempty"`
	ProjectHandlers  ProjectHandlersConfig                     `yaml:"project_handlers,omitempty"`
	EnableTags       []string                                  `yaml:"enable_tags,omitempty"`
	DisableTags      []string                                  `yaml:"disable_tags,omitempty"`

	// UnknownTopLevelKeys is populated by Load for keys outside the schema
	// above; these are reported as a warning, never an error.
	UnknownTopLevelKeys []string `yaml:"-"`
}

// Default returns the minimal config the validator accepts when no config
// file is present on disk.
func Default() *Config {
	return &Config{
		Daemon: DaemonConfig{
			IdleTimeoutSeconds: 600,
			LogLevel:           "INFO",
		},
		Handlers: map[string]map[string]HandlerOptions{},
	}
}

// EnabledForTags reports whether a handler with the given tags survives
// the enable_tags/disable_tags filter. Applied independently of the
// per-handler enabled flag; the registry combines both in one filter step.
func (c *Config) EnabledForTags(tags []string) bool {
	if len(c.EnableTags) > 0 && !intersects(tags, c.EnableTags) {
		return false
	}
	if intersects(tags, c.DisableTags) {
		return false
	}
	return true
}

func intersects(a, b []string) bool {
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[s] = struct{}{}
	}
	for _, s := range a {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}
