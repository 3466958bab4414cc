// Package registry builds the ordered set of handlers the dispatch
// pipeline walks for each event type: built-ins, project-discovered
// plugins, and config-declared plugins, filtered and sorted the same way
// regardless of where a handler came from.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/config"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/handler"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/hookevent"
)

// Registry holds, per event type, the ordered chain of enabled handlers.
type Registry struct {
	mu          sync.RWMutex
	byEvent     map[hookevent.EventType][]handler.Registration
	all         []handler.Registration
	fingerprint string
}

// Builder assembles a Registry from a builtin set plus whatever plugins
// discovery and config loading turn up, then applies config filtering.
type Builder struct {
	builtins []handler.Handler
	loader   PluginLoader
}

// PluginLoader abstracts plugin discovery/loading so the registry package
// doesn't import plugin.Open directly in code exercised by tests; the
// production implementation lives in plugin.go.
type PluginLoader interface {
	DiscoverProjectHandlers(root string) ([]handler.Handler, error)
	LoadDeclared(plugins []config.PluginDescriptor) ([]handler.Handler, error)
}

// NewBuilder constructs a Builder over the given built-in handlers and
// plugin loader.
func NewBuilder(builtins []handler.Handler, loader PluginLoader) *Builder {
	return &Builder{builtins: builtins, loader: loader}
}

// Build assembles a new Registry from cfg. Order of assembly is: built-ins
// first (in registration order), then project-discovered handlers, then
// config-declared plugins — all three then sorted together by priority
// with ties broken by this assembly order, so built-ins of equal priority
// always run before plugins at the same priority.
func (b *Builder) Build(cfg *config.Config, projectRoot string) (*Registry, error) {
	var order int
	var regs []handler.Registration

	for _, h := range b.builtins {
		order++
		regs = append(regs, b.register(h, handler.OriginBuiltin, "", order, cfg))
	}

	if cfg.ProjectHandlers.Enabled {
		discovered, err := b.loader.DiscoverProjectHandlers(projectRoot)
		if err != nil {
			return nil, fmt.Errorf("discovering project handlers: %w", err)
		}
		for _, h := range discovered {
			order++
			regs = append(regs, b.register(h, handler.OriginPlugin, projectRoot, order, cfg))
		}
	}

	if len(cfg.Plugins) > 0 {
		declared, err := b.loader.LoadDeclared(cfg.Plugins)
		if err != nil {
			return nil, fmt.Errorf("loading declared plugins: %w", err)
		}
		for _, h := range declared {
			order++
			regs = append(regs, b.register(h, handler.OriginPlugin, "", order, cfg))
		}
	}

	sort.SliceStable(regs, func(i, j int) bool {
		if regs[i].ResolvedPriority != regs[j].ResolvedPriority {
			return regs[i].ResolvedPriority < regs[j].ResolvedPriority
		}
		return regs[i].RegistrationOrder < regs[j].RegistrationOrder
	})

	if err := checkUnknownHandlers(cfg, regs); err != nil {
		return nil, err
	}

	byEvent := map[hookevent.EventType][]handler.Registration{}
	for _, r := range regs {
		if !r.Enabled {
			continue
		}
		et := r.Handler.EventType()
		byEvent[et] = append(byEvent[et], r)
	}

	fp, err := Fingerprint(regs)
	if err != nil {
		return nil, fmt.Errorf("computing registry fingerprint: %w", err)
	}

	return &Registry{byEvent: byEvent, all: regs, fingerprint: fp}, nil
}

func (b *Builder) register(h handler.Handler, origin handler.Origin, sourcePath string, order int, cfg *config.Config) handler.Registration {
	priority := h.Priority()
	enabled := true

	if byID, ok := cfg.Handlers[string(h.EventType())]; ok {
		if opts, ok := byID[h.ID()]; ok {
			if opts.Priority != nil {
				priority = *opts.Priority
			}
			enabled = opts.IsEnabled()
		}
	}
	if enabled {
		enabled = cfg.EnabledForTags(h.Tags())
	}

	return handler.Registration{
		Handler:           h,
		Enabled:           enabled,
		ResolvedPriority:  priority,
		Origin:            origin,
		SourcePath:        sourcePath,
		RegistrationOrder: order,
	}
}

// checkUnknownHandlers verifies that every handlers.<event>.<id> entry in
// cfg names a handler this build actually registered for that event type;
// a config entry for a handler that doesn't exist is almost always a typo
// in the id, so it's reported rather than silently ignored.
func checkUnknownHandlers(cfg *config.Config, regs []handler.Registration) error {
	known := make(map[string]map[string]struct{}, len(cfg.Handlers))
	for _, r := range regs {
		et := string(r.Handler.EventType())
		if known[et] == nil {
			known[et] = map[string]struct{}{}
		}
		known[et][r.Handler.ID()] = struct{}{}
	}
	for event, byID := range cfg.Handlers {
		for id := range byID {
			if _, ok := known[event][id]; !ok {
				return fmt.Errorf("unknown handler: handlers.%s.%s does not match any registered handler", event, id)
			}
		}
	}
	return nil
}

// Chain returns the ordered, enabled handlers for an event type. The
// returned slice is a snapshot; callers must not mutate it.
func (r *Registry) Chain(et hookevent.EventType) []handler.Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byEvent[et]
}

// All returns every registration, enabled or not, for introspection
// (status/health reporting and the playbook harness).
func (r *Registry) All() []handler.Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]handler.Registration, len(r.all))
	copy(out, r.all)
	return out
}

// Fingerprint returns the config fingerprint this registry was built
// with, used to detect whether a reload actually changed anything.
func (r *Registry) Fingerprint() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fingerprint
}
