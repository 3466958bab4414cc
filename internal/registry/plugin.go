package registry

import (
	"fmt"
	"path/filepath"
	"plugin"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/config"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/handler"
)

// FilePluginLoader is the production PluginLoader: it discovers project
// handler plugins under a directory tree and loads config-declared
// plugins, both via Go's native plugin.Open — the one extension point
// this daemon offers, deliberately narrower than a reflection-based
// package scanner.
type FilePluginLoader struct {
	// ProjectGlob is the pattern project handler .so files must match,
	// relative to the project handlers directory.
	ProjectGlob string
}

// NewFilePluginLoader returns a loader that looks for "*.so" files.
func NewFilePluginLoader() *FilePluginLoader {
	return &FilePluginLoader{ProjectGlob: "**/*.so"}
}

// DiscoverProjectHandlers walks root looking for compiled plugin files
// matching ProjectGlob and loads each one's exported Handlers slice.
func (l *FilePluginLoader) DiscoverProjectHandlers(root string) ([]handler.Handler, error) {
	pattern := filepath.Join(root, l.ProjectGlob)
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid project handler glob %q: %w", pattern, err)
	}

	var out []handler.Handler
	for _, path := range matches {
		handlers, err := loadPluginFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading project handler %s: %w", path, err)
		}
		out = append(out, handlers...)
	}
	return out, nil
}

// LoadDeclared loads the plugin files the config explicitly names,
// filtering out handler IDs the descriptor didn't opt into when a
// Handlers allowlist is present.
func (l *FilePluginLoader) LoadDeclared(plugins []config.PluginDescriptor) ([]handler.Handler, error) {
	var out []handler.Handler
	for _, p := range plugins {
		if !p.Enabled {
			continue
		}
		handlers, err := loadPluginFile(p.Path)
		if err != nil {
			return nil, fmt.Errorf("loading plugin %s: %w", p.Path, err)
		}
		out = append(out, filterByAllowlist(handlers, p.Handlers)...)
	}
	return out, nil
}

func filterByAllowlist(handlers []handler.Handler, allow []string) []handler.Handler {
	if len(allow) == 0 {
		return handlers
	}
	set := make(map[string]struct{}, len(allow))
	for _, id := range allow {
		set[id] = struct{}{}
	}
	var out []handler.Handler
	for _, h := range handlers {
		if _, ok := set[h.ID()]; ok {
			out = append(out, h)
		}
	}
	return out
}

// loadPluginFile opens a compiled Go plugin and reads its exported
// "Handlers" symbol, which must be a []handler.Handler.
func loadPluginFile(path string) ([]handler.Handler, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("plugin.Open: %w", err)
	}
	sym, err := p.Lookup("Handlers")
	if err != nil {
		return nil, fmt.Errorf("missing exported Handlers symbol: %w", err)
	}
	handlers, ok := sym.(*[]handler.Handler)
	if !ok {
		return nil, fmt.Errorf("exported Handlers has unexpected type %T, want *[]handler.Handler", sym)
	}
	return *handlers, nil
}
