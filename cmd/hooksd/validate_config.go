package main

import (
	"fmt"
	"os"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/config"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/handler/builtin"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/paths"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/registry"
)

func runValidateConfig(args []string) int {
	configPath := ""
	for i := 0; i < len(args); i++ {
		if args[i] == "--config" && i+1 < len(args) {
			configPath = args[i+1]
			i++
		}
	}

	layout, err := paths.Resolve()
	if err != nil {
		fmt.Fprintln(os.Stderr, "hooksd validate-config:", err)
		return exitFailure
	}
	if configPath == "" {
		configPath = layout.ConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hooksd validate-config: invalid config:", err)
		return exitFailure
	}
	for _, key := range cfg.UnknownTopLevelKeys {
		fmt.Fprintf(os.Stderr, "hooksd validate-config: warning: unknown top-level key %q\n", key)
	}

	builder := registry.NewBuilder(builtin.All(cfg.Daemon.ProjectLanguages), registry.NewFilePluginLoader())
	if _, err := builder.Build(cfg, layout.ProjectRoot); err != nil {
		fmt.Fprintln(os.Stderr, "hooksd validate-config: building registry failed:", err)
		return exitFailure
	}

	fmt.Println("config is valid:", configPath)
	return exitOK
}
