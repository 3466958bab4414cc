package main

import (
	"fmt"
	"os"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/config"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/handler/builtin"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/paths"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/playbook"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/registry"
)

func runGeneratePlaybook(args []string) int {
	out := ""
	for i := 0; i < len(args); i++ {
		if args[i] == "--out" && i+1 < len(args) {
			out = args[i+1]
			i++
		}
	}

	layout, err := paths.Resolve()
	if err != nil {
		fmt.Fprintln(os.Stderr, "hooksd generate-playbook:", err)
		return exitFailure
	}

	cfg, err := config.Load(layout.ConfigPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hooksd generate-playbook:", err)
		return exitFailure
	}

	builder := registry.NewBuilder(builtin.All(cfg.Daemon.ProjectLanguages), registry.NewFilePluginLoader())
	reg, err := builder.Build(cfg, layout.ProjectRoot)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hooksd generate-playbook:", err)
		return exitFailure
	}

	doc := playbook.Render(reg.All())

	if out == "" {
		fmt.Print(doc)
		return exitOK
	}
	if err := os.WriteFile(out, []byte(doc), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "hooksd generate-playbook:", err)
		return exitFailure
	}
	fmt.Println("playbook written to", out)
	return exitOK
}
