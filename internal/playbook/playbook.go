// Package playbook renders a handler registry's declared acceptance
// tests into a markdown document a human can read and, if they choose,
// run by hand against a live daemon. The output is generated on demand
// and is never committed to the repository.
package playbook

import (
	"fmt"
	"strings"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/handler"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/hookevent"
)

// Render builds a markdown playbook document from every registration's
// declared acceptance tests, grouped by event type and ordered the same
// way the dispatch chain runs.
func Render(registrations []handler.Registration) string {
	var b strings.Builder
	b.WriteString("# Hook Acceptance Playbook\n\n")

	byEvent := map[hookevent.EventType][]handler.Registration{}
	var order []hookevent.EventType
	for _, r := range registrations {
		et := r.Handler.EventType()
		if _, seen := byEvent[et]; !seen {
			order = append(order, et)
		}
		byEvent[et] = append(byEvent[et], r)
	}

	for _, et := range order {
		fmt.Fprintf(&b, "## %s\n\n", et)
		for _, r := range byEvent[et] {
			renderHandler(&b, r)
		}
	}
	return b.String()
}

func renderHandler(b *strings.Builder, r handler.Registration) {
	h := r.Handler
	fmt.Fprintf(b, "### %s (priority %d, %s)\n\n", h.ID(), r.ResolvedPriority, r.Origin)
	if !r.Enabled {
		b.WriteString("_disabled by configuration_\n\n")
	}

	tests := h.GetAcceptanceTests()
	if len(tests) == 0 {
		b.WriteString("_no acceptance tests declared_\n\n")
		return
	}

	for _, t := range tests {
		fmt.Fprintf(b, "- **%s** (`%s`, expect `%s`)\n", t.Title, t.TestType, t.ExpectedDecision)
		if t.Description != "" {
			fmt.Fprintf(b, "  %s\n", t.Description)
		}
		if t.Command != "" {
			fmt.Fprintf(b, "  ```\n  %s\n  ```\n", t.Command)
		}
		if t.SafetyNotes != "" {
			fmt.Fprintf(b, "  Safety: %s\n", t.SafetyNotes)
		}
	}
	b.WriteString("\n")
}
