package response

import "github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/hookevent"

var permissionDecisionEnum = []any{"allow", "deny", "ask"}
var blockEnum = []any{"block"}
var behaviorEnum = []any{"allow", "deny"}

var schemaDocs = map[hookevent.EventType]map[string]any{
	hookevent.PreToolUse: {
		"type": "object",
		"properties": map[string]any{
			"hookSpecificOutput": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"hookEventName":            map[string]any{"const": "PreToolUse"},
					"permissionDecision":       map[string]any{"enum": permissionDecisionEnum},
					"permissionDecisionReason": map[string]any{"type": "string"},
					"additionalContext":        map[string]any{"type": "string"},
					"updatedInput":             map[string]any{"type": "object"},
				},
				"required": []any{"hookEventName", "permissionDecision"},
			},
		},
	},
	hookevent.PermissionRequest: {
		"type": "object",
		"properties": map[string]any{
			"hookSpecificOutput": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"decision": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"behavior":     map[string]any{"enum": behaviorEnum},
							"updatedInput": map[string]any{"type": "object"},
							"message":      map[string]any{"type": "string"},
							"interrupt":    map[string]any{"type": "boolean"},
						},
						"required": []any{"behavior"},
					},
				},
				"required": []any{"decision"},
			},
		},
		"required": []any{"hookSpecificOutput"},
	},
	hookevent.PostToolUse: {
		"type": "object",
		"properties": map[string]any{
			"decision": map[string]any{"enum": blockEnum},
			"reason":   map[string]any{"type": "string"},
			"hookSpecificOutput": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"additionalContext": map[string]any{"type": "string"},
				},
			},
		},
	},
	hookevent.Stop: {
		"type": "object",
		"properties": map[string]any{
			"decision": map[string]any{"enum": blockEnum},
			"reason":   map[string]any{"type": "string"},
		},
	},
	hookevent.SubagentStop: {
		"type": "object",
		"properties": map[string]any{
			"decision": map[string]any{"enum": blockEnum},
			"reason":   map[string]any{"type": "string"},
		},
	},
	hookevent.UserPromptSubmit: {
		"type": "object",
		"properties": map[string]any{
			"decision": map[string]any{"enum": blockEnum},
			"reason":   map[string]any{"type": "string"},
			"hookSpecificOutput": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"additionalContext": map[string]any{"type": "string"},
				},
			},
		},
	},
}
