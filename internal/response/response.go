// Package response turns a dispatch outcome into the exact JSON shape the
// host expects for a given event type, and validates that shape against
// a compiled schema before it ever reaches the wire.
package response

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/dispatch"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/hookevent"
)

// Formatter renders dispatch outcomes to validated JSON per event type.
type Formatter struct {
	// Logger is consulted when a context-only event type's outcome carries
	// a Deny/Ask decision that has nowhere to go in that event's schema;
	// nil is fine, the drop just goes unlogged.
	Logger *slog.Logger

	mu      sync.Mutex
	schemas map[hookevent.EventType]*jsonschema.Schema
}

// NewFormatter compiles, once at daemon startup, the schema of every event
// type listed in schemaDocs; event types without an entry there are
// rendered without validation. A schema that fails to compile is a
// programming error, not a runtime condition, so callers are expected to treat a non-nil error as fatal.
func NewFormatter() (*Formatter, error) {
	f := &Formatter{schemas: map[hookevent.EventType]*jsonschema.Schema{}}
	for et, raw := range schemaDocs {
		s, err := compile(et, raw)
		if err != nil {
			return nil, fmt.Errorf("compiling schema for %s: %w", et, err)
		}
		f.schemas[et] = s
	}
	return f, nil
}

// Render builds this event type's wire response from outcome and
// validates it before returning. A validation failure here means a
// built-in handler or the dispatcher produced a malformed result — it is
// reported to the caller as an error instead of a response body.
func (f *Formatter) Render(et hookevent.EventType, outcome dispatch.Outcome) (map[string]any, error) {
	body := f.buildBody(et, outcome)

	f.mu.Lock()
	schema := f.schemas[et]
	f.mu.Unlock()
	if schema != nil {
		if err := schema.Validate(body); err != nil {
			return nil, fmt.Errorf("response for %s failed schema validation: %w", et, err)
		}
	}
	return body, nil
}

func (f *Formatter) buildBody(et hookevent.EventType, outcome dispatch.Outcome) map[string]any {
	switch et {
	case hookevent.PreToolUse:
		return preToolUseBody(outcome)
	case hookevent.PermissionRequest:
		return permissionRequestBody(outcome)
	case hookevent.PostToolUse, hookevent.PostToolUseFailure:
		return postToolUseBody(outcome)
	case hookevent.Stop, hookevent.SubagentStop:
		return stopBody(outcome)
	case hookevent.UserPromptSubmit:
		return userPromptSubmitBody(outcome)
	default:
		return f.contextOnlyBody(et, outcome)
	}
}

func preToolUseBody(outcome dispatch.Outcome) map[string]any {
	body := map[string]any{
		"hookSpecificOutput": map[string]any{
			"hookEventName":            "PreToolUse",
			"permissionDecision":       permissionDecisionString(outcome.Decision.Kind),
			"permissionDecisionReason": outcome.Decision.Reason,
		},
	}
	if len(outcome.Context) > 0 {
		body["hookSpecificOutput"].(map[string]any)["additionalContext"] = strings.Join(outcome.Context, "\n")
	}
	if outcome.UpdatedInput != nil {
		body["hookSpecificOutput"].(map[string]any)["updatedInput"] = outcome.UpdatedInput
	}
	return body
}

// permissionRequestBody nests the allow/deny verdict under
// hookSpecificOutput.decision, per the PermissionRequest wire contract —
// this is the one event type whose field is named "behavior", not
// "permissionDecision" or "decision".
func permissionRequestBody(outcome dispatch.Outcome) map[string]any {
	behavior := "allow"
	if outcome.Decision.Kind != hookevent.KindAllow {
		behavior = "deny"
	}
	decision := map[string]any{"behavior": behavior}
	if outcome.Decision.Reason != "" {
		decision["message"] = outcome.Decision.Reason
	}
	if outcome.UpdatedInput != nil {
		decision["updatedInput"] = outcome.UpdatedInput
	}
	return map[string]any{
		"hookSpecificOutput": map[string]any{"decision": decision},
	}
}

func postToolUseBody(outcome dispatch.Outcome) map[string]any {
	body := map[string]any{}
	if s, blocked := blockDecisionString(outcome.Decision.Kind); blocked {
		body["decision"] = s
		if outcome.Decision.Reason != "" {
			body["reason"] = outcome.Decision.Reason
		}
	}
	if len(outcome.Context) > 0 {
		body["hookSpecificOutput"] = map[string]any{
			"additionalContext": strings.Join(outcome.Context, "\n"),
		}
	}
	return body
}

func stopBody(outcome dispatch.Outcome) map[string]any {
	body := map[string]any{}
	if s, blocked := blockDecisionString(outcome.Decision.Kind); blocked {
		body["decision"] = s
		if outcome.Decision.Reason != "" {
			body["reason"] = outcome.Decision.Reason
		}
	}
	return body
}

func userPromptSubmitBody(outcome dispatch.Outcome) map[string]any {
	body := map[string]any{}
	if s, blocked := blockDecisionString(outcome.Decision.Kind); blocked {
		body["decision"] = s
		if outcome.Decision.Reason != "" {
			body["reason"] = outcome.Decision.Reason
		}
	}
	if len(outcome.Context) > 0 {
		body["hookSpecificOutput"] = map[string]any{
			"additionalContext": strings.Join(outcome.Context, "\n"),
		}
	}
	return body
}

func (f *Formatter) contextOnlyBody(et hookevent.EventType, outcome dispatch.Outcome) map[string]any {
	if outcome.Decision.Kind != hookevent.KindAllow {
		if f.Logger != nil {
			f.Logger.Warn("dropping decision for context-only event type",
				"event_type", string(et), "decision", outcome.Decision.Kind.String())
		}
	}
	if len(outcome.Context) == 0 {
		return map[string]any{}
	}
	return map[string]any{
		"hookSpecificOutput": map[string]any{
			"additionalContext": strings.Join(outcome.Context, "\n"),
		},
	}
}

// permissionDecisionString renders PreToolUse's three-way
// hookSpecificOutput.permissionDecision field, the one place the wire
// protocol actually spells out "allow"/"deny"/"ask".
func permissionDecisionString(k hookevent.DecisionKind) string {
	switch k {
	case hookevent.KindDeny:
		return "deny"
	case hookevent.KindAsk:
		return "ask"
	default:
		return "allow"
	}
}

// blockDecisionString renders the top-level "decision" field shared by
// PostToolUse, Stop, SubagentStop, and UserPromptSubmit: the only value
// that ever appears there is the literal "block", and the key is omitted
// entirely on Allow. Ask has no representation in this shape and is
// treated the same as Deny — both block.
func blockDecisionString(k hookevent.DecisionKind) (value string, present bool) {
	if k == hookevent.KindAllow {
		return "", false
	}
	return "block", true
}

func compile(et hookevent.EventType, raw map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	id := fmt.Sprintf("%s.json", et)
	c := jsonschema.NewCompiler()
	if err := c.AddResource(id, strings.NewReader(string(b))); err != nil {
		return nil, err
	}
	return c.Compile(id)
}
