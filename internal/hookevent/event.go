// Package hookevent defines the daemon's core data model: the event the
// host tool sends in, and the decision/result types handlers produce.
package hookevent

import "maps"

// EventType is the closed set of lifecycle points the host invokes the
// hook forwarder at.
type EventType string

const (
	PreToolUse         EventType = "PreToolUse"
	PostToolUse        EventType = "PostToolUse"
	PostToolUseFailure EventType = "PostToolUseFailure"
	SessionStart       EventType = "SessionStart"
	SessionEnd         EventType = "SessionEnd"
	UserPromptSubmit   EventType = "UserPromptSubmit"
	Stop               EventType = "Stop"
	SubagentStart      EventType = "SubagentStart"
	SubagentStop       EventType = "SubagentStop"
	PreCompact         EventType = "PreCompact"
	Notification       EventType = "Notification"
	PermissionRequest  EventType = "PermissionRequest"
)

// All returns every known event type, used by Valid (and so the config
// validator) and by the daemon's health report to enumerate coverage.
func All() []EventType {
	return []EventType{
		PreToolUse, PostToolUse, PostToolUseFailure, SessionStart, SessionEnd,
		UserPromptSubmit, Stop, SubagentStart, SubagentStop, PreCompact,
		Notification, PermissionRequest,
	}
}

// Valid reports whether et is one of the closed set of event types.
func Valid(et EventType) bool {
	for _, e := range All() {
		if e == et {
			return true
		}
	}
	return false
}

// Common carries the fields present on every event regardless of type.
type Common struct {
	SessionID      string
	TranscriptPath string
	CWD            string
	PermissionMode string
}

// HookEvent is the immutable input to the dispatch pipeline.
type HookEvent struct {
	EventType EventType
	Payload   map[string]any
	Common    Common
}

// WithPayload returns a copy of e with Payload replaced. Used by the
// dispatch pipeline to thread updated_input through PreToolUse handlers
// without mutating the event seen by earlier handlers.
func (e HookEvent) WithPayload(payload map[string]any) HookEvent {
	e.Payload = payload
	return e
}

// ClonePayload returns a shallow copy of the event's payload map, safe for
// a handler to mutate and return as updated_input without aliasing the
// event the caller still holds a reference to.
func (e HookEvent) ClonePayload() map[string]any {
	out := make(map[string]any, len(e.Payload))
	maps.Copy(out, e.Payload)
	return out
}

// PayloadString reads a string field from the payload, returning def if
// absent or not a string.
func (e HookEvent) PayloadString(key, def string) string {
	v, ok := e.Payload[key]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}
