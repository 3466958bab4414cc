package hookevent

import "testing"

func TestValid_AcceptsEveryDeclaredEventType(t *testing.T) {
	for _, et := range All() {
		if !Valid(et) {
			t.Fatalf("%s should be valid", et)
		}
	}
}

func TestValid_RejectsUnknownEventType(t *testing.T) {
	if Valid(EventType("NotARealEvent")) {
		t.Fatalf("expected NotARealEvent to be invalid")
	}
}

func TestHookEvent_PayloadString_MissingKey_ReturnsDefault(t *testing.T) {
	e := HookEvent{Payload: map[string]any{}}
	if got := e.PayloadString("tool_name", "fallback"); got != "fallback" {
		t.Fatalf("got %q", got)
	}
}

func TestHookEvent_PayloadString_WrongType_ReturnsDefault(t *testing.T) {
	e := HookEvent{Payload: map[string]any{"tool_name": 42}}
	if got := e.PayloadString("tool_name", "fallback"); got != "fallback" {
		t.Fatalf("got %q", got)
	}
}

func TestHookEvent_WithPayload_DoesNotMutateOriginal(t *testing.T) {
	original := map[string]any{"a": 1}
	e := HookEvent{Payload: original}
	next := e.WithPayload(map[string]any{"a": 2})

	if e.Payload["a"] != 1 {
		t.Fatalf("original event payload mutated")
	}
	if next.Payload["a"] != 2 {
		t.Fatalf("new event did not carry replacement payload")
	}
}

func TestHookEvent_ClonePayload_ReturnsIndependentCopy(t *testing.T) {
	e := HookEvent{Payload: map[string]any{"a": 1}}
	clone := e.ClonePayload()
	clone["a"] = 2
	if e.Payload["a"] != 1 {
		t.Fatalf("clone mutation leaked back into original payload")
	}
}
