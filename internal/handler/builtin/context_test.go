package builtin

import (
	"strings"
	"testing"
	"time"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/handler"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/hookevent"
)

func TestSummarizeLargeDiff_FlagsContentOverThreshold(t *testing.T) {
	h := NewSummarizeLargeDiff()
	big := strings.Repeat("x", 5000)
	event := preToolUseEvent("Write", map[string]any{"file_path": "big.go", "content": big})
	event.EventType = hookevent.PostToolUse

	result, err := h.Handle(event)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(result.Context) != 1 {
		t.Fatalf("expected a context note for a large diff, got %v", result.Context)
	}
}

func TestSummarizeLargeDiff_IgnoresSmallContent(t *testing.T) {
	h := NewSummarizeLargeDiff()
	event := preToolUseEvent("Write", map[string]any{"file_path": "small.go", "content": "hi"})
	event.EventType = hookevent.PostToolUse

	result, err := h.Handle(event)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(result.Context) != 0 {
		t.Fatalf("expected no context note for small content, got %v", result.Context)
	}
}

func TestGreetingContext_PicksMorningAfternoonEvening(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{8, "morning"},
		{14, "afternoon"},
		{20, "evening"},
	}
	for _, c := range cases {
		h := &greetingContext{
			Base: handler.NewBase("greeting-context", hookevent.SessionStart, 50, false, []string{"context"}),
			now:  func() time.Time { return time.Date(2026, 1, 1, c.hour, 0, 0, 0, time.UTC) },
		}
		result, err := h.Handle(hookevent.HookEvent{EventType: hookevent.SessionStart, Payload: map[string]any{}})
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if len(result.Context) != 1 || !strings.Contains(strings.ToLower(result.Context[0]), c.want) {
			t.Fatalf("hour=%d: expected %q greeting, got %v", c.hour, c.want, result.Context)
		}
	}
}

func TestProjectLanguagesContext_MatchesOnlyWhenLanguagesConfigured(t *testing.T) {
	empty := NewProjectLanguagesContext(nil)
	if empty.Matches(hookevent.HookEvent{EventType: hookevent.SessionStart}) {
		t.Fatalf("expected no match when no languages configured")
	}

	withLangs := NewProjectLanguagesContext([]string{"go", "python"})
	if !withLangs.Matches(hookevent.HookEvent{EventType: hookevent.SessionStart}) {
		t.Fatalf("expected match when languages are configured")
	}
	result, err := withLangs.Handle(hookevent.HookEvent{EventType: hookevent.SessionStart})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(result.Context[0], "go") || !strings.Contains(result.Context[0], "python") {
		t.Fatalf("expected both languages named, got %v", result.Context)
	}
}

func TestRequireTestsPassed_DeniesOnFailure(t *testing.T) {
	h := NewRequireTestsPassed()
	event := hookevent.HookEvent{EventType: hookevent.Stop, Payload: map[string]any{"last_test_run_failed": true}}
	if !h.Matches(event) {
		t.Fatalf("expected match when last_test_run_failed is present")
	}
	result, err := h.Handle(event)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if result.Decision.Kind != hookevent.KindDeny {
		t.Fatalf("expected Deny, got %v", result.Decision.Kind)
	}
}

func TestRequireTestsPassed_AllowsOnSuccess(t *testing.T) {
	h := NewRequireTestsPassed()
	event := hookevent.HookEvent{EventType: hookevent.Stop, Payload: map[string]any{"last_test_run_failed": false}}
	result, err := h.Handle(event)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if result.Decision.Kind != hookevent.KindAllow {
		t.Fatalf("expected Allow, got %v", result.Decision.Kind)
	}
}

func TestRequireTestsPassed_DoesNotMatchWithoutTestRunInfo(t *testing.T) {
	h := NewRequireTestsPassed()
	event := hookevent.HookEvent{EventType: hookevent.Stop, Payload: map[string]any{}}
	if h.Matches(event) {
		t.Fatalf("expected no match when last_test_run_failed is absent")
	}
}

func TestRejectEmptyPrompt_DeniesWhitespaceOnly(t *testing.T) {
	h := NewRejectEmptyPrompt()
	event := hookevent.HookEvent{EventType: hookevent.UserPromptSubmit, Payload: map[string]any{"prompt": "   "}}
	result, err := h.Handle(event)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if result.Decision.Kind != hookevent.KindDeny {
		t.Fatalf("expected Deny, got %v", result.Decision.Kind)
	}
}

func TestRejectEmptyPrompt_AllowsRealPrompt(t *testing.T) {
	h := NewRejectEmptyPrompt()
	event := hookevent.HookEvent{EventType: hookevent.UserPromptSubmit, Payload: map[string]any{"prompt": "fix the bug"}}
	result, err := h.Handle(event)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if result.Decision.Kind != hookevent.KindAllow {
		t.Fatalf("expected Allow, got %v", result.Decision.Kind)
	}
}
