package response

import (
	"testing"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/dispatch"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/hookevent"
)

func TestNewFormatter_CompilesWithoutError(t *testing.T) {
	if _, err := NewFormatter(); err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}
}

func TestFormatter_Render_PreToolUseAllow_ProducesValidShape(t *testing.T) {
	f, err := NewFormatter()
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}
	body, err := f.Render(hookevent.PreToolUse, dispatch.Outcome{Decision: hookevent.Allow()})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out, ok := body["hookSpecificOutput"].(map[string]any)
	if !ok {
		t.Fatalf("expected hookSpecificOutput object, got %#v", body)
	}
	if out["hookEventName"] != "PreToolUse" {
		t.Fatalf("hookEventName = %v", out["hookEventName"])
	}
	if out["permissionDecision"] != "allow" {
		t.Fatalf("permissionDecision = %v", out["permissionDecision"])
	}
}

func TestFormatter_Render_PreToolUseDeny_CarriesReason(t *testing.T) {
	f, _ := NewFormatter()
	body, err := f.Render(hookevent.PreToolUse, dispatch.Outcome{Decision: hookevent.Deny("blocked by policy")})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := body["hookSpecificOutput"].(map[string]any)
	if out["permissionDecisionReason"] != "blocked by policy" {
		t.Fatalf("permissionDecisionReason = %v", out["permissionDecisionReason"])
	}
}

func TestFormatter_Render_PostToolUse_AllowWithContext(t *testing.T) {
	f, _ := NewFormatter()
	body, err := f.Render(hookevent.PostToolUse, dispatch.Outcome{Decision: hookevent.Allow(), Context: []string{"note"}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out, ok := body["hookSpecificOutput"].(map[string]any)
	if !ok {
		t.Fatalf("expected context body, got %#v", body)
	}
	if out["additionalContext"] != "note" {
		t.Fatalf("additionalContext = %v", out["additionalContext"])
	}
	if _, hasDecision := body["decision"]; hasDecision {
		t.Fatalf("expected allow to omit the decision field, got %#v", body)
	}
}

func TestFormatter_Render_PostToolUse_NoContext_EmptyObject(t *testing.T) {
	f, _ := NewFormatter()
	body, err := f.Render(hookevent.PostToolUse, dispatch.Outcome{Decision: hookevent.Allow()})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(body) != 0 {
		t.Fatalf("expected empty object when there is no context, got %#v", body)
	}
}

func TestFormatter_Render_PostToolUse_Deny_MapsToBlock(t *testing.T) {
	f, _ := NewFormatter()
	body, err := f.Render(hookevent.PostToolUse, dispatch.Outcome{Decision: hookevent.Deny("dangerous edit")})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if body["decision"] != "block" || body["reason"] != "dangerous edit" {
		t.Fatalf("body = %#v", body)
	}
}

func TestFormatter_Render_Stop_Deny_MapsToBlock(t *testing.T) {
	f, _ := NewFormatter()
	body, err := f.Render(hookevent.Stop, dispatch.Outcome{Decision: hookevent.Deny("tests failing")})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if body["decision"] != "block" || body["reason"] != "tests failing" {
		t.Fatalf("body = %#v", body)
	}
	if _, hasSpecific := body["hookSpecificOutput"]; hasSpecific {
		t.Fatalf("Stop response must not carry hookSpecificOutput, got %#v", body)
	}
}

func TestFormatter_Render_Stop_Allow_OmitsDecision(t *testing.T) {
	f, _ := NewFormatter()
	body, err := f.Render(hookevent.Stop, dispatch.Outcome{Decision: hookevent.Allow()})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(body) != 0 {
		t.Fatalf("expected empty object on allow, got %#v", body)
	}
}

func TestFormatter_Render_UserPromptSubmit_Allow_OmitsDecision(t *testing.T) {
	f, _ := NewFormatter()
	body, err := f.Render(hookevent.UserPromptSubmit, dispatch.Outcome{Decision: hookevent.Allow()})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, hasDecision := body["decision"]; hasDecision {
		t.Fatalf("expected allow to omit the decision field, got %#v", body)
	}
}

func TestFormatter_Render_UserPromptSubmit_AllowWithContext_SurfacesAdditionalContext(t *testing.T) {
	f, _ := NewFormatter()
	body, err := f.Render(hookevent.UserPromptSubmit, dispatch.Outcome{
		Decision: hookevent.Allow(),
		Context:  []string{"reminder: no secrets in prompts"},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, hasDecision := body["decision"]; hasDecision {
		t.Fatalf("expected allow to omit the decision field, got %#v", body)
	}
	out, ok := body["hookSpecificOutput"].(map[string]any)
	if !ok || out["additionalContext"] != "reminder: no secrets in prompts" {
		t.Fatalf("expected additionalContext to survive an allow decision, got %#v", body)
	}
}

func TestFormatter_Render_UserPromptSubmit_DenyMapsToBlock(t *testing.T) {
	f, _ := NewFormatter()
	body, err := f.Render(hookevent.UserPromptSubmit, dispatch.Outcome{Decision: hookevent.Deny("empty prompt")})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if body["decision"] != "block" || body["reason"] != "empty prompt" {
		t.Fatalf("body = %#v", body)
	}
}

func TestFormatter_Render_PermissionRequest_Allow(t *testing.T) {
	f, _ := NewFormatter()
	body, err := f.Render(hookevent.PermissionRequest, dispatch.Outcome{Decision: hookevent.Allow()})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out, ok := body["hookSpecificOutput"].(map[string]any)
	if !ok {
		t.Fatalf("expected hookSpecificOutput wrapper, got %#v", body)
	}
	decision, ok := out["decision"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested decision object, got %#v", out)
	}
	if decision["behavior"] != "allow" {
		t.Fatalf("behavior = %v", decision["behavior"])
	}
	if _, hasMessage := decision["message"]; hasMessage {
		t.Fatalf("expected no message on allow, got %#v", decision)
	}
}

func TestFormatter_Render_PermissionRequest_Deny_CarriesMessage(t *testing.T) {
	f, _ := NewFormatter()
	body, err := f.Render(hookevent.PermissionRequest, dispatch.Outcome{Decision: hookevent.Deny("needs sign-off")})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := body["hookSpecificOutput"].(map[string]any)
	decision := out["decision"].(map[string]any)
	if decision["behavior"] != "deny" {
		t.Fatalf("behavior = %v", decision["behavior"])
	}
	if decision["message"] != "needs sign-off" {
		t.Fatalf("message = %v", decision["message"])
	}
}

func TestFormatter_Render_ContextOnlyEvent_DropsNonAllowDecision(t *testing.T) {
	f, _ := NewFormatter()
	body, err := f.Render(hookevent.SessionStart, dispatch.Outcome{Decision: hookevent.Deny("should never happen"), Context: []string{"hi"}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out, ok := body["hookSpecificOutput"].(map[string]any)
	if !ok {
		t.Fatalf("expected context body, got %#v", body)
	}
	if out["additionalContext"] != "hi" {
		t.Fatalf("additionalContext = %v", out["additionalContext"])
	}
	if _, hasDecision := body["decision"]; hasDecision {
		t.Fatalf("context-only event types must never carry a decision field, got %#v", body)
	}
}
