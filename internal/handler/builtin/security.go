// Package builtin provides the daemon's illustrative, ship-by-default
// handler set, each one a small concrete Handler built on handler.Base.
package builtin

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/handler"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/hookevent"
)

var dangerousBashPatterns = compilePatterns([]string{
	`rm\s+-rf\s+/`,
	`rm\s+-rf\s+~`,
	`rm\s+-rf\s+\*`,
	`rm\s+-rf\s+\.git\b`,
	`git\s+push\s+.*--force\s+origin\s+(main|master)`,
	`git\s+branch\s+-D\s+(main|master)`,
	`terraform\s+destroy`,
	`:\(\)\{\s*:\|:&\s*\};:`, // fork bomb
	`mkfs\.`,
	`dd\s+if=/dev/zero\s+of=/dev/sd`,
})

func compilePatterns(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile("(?i)"+p))
	}
	return out
}

// blockDangerousBash denies Bash commands matching a small, hand-picked
// set of commands that destroy state with no recovery path.
type blockDangerousBash struct {
	handler.Base
}

// NewBlockDangerousBash returns the built-in handler for blocking
// irreversible, destructive Bash commands.
func NewBlockDangerousBash() handler.Handler {
	return &blockDangerousBash{
		Base: handler.NewBase("block-dangerous-bash", hookevent.PreToolUse, 10, true, []string{"security", "bash"}),
	}
}

func (h *blockDangerousBash) Matches(event hookevent.HookEvent) bool {
	return event.PayloadString("tool_name", "") == "Bash"
}

func (h *blockDangerousBash) Handle(event hookevent.HookEvent) (hookevent.HookResult, error) {
	command := extractCommand(event)
	for _, pattern := range dangerousBashPatterns {
		if pattern.MatchString(command) {
			return hookevent.HookResult{
				Decision: hookevent.Deny(fmt.Sprintf("blocked destructive command matching %q", pattern.String())),
			}, nil
		}
	}
	return hookevent.HookResult{Decision: hookevent.Allow()}, nil
}

func (h *blockDangerousBash) GetAcceptanceTests() []hookevent.AcceptanceTest {
	return []hookevent.AcceptanceTest{
		{
			Title:            "blocks rm -rf /",
			Command:          "rm -rf /",
			Description:      "a command that would destroy the filesystem must be denied",
			ExpectedDecision: hookevent.KindDeny,
			TestType:         hookevent.TestBlocking,
		},
		{
			Title:            "allows a harmless command",
			Command:          "ls -la",
			Description:      "ordinary commands must not be affected by this policy",
			ExpectedDecision: hookevent.KindAllow,
			TestType:         hookevent.TestBlocking,
		},
	}
}

var secretFilePatterns = compilePatterns([]string{
	`secrets?\.(json|ya?ml|toml)$`,
	`credentials?\.(json|ya?ml|toml)$`,
	`\.ssh/.*`,
	`id_rsa.*`,
	`id_ed25519.*`,
	`\.pem$`,
	`\.key$`,
	`\.env$`,
})

var secretContentPatterns = compilePatterns([]string{
	`-----BEGIN\s+(RSA\s+)?PRIVATE\s+KEY-----`,
	`sk-[a-zA-Z0-9]{32,}`,
	`ghp_[a-zA-Z0-9]{36}`,
	`AKIA[0-9A-Z]{16}`,
})

// protectSecrets denies Write/Edit calls that target known secret-bearing
// file paths, or that would write content matching a recognizable
// credential/key format.
type protectSecrets struct {
	handler.Base
}

// NewProtectSecrets returns the built-in handler guarding credential
// files and secret-shaped content from being written.
func NewProtectSecrets() handler.Handler {
	return &protectSecrets{
		Base: handler.NewBase("protect-secrets", hookevent.PreToolUse, 15, true, []string{"security", "filesystem"}),
	}
}

func (h *protectSecrets) Matches(event hookevent.HookEvent) bool {
	tool := event.PayloadString("tool_name", "")
	return tool == "Write" || tool == "Edit"
}

func (h *protectSecrets) Handle(event hookevent.HookEvent) (hookevent.HookResult, error) {
	path := strings.ReplaceAll(event.PayloadString("file_path", ""), "\\", "/")
	for _, pattern := range secretFilePatterns {
		if pattern.MatchString(path) {
			return hookevent.HookResult{
				Decision: hookevent.Deny(fmt.Sprintf("%s looks like a credential file", path)),
			}, nil
		}
	}

	content := event.PayloadString("content", "")
	for _, pattern := range secretContentPatterns {
		if pattern.MatchString(content) {
			return hookevent.HookResult{
				Decision: hookevent.Deny("content contains what looks like a credential or private key"),
			}, nil
		}
	}
	return hookevent.HookResult{Decision: hookevent.Allow()}, nil
}

func (h *protectSecrets) GetAcceptanceTests() []hookevent.AcceptanceTest {
	return []hookevent.AcceptanceTest{
		{
			Title:            "denies writing to .ssh/id_rsa",
			Description:      "private SSH keys must never be written by a tool call",
			ExpectedDecision: hookevent.KindDeny,
			TestType:         hookevent.TestBlocking,
		},
		{
			Title:            "denies content containing a private key block",
			Description:      "a write whose content is a PEM private key must be denied regardless of path",
			ExpectedDecision: hookevent.KindDeny,
			TestType:         hookevent.TestBlocking,
		},
	}
}

var lockfilePatterns = compilePatterns([]string{
	`package-lock\.json$`,
	`yarn\.lock$`,
	`pnpm-lock\.ya?ml$`,
	`Cargo\.lock$`,
	`go\.sum$`,
})

// confirmLockfileEdit asks for confirmation before a handler touches a
// dependency lockfile, since these are usually meant to be machine
// generated rather than hand-edited.
type confirmLockfileEdit struct {
	handler.Base
}

// NewConfirmLockfileEdit returns the built-in handler that asks before a
// dependency lockfile is edited directly.
func NewConfirmLockfileEdit() handler.Handler {
	return &confirmLockfileEdit{
		Base: handler.NewBase("confirm-lockfile-edit", hookevent.PreToolUse, 20, false, []string{"filesystem"}),
	}
}

func (h *confirmLockfileEdit) Matches(event hookevent.HookEvent) bool {
	tool := event.PayloadString("tool_name", "")
	if tool != "Write" && tool != "Edit" {
		return false
	}
	path := event.PayloadString("file_path", "")
	for _, pattern := range lockfilePatterns {
		if pattern.MatchString(path) {
			return true
		}
	}
	return false
}

func (h *confirmLockfileEdit) Handle(event hookevent.HookEvent) (hookevent.HookResult, error) {
	path := event.PayloadString("file_path", "")
	return hookevent.HookResult{
		Decision: hookevent.Ask(fmt.Sprintf("%s is a dependency lockfile, usually regenerated by its package manager rather than hand-edited", path)),
	}, nil
}

func (h *confirmLockfileEdit) GetAcceptanceTests() []hookevent.AcceptanceTest {
	return []hookevent.AcceptanceTest{
		{
			Title:            "asks before editing package-lock.json",
			Description:      "direct edits to a lockfile should prompt for confirmation instead of silently allowing or denying",
			ExpectedDecision: hookevent.KindAsk,
			TestType:         hookevent.TestAdvisory,
		},
	}
}

func extractCommand(event hookevent.HookEvent) string {
	if input, ok := event.Payload["tool_input"].(map[string]any); ok {
		if command, ok := input["command"].(string); ok {
			return command
		}
	}
	return event.PayloadString("command", "")
}
