package builtin

import "github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/handler"

// All returns the daemon's full built-in handler set, in the fixed order
// the registry builder assigns registration numbers from.
func All(projectLanguages []string) []handler.Handler {
	return []handler.Handler{
		NewBlockDangerousBash(),
		NewProtectSecrets(),
		NewConfirmLockfileEdit(),
		NewSummarizeLargeDiff(),
		NewGreetingContext(),
		NewProjectLanguagesContext(projectLanguages),
		NewRequireTestsPassed(),
		NewRejectEmptyPrompt(),
	}
}
