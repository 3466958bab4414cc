package builtin

import (
	"fmt"
	"strings"
	"time"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/handler"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/hookevent"
)

// summarizeLargeDiff adds a short advisory note to PostToolUse context
// when an Edit/Write touched an unusually large amount of text, so a
// later handler or the transcript carries a hint about the change's
// size without having to re-read the diff.
type summarizeLargeDiff struct {
	handler.Base
	threshold int
}

// NewSummarizeLargeDiff returns the built-in handler that flags large
// file edits in PostToolUse context.
func NewSummarizeLargeDiff() handler.Handler {
	return &summarizeLargeDiff{
		Base:      handler.NewBase("summarize-large-diff", hookevent.PostToolUse, 30, false, []string{"context"}),
		threshold: 4000,
	}
}

func (h *summarizeLargeDiff) Matches(event hookevent.HookEvent) bool {
	tool := event.PayloadString("tool_name", "")
	return tool == "Write" || tool == "Edit"
}

func (h *summarizeLargeDiff) Handle(event hookevent.HookEvent) (hookevent.HookResult, error) {
	content := event.PayloadString("content", "")
	if len(content) < h.threshold {
		return hookevent.HookResult{Decision: hookevent.Allow()}, nil
	}
	note := fmt.Sprintf("large change: %s received %d characters of new content", event.PayloadString("file_path", "(unknown file)"), len(content))
	return hookevent.HookResult{
		Decision: hookevent.AllowWithContext([]string{note}),
		Context:  []string{note},
	}, nil
}

func (h *summarizeLargeDiff) GetAcceptanceTests() []hookevent.AcceptanceTest {
	return []hookevent.AcceptanceTest{
		{
			Title:            "adds context for a large write",
			Description:      "a write well over the size threshold should surface an advisory context note",
			ExpectedDecision: hookevent.KindAllow,
			TestType:         hookevent.TestAdvisory,
		},
	}
}

// greetingContext adds a short session-open note naming the time of day,
// purely cosmetic context with no bearing on any decision.
type greetingContext struct {
	handler.Base
	now func() time.Time
}

// NewGreetingContext returns the built-in SessionStart handler that adds
// a time-of-day greeting to context.
func NewGreetingContext() handler.Handler {
	return &greetingContext{
		Base: handler.NewBase("greeting-context", hookevent.SessionStart, 50, false, []string{"context"}),
		now:  time.Now,
	}
}

func (h *greetingContext) Matches(event hookevent.HookEvent) bool { return true }

func (h *greetingContext) Handle(event hookevent.HookEvent) (hookevent.HookResult, error) {
	hour := h.now().Hour()
	var greeting string
	switch {
	case hour < 12:
		greeting = "Good morning."
	case hour < 18:
		greeting = "Good afternoon."
	default:
		greeting = "Good evening."
	}
	return hookevent.HookResult{
		Decision: hookevent.AllowWithContext([]string{greeting}),
		Context:  []string{greeting},
	}, nil
}

func (h *greetingContext) GetAcceptanceTests() []hookevent.AcceptanceTest {
	return []hookevent.AcceptanceTest{
		{
			Title:            "adds a greeting at session start",
			Description:      "every SessionStart should get a short time-of-day context note",
			ExpectedDecision: hookevent.KindAllow,
			TestType:         hookevent.TestAdvisory,
		},
	}
}

// projectLanguagesContext surfaces the project_languages list configured
// for this daemon instance as session-start context, so a model picking
// up a fresh session knows the stack without reading the tree first.
type projectLanguagesContext struct {
	handler.Base
	languages []string
}

// NewProjectLanguagesContext returns the built-in SessionStart handler
// that announces the project's configured languages.
func NewProjectLanguagesContext(languages []string) handler.Handler {
	return &projectLanguagesContext{
		Base:      handler.NewBase("project-languages-context", hookevent.SessionStart, 55, false, []string{"context"}),
		languages: languages,
	}
}

func (h *projectLanguagesContext) Matches(event hookevent.HookEvent) bool {
	return len(h.languages) > 0
}

func (h *projectLanguagesContext) Handle(event hookevent.HookEvent) (hookevent.HookResult, error) {
	note := "project languages: " + strings.Join(h.languages, ", ")
	return hookevent.HookResult{
		Decision: hookevent.AllowWithContext([]string{note}),
		Context:  []string{note},
	}, nil
}

func (h *projectLanguagesContext) GetAcceptanceTests() []hookevent.AcceptanceTest {
	return []hookevent.AcceptanceTest{
		{
			Title:            "announces configured languages",
			Description:      "when project_languages is configured, SessionStart context should name them",
			ExpectedDecision: hookevent.KindAllow,
			TestType:         hookevent.TestAdvisory,
		},
	}
}

// requireTestsPassed denies Stop when the transcript's most recent test
// run recorded a failure, keeping the agent in the loop until its own
// test command comes back clean.
type requireTestsPassed struct {
	handler.Base
}

// NewRequireTestsPassed returns the built-in Stop handler that blocks
// ending the turn while the last known test run failed.
func NewRequireTestsPassed() handler.Handler {
	return &requireTestsPassed{
		Base: handler.NewBase("require-tests-passed", hookevent.Stop, 40, true, []string{"quality"}),
	}
}

func (h *requireTestsPassed) Matches(event hookevent.HookEvent) bool {
	_, ok := event.Payload["last_test_run_failed"]
	return ok
}

func (h *requireTestsPassed) Handle(event hookevent.HookEvent) (hookevent.HookResult, error) {
	failed, _ := event.Payload["last_test_run_failed"].(bool)
	if !failed {
		return hookevent.HookResult{Decision: hookevent.Allow()}, nil
	}
	return hookevent.HookResult{
		Decision: hookevent.Deny("the most recent test run failed; fix it before stopping"),
	}, nil
}

func (h *requireTestsPassed) GetAcceptanceTests() []hookevent.AcceptanceTest {
	return []hookevent.AcceptanceTest{
		{
			Title:            "denies stop after a failing test run",
			Description:      "a transcript flagged with last_test_run_failed=true must not be allowed to stop",
			ExpectedDecision: hookevent.KindDeny,
			TestType:         hookevent.TestBlocking,
		},
		{
			Title:            "allows stop after a passing test run",
			Description:      "a clean test run should not block stopping",
			ExpectedDecision: hookevent.KindAllow,
			TestType:         hookevent.TestBlocking,
		},
	}
}

// rejectEmptyPrompt denies a UserPromptSubmit whose prompt is empty or
// whitespace-only, since the forwarder never reaches an LLM call worth
// making for it.
type rejectEmptyPrompt struct {
	handler.Base
}

// NewRejectEmptyPrompt returns the built-in UserPromptSubmit handler
// that rejects blank prompts outright.
func NewRejectEmptyPrompt() handler.Handler {
	return &rejectEmptyPrompt{
		Base: handler.NewBase("reject-empty-prompt", hookevent.UserPromptSubmit, 5, true, []string{"quality"}),
	}
}

func (h *rejectEmptyPrompt) Matches(event hookevent.HookEvent) bool { return true }

func (h *rejectEmptyPrompt) Handle(event hookevent.HookEvent) (hookevent.HookResult, error) {
	prompt := event.PayloadString("prompt", "")
	if strings.TrimSpace(prompt) == "" {
		return hookevent.HookResult{Decision: hookevent.Deny("prompt is empty")}, nil
	}
	return hookevent.HookResult{Decision: hookevent.Allow()}, nil
}

func (h *rejectEmptyPrompt) GetAcceptanceTests() []hookevent.AcceptanceTest {
	return []hookevent.AcceptanceTest{
		{
			Title:            "denies a whitespace-only prompt",
			Description:      "submitting only whitespace should be rejected before it reaches the model",
			ExpectedDecision: hookevent.KindDeny,
			TestType:         hookevent.TestBlocking,
		},
	}
}
