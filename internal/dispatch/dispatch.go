// Package dispatch runs one event through a handler chain: in priority
// order, skip handlers that don't match, stop at the first handler that
// returns Deny/Ask or at the first terminal handler that ran, and
// accumulate context along the way.
package dispatch

import (
	"fmt"
	"log/slog"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/handler"
	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/hookevent"
)

// Chain is the ordered set of registrations dispatch walks for one event
// type; the registry package produces these.
type Chain []handler.Registration

// Outcome is what a full dispatch run produces: the terminal decision
// (or Allow if nothing stopped the chain) plus every handler's
// accumulated context.
type Outcome struct {
	Decision     hookevent.Decision
	Context      []string
	UpdatedInput map[string]any
	RanHandlers  []string
}

// Run walks chain against event. A handler whose Matches or Handle panics
// is treated as if it returned no result and the chain continues — a
// single broken handler never takes the whole event down.
func Run(chain Chain, event hookevent.HookEvent, logger *slog.Logger) Outcome {
	out := Outcome{Decision: hookevent.Allow()}
	payload := event.Payload

	for _, reg := range chain {
		h := reg.Handler
		cur := event.WithPayload(payload)

		matched, matchErr := safeMatches(h, cur)
		if matchErr != nil {
			if logger != nil {
				logger.Warn("handler matches panicked", "handler_id", h.ID(), "error", matchErr)
			}
			continue
		}
		if !matched {
			continue
		}

		result, err := safeHandle(h, cur)
		if err != nil {
			if logger != nil {
				logger.Warn("handler failed, failing open", "handler_id", h.ID(), "error", err)
			}
			continue
		}
		if verr := result.Validate(); verr != nil {
			if logger != nil {
				logger.Warn("handler produced malformed result, failing open", "handler_id", h.ID(), "error", verr)
			}
			continue
		}

		out.RanHandlers = append(out.RanHandlers, h.ID())
		if len(result.Context) > 0 {
			out.Context = append(out.Context, result.Context...)
		}

		// Only PreToolUse threads updated_input through the chain; other
		// event types ignore it even if a handler sets it.
		if event.EventType == hookevent.PreToolUse && result.UpdatedInput != nil {
			payload = result.UpdatedInput
			out.UpdatedInput = result.UpdatedInput
		}

		if result.Decision.Kind != hookevent.KindAllow {
			out.Decision = result.Decision
			return out
		}
		if h.Terminal() {
			out.Decision = result.Decision
			return out
		}
	}

	out.Decision = hookevent.AllowWithContext(out.Context)
	return out
}

func safeMatches(h handler.Handler, event hookevent.HookEvent) (matched bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h.Matches(event), nil
}

func safeHandle(h handler.Handler, event hookevent.HookEvent) (result hookevent.HookResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h.Handle(event)
}
