// Package handler defines the contract every handler — built-in or
// plugin — must satisfy.
package handler

import (
	"fmt"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/hookevent"
)

// MinPriority and MaxPriority bound the priority range built-in handlers
// may declare.
const (
	MinPriority = 5
	MaxPriority = 60
)

// Handler is the capability set every handler must satisfy.
type Handler interface {
	// ID is a stable string, unique per process.
	ID() string

	// EventType is the single event type this handler listens to.
	EventType() hookevent.EventType

	// Priority orders the dispatch chain; lower runs first.
	Priority() int

	// Terminal reports whether this handler's return short-circuits the
	// dispatch chain for its event type.
	Terminal() bool

	// Tags is the set of taxonomy tags used by config enable/disable filters.
	Tags() []string

	// Matches reports whether this handler applies to event. Must be pure,
	// fast, and must not panic for any well-typed event — the dispatch
	// pipeline treats a panic here as a non-match and keeps the chain alive.
	Matches(event hookevent.HookEvent) bool

	// Handle is called only when Matches returned true.
	Handle(event hookevent.HookEvent) (hookevent.HookResult, error)

	// GetAcceptanceTests must return at least one element so the playbook
	// harness always has something to render for this handler.
	GetAcceptanceTests() []hookevent.AcceptanceTest
}

// Origin distinguishes where a handler was discovered from.
type Origin string

const (
	OriginBuiltin Origin = "builtin"
	OriginPlugin  Origin = "plugin"
)

// Registration is a registry entry: a handler instance plus the metadata
// the registry and config layer attach to it.
type Registration struct {
	Handler         Handler
	Enabled         bool
	ResolvedPriority int
	Origin          Origin
	SourcePath      string

	// RegistrationOrder breaks priority ties deterministically: handlers
	// registered earlier run first among equal priorities.
	RegistrationOrder int
}

// ValidatePriority rejects a priority outside the range built-in handlers
// are allowed to declare.
func ValidatePriority(p int) error {
	if p < MinPriority || p > MaxPriority {
		return fmt.Errorf("priority %d out of range [%d, %d]", p, MinPriority, MaxPriority)
	}
	return nil
}
