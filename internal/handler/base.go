package handler

import "github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/hookevent"

// Base implements the bookkeeping half of Handler (id, event type,
// priority, terminal flag, tags) so concrete handlers only need to
// implement Matches/Handle/GetAcceptanceTests.
type Base struct {
	id       string
	event    hookevent.EventType
	priority int
	terminal bool
	tags     []string
}

// NewBase constructs the embeddable identity/ordering half of a handler.
func NewBase(id string, event hookevent.EventType, priority int, terminal bool, tags []string) Base {
	return Base{id: id, event: event, priority: priority, terminal: terminal, tags: tags}
}

func (b Base) ID() string                     { return b.id }
func (b Base) EventType() hookevent.EventType { return b.event }
func (b Base) Priority() int                  { return b.priority }
func (b Base) Terminal() bool                 { return b.terminal }
func (b Base) Tags() []string                 { return b.tags }
