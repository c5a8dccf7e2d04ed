// Package undo implements a time-windowed, last-action-only undo stack for
// queue actions.
package undo

import (
	"time"

	"github.com/sift-sh/sift/internal/review"
)

// DefaultWindow is how long a completed action stays reversible.
const DefaultWindow = 5 * time.Second

// Action is a reversible queue action. Payload carries everything needed to
// put the item back: the item itself and the queue position it was removed
// from.
type Action struct {
	Kind       review.Status
	Item       review.Item
	Index      int
	ReasonCode string
	Timestamp  time.Time
}

// Manager holds recently performed actions. Only the single most recent
// still-valid action is ever undoable; anything older becomes unreachable
// the moment a newer action is pushed, and is kept only until expiry
// cleanup drops it.
type Manager struct {
	window time.Duration
	now    func() time.Time
	stack  []Action
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager returns a Manager with the given undo window. A window of zero
// or less falls back to DefaultWindow.
func NewManager(window time.Duration, opts ...Option) *Manager {
	if window <= 0 {
		window = DefaultWindow
	}
	m := &Manager{
		window: window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Push records an action. Expired entries are pruned first so the stack
// never accumulates dead weight.
func (m *Manager) Push(a Action) {
	if a.Timestamp.IsZero() {
		a.Timestamp = m.now()
	}
	m.prune()
	m.stack = append(m.stack, a)
}

// UndoLast pops the most recent still-valid action. Everything older is
// discarded along with it: once an action has been pushed, the ones below
// it are never reachable again. Returns false when nothing is undoable,
// which is a normal outcome, not an error.
func (m *Manager) UndoLast() (Action, bool) {
	a, ok := m.peek()
	m.stack = m.stack[:0]
	if !ok {
		return Action{}, false
	}
	return a, true
}

// CanUndo reports whether an action is currently undoable.
func (m *Manager) CanUndo() bool {
	_, ok := m.peek()
	return ok
}

// PeekLast returns the undoable action, if any, without consuming it.
func (m *Manager) PeekLast() (Action, bool) {
	return m.peek()
}

// Len returns the number of entries currently held, expired or not.
func (m *Manager) Len() int {
	return len(m.stack)
}

// Window returns the configured undo window.
func (m *Manager) Window() time.Duration {
	return m.window
}

// peek scans from the top for the first entry still inside the window.
func (m *Manager) peek() (Action, bool) {
	now := m.now()
	for i := len(m.stack) - 1; i >= 0; i-- {
		if now.Sub(m.stack[i].Timestamp) < m.window {
			return m.stack[i], true
		}
	}
	return Action{}, false
}

func (m *Manager) prune() {
	now := m.now()
	alive := m.stack[:0]
	for _, a := range m.stack {
		if now.Sub(a.Timestamp) < m.window {
			alive = append(alive, a)
		}
	}
	m.stack = alive
}
