// Package toast shows a single transient status line with a live
// countdown, used for the post-action undo hint.
package toast

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/sift-sh/sift/internal/tui/styles"
)

// tickInterval is how often the countdown text refreshes. The refresh is
// cosmetic; expiry is checked against the deadline, not against tick
// counts, so a delayed tick cannot extend the toast's life.
const tickInterval = 100 * time.Millisecond

// TimeoutMsg is sent when the visible toast's time runs out.
type TimeoutMsg struct {
	Seq int
}

type tickMsg struct {
	seq int
}

// Toast is a single-slot toast. Showing a new message replaces the
// current one and invalidates its pending timer.
type Toast struct {
	width int

	visible  bool
	message  string
	deadline time.Time
	seq      int

	now func() time.Time
}

// Option configures a Toast.
type Option func(*Toast)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(t *Toast) {
		t.now = now
	}
}

// New returns an empty, hidden toast.
func New(opts ...Option) *Toast {
	t := &Toast{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Init implements tea.Model.
func (t *Toast) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Ticks carry the sequence number of the
// toast that scheduled them; a tick from a replaced or dismissed toast is
// dropped instead of driving the current one.
func (t *Toast) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	tick, ok := msg.(tickMsg)
	if !ok {
		return t, nil
	}
	if !t.visible || tick.seq != t.seq {
		return t, nil
	}
	if !t.now().Before(t.deadline) {
		t.visible = false
		return t, func() tea.Msg { return TimeoutMsg{Seq: t.seq} }
	}
	return t, t.tick()
}

// View implements tea.Model.
func (t *Toast) View() string {
	if !t.visible {
		return ""
	}
	remaining := t.deadline.Sub(t.now())
	if remaining < 0 {
		remaining = 0
	}
	s := styles.CurrentTheme().S()
	text := fmt.Sprintf("%s (%.1fs)", t.message, remaining.Seconds())
	return s.Toast.Width(t.width).Render(text)
}

// Show replaces the current toast and starts its countdown. The returned
// command drives the countdown ticks.
func (t *Toast) Show(message string, ttl time.Duration) tea.Cmd {
	t.seq++
	t.visible = true
	t.message = message
	t.deadline = t.now().Add(ttl)
	return t.tick()
}

// Dismiss hides the toast immediately. Any in-flight tick becomes stale.
func (t *Toast) Dismiss() {
	t.seq++
	t.visible = false
	t.message = ""
}

// Visible reports whether a toast is currently shown.
func (t *Toast) Visible() bool {
	return t.visible
}

// Message returns the current toast text without the countdown suffix.
func (t *Toast) Message() string {
	if !t.visible {
		return ""
	}
	return t.message
}

// SetWidth sets the render width.
func (t *Toast) SetWidth(width int) {
	t.width = width
}

func (t *Toast) tick() tea.Cmd {
	seq := t.seq
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{seq: seq}
	})
}
