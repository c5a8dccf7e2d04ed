// Package queue renders review items as rows inside the triage list.
package queue

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/sift-sh/sift/internal/review"
	"github.com/sift-sh/sift/internal/tui/exp/list"
	"github.com/sift-sh/sift/internal/tui/styles"
)

// How far (in cells) the row content slides per cell of drag. Full 1:1
// tracking looks jittery in cell-based terminals.
const dragDamping = 4

// maxBodyLines caps how much of the body an expanded row shows.
const maxBodyLines = 6

// Item is a single review entry in the triage queue.
type Item struct {
	item  review.Item
	width int

	focused  bool
	expanded bool

	dragging    bool
	dragDX      float64
	dragDir     list.SwipeDirection
	willTrigger bool
}

// NewItem wraps a review item for display.
func NewItem(item review.Item) *Item {
	return &Item{item: item}
}

// ID implements list.Item.
func (i *Item) ID() string {
	return i.item.ID
}

// ReviewItem returns the underlying review item.
func (i *Item) ReviewItem() review.Item {
	return i.item
}

// SetReviewItem replaces the underlying review item.
func (i *Item) SetReviewItem(item review.Item) {
	i.item = item
}

// Init implements list.Item.
func (i *Item) Init() tea.Cmd {
	return nil
}

// Update implements list.Item.
func (i *Item) Update(tea.Msg) (tea.Model, tea.Cmd) {
	return i, nil
}

// View implements list.Item. Rows are two lines: the title and a muted
// meta line. An in-flight drag slides the row and shows the action it
// would commit to on release.
func (i *Item) View() string {
	s := styles.CurrentTheme().S()

	marker := "  "
	titleStyle := s.Base
	if i.focused {
		marker = s.FocusMarker.Render("┃ ")
		titleStyle = s.Focused
	}

	width := max(i.width, 4)
	title := ansi.Truncate(i.item.Title, width-2, "…")
	meta := fmt.Sprintf("%s · %.2f", i.item.Source, i.item.Score)

	titleLine := marker + titleStyle.Render(title)
	metaLine := "  " + s.Muted.Render(ansi.Truncate(meta, width-2, "…"))

	if i.dragging && i.dragDir != list.SwipeNone {
		titleLine = i.dragLine(titleLine, width)
	}

	lines := []string{titleLine, metaLine}
	if i.expanded {
		lines = append(lines, i.bodyLines(width)...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// bodyLines renders the expanded body, capped so a single row can never
// swallow the viewport.
func (i *Item) bodyLines(width int) []string {
	s := styles.CurrentTheme().S()
	body := strings.Split(strings.TrimRight(i.item.Body, "\n"), "\n")
	if len(body) > maxBodyLines {
		body = append(body[:maxBodyLines-1], "…")
	}
	out := make([]string, 0, len(body))
	for _, line := range body {
		out = append(out, "  "+s.Base.Render(ansi.Truncate(line, width-2, "…")))
	}
	return out
}

// ToggleExpand flips the expanded body view and reports the new state.
func (i *Item) ToggleExpand() bool {
	i.expanded = !i.expanded
	return i.expanded
}

// Expanded reports whether the body is shown.
func (i *Item) Expanded() bool {
	return i.expanded
}

// dragLine slides the title and appends the pending action hint.
func (i *Item) dragLine(line string, width int) string {
	s := styles.CurrentTheme().S()

	var hint string
	var hintStyle lipgloss.Style
	switch i.dragDir {
	case list.SwipeRight:
		hint = "approve ✓"
		hintStyle = s.SwipeApprove
	case list.SwipeLeft:
		hint = "reject ✗"
		hintStyle = s.SwipeReject
	}
	if i.willTrigger {
		hintStyle = hintStyle.Bold(true).Underline(true)
	}

	shift := int(i.dragDX) / dragDamping
	if shift > width/2 {
		shift = width / 2
	}
	if shift < -width/2 {
		shift = -width / 2
	}

	if shift > 0 {
		line = strings.Repeat(" ", shift) + line
	} else if shift < 0 {
		line = ansi.TruncateLeft(line, -shift, "")
	}
	line = ansi.Truncate(line, width-lipgloss.Width(hint)-1, "")
	pad := width - lipgloss.Width(line) - lipgloss.Width(hint)
	if pad < 1 {
		pad = 1
	}
	return line + strings.Repeat(" ", pad) + hintStyle.Render(hint)
}

// SetSize implements list.Item. Row height follows content; only the
// width matters here.
func (i *Item) SetSize(width, _ int) tea.Cmd {
	i.width = width
	return nil
}

// GetSize implements list.Item.
func (i *Item) GetSize() (int, int) {
	height := 2
	if i.expanded {
		height += len(i.bodyLines(max(i.width, 4)))
	}
	return i.width, height
}

// Focus implements layout.Focusable.
func (i *Item) Focus() tea.Cmd {
	i.focused = true
	return nil
}

// Blur implements layout.Focusable.
func (i *Item) Blur() tea.Cmd {
	i.focused = false
	return nil
}

// IsFocused implements layout.Focusable.
func (i *Item) IsFocused() bool {
	return i.focused
}

// SetDrag implements list.Swipeable.
func (i *Item) SetDrag(dx float64, dir list.SwipeDirection, willTrigger bool) {
	i.dragging = true
	i.dragDX = dx
	i.dragDir = dir
	i.willTrigger = willTrigger
}

// ClearDrag implements list.Swipeable.
func (i *Item) ClearDrag() {
	i.dragging = false
	i.dragDX = 0
	i.dragDir = list.SwipeNone
	i.willTrigger = false
}
