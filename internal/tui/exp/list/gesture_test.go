package list

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDragTrackerClassification(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)
	pointer := DefaultGestureThresholds(false)
	touch := DefaultGestureThresholds(true)

	t.Run("long slow drag left fires on distance", func(t *testing.T) {
		t.Parallel()
		tr := newDragTracker(touch)
		tr.Begin("a", 100, 5, base)
		tr.Move(40, 5, base.Add(200*time.Millisecond))
		res := tr.End(10, 5, base.Add(800*time.Millisecond))

		assert.Equal(t, GestureSwipeLeft, res.Kind)
		assert.Equal(t, "a", res.Key)
		assert.InDelta(t, -90.0, res.DX, 0.001)
	})

	t.Run("short fast flick fires on velocity", func(t *testing.T) {
		t.Parallel()
		tr := newDragTracker(touch)
		tr.Begin("a", 100, 5, base)
		// 60 cells in 150ms is 0.4 cells/ms, above the 0.3 threshold even
		// though 60 is under the 80-cell touch distance.
		res := tr.End(40, 5, base.Add(150*time.Millisecond))

		assert.Equal(t, GestureSwipeLeft, res.Kind)
		assert.InDelta(t, 0.4, res.Velocity, 0.001)
	})

	t.Run("short slow drag fires nothing", func(t *testing.T) {
		t.Parallel()
		tr := newDragTracker(touch)
		tr.Begin("a", 100, 5, base)
		res := tr.End(40, 5, base.Add(2*time.Second))

		assert.Equal(t, GestureNone, res.Kind)
	})

	t.Run("rightward drag mirrors leftward", func(t *testing.T) {
		t.Parallel()
		tr := newDragTracker(touch)
		tr.Begin("a", 10, 5, base)
		tr.Move(60, 5, base.Add(100*time.Millisecond))
		res := tr.End(100, 5, base.Add(300*time.Millisecond))

		assert.Equal(t, GestureSwipeRight, res.Kind)
	})

	t.Run("steep drag demotes to a scroll", func(t *testing.T) {
		t.Parallel()
		tr := newDragTracker(touch)
		tr.Begin("a", 100, 5, base)
		// dx=-20, dy=-40: about 63 degrees with dx under the feedback
		// threshold. The drag is handed back to the scroller.
		tr.Move(80, -35, base.Add(50*time.Millisecond))
		assert.False(t, tr.Dragging())

		res := tr.End(80, -35, base.Add(100*time.Millisecond))
		assert.Equal(t, GestureScroll, res.Kind)
	})

	t.Run("shallow drag stays a swipe despite vertical drift", func(t *testing.T) {
		t.Parallel()
		tr := newDragTracker(touch)
		tr.Begin("a", 100, 5, base)
		// dx=-90, dy=-20: about 12.5 degrees, well under the 30 degree cap.
		tr.Move(10, -15, base.Add(100*time.Millisecond))
		assert.True(t, tr.Dragging())

		res := tr.End(10, -15, base.Add(300*time.Millisecond))
		assert.Equal(t, GestureSwipeLeft, res.Kind)
	})

	t.Run("tap never resolves to a swipe", func(t *testing.T) {
		t.Parallel()
		tr := newDragTracker(touch)
		tr.Begin("a", 100, 5, base)
		// Released within the slop almost instantly: huge nominal velocity,
		// still a tap.
		res := tr.End(98, 5, base.Add(1*time.Millisecond))

		assert.Equal(t, GestureTap, res.Kind)
	})

	t.Run("feedback direction appears before the trigger distance", func(t *testing.T) {
		t.Parallel()
		tr := newDragTracker(touch)
		tr.Begin("a", 100, 5, base)

		changed := tr.Move(70, 5, base.Add(50*time.Millisecond))
		assert.True(t, changed)
		assert.Equal(t, SwipeLeft, tr.Direction())
		assert.False(t, tr.WillTrigger())

		changed = tr.Move(15, 5, base.Add(100*time.Millisecond))
		assert.True(t, changed)
		assert.True(t, tr.WillTrigger())

		// Same state again reports no change.
		changed = tr.Move(14, 5, base.Add(120*time.Millisecond))
		assert.False(t, changed)
	})

	t.Run("pointer distance threshold is lower than touch", func(t *testing.T) {
		t.Parallel()
		tr := newDragTracker(pointer)
		tr.Begin("a", 100, 5, base)
		tr.Move(45, 5, base.Add(200*time.Millisecond))
		res := tr.End(45, 5, base.Add(2*time.Second))

		// 55 cells: over the 50-cell pointer distance, under the 80-cell
		// touch distance.
		assert.Equal(t, GestureSwipeLeft, res.Kind)

		tr2 := newDragTracker(touch)
		tr2.Begin("a", 100, 5, base)
		tr2.Move(45, 5, base.Add(200*time.Millisecond))
		res2 := tr2.End(45, 5, base.Add(2*time.Second))
		assert.Equal(t, GestureNone, res2.Kind)
	})

	t.Run("cancel discards the drag", func(t *testing.T) {
		t.Parallel()
		tr := newDragTracker(touch)
		tr.Begin("a", 100, 5, base)
		tr.Move(10, 5, base.Add(100*time.Millisecond))
		tr.Cancel()

		assert.False(t, tr.Active())
		res := tr.End(10, 5, base.Add(200*time.Millisecond))
		assert.Equal(t, GestureNone, res.Kind)
	})
}

func TestMouseGestures(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)

	// fakeClock hands out a controllable time source for velocity math.
	newGestureList := func(now *time.Time) *list[*testItem] {
		l := New(
			createItems(5, 1),
			WithSize(120, 10),
			WithEstimatedSize(1),
			WithClock(func() time.Time { return *now }),
		).(*list[*testItem])
		drainCmds(l, l.Init())
		return l
	}

	swipes := func(msgs []tea.Msg) []SwipeMsg {
		var out []SwipeMsg
		for _, m := range msgs {
			if s, ok := m.(SwipeMsg); ok {
				out = append(out, s)
			}
		}
		return out
	}

	t.Run("drag left across an item emits a swipe", func(t *testing.T) {
		t.Parallel()
		now := base
		l := newGestureList(&now)

		_, cmd := l.Update(tea.MouseClickMsg{X: 100, Y: 2, Button: tea.MouseLeft})
		drainCmds(l, cmd)

		now = now.Add(100 * time.Millisecond)
		_, cmd = l.Update(tea.MouseMotionMsg{X: 40, Y: 2})
		drainCmds(l, cmd)

		// Feedback reaches the item while the drag is still in flight.
		assert.True(t, l.Items()[2].dragging)
		assert.Equal(t, SwipeLeft, l.Items()[2].dragDir)

		now = now.Add(100 * time.Millisecond)
		_, cmd = l.Update(tea.MouseReleaseMsg{X: 20, Y: 2})
		msgs := drainCmds(l, cmd)

		got := swipes(msgs)
		require.Len(t, got, 1)
		assert.Equal(t, "item2", got[0].ID)
		assert.Equal(t, SwipeLeft, got[0].Direction)

		// Feedback is cleared on release.
		assert.False(t, l.Items()[2].dragging)
	})

	t.Run("release on the spot emits a click", func(t *testing.T) {
		t.Parallel()
		now := base
		l := newGestureList(&now)

		_, cmd := l.Update(tea.MouseClickMsg{X: 10, Y: 3, Button: tea.MouseLeft})
		drainCmds(l, cmd)
		now = now.Add(50 * time.Millisecond)
		_, cmd = l.Update(tea.MouseReleaseMsg{X: 10, Y: 3})
		msgs := drainCmds(l, cmd)

		var clicks []ItemClickMsg
		for _, m := range msgs {
			if c, ok := m.(ItemClickMsg); ok {
				clicks = append(clicks, c)
			}
		}
		require.Len(t, clicks, 1)
		assert.Equal(t, 3, clicks[0].Index)
		assert.Equal(t, "item3", clicks[0].ID)
	})

	t.Run("deleting the dragged item cancels the gesture", func(t *testing.T) {
		t.Parallel()
		now := base
		l := newGestureList(&now)

		_, cmd := l.Update(tea.MouseClickMsg{X: 100, Y: 2, Button: tea.MouseLeft})
		drainCmds(l, cmd)
		now = now.Add(50 * time.Millisecond)
		_, cmd = l.Update(tea.MouseMotionMsg{X: 40, Y: 2})
		drainCmds(l, cmd)

		drainCmds(l, l.DeleteItem("item2"))

		now = now.Add(50 * time.Millisecond)
		_, cmd = l.Update(tea.MouseReleaseMsg{X: 10, Y: 2})
		msgs := drainCmds(l, cmd)

		assert.Empty(t, swipes(msgs))
	})

	t.Run("click outside the content starts nothing", func(t *testing.T) {
		t.Parallel()
		now := base
		l := newGestureList(&now)

		_, cmd := l.Update(tea.MouseClickMsg{X: 10, Y: 8, Button: tea.MouseLeft})
		drainCmds(l, cmd)
		assert.False(t, l.tracker.Active())
	})

	t.Run("wheel scrolls without moving focus", func(t *testing.T) {
		t.Parallel()
		l := New(createItems(100, 3), WithSize(20, 30), WithEstimatedSize(3)).(*list[*testItem])
		drainCmds(l, l.Init())

		_, cmd := l.Update(tea.MouseWheelMsg{Button: tea.MouseWheelDown})
		drainCmds(l, cmd)
		assert.Equal(t, wheelScrollSize, l.ScrollOffset())
		assert.Equal(t, 0, l.FocusedIndex())

		_, cmd = l.Update(tea.MouseWheelMsg{Button: tea.MouseWheelUp})
		drainCmds(l, cmd)
		assert.Equal(t, 0, l.ScrollOffset())
	})
}
