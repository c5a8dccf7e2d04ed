package toast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestToast() (*Toast, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)}
	return New(WithClock(clock.Now)), clock
}

func TestToast(t *testing.T) {
	t.Parallel()

	t.Run("hidden until shown", func(t *testing.T) {
		t.Parallel()
		toast, _ := newTestToast()
		assert.False(t, toast.Visible())
		assert.Equal(t, "", toast.View())
	})

	t.Run("shows with countdown", func(t *testing.T) {
		t.Parallel()
		toast, clock := newTestToast()
		cmd := toast.Show("Approved, press u to undo", 5*time.Second)
		require.NotNil(t, cmd)

		assert.True(t, toast.Visible())
		assert.Contains(t, toast.View(), "(5.0s)")

		clock.Advance(2 * time.Second)
		assert.Contains(t, toast.View(), "(3.0s)")
	})

	t.Run("expires through ticks", func(t *testing.T) {
		t.Parallel()
		toast, clock := newTestToast()
		toast.Show("Rejected, press u to undo", 5*time.Second)

		// Mid-life tick keeps it alive and reschedules.
		clock.Advance(3 * time.Second)
		_, cmd := toast.Update(tickMsg{seq: toast.seq})
		require.NotNil(t, cmd)
		assert.True(t, toast.Visible())

		// Past the deadline the toast hides and announces the timeout.
		clock.Advance(3 * time.Second)
		_, cmd = toast.Update(tickMsg{seq: toast.seq})
		require.NotNil(t, cmd)
		msg := cmd()
		timeout, ok := msg.(TimeoutMsg)
		require.True(t, ok)
		assert.Equal(t, toast.seq, timeout.Seq)
		assert.False(t, toast.Visible())
	})

	t.Run("stale ticks are ignored after dismiss", func(t *testing.T) {
		t.Parallel()
		toast, clock := newTestToast()
		toast.Show("Deferred, press u to undo", 5*time.Second)
		staleSeq := toast.seq

		toast.Dismiss()
		assert.False(t, toast.Visible())

		clock.Advance(10 * time.Second)
		_, cmd := toast.Update(tickMsg{seq: staleSeq})
		assert.Nil(t, cmd)
		assert.False(t, toast.Visible())
	})

	t.Run("show replaces the previous toast", func(t *testing.T) {
		t.Parallel()
		toast, clock := newTestToast()
		toast.Show("first", 5*time.Second)
		firstSeq := toast.seq

		clock.Advance(time.Second)
		toast.Show("second", 5*time.Second)
		assert.Equal(t, "second", toast.Message())

		// The first toast's timer can no longer expire the second one.
		clock.Advance(10 * time.Second)
		_, cmd := toast.Update(tickMsg{seq: firstSeq})
		assert.Nil(t, cmd)
		assert.True(t, toast.Visible())
	})

	t.Run("a late tick cannot revive an expired toast", func(t *testing.T) {
		t.Parallel()
		toast, clock := newTestToast()
		toast.Show("going", time.Second)

		clock.Advance(2 * time.Second)
		_, cmd := toast.Update(tickMsg{seq: toast.seq})
		require.NotNil(t, cmd)
		assert.False(t, toast.Visible())

		// Replaying the same tick after expiry is a no-op.
		_, cmd = toast.Update(tickMsg{seq: toast.seq})
		assert.Nil(t, cmd)
	})
}
