package list

import (
	"math"
	"time"
)

// SwipeDirection is the horizontal direction of an in-progress or completed
// drag.
type SwipeDirection int8

const (
	SwipeNone SwipeDirection = iota
	SwipeLeft
	SwipeRight
)

func (d SwipeDirection) String() string {
	switch d {
	case SwipeLeft:
		return "left"
	case SwipeRight:
		return "right"
	default:
		return "none"
	}
}

// GestureKind is the final classification of a pointer drag.
type GestureKind int8

const (
	GestureNone GestureKind = iota
	GestureTap
	GestureSwipeLeft
	GestureSwipeRight
	GestureScroll
)

// Below this displacement (in cells, both axes) a release counts as a tap.
const tapSlop = 3.0

// GestureThresholds tunes drag classification. Distances are in cells,
// velocity in cells per millisecond, angle in degrees. Distance and
// velocity are alternative triggers: a slow long drag and a fast short
// flick both fire.
type GestureThresholds struct {
	Distance    float64
	Feedback    float64
	MaxAngleDeg float64
	Velocity    float64
}

// Default gesture tuning. The touch and pointer distances are independent
// constants, not derived from each other.
const (
	defaultDistanceTouch   = 80.0
	defaultDistancePointer = 50.0
	defaultFeedback        = 25.0
	defaultMaxAngleDeg     = 30.0
	defaultVelocity        = 0.3
)

// DefaultGestureThresholds returns the stock tuning for touch or pointer
// input.
func DefaultGestureThresholds(touch bool) GestureThresholds {
	distance := defaultDistancePointer
	if touch {
		distance = defaultDistanceTouch
	}
	return GestureThresholds{
		Distance:    distance,
		Feedback:    defaultFeedback,
		MaxAngleDeg: defaultMaxAngleDeg,
		Velocity:    defaultVelocity,
	}
}

// GestureResult is what a completed drag resolved to.
type GestureResult struct {
	Kind     GestureKind
	Key      string
	DX       float64
	Velocity float64
}

// dragTracker classifies a single pointer drag on one item. One tracker
// instance exists per active drag; it is reset when the drag ends, is
// cancelled, or is reclassified as a vertical scroll.
type dragTracker struct {
	thresholds GestureThresholds

	active   bool
	vertical bool
	key      string

	startX, startY float64
	startTime      time.Time

	dx, dy      float64
	dir         SwipeDirection
	willTrigger bool
}

func newDragTracker(thresholds GestureThresholds) *dragTracker {
	return &dragTracker{thresholds: thresholds}
}

// Active reports whether a drag is in progress (including one demoted to a
// vertical scroll).
func (t *dragTracker) Active() bool {
	return t.active
}

// Key returns the item the active drag started on.
func (t *dragTracker) Key() string {
	return t.key
}

// Dragging reports whether the drag is still being interpreted as a
// horizontal gesture.
func (t *dragTracker) Dragging() bool {
	return t.active && !t.vertical
}

// Direction returns the current visual-feedback direction.
func (t *dragTracker) Direction() SwipeDirection {
	return t.dir
}

// WillTrigger reports whether releasing right now would fire on distance
// alone.
func (t *dragTracker) WillTrigger() bool {
	return t.willTrigger
}

// DX returns the current horizontal displacement.
func (t *dragTracker) DX() float64 {
	return t.dx
}

// Begin starts tracking a drag on the item with the given key.
func (t *dragTracker) Begin(key string, x, y float64, now time.Time) {
	t.active = true
	t.vertical = false
	t.key = key
	t.startX, t.startY = x, y
	t.startTime = now
	t.dx, t.dy = 0, 0
	t.dir = SwipeNone
	t.willTrigger = false
}

// Move updates the classification with a new pointer position. It returns
// true when the visual feedback (direction or trigger state) changed.
func (t *dragTracker) Move(x, y float64, now time.Time) bool {
	if !t.active || t.vertical {
		return false
	}
	t.dx = x - t.startX
	t.dy = y - t.startY

	// A steep drag that hasn't committed horizontally is the host scrolling,
	// not a swipe. Give the drag back: reset feedback and stop intercepting.
	angle := math.Atan2(math.Abs(t.dy), math.Abs(t.dx)) * 180 / math.Pi
	if angle > t.thresholds.MaxAngleDeg && math.Abs(t.dx) < t.thresholds.Feedback {
		changed := t.dir != SwipeNone || t.willTrigger
		t.vertical = true
		t.dir = SwipeNone
		t.willTrigger = false
		return changed
	}

	dir := SwipeNone
	switch {
	case t.dx < -t.thresholds.Feedback:
		dir = SwipeLeft
	case t.dx > t.thresholds.Feedback:
		dir = SwipeRight
	}
	willTrigger := math.Abs(t.dx) >= t.thresholds.Distance

	changed := dir != t.dir || willTrigger != t.willTrigger
	t.dir = dir
	t.willTrigger = willTrigger
	return changed
}

// End finishes the drag and returns its classification. The distance and
// velocity thresholds are OR'd: a fast short flick triggers the same as a
// slow long drag. A tap never resolves to a swipe.
func (t *dragTracker) End(x, y float64, now time.Time) GestureResult {
	if !t.active {
		return GestureResult{Kind: GestureNone}
	}
	t.Move(x, y, now)

	res := GestureResult{Key: t.key, DX: t.dx}
	elapsed := now.Sub(t.startTime)
	if ms := float64(elapsed.Milliseconds()); ms > 0 {
		res.Velocity = math.Abs(t.dx) / ms
	}

	switch {
	case t.vertical:
		res.Kind = GestureScroll
	case math.Abs(t.dx) < tapSlop && math.Abs(t.dy) < tapSlop:
		res.Kind = GestureTap
	case t.dir == SwipeLeft && (math.Abs(t.dx) >= t.thresholds.Distance || res.Velocity >= t.thresholds.Velocity):
		res.Kind = GestureSwipeLeft
	case t.dir == SwipeRight && (math.Abs(t.dx) >= t.thresholds.Distance || res.Velocity >= t.thresholds.Velocity):
		res.Kind = GestureSwipeRight
	default:
		res.Kind = GestureNone
	}

	t.reset()
	return res
}

// Cancel discards the in-progress drag without acting on it. Used when the
// dragged item is unmounted mid-drag.
func (t *dragTracker) Cancel() {
	t.reset()
}

func (t *dragTracker) reset() {
	t.active = false
	t.vertical = false
	t.key = ""
	t.dx, t.dy = 0, 0
	t.dir = SwipeNone
	t.willTrigger = false
}
