// Package list implements a windowed (virtualized) vertical list with
// keyboard-driven focus navigation and per-item swipe gesture recognition.
// Only the items intersecting the viewport, plus an overscan margin, are
// ever realized; the list still reports its full virtual height so
// scrolling behaves as if every item were present.
package list

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/sift-sh/sift/internal/csync"
	"github.com/sift-sh/sift/internal/tui/components/core/layout"
	"github.com/sift-sh/sift/internal/tui/util"
)

// Item is a renderable list entry with a stable identity.
type Item interface {
	util.Model
	layout.Sizeable
	ID() string
}

// Swipeable items receive drag feedback while a gesture is in progress.
type Swipeable interface {
	SetDrag(dx float64, direction SwipeDirection, willTrigger bool)
	ClearDrag()
}

// Align controls where ScrollToIndex places the target item in the
// viewport.
type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

const (
	// ItemNotFound is returned by index lookups that miss.
	ItemNotFound = -1
	// wheelScrollSize is how many rows one wheel tick moves.
	wheelScrollSize = 2
	// defaultOverscan is how many extra items are realized beyond the
	// visible range on each side.
	defaultOverscan = 3
	// defaultEstimatedSize seeds the measurement cache before an item is
	// first rendered.
	defaultEstimatedSize = 3
)

// FocusChangedMsg is emitted after the focused index moved. Boundary
// no-ops do not emit it.
type FocusChangedMsg struct {
	Index int
	ID    string
}

// PrimaryActionMsg is emitted when the focused item is activated.
type PrimaryActionMsg struct {
	Index int
	ID    string
}

// SwipeMsg is emitted when a drag resolves to a directional swipe. It
// carries the item's identity, not the item, so handlers stay stable
// across re-renders.
type SwipeMsg struct {
	ID        string
	Direction SwipeDirection
}

// ItemClickMsg is emitted when a drag resolves to a tap.
type ItemClickMsg struct {
	Index int
	ID    string
}

// List is a windowed vertical list of items.
type List[T Item] interface {
	util.Model
	layout.Sizeable
	layout.Focusable

	SetItems([]T) tea.Cmd
	Items() []T
	InsertItem(index int, item T) tea.Cmd
	AppendItem(T) tea.Cmd
	DeleteItem(id string) tea.Cmd
	UpdateItem(id string, item T) tea.Cmd

	FocusedIndex() int
	FocusedItem() *T
	SetFocusedIndex(int) tea.Cmd
	SelectAbove() tea.Cmd
	SelectBelow() tea.Cmd
	GoToTop() tea.Cmd
	GoToBottom() tea.Cmd

	ScrollToIndex(index int, align Align) tea.Cmd
	ScrollOffset() int
	SetScrollOffset(offset int) tea.Cmd
	Measure() tea.Cmd
	SetEstimatedSize(size int) tea.Cmd
	TotalSize() int
	VisibleRange() (start, end int)
	MountedRange() (start, end int)
}

type visibleRange struct {
	start, end                 int
	overscanStart, overscanEnd int
}

type confOptions struct {
	width, height int
	gap           int
	paddingStart  int
	paddingEnd    int
	estimatedSize int
	overscan      int
	keyMap        KeyMap
	focused       bool
	keyboard      bool
	focusedIndex  int
	thresholds    GestureThresholds
	now           func() time.Time
}

type list[T Item] struct {
	*confOptions

	offset int

	items    *csync.Slice[T]
	indexMap *csync.Map[string, int]

	cache     *sizeCache
	viewCache *csync.Map[string, string]
	tracker   *dragTracker

	renderMu  sync.Mutex
	rendered  string
	lastRange visibleRange
}

// ListOption configures a List.
type ListOption func(*confOptions)

// WithSize sets the size of the list.
func WithSize(width, height int) ListOption {
	return func(l *confOptions) {
		l.width = width
		l.height = height
	}
}

// WithGap sets the gap between items in the list.
func WithGap(gap int) ListOption {
	return func(l *confOptions) {
		l.gap = gap
	}
}

// WithPadding sets the leading and trailing padding of the virtual space.
func WithPadding(start, end int) ListOption {
	return func(l *confOptions) {
		l.paddingStart = start
		l.paddingEnd = end
	}
}

// WithEstimatedSize sets the assumed height of unmeasured items.
func WithEstimatedSize(size int) ListOption {
	return func(l *confOptions) {
		l.estimatedSize = size
	}
}

// WithOverscan sets how many extra items are realized beyond the visible
// range on each side.
func WithOverscan(overscan int) ListOption {
	return func(l *confOptions) {
		l.overscan = overscan
	}
}

// WithKeyMap overrides the navigation key bindings.
func WithKeyMap(keyMap KeyMap) ListOption {
	return func(l *confOptions) {
		l.keyMap = keyMap
	}
}

// WithFocus sets the initial focus state of the list component.
func WithFocus(focus bool) ListOption {
	return func(l *confOptions) {
		l.focused = focus
	}
}

// WithKeyboardNavigation enables or disables keyboard handling.
func WithKeyboardNavigation(enabled bool) ListOption {
	return func(l *confOptions) {
		l.keyboard = enabled
	}
}

// WithFocusedIndex sets the initially focused item.
func WithFocusedIndex(index int) ListOption {
	return func(l *confOptions) {
		l.focusedIndex = index
	}
}

// WithGestureThresholds overrides the swipe classification tuning.
func WithGestureThresholds(t GestureThresholds) ListOption {
	return func(l *confOptions) {
		l.thresholds = t
	}
}

// WithClock overrides the time source used for gesture velocity. Used by
// tests.
func WithClock(now func() time.Time) ListOption {
	return func(l *confOptions) {
		l.now = now
	}
}

// New creates a windowed list over the given items.
func New[T Item](items []T, opts ...ListOption) List[T] {
	l := &list[T]{
		confOptions: &confOptions{
			estimatedSize: defaultEstimatedSize,
			overscan:      defaultOverscan,
			keyMap:        DefaultKeyMap(),
			focused:       true,
			keyboard:      true,
			focusedIndex:  -1,
			thresholds:    DefaultGestureThresholds(false),
			now:           time.Now,
		},
		items:     csync.NewSliceFrom(items),
		indexMap:  csync.NewMap[string, int](),
		viewCache: csync.NewMap[string, string](),
	}
	for _, opt := range opts {
		opt(l.confOptions)
	}
	l.cache = newSizeCache(l.estimatedSize, l.gap, l.paddingStart, l.paddingEnd)
	l.tracker = newDragTracker(l.thresholds)
	l.syncKeys()
	return l
}

// Init implements List.
func (l *list[T]) Init() tea.Cmd {
	var cmds []tea.Cmd
	for item := range l.items.Seq() {
		if cmd := item.Init(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if l.width > 0 && l.height > 0 {
			if cmd := item.SetSize(l.width, l.height); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	if l.focusedIndex < 0 && l.items.Len() > 0 {
		l.focusedIndex = 0
	}
	l.clampFocus()
	cmds = append(cmds, l.applyFocusFlags(), l.render())
	return tea.Batch(cmds...)
}

// Update implements List.
func (l *list[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if !l.focused || !l.keyboard || l.items.Len() == 0 {
			return l, nil
		}
		switch {
		case key.Matches(msg, l.keyMap.Down):
			return l, l.SelectBelow()
		case key.Matches(msg, l.keyMap.Up):
			return l, l.SelectAbove()
		case key.Matches(msg, l.keyMap.Home):
			return l, l.GoToTop()
		case key.Matches(msg, l.keyMap.End):
			return l, l.GoToBottom()
		case key.Matches(msg, l.keyMap.Select):
			if l.focusedIndex < 0 {
				return l, nil
			}
			item, ok := l.items.Get(l.focusedIndex)
			if !ok {
				return l, nil
			}
			return l, util.CmdHandler(PrimaryActionMsg{
				Index: l.focusedIndex,
				ID:    item.ID(),
			})
		}
	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelDown:
			return l, l.SetScrollOffset(l.offset + wheelScrollSize)
		case tea.MouseWheelUp:
			return l, l.SetScrollOffset(l.offset - wheelScrollSize)
		}
	case tea.MouseClickMsg:
		if msg.Button != tea.MouseLeft {
			return l, nil
		}
		return l, l.beginDrag(msg.X, msg.Y)
	case tea.MouseMotionMsg:
		return l, l.moveDrag(msg.X, msg.Y)
	case tea.MouseReleaseMsg:
		return l, l.endDrag(msg.X, msg.Y)
	}
	return l, nil
}

// View implements List.
func (l *list[T]) View() string {
	if l.width <= 0 || l.height <= 0 {
		return ""
	}
	l.renderMu.Lock()
	defer l.renderMu.Unlock()
	return l.rendered
}

// beginDrag starts gesture tracking on the item under the pointer.
func (l *list[T]) beginDrag(x, y int) tea.Cmd {
	if l.items.Len() == 0 {
		return nil
	}
	inx := l.indexAtPoint(y)
	if inx == ItemNotFound {
		return nil
	}
	item, ok := l.items.Get(inx)
	if !ok {
		return nil
	}
	l.tracker.Begin(item.ID(), float64(x), float64(y), l.now())
	return nil
}

func (l *list[T]) moveDrag(x, y int) tea.Cmd {
	if !l.tracker.Active() {
		return nil
	}
	id := l.tracker.Key()
	changed := l.tracker.Move(float64(x), float64(y), l.now())
	if !changed {
		return nil
	}
	if !l.tracker.Dragging() {
		// Reclassified as a vertical scroll: clear any feedback shown so far.
		l.clearDragFeedback(id)
		return l.render()
	}
	if inx, ok := l.indexMap.Get(id); ok {
		if item, ok := l.items.Get(inx); ok {
			if sw, ok := any(item).(Swipeable); ok {
				sw.SetDrag(l.tracker.DX(), l.tracker.Direction(), l.tracker.WillTrigger())
				l.viewCache.Del(id)
			}
		}
	}
	return l.render()
}

func (l *list[T]) endDrag(x, y int) tea.Cmd {
	if !l.tracker.Active() {
		return nil
	}
	res := l.tracker.End(float64(x), float64(y), l.now())
	l.clearDragFeedback(res.Key)

	// The item may have been removed mid-drag by a concurrent list
	// mutation; a gesture on a gone item is discarded, not acted on.
	inx, ok := l.indexMap.Get(res.Key)
	if !ok {
		return l.render()
	}

	var cmd tea.Cmd
	switch res.Kind {
	case GestureTap:
		cmd = util.CmdHandler(ItemClickMsg{Index: inx, ID: res.Key})
	case GestureSwipeLeft:
		cmd = util.CmdHandler(SwipeMsg{ID: res.Key, Direction: SwipeLeft})
	case GestureSwipeRight:
		cmd = util.CmdHandler(SwipeMsg{ID: res.Key, Direction: SwipeRight})
	}
	return tea.Batch(l.render(), cmd)
}

func (l *list[T]) clearDragFeedback(key string) {
	if key == "" {
		return
	}
	if inx, ok := l.indexMap.Get(key); ok {
		if item, ok := l.items.Get(inx); ok {
			if sw, ok := any(item).(Swipeable); ok {
				sw.ClearDrag()
				l.viewCache.Del(key)
			}
		}
	}
}

// indexAtPoint maps a viewport row to an item index.
func (l *list[T]) indexAtPoint(y int) int {
	if y < 0 || y >= l.height {
		return ItemNotFound
	}
	virtual := y + l.offset
	if virtual >= l.cache.total()-l.paddingEnd || virtual < l.cache.offsetOf(0) {
		return ItemNotFound
	}
	return l.cache.indexAt(virtual)
}

// SelectBelow implements List. At the last index this is a no-op and no
// focus-change message is emitted.
func (l *list[T]) SelectBelow() tea.Cmd {
	n := l.items.Len()
	if n == 0 || l.focusedIndex >= n-1 {
		return nil
	}
	return l.setFocus(l.focusedIndex + 1)
}

// SelectAbove implements List. At index 0 this is a no-op and no
// focus-change message is emitted.
func (l *list[T]) SelectAbove() tea.Cmd {
	if l.items.Len() == 0 || l.focusedIndex <= 0 {
		return nil
	}
	return l.setFocus(l.focusedIndex - 1)
}

// GoToTop implements List.
func (l *list[T]) GoToTop() tea.Cmd {
	if l.items.Len() == 0 {
		return nil
	}
	return l.setFocus(0)
}

// GoToBottom implements List.
func (l *list[T]) GoToBottom() tea.Cmd {
	n := l.items.Len()
	if n == 0 {
		return nil
	}
	return l.setFocus(n - 1)
}

// SetFocusedIndex implements List.
func (l *list[T]) SetFocusedIndex(index int) tea.Cmd {
	n := l.items.Len()
	if n == 0 {
		return nil
	}
	return l.setFocus(index)
}

func (l *list[T]) setFocus(index int) tea.Cmd {
	n := l.items.Len()
	index = min(max(index, 0), n-1)
	if index == l.focusedIndex {
		return nil
	}
	l.focusedIndex = index
	cmds := []tea.Cmd{
		l.applyFocusFlags(),
		l.ScrollToIndex(index, AlignCenter),
	}
	if item, ok := l.items.Get(index); ok {
		cmds = append(cmds, util.CmdHandler(FocusChangedMsg{
			Index: index,
			ID:    item.ID(),
		}))
	}
	return tea.Batch(cmds...)
}

// applyFocusFlags makes item focus flags agree with focusedIndex; at most
// one item carries the flag.
func (l *list[T]) applyFocusFlags() tea.Cmd {
	var cmds []tea.Cmd
	for inx, item := range l.items.Seq2() {
		f, ok := any(item).(layout.Focusable)
		if !ok {
			continue
		}
		focused := l.focused && inx == l.focusedIndex
		if focused && !f.IsFocused() {
			cmds = append(cmds, f.Focus())
			l.viewCache.Del(item.ID())
		} else if !focused && f.IsFocused() {
			cmds = append(cmds, f.Blur())
			l.viewCache.Del(item.ID())
		}
	}
	return tea.Batch(cmds...)
}

// FocusedIndex implements List.
func (l *list[T]) FocusedIndex() int {
	return l.focusedIndex
}

// FocusedItem implements List.
func (l *list[T]) FocusedItem() *T {
	if l.focusedIndex < 0 || l.focusedIndex >= l.items.Len() {
		return nil
	}
	item, ok := l.items.Get(l.focusedIndex)
	if !ok {
		return nil
	}
	return &item
}

// ScrollToIndex implements List. It works for indices that were never
// realized: the target offset comes from the measurement cache, not from
// live views.
func (l *list[T]) ScrollToIndex(index int, align Align) tea.Cmd {
	n := l.items.Len()
	if n == 0 {
		return nil
	}
	index = min(max(index, 0), n-1)
	start := l.cache.offsetOf(index)
	size := l.cache.sizeAt(index)

	var target int
	switch align {
	case AlignCenter:
		target = start - (l.height-size)/2
	case AlignEnd:
		target = start + size - l.height
	default:
		target = start
	}
	l.setOffset(target)
	return l.render()
}

// ScrollOffset implements List.
func (l *list[T]) ScrollOffset() int {
	return l.offset
}

// SetScrollOffset implements List.
func (l *list[T]) SetScrollOffset(offset int) tea.Cmd {
	l.setOffset(offset)
	return l.render()
}

func (l *list[T]) setOffset(offset int) {
	maxOffset := l.cache.total() - l.height
	if maxOffset < 0 {
		maxOffset = 0
	}
	l.offset = min(max(offset, 0), maxOffset)
}

// Measure implements List: every currently mounted item is re-measured on
// the next render, dropping any stale cached size.
func (l *list[T]) Measure() tea.Cmd {
	rng := l.lastRange
	for i := rng.overscanStart; i >= 0 && i <= rng.overscanEnd; i++ {
		if item, ok := l.items.Get(i); ok {
			l.viewCache.Del(item.ID())
			l.cache.forget(item.ID())
		}
	}
	return l.render()
}

// SetEstimatedSize implements List. Changing the estimate invalidates the
// whole measurement cache.
func (l *list[T]) SetEstimatedSize(size int) tea.Cmd {
	l.cache.setEstimate(size)
	l.viewCache = csync.NewMap[string, string]()
	return l.render()
}

// TotalSize implements List: the full virtual height, mounted or not.
func (l *list[T]) TotalSize() int {
	return l.cache.total()
}

// VisibleRange implements List.
func (l *list[T]) VisibleRange() (int, int) {
	return l.lastRange.start, l.lastRange.end
}

// MountedRange implements List.
func (l *list[T]) MountedRange() (int, int) {
	return l.lastRange.overscanStart, l.lastRange.overscanEnd
}

// SetItems implements List.
func (l *list[T]) SetItems(items []T) tea.Cmd {
	l.items.SetSlice(items)
	l.syncKeys()
	if l.focusedIndex < 0 && l.items.Len() > 0 {
		l.focusedIndex = 0
	}
	l.clampFocus()
	var cmds []tea.Cmd
	for item := range l.items.Seq() {
		cmds = append(cmds, item.Init())
		if l.width > 0 && l.height > 0 {
			cmds = append(cmds, item.SetSize(l.width, l.height))
		}
	}
	cmds = append(cmds, l.applyFocusFlags(), l.render())
	return tea.Batch(cmds...)
}

// Items implements List.
func (l *list[T]) Items() []T {
	out := make([]T, 0, l.items.Len())
	for item := range l.items.Seq() {
		out = append(out, item)
	}
	return out
}

// InsertItem implements List. Inserting at or above the focused index
// keeps the same item focused so an undone removal does not steal focus.
func (l *list[T]) InsertItem(index int, item T) tea.Cmd {
	n := l.items.Len()
	index = min(max(index, 0), n)
	l.items.Insert(index, item)
	if l.focusedIndex >= index {
		l.focusedIndex++
	}
	if l.focusedIndex < 0 {
		l.focusedIndex = index
	}
	l.syncKeys()

	cmds := []tea.Cmd{item.Init()}
	if l.width > 0 && l.height > 0 {
		cmds = append(cmds, item.SetSize(l.width, l.height))
	}
	cmds = append(cmds, l.applyFocusFlags(), l.render())
	return tea.Batch(cmds...)
}

// AppendItem implements List.
func (l *list[T]) AppendItem(item T) tea.Cmd {
	return l.InsertItem(l.items.Len(), item)
}

// DeleteItem implements List. The focused index is clamped back into range
// when the deletion shrinks the list under it.
func (l *list[T]) DeleteItem(id string) tea.Cmd {
	inx, ok := l.indexMap.Get(id)
	if !ok {
		return nil
	}
	if l.tracker.Active() && l.tracker.Key() == id {
		// The dragged item is going away; the in-progress gesture must be
		// discarded, not acted on.
		l.tracker.Cancel()
	}
	l.items.Delete(inx)
	l.viewCache.Del(id)
	l.syncKeys()

	if l.focusedIndex > inx {
		l.focusedIndex--
	}
	l.clampFocus()
	l.setOffset(l.offset)
	return tea.Batch(l.applyFocusFlags(), l.render())
}

// UpdateItem implements List.
func (l *list[T]) UpdateItem(id string, item T) tea.Cmd {
	inx, ok := l.indexMap.Get(id)
	if !ok {
		return nil
	}
	l.items.Set(inx, item)
	l.viewCache.Del(id)

	cmds := []tea.Cmd{item.Init()}
	if l.width > 0 && l.height > 0 {
		cmds = append(cmds, item.SetSize(l.width, l.height))
	}
	cmds = append(cmds, l.render())
	return tea.Batch(cmds...)
}

// Focus implements List.
func (l *list[T]) Focus() tea.Cmd {
	l.focused = true
	return tea.Batch(l.applyFocusFlags(), l.render())
}

// Blur implements List.
func (l *list[T]) Blur() tea.Cmd {
	l.focused = false
	return tea.Batch(l.applyFocusFlags(), l.render())
}

// IsFocused implements List.
func (l *list[T]) IsFocused() bool {
	return l.focused
}

// SetSize implements List.
func (l *list[T]) SetSize(width, height int) tea.Cmd {
	widthChanged := l.width != width
	l.width = width
	l.height = height
	var cmds []tea.Cmd
	if widthChanged {
		// Item views reflow on width changes: all measurements are stale.
		l.viewCache = csync.NewMap[string, string]()
		l.cache.invalidate()
		for item := range l.items.Seq() {
			cmds = append(cmds, item.SetSize(width, height))
		}
	}
	l.setOffset(l.offset)
	cmds = append(cmds, l.render())
	return tea.Batch(cmds...)
}

// GetSize implements List.
func (l *list[T]) GetSize() (int, int) {
	return l.width, l.height
}

func (l *list[T]) clampFocus() {
	n := l.items.Len()
	if n == 0 {
		l.focusedIndex = -1
		return
	}
	if l.focusedIndex >= n {
		l.focusedIndex = n - 1
	}
}

func (l *list[T]) syncKeys() {
	keys := make([]string, 0, l.items.Len())
	l.indexMap = csync.NewMap[string, int]()
	for inx, item := range l.items.Seq2() {
		keys = append(keys, item.ID())
		l.indexMap.Set(item.ID(), inx)
	}
	l.cache.setKeys(keys)
}

// computeRange maps the current scroll offset and viewport to the visible
// index range plus the overscan margin.
func (l *list[T]) computeRange() visibleRange {
	n := l.items.Len()
	if n == 0 || l.height <= 0 {
		return visibleRange{start: -1, end: -1, overscanStart: 0, overscanEnd: -1}
	}
	viewStart := l.offset
	viewEnd := l.offset + l.height - 1

	start := l.cache.indexAt(viewStart)
	end := l.cache.indexAt(viewEnd)
	return visibleRange{
		start:         start,
		end:           end,
		overscanStart: max(0, start-l.overscan),
		overscanEnd:   min(n-1, end+l.overscan),
	}
}

// render recomputes the visible range, measures the mounted items, and
// rebuilds the viewport string. It is idempotent and side-effect-free
// apart from the mount set, so coalesced scroll events are safe.
func (l *list[T]) render() tea.Cmd {
	if l.width <= 0 || l.height <= 0 {
		return nil
	}
	if l.items.Len() == 0 {
		l.lastRange = visibleRange{start: -1, end: -1, overscanStart: 0, overscanEnd: -1}
		l.renderMu.Lock()
		l.rendered = ""
		l.renderMu.Unlock()
		return nil
	}

	// Measuring a mounted item can shift the offsets the range was computed
	// from; run to a fixed point (bounded, measurements settle fast).
	var rng visibleRange
	for range 3 {
		rng = l.computeRange()
		if !l.measureMounted(rng) {
			break
		}
		l.setOffset(l.offset)
	}
	l.lastRange = rng

	out := l.renderWindow(rng)
	l.renderMu.Lock()
	l.rendered = out
	l.renderMu.Unlock()
	return nil
}

// measureMounted realizes the views for the mounted range and records their
// actual heights. Reports whether any height materially changed.
func (l *list[T]) measureMounted(rng visibleRange) bool {
	changed := false
	for i := rng.overscanStart; i <= rng.overscanEnd; i++ {
		item, ok := l.items.Get(i)
		if !ok {
			continue
		}
		id := item.ID()
		view, ok := l.viewCache.Get(id)
		if !ok {
			view = item.View()
			l.viewCache.Set(id, view)
		}
		if l.cache.record(id, lipgloss.Height(view)) {
			changed = true
		}
	}
	return changed
}

// renderWindow assembles the viewport lines from the mounted items.
func (l *list[T]) renderWindow(rng visibleRange) string {
	viewStart := l.offset
	viewEnd := l.offset + l.height - 1

	var lines []string
	current := viewStart

	for i := rng.overscanStart; i <= rng.overscanEnd && i >= 0; i++ {
		start := l.cache.offsetOf(i)
		if start > viewEnd {
			break
		}
		end := start + l.cache.sizeAt(i) - 1
		if end < viewStart {
			continue
		}

		item, ok := l.items.Get(i)
		if !ok {
			continue
		}
		view, ok := l.viewCache.Get(item.ID())
		if !ok {
			view = item.View()
			l.viewCache.Set(item.ID(), view)
		}
		itemLines := strings.Split(view, "\n")

		// Gap or padding rows before this item.
		for current < start && current <= viewEnd {
			lines = append(lines, "")
			current++
		}

		from := 0
		if start < viewStart {
			from = viewStart - start
		}
		for j := from; j < len(itemLines) && current <= viewEnd; j++ {
			lines = append(lines, itemLines[j])
			current++
		}
	}

	// Keep the viewport a stable height once there is anything to scroll.
	if l.cache.total() > l.height || l.offset > 0 {
		for len(lines) < l.height {
			lines = append(lines, "")
		}
		if len(lines) > l.height {
			lines = lines[:l.height]
		}
	}

	return strings.Join(lines, "\n")
}
