package list

import "sort"

// sizeCache tracks per-item heights keyed by stable item ID. Items start out
// with the configured estimate and are upgraded to measured heights as they
// enter the window. Measurements survive an item leaving the window (and
// even leaving the list, so an undone removal comes back at its known size);
// they are only thrown away wholesale by invalidate.
//
// The running sum keeps totalSize O(1); cumulative offsets are rebuilt
// lazily when marked dirty, so repeated scroll ticks pay O(log n) for the
// binary search and nothing else.
type sizeCache struct {
	estimate     int
	gap          int
	paddingStart int
	paddingEnd   int

	keys     []string
	index    map[string]int
	measured map[string]int

	sum     int   // sum of best-known sizes for current keys
	offsets []int // cumulative start offset per index, including paddingStart
	dirty   bool

	lastIndex int // hint for indexAt; scroll moves in small deltas
}

func newSizeCache(estimate, gap, paddingStart, paddingEnd int) *sizeCache {
	if estimate < 1 {
		estimate = 1
	}
	return &sizeCache{
		estimate: estimate,
		gap:      gap,

		paddingStart: paddingStart,
		paddingEnd:   paddingEnd,
		index:        make(map[string]int),
		measured:     make(map[string]int),
	}
}

// setKeys installs a new list snapshot. O(n), only on data-set changes.
func (c *sizeCache) setKeys(keys []string) {
	c.keys = keys
	c.index = make(map[string]int, len(keys))
	c.sum = 0
	for i, k := range keys {
		c.index[k] = i
		c.sum += c.size(k)
	}
	c.dirty = true
	c.lastIndex = 0
}

// size returns the best-known height for a key.
func (c *sizeCache) size(key string) int {
	if s, ok := c.measured[key]; ok {
		return s
	}
	return c.estimate
}

// sizeAt returns the best-known height for an index.
func (c *sizeCache) sizeAt(i int) int {
	if i < 0 || i >= len(c.keys) {
		return 0
	}
	return c.size(c.keys[i])
}

// record stores a measured height and reports whether it materially changed
// the layout.
func (c *sizeCache) record(key string, size int) bool {
	if size < 1 {
		size = 1
	}
	old, had := c.measured[key]
	if had && old == size {
		return false
	}
	prev := c.size(key)
	c.measured[key] = size
	if _, present := c.index[key]; !present {
		return false
	}
	c.sum += size - prev
	c.dirty = true
	return true
}

// forget drops the measurement for a single key, falling back to the
// estimate until it is measured again.
func (c *sizeCache) forget(key string) {
	old, ok := c.measured[key]
	if !ok {
		return
	}
	delete(c.measured, key)
	if _, present := c.index[key]; present {
		c.sum += c.estimate - old
		c.dirty = true
	}
}

// invalidate throws away every measurement. Used when the estimate
// configuration changes.
func (c *sizeCache) invalidate() {
	c.measured = make(map[string]int)
	c.sum = len(c.keys) * c.estimate
	c.dirty = true
}

func (c *sizeCache) setEstimate(estimate int) {
	if estimate < 1 {
		estimate = 1
	}
	if estimate == c.estimate {
		return
	}
	c.estimate = estimate
	c.invalidate()
}

// total returns the full virtual height including gaps and padding. O(1).
func (c *sizeCache) total() int {
	n := len(c.keys)
	if n == 0 {
		return c.paddingStart + c.paddingEnd
	}
	return c.paddingStart + c.sum + c.gap*(n-1) + c.paddingEnd
}

func (c *sizeCache) ensureOffsets() {
	if !c.dirty && len(c.offsets) == len(c.keys) {
		return
	}
	c.offsets = make([]int, len(c.keys))
	off := c.paddingStart
	for i, k := range c.keys {
		c.offsets[i] = off
		off += c.size(k)
		if i < len(c.keys)-1 {
			off += c.gap
		}
	}
	c.dirty = false
}

// offsetOf returns the virtual start offset of the item at index i.
func (c *sizeCache) offsetOf(i int) int {
	c.ensureOffsets()
	if i < 0 || i >= len(c.offsets) {
		return c.paddingStart
	}
	return c.offsets[i]
}

// endOf returns the virtual offset one past the item's last line.
func (c *sizeCache) endOf(i int) int {
	return c.offsetOf(i) + c.sizeAt(i)
}

// indexAt returns the index of the item occupying the given virtual offset.
// Offsets inside a gap resolve to the item before the gap. The previous
// result is used as a hint since scroll moves in small deltas.
func (c *sizeCache) indexAt(offset int) int {
	n := len(c.keys)
	if n == 0 {
		return -1
	}
	c.ensureOffsets()
	if offset < c.offsets[0] {
		return 0
	}
	if offset >= c.endOf(n-1) {
		return n - 1
	}

	if c.contains(c.lastIndex, offset) {
		return c.lastIndex
	}
	for _, i := range []int{c.lastIndex - 1, c.lastIndex + 1} {
		if i >= 0 && i < n && c.contains(i, offset) {
			c.lastIndex = i
			return i
		}
	}

	// Binary search: greatest i with offsets[i] <= offset.
	i := sort.Search(n, func(i int) bool { return c.offsets[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	c.lastIndex = i
	return i
}

func (c *sizeCache) contains(i, offset int) bool {
	if i < 0 || i >= len(c.keys) {
		return false
	}
	start := c.offsets[i]
	end := c.endOf(i)
	if i < len(c.keys)-1 {
		end += c.gap
	}
	return offset >= start && offset < end
}
