package csync

import (
	"iter"
	"slices"
	"sync"
)

// Slice is a generic slice safe for concurrent use.
type Slice[T any] struct {
	mu sync.RWMutex
	s  []T
}

// NewSlice returns an empty concurrent slice.
func NewSlice[T any]() *Slice[T] {
	return &Slice[T]{}
}

// NewSliceFrom copies the given slice into a new concurrent slice.
func NewSliceFrom[T any](s []T) *Slice[T] {
	return &Slice[T]{s: slices.Clone(s)}
}

// Append adds an item to the end of the slice.
func (s *Slice[T]) Append(items ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.s = append(s.s, items...)
}

// Prepend adds an item to the beginning of the slice.
func (s *Slice[T]) Prepend(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.s = append([]T{item}, s.s...)
}

// Insert places an item at the given index, shifting later items down.
// Out-of-range indexes are clamped.
func (s *Slice[T]) Insert(index int, item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 {
		index = 0
	}
	if index > len(s.s) {
		index = len(s.s)
	}
	s.s = slices.Insert(s.s, index, item)
}

// Delete removes the item at the given index.
func (s *Slice[T]) Delete(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.s) {
		return false
	}
	s.s = slices.Delete(s.s, index, index+1)
	return true
}

// Get returns the item at the given index.
func (s *Slice[T]) Get(index int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.s) {
		var zero T
		return zero, false
	}
	return s.s[index], true
}

// Set replaces the item at the given index.
func (s *Slice[T]) Set(index int, item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.s) {
		return false
	}
	s.s[index] = item
	return true
}

// SetSlice replaces the whole content.
func (s *Slice[T]) SetSlice(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.s = slices.Clone(items)
}

// Len returns the number of items.
func (s *Slice[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.s)
}

// Seq iterates over a snapshot of the slice.
func (s *Slice[T]) Seq() iter.Seq[T] {
	s.mu.RLock()
	snapshot := slices.Clone(s.s)
	s.mu.RUnlock()
	return func(yield func(T) bool) {
		for _, v := range snapshot {
			if !yield(v) {
				return
			}
		}
	}
}

// Seq2 iterates over a snapshot of the slice with indexes.
func (s *Slice[T]) Seq2() iter.Seq2[int, T] {
	s.mu.RLock()
	snapshot := slices.Clone(s.s)
	s.mu.RUnlock()
	return func(yield func(int, T) bool) {
		for i, v := range snapshot {
			if !yield(i, v) {
				return
			}
		}
	}
}
