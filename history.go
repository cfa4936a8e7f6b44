package zepstream

import "sync"

// History maintains an ordered log of values, such as the messages exchanged
// on a thread.
//
// It is generic in T, T being the representation of one entry. It is safe for
// concurrent use.
type History[T any] struct {
	mu      sync.RWMutex
	history []T
}

// Save records an entry to the history.
func (h *History[T]) Save(entry T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.history = append(h.history, entry)
}

// Load returns a copy of the history.
func (h *History[T]) Load() []T {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]T, len(h.history))
	copy(out, h.history)

	return out
}

// Last returns at most the n latest entries, oldest first.
func (h *History[T]) Last(n int) []T {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n <= 0 || n > len(h.history) {
		n = len(h.history)
	}

	out := make([]T, n)
	copy(out, h.history[len(h.history)-n:])

	return out
}

// Len returns the number of entries in the history.
func (h *History[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.history)
}

// Clear removes all history.
func (h *History[T]) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.history = []T{}
}
