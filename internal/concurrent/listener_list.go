// Package concurrent implements the lock-free copy-on-write listener
// list, the scoped-setting restore guard, and the codec-handle state
// machine shared by the accessor and streamer layers. Readers of a
// listener list never block: snapshots are published through an
// atomic.Pointer, with a mutex serializing writers only.
package concurrent

import (
	"sync"
	"sync/atomic"
)

// ListenerList is a copy-on-write vector of listeners.
// Add/Remove atomically swap in a new full copy of the backing slice under
// mu; ForEach snapshots the current slice via an atomic load and iterates
// it without holding a lock, so a listener may unregister itself mid-
// iteration without affecting the in-flight snapshot.
type ListenerList[T comparable] struct {
	snapshot atomic.Pointer[[]T]
	mu       sync.Mutex
}

// Add appends listener and returns the new length, so callers can run
// edge-of-one side effects (e.g. "enable underlying callback on first
// listener") when the returned length is 1.
func (l *ListenerList[T]) Add(listener T) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	cur := l.current()
	next := make([]T, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, listener)
	l.snapshot.Store(&next)
	return len(next)
}

// Remove removes the first occurrence of listener and returns the new
// length, so callers can run edge-of-zero side effects (e.g. "disable
// underlying callback when the last listener unregisters").
func (l *ListenerList[T]) Remove(listener T) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	cur := l.current()
	next := make([]T, 0, len(cur))
	for _, v := range cur {
		if v == listener {
			continue
		}
		next = append(next, v)
	}
	l.snapshot.Store(&next)
	return len(next)
}

func (l *ListenerList[T]) current() []T {
	if p := l.snapshot.Load(); p != nil {
		return *p
	}
	return nil
}

// Len returns the current listener count.
func (l *ListenerList[T]) Len() int { return len(l.current()) }

// ForEach snapshots the current vector and iterates it without holding a
// lock.
func (l *ListenerList[T]) ForEach(f func(T)) {
	for _, v := range l.current() {
		f(v)
	}
}
