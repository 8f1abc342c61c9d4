package reactive

import (
	"reflect"
	"sync"
)

// signalBase provides type-erased subscriber management.
type signalBase struct {
	id uint64

	// subs are the listeners subscribed to this signal.
	subs []Listener

	// subMu protects the subs slice.
	subMu sync.RWMutex
}

// subscribe adds a listener. Deduplicates by listener ID.
func (s *signalBase) subscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for _, existing := range s.subs {
		if existing.ID() == lid {
			return
		}
	}
	s.subs = append(s.subs, l)
}

// unsubscribe removes a listener.
func (s *signalBase) unsubscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for i, existing := range s.subs {
		if existing.ID() == lid {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// snapshot copies the subscriber list so notification runs without locks.
func (s *signalBase) snapshot() []Listener {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	subs := make([]Listener, len(s.subs))
	copy(subs, s.subs)
	return subs
}

// notify marks every subscriber dirty, or queues them on b.
func (s *signalBase) notify(b *Batch) {
	subs := s.snapshot()
	if b != nil {
		b.queue(subs...)
		return
	}
	for _, sub := range subs {
		sub.MarkDirty()
	}
}

// Signal is an observable value container.
type Signal[T any] struct {
	base signalBase

	// value is the current signal value.
	value T

	// mu protects the value.
	mu sync.RWMutex

	// equal decides whether a write changes the value.
	// If nil, uses default equality checking.
	equal func(T, T) bool
}

// NewSignal creates a new signal with the given initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		base:  signalBase{id: nextID()},
		value: initial,
	}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set updates the value and notifies subscribers if it changed.
func (s *Signal[T]) Set(value T) {
	s.SetIn(nil, value)
}

// SetIn updates the value like Set; when b is non-nil, notifications are
// deferred until b is committed. Reports whether the value changed.
func (s *Signal[T]) SetIn(b *Batch, value T) bool {
	s.mu.Lock()
	changed := !s.equals(s.value, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()

	if changed {
		s.base.notify(b)
	}
	return changed
}

// Update atomically reads and updates the value.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	oldValue := s.value
	newValue := fn(oldValue)
	changed := !s.equals(oldValue, newValue)
	if changed {
		s.value = newValue
	}
	s.mu.Unlock()

	if changed {
		s.base.notify(nil)
	}
}

// Subscribe registers l and returns a function that removes it.
func (s *Signal[T]) Subscribe(l Listener) (unsubscribe func()) {
	s.base.subscribe(l)
	return func() { s.base.unsubscribe(l) }
}

// Unsubscribe removes l.
func (s *Signal[T]) Unsubscribe(l Listener) {
	s.base.unsubscribe(l)
}

// Subscribers returns the number of registered listeners.
func (s *Signal[T]) Subscribers() int {
	s.base.subMu.RLock()
	defer s.base.subMu.RUnlock()
	return len(s.base.subs)
}

// WithEquals configures a custom equality function and returns the signal.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.base.id
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals uses == for scalar dynamic types and reflect.DeepEqual for
// composites. Values of different dynamic types are never equal.
func defaultEquals[T any](a, b T) bool {
	av, bv := any(a), any(b)
	if av == nil || bv == nil {
		return av == nil && bv == nil
	}
	ta, tb := reflect.TypeOf(av), reflect.TypeOf(bv)
	if ta != tb {
		return false
	}
	switch ta.Kind() {
	case reflect.Slice, reflect.Map, reflect.Func, reflect.Struct, reflect.Array, reflect.Interface:
		return reflect.DeepEqual(av, bv)
	}
	return av == bv
}
