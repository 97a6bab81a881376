package reactive

import (
	"reflect"
	"sync"
)

// Signal is an atomic reactive value: Set notifies subscribers, in
// registration order, only when the new value differs from the current one
// by deep equality (§4.5).
type Signal[V any] struct {
	mu    sync.Mutex
	value V

	subs     []*subscription[V]
	nextSubID uint64

	notifying bool
	pending   []V
}

type subscription[V any] struct {
	id      uint64
	effect  func(V)
	cleanup func()
}

// NewSignal creates a Signal holding the given initial value.
func NewSignal[V any](initial V) *Signal[V] {
	return &Signal[V]{value: initial}
}

// Get returns the current value.
func (s *Signal[V]) Get() V {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set updates the value and notifies subscribers if it changed by deep
// equality. A Set called while already notifying (re-entrant from within an
// effect) is queued and drained after the current notification finishes,
// preserving registration-order delivery without recursive re-entry.
func (s *Signal[V]) Set(v V) {
	s.mu.Lock()
	if reflect.DeepEqual(s.value, v) {
		s.mu.Unlock()
		return
	}
	if s.notifying {
		s.pending = append(s.pending, v)
		s.mu.Unlock()
		return
	}
	s.notifying = true
	s.value = v
	s.mu.Unlock()

	s.notify(v)

	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.notifying = false
			s.mu.Unlock()
			return
		}
		next := s.pending[0]
		s.pending = s.pending[1:]
		if reflect.DeepEqual(s.value, next) {
			s.mu.Unlock()
			continue
		}
		s.value = next
		s.mu.Unlock()
		s.notify(next)
	}
}

func (s *Signal[V]) notify(v V) {
	s.mu.Lock()
	subs := make([]*subscription[V], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		if sub.cleanup != nil {
			sub.cleanup()
			sub.cleanup = nil
		}
		sub.effect(v)
	}
}

// Use runs effect(current) immediately, then on every subsequent change
// runs any cleanup the prior effect call returned before running
// effect(new). Returns an unsubscribe function. If a scope is active (see
// PushScope/WithScope), the unsubscribe is attached to it automatically.
func (s *Signal[V]) Use(effect func(v V) (cleanup func())) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	sub := &subscription[V]{id: id}
	sub.effect = func(v V) { sub.cleanup = effect(v) }
	s.subs = append(s.subs, sub)
	current := s.value
	s.mu.Unlock()

	sub.effect(current)

	unsub := func() {
		s.mu.Lock()
		for i, e := range s.subs {
			if e.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		if sub.cleanup != nil {
			sub.cleanup()
			sub.cleanup = nil
		}
	}

	if scope := activeScope(); scope != nil {
		scope.OnDispose(unsub)
	}
	return unsub
}
