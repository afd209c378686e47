package symbols

import "sync/atomic"

// setOnce is a write-once slot: Unset until the first successful set, Set
// forever after. A nil pointer is the Unset state.
type setOnce[T any] struct {
	v atomic.Pointer[T]
}

// set stores val and reports false if the slot was already Set.
func (s *setOnce[T]) set(val T) bool {
	return s.v.CompareAndSwap(nil, &val)
}

func (s *setOnce[T]) get() (T, bool) {
	p := s.v.Load()
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

func (s *setOnce[T]) isSet() bool { return s.v.Load() != nil }
