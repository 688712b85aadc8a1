// Package notify is the ordered callback set behind every change
// notification in skyfx: surface pointer, resize and scroll events and the
// theme signal.
package notify

// Set is an ordered set of callbacks with cancel handles. The zero value is
// ready to use. Not safe for concurrent use.
type Set[T any] struct {
	next uint64
	ids  []uint64
	fns  map[uint64]func(T)
}

// Add registers fn and returns the func that removes it. Cancelling twice is harmless.
func (s *Set[T]) Add(fn func(T)) (cancel func()) {
	if s.fns == nil {
		s.fns = make(map[uint64]func(T))
	}
	s.next++
	id := s.next
	s.ids = append(s.ids, id)
	s.fns[id] = fn
	return func() { s.remove(id) }
}

func (s *Set[T]) remove(id uint64) {
	if _, ok := s.fns[id]; !ok {
		return
	}
	delete(s.fns, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
}

// Emit calls every callback registered before the call, in registration
// order, skipping any that an earlier callback removed.
func (s *Set[T]) Emit(v T) {
	if len(s.ids) == 0 {
		return
	}
	ids := make([]uint64, len(s.ids))
	copy(ids, s.ids)
	for _, id := range ids {
		if fn, ok := s.fns[id]; ok {
			fn(v)
		}
	}
}

func (s *Set[T]) Len() int { return len(s.fns) }
