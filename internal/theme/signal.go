package theme

import "skyfx/internal/notify"

// Signal is the single observable theme value. Owners call Set or Toggle;
// engines only read Current and Subscribe. Not safe for concurrent use.
type Signal struct {
	cur  Theme
	subs notify.Set[Theme]
}

func NewSignal(initial Theme) *Signal {
	return &Signal{cur: initial}
}

func (s *Signal) Current() Theme { return s.cur }

// Set changes the theme and notifies subscribers in subscription order.
// Setting the current value again is a no-op.
func (s *Signal) Set(t Theme) {
	if t == s.cur {
		return
	}
	s.cur = t
	s.subs.Emit(t)
}

func (s *Signal) Toggle() Theme {
	s.Set(s.cur.Other())
	return s.cur
}

// Subscribe registers fn for change notifications. The returned func
// unsubscribes; calling it more than once is harmless.
func (s *Signal) Subscribe(fn func(Theme)) (unsubscribe func()) { return s.subs.Add(fn) }

func (s *Signal) SubscriberCount() int { return s.subs.Len() }
