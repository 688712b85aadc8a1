package scene

import "time"

// Clock reports the current frame time.
type Clock interface {
	Now() time.Duration
}

// Scheduler is the part of the frame clock the engines depend on.
type Scheduler interface {
	Clock
	Add(fn TickFunc) Handle
	Remove(h Handle) bool
	After(d time.Duration, fn func()) *Timer
	Every(d time.Duration, fn func()) *Timer
}

// TickFunc is called once per rendered frame with the frame delta in seconds.
type TickFunc func(dt float64)

// Handle identifies a registered TickFunc. The zero Handle is never issued.
type Handle uint64

type tickEntry struct {
	h       Handle
	fn      TickFunc
	removed bool
}

// Ticker is the frame clock. The host calls Tick once per frame; callbacks
// and timers all run synchronously inside that call.
type Ticker struct {
	now     time.Duration
	next    Handle
	entries []*tickEntry
	byID    map[Handle]*tickEntry
	timers  []*Timer
	ticking bool
}

var _ Scheduler = (*Ticker)(nil)

func NewTicker() *Ticker {
	return &Ticker{byID: make(map[Handle]*tickEntry)}
}

func (t *Ticker) Now() time.Duration { return t.now }

// Add registers fn. A callback added during Tick first runs on the next Tick.
func (t *Ticker) Add(fn TickFunc) Handle {
	t.next++
	e := &tickEntry{h: t.next, fn: fn}
	t.entries = append(t.entries, e)
	t.byID[e.h] = e
	return e.h
}

// Remove unregisters the callback. It is safe to call from inside a callback,
// including the callback being removed.
func (t *Ticker) Remove(h Handle) bool {
	e, ok := t.byID[h]
	if !ok {
		return false
	}
	delete(t.byID, h)
	e.removed = true
	if !t.ticking {
		t.compact()
	}
	return true
}

// Len is the number of registered callbacks.
func (t *Ticker) Len() int { return len(t.byID) }

// Tick advances the clock by dt seconds, runs every callback once in
// registration order, then fires the timers that became due.
func (t *Ticker) Tick(dt float64) {
	if dt < 0 {
		dt = 0
	}
	t.now += time.Duration(dt * float64(time.Second))

	t.ticking = true
	n := len(t.entries)
	for i := 0; i < n; i++ {
		e := t.entries[i]
		if e.removed {
			continue
		}
		e.fn(dt)
	}
	t.ticking = false
	t.compact()

	t.fireTimers()
}

func (t *Ticker) compact() {
	live := t.entries[:0]
	for _, e := range t.entries {
		if !e.removed {
			live = append(live, e)
		}
	}
	for i := len(live); i < len(t.entries); i++ {
		t.entries[i] = nil
	}
	t.entries = live
}

// Timer is a one-shot or repeating callback driven by the Ticker clock.
type Timer struct {
	due      time.Duration
	interval time.Duration // zero for one-shot
	fn       func()
	stopped  bool
}

// After schedules fn once, d after the current frame time.
func (t *Ticker) After(d time.Duration, fn func()) *Timer {
	return t.schedule(d, 0, fn)
}

// Every schedules fn every d, first firing d from now. d must be positive.
func (t *Ticker) Every(d time.Duration, fn func()) *Timer {
	if d <= 0 {
		d = time.Millisecond
	}
	return t.schedule(d, d, fn)
}

func (t *Ticker) schedule(d, interval time.Duration, fn func()) *Timer {
	tm := &Timer{due: t.now + d, interval: interval, fn: fn}
	t.timers = append(t.timers, tm)
	return tm
}

// Stop cancels the timer. It reports whether the timer was still pending.
func (tm *Timer) Stop() bool {
	if tm == nil || tm.stopped {
		return false
	}
	tm.stopped = true
	return true
}

func (tm *Timer) Active() bool { return tm != nil && !tm.stopped }

// TimerCount is the number of pending timers.
func (t *Ticker) TimerCount() int {
	n := 0
	for _, tm := range t.timers {
		if !tm.stopped {
			n++
		}
	}
	return n
}

func (t *Ticker) fireTimers() {
	// Snapshot: timers scheduled by a firing timer wait for the next frame.
	pending := make([]*Timer, len(t.timers))
	copy(pending, t.timers)
	for _, tm := range pending {
		if tm.stopped || tm.due > t.now {
			continue
		}
		if tm.interval > 0 {
			// Long frames collapse into a single firing.
			for tm.due <= t.now {
				tm.due += tm.interval
			}
		} else {
			tm.stopped = true
		}
		tm.fn()
	}

	live := t.timers[:0]
	for _, tm := range t.timers {
		if !tm.stopped {
			live = append(live, tm)
		}
	}
	for i := len(live); i < len(t.timers); i++ {
		t.timers[i] = nil
	}
	t.timers = live
}
