package scene

import (
	"testing"
	"time"
)

func TestTickerRunsInOrder(t *testing.T) {
	tk := NewTicker()
	var got []int
	tk.Add(func(float64) { got = append(got, 1) })
	tk.Add(func(float64) { got = append(got, 2) })
	tk.Add(func(float64) { got = append(got, 3) })
	tk.Tick(1.0 / 60)
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("order = %v", got)
	}
}

func TestTickerRemoveDuringTick(t *testing.T) {
	tk := NewTicker()
	var calls [3]int
	var h2 Handle
	tk.Add(func(float64) {
		calls[0]++
		tk.Remove(h2)
	})
	h2 = tk.Add(func(float64) { calls[1]++ })
	var h3 Handle
	h3 = tk.Add(func(float64) {
		calls[2]++
		tk.Remove(h3)
	})

	tk.Tick(0.016)
	tk.Tick(0.016)

	if calls[0] != 2 {
		t.Errorf("first callback ran %d times, want 2", calls[0])
	}
	if calls[1] != 0 {
		t.Errorf("removed callback ran %d times", calls[1])
	}
	if calls[2] != 1 {
		t.Errorf("self-removing callback ran %d times, want 1", calls[2])
	}
	if tk.Len() != 1 {
		t.Errorf("Len = %d, want 1", tk.Len())
	}
}

func TestTickerAddDuringTickRunsNextFrame(t *testing.T) {
	tk := NewTicker()
	inner := 0
	added := false
	tk.Add(func(float64) {
		if !added {
			added = true
			tk.Add(func(float64) { inner++ })
		}
	})
	tk.Tick(0.016)
	if inner != 0 {
		t.Fatalf("callback added mid-tick ran in the same tick")
	}
	tk.Tick(0.016)
	if inner != 1 {
		t.Fatalf("inner = %d, want 1", inner)
	}
}

func TestTickerRemoveUnknown(t *testing.T) {
	tk := NewTicker()
	h := tk.Add(func(float64) {})
	if !tk.Remove(h) {
		t.Fatal("first Remove should report true")
	}
	if tk.Remove(h) {
		t.Fatal("second Remove should report false")
	}
	if tk.Remove(0) {
		t.Fatal("zero handle should not be registered")
	}
}

func TestTickerNowAccumulates(t *testing.T) {
	tk := NewTicker()
	tk.Tick(0.5)
	tk.Tick(0.25)
	tk.Tick(-1)
	if got, want := tk.Now(), 750*time.Millisecond; got != want {
		t.Fatalf("Now = %v, want %v", got, want)
	}
}

func TestTimers(t *testing.T) {
	tests := []struct {
		name   string
		repeat bool
		d      time.Duration
		frames int
		dt     float64
		want   int
	}{
		{"after fires once", false, 100 * time.Millisecond, 20, 0.016, 1},
		{"after not yet due", false, time.Second, 10, 0.016, 0},
		{"every fires per interval", true, 100 * time.Millisecond, 10, 0.05, 5},
		{"every collapses long frame", true, 100 * time.Millisecond, 1, 1.0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := NewTicker()
			n := 0
			if tt.repeat {
				tk.Every(tt.d, func() { n++ })
			} else {
				tk.After(tt.d, func() { n++ })
			}
			for i := 0; i < tt.frames; i++ {
				tk.Tick(tt.dt)
			}
			if n != tt.want {
				t.Fatalf("fired %d times, want %d", n, tt.want)
			}
		})
	}
}

func TestTimerStop(t *testing.T) {
	tk := NewTicker()
	n := 0
	tm := tk.Every(10*time.Millisecond, func() { n++ })
	tk.Tick(0.02)
	if !tm.Stop() {
		t.Fatal("Stop on active timer should report true")
	}
	if tm.Stop() {
		t.Fatal("second Stop should report false")
	}
	tk.Tick(0.02)
	if n != 1 {
		t.Fatalf("fired %d times, want 1", n)
	}
	if tk.TimerCount() != 0 {
		t.Fatalf("TimerCount = %d", tk.TimerCount())
	}
}

func TestTimerScheduledFromTimer(t *testing.T) {
	tk := NewTicker()
	fired := 0
	tk.After(0, func() {
		tk.After(0, func() { fired++ })
	})
	tk.Tick(0.01)
	if fired != 0 {
		t.Fatal("nested timer fired in the same frame")
	}
	tk.Tick(0.01)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
}
