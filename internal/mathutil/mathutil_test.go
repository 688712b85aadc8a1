package mathutil

import (
	"math"
	"testing"
)

func TestRandDeterministic(t *testing.T) {
	a, b := NewRand(42), NewRand(42)
	for i := 0; i < 100; i++ {
		if a.NextU64() != b.NextU64() {
			t.Fatalf("streams diverged at %d", i)
		}
	}
	if NewRand(1).NextU64() == NewRand(2).NextU64() {
		t.Fatal("nearby seeds produced the same first value")
	}
}

func TestRandRanges(t *testing.T) {
	r := NewRand(7)
	for i := 0; i < 10000; i++ {
		if f := r.Float64(); f < 0 || f >= 1 {
			t.Fatalf("Float64 = %v", f)
		}
		if v := r.Range(2, 4); v < 2 || v > 4 {
			t.Fatalf("Range = %d", v)
		}
		if v := r.RangeF(-1, 1); v < -1 || v >= 1 {
			t.Fatalf("RangeF = %v", v)
		}
		if s := r.Sign(); s != 1 && s != -1 {
			t.Fatalf("Sign = %v", s)
		}
	}
	if r.Intn(0) != 0 || r.Range(5, 5) != 5 || r.RangeF(3, 1) != 3 {
		t.Fatal("degenerate ranges")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{-1, 0, 1, 0},
		{0.5, 0, 1, 0.5},
		{2, 0, 1, 1},
	}
	for _, tt := range tests {
		if got := ClampF(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("ClampF(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
	if Clamp(11, 0, 10) != 10 || Clamp(-3, 0, 10) != 0 {
		t.Error("Clamp")
	}
}

func TestVec(t *testing.T) {
	a := Vec2{X: 0, Y: 0}
	b := Vec2{X: 10, Y: -4}
	m := LerpVec(a, b, 0.5)
	if m.X != 5 || m.Y != -2 {
		t.Fatalf("midpoint = %v", m)
	}
	if d := (Vec2{X: 3, Y: 4}).Len(); d != 5 {
		t.Fatalf("Len = %v", d)
	}
	r := Vec2{X: 1}.Rotate(math.Pi / 2)
	if math.Abs(r.X) > 1e-12 || math.Abs(r.Y-1) > 1e-12 {
		t.Fatalf("Rotate = %v", r)
	}
}
