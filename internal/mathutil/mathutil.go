// Package mathutil holds the small numeric helpers shared by the effect engines.
package mathutil

import "math"

// Vec2 is a point or displacement in surface pixels.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vec2) Scale(k float64) Vec2 { return Vec2{X: v.X * k, Y: v.Y * k} }
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64 { return math.Hypot(v.X-o.X, v.Y-o.Y) }

// Rotate turns v by a radians around the origin.
func (v Vec2) Rotate(a float64) Vec2 {
	s, c := math.Sincos(a)
	return Vec2{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}

func LerpVec(a, b Vec2, t float64) Vec2 {
	return Vec2{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t)}
}

// Lerp interpolates linearly; t is not clamped.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ClampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// splitmix64 is a fast, high-quality 64-bit mixer.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Rand is a tiny deterministic RNG (xorshift64*).
// Not safe for concurrent use; each engine owns its own.
type Rand struct {
	s uint64
}

// NewRand seeds a generator. The seed is mixed so that nearby seeds
// still produce unrelated streams.
func NewRand(seed uint64) *Rand {
	s := splitmix64(seed)
	if s == 0 {
		s = 1
	}
	return &Rand{s: s}
}

func (r *Rand) NextU64() uint64 {
	x := r.s
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	r.s = x
	return x * 2685821657736338717
}

// Split derives an independent generator, e.g. one per engine.
func (r *Rand) Split() *Rand {
	return NewRand(r.NextU64())
}

func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.NextU64() % uint64(n))
}

// Range returns an int in [min, max].
func (r *Rand) Range(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.Intn(max-min+1)
}

// Float64 returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	return float64(r.NextU64()>>11) * (1.0 / (1 << 53))
}

// RangeF returns a value in [min, max).
func (r *Rand) RangeF(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + (max-min)*r.Float64()
}

// Sign returns -1 or 1 with equal probability.
func (r *Rand) Sign() float64 {
	if r.Float64() < 0.5 {
		return -1
	}
	return 1
}
