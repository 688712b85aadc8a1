package sfx

import (
	"bytes"
	"io"
	"math"
	"testing"
)

func TestGenerateLengthsAndRange(t *testing.T) {
	tests := []struct {
		kind      Kind
		seed      uint64
		minFrames int
		maxFrames int
	}{
		{Splatter, 0, SampleRate / 20, SampleRate / 4},
		{Splatter, 1, SampleRate / 20, SampleRate / 4},
		{Splatter, 2, SampleRate / 20, SampleRate / 4},
		{Splatter, 3, SampleRate / 20, SampleRate / 4},
		{ChimeLight, 0, SampleRate / 2, SampleRate},
		{ChimeDark, 0, SampleRate / 2, SampleRate},
	}
	for _, tt := range tests {
		buf := Generate(tt.kind, tt.seed)
		n := Frames(buf)
		if n < tt.minFrames || n > tt.maxFrames {
			t.Fatalf("%s seed %d: %d frames, want %d..%d", tt.kind, tt.seed, n, tt.minFrames, tt.maxFrames)
		}
		var peak float64
		for i := 0; i < n; i++ {
			l, r := Sample(buf, i)
			if l != r {
				t.Fatalf("%s: frame %d is not centred (%v, %v)", tt.kind, i, l, r)
			}
			if math.IsNaN(float64(l)) || math.Abs(float64(l)) > 1 {
				t.Fatalf("%s: frame %d out of range: %v", tt.kind, i, l)
			}
			peak = math.Max(peak, math.Abs(float64(l)))
		}
		if peak < 0.01 {
			t.Fatalf("%s seed %d is silent", tt.kind, tt.seed)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(Splatter, 42)
	b := Generate(Splatter, 42)
	if !bytes.Equal(a, b) {
		t.Fatal("same seed gave different samples")
	}
	if bytes.Equal(Generate(Splatter, 4), Generate(Splatter, 8)) {
		t.Fatal("different noise seeds gave identical samples")
	}
}

func rms(buf []byte) float64 {
	var sum float64
	n := Frames(buf)
	for i := 0; i < n; i++ {
		l, _ := Sample(buf, i)
		sum += float64(l) * float64(l)
	}
	return math.Sqrt(sum / float64(n))
}

// crossingRate counts sign changes per second over frames [from, to).
func crossingRate(buf []byte, from, to int) float64 {
	n := 0
	prev, _ := Sample(buf, from)
	for i := from + 1; i < to; i++ {
		l, _ := Sample(buf, i)
		if (l < 0) != (prev < 0) {
			n++
		}
		prev = l
	}
	return float64(n) / (float64(to-from) / SampleRate)
}

func TestSplatScalesWithImpact(t *testing.T) {
	soft := Splat(Impact{Size: 2, Speed: 1}, 9)
	hard := Splat(Impact{Size: 10, Speed: 6}, 9)
	if Frames(hard) <= Frames(soft) {
		t.Fatalf("hard impact %d frames, soft %d", Frames(hard), Frames(soft))
	}
	if rms(hard) <= rms(soft) {
		t.Fatalf("hard impact rms %v <= soft %v", rms(hard), rms(soft))
	}
}

func TestSplatPitchFollowsDropSize(t *testing.T) {
	// Slow impacts keep the smack and thud quiet so the plink dominates the tail.
	small := Splat(Impact{Size: 1, Speed: 0}, 5)
	large := Splat(Impact{Size: 10, Speed: 0}, 5)
	tail := func(buf []byte) float64 {
		n := Frames(buf)
		return crossingRate(buf, n*6/10, n)
	}
	if s, l := tail(small), tail(large); s < 2*l {
		t.Fatalf("small drop rings at %v crossings/s, large at %v", s, l)
	}
}

func TestSplatClampsOddImpacts(t *testing.T) {
	for _, im := range []Impact{{Size: 0, Speed: -3}, {Size: 500, Speed: 1e6}} {
		buf := Splat(im, 1)
		n := Frames(buf)
		if n < SampleRate/20 || n > SampleRate/4 {
			t.Fatalf("%+v: %d frames", im, n)
		}
		for i := 0; i < n; i++ {
			if l, _ := Sample(buf, i); math.IsNaN(float64(l)) || math.Abs(float64(l)) >= 1 {
				t.Fatalf("%+v: frame %d = %v", im, i, l)
			}
		}
	}
}

func TestUnknownKind(t *testing.T) {
	if buf := Generate(Kind(99), 0); buf != nil {
		t.Fatal("unknown kind produced samples")
	}
	if Kind(99).String() != "unknown" {
		t.Fatal("unknown kind name")
	}
}

func TestReader(t *testing.T) {
	data := Generate(ChimeDark, 0)
	got, err := io.ReadAll(NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("reader did not stream the full buffer")
	}
}
