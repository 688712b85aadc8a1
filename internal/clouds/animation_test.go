package clouds

import (
	"math"
	"testing"
	"time"

	"skyfx/internal/mathutil"
)

func testAnim(typ AnimationType) Animation {
	start := mathutil.Vec2{X: -100, Y: 50}
	return Animation{
		Type:          typ,
		FormationTime: 4 * time.Second,
		DriftDelay:    time.Second,
		StartPos:      start,
		EndPos:        EndPosition(typ, start, 1000),
		FinalScale:    1.5,
		FinalOpacity:  0.7,
	}
}

func TestPhaseAt(t *testing.T) {
	a := testAnim(LeftToRight)
	tests := []struct {
		elapsed time.Duration
		want    Phase
	}{
		{0, Formation},
		{4 * time.Second, Formation},
		{4*time.Second + time.Millisecond, HoldDelay},
		{5 * time.Second, HoldDelay},
		{6 * time.Second, Drift},
		{5*time.Second + 60*time.Second, Done},
	}
	for _, tt := range tests {
		if got := a.PhaseAt(tt.elapsed); got != tt.want {
			t.Errorf("PhaseAt(%v) = %v, want %v", tt.elapsed, got, tt.want)
		}
	}

	slow := testAnim(Slow)
	if got := slow.PhaseAt(time.Hour); got != Drift {
		t.Errorf("slow drift phase after an hour = %v", got)
	}
}

func TestFormationRampsStrictly(t *testing.T) {
	a := testAnim(DiagonalUp)
	alpha, scale := a.Formation(a.FormationTime / 2)
	if !(alpha > 0 && alpha < a.FinalOpacity) {
		t.Errorf("alpha at half formation = %v", alpha)
	}
	if !(scale > a.FinalScale*0.8 && scale < a.FinalScale) {
		t.Errorf("scale at half formation = %v", scale)
	}

	alpha, scale = a.Formation(0)
	if alpha != 0 || math.Abs(scale-a.FinalScale*0.8) > 1e-12 {
		t.Errorf("initial alpha %v scale %v", alpha, scale)
	}
	alpha, scale = a.Formation(a.FormationTime)
	if alpha != a.FinalOpacity || math.Abs(scale-a.FinalScale) > 1e-12 {
		t.Errorf("final alpha %v scale %v", alpha, scale)
	}
}

func TestLinearDriftMidpoint(t *testing.T) {
	for _, typ := range []AnimationType{LeftToRight, RightToLeft, DiagonalUp} {
		a := testAnim(typ)
		pos, alpha := a.LinearDrift(0.5)
		mid := mathutil.LerpVec(a.StartPos, a.EndPos, 0.5)
		if pos.Dist(mid) > 1e-9 {
			t.Errorf("%v: midpoint %v, want %v", typ, pos, mid)
		}
		if alpha != a.FinalOpacity {
			t.Errorf("%v: mid alpha %v", typ, alpha)
		}
		if _, a0 := a.LinearDrift(0); a0 != 0 {
			t.Errorf("%v: alpha at start %v", typ, a0)
		}
		if _, a1 := a.LinearDrift(1); math.Abs(a1) > 1e-12 {
			t.Errorf("%v: alpha at end %v", typ, a1)
		}
	}
}

func TestDriftProgress(t *testing.T) {
	a := testAnim(RightToLeft)
	if p := a.DriftProgress(a.FormationTime); p != 0 {
		t.Errorf("progress before drift = %v", p)
	}
	half := a.FormationTime + a.DriftDelay + 40*time.Second
	if p := a.DriftProgress(half); math.Abs(p-0.5) > 1e-12 {
		t.Errorf("progress at 40s of 80s = %v", p)
	}
	if p := a.DriftProgress(time.Hour); p != 1 {
		t.Errorf("progress is not capped: %v", p)
	}
}

func TestEndPositions(t *testing.T) {
	start := mathutil.Vec2{X: 10, Y: 300}
	tests := []struct {
		typ  AnimationType
		want mathutil.Vec2
	}{
		{LeftToRight, mathutil.Vec2{X: 1200, Y: 300}},
		{RightToLeft, mathutil.Vec2{X: -200, Y: 300}},
		{DiagonalUp, mathutil.Vec2{X: 1200, Y: 100}},
		{Slow, start},
	}
	for _, tt := range tests {
		if got := EndPosition(tt.typ, start, 1000); got != tt.want {
			t.Errorf("%v: end %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestSlowDriftOscillates(t *testing.T) {
	a := testAnim(Slow)
	a.SlowOffset = 1
	for i := 0; i < 5000; i++ {
		x, alpha := a.stepSlow()
		if math.Abs(x-a.StartPos.X) > slowAmplitude+1e-9 {
			t.Fatalf("x %v outside amplitude", x)
		}
		if alpha < 0 || alpha > 1 {
			t.Fatalf("alpha %v outside [0,1]", alpha)
		}
	}
	if math.Abs(a.SlowPhase-5) > 1e-9 {
		t.Fatalf("phase = %v after 5000 frames", a.SlowPhase)
	}
}
