package clouds

import (
	"math"
	"time"

	"skyfx/internal/mathutil"
)

// AnimationType selects how a cloud drifts once it has formed.
type AnimationType uint8

const (
	LeftToRight AnimationType = iota
	RightToLeft
	DiagonalUp
	Slow
	animationTypeCount
)

func (t AnimationType) String() string {
	switch t {
	case LeftToRight:
		return "driftLeftToRight"
	case RightToLeft:
		return "driftRightToLeft"
	case DiagonalUp:
		return "driftDiagonalUp"
	case Slow:
		return "driftSlow"
	}
	return "unknown"
}

// Linear reports whether the drift moves between two points and ends.
func (t AnimationType) Linear() bool { return t != Slow }

// Duration is the drift length. Slow drift never ends; its value is nominal.
func (t AnimationType) Duration() time.Duration {
	switch t {
	case RightToLeft:
		return 80 * time.Second
	case DiagonalUp:
		return 90 * time.Second
	case Slow:
		return 30 * time.Second
	}
	return 60 * time.Second
}

const offscreenMargin = 200

// EndPosition is where a drift of type t starting at start finishes.
func EndPosition(t AnimationType, start mathutil.Vec2, screenWidth float64) mathutil.Vec2 {
	switch t {
	case RightToLeft:
		return mathutil.Vec2{X: -offscreenMargin, Y: start.Y}
	case DiagonalUp:
		return mathutil.Vec2{X: screenWidth + offscreenMargin, Y: start.Y - offscreenMargin}
	case Slow:
		return start
	}
	return mathutil.Vec2{X: screenWidth + offscreenMargin, Y: start.Y}
}

// Phase is derived from elapsed time; it is never stored.
type Phase uint8

const (
	Formation Phase = iota
	HoldDelay
	Drift
	Done
)

func (p Phase) String() string {
	switch p {
	case Formation:
		return "formation"
	case HoldDelay:
		return "hold"
	case Drift:
		return "drift"
	case Done:
		return "done"
	}
	return "unknown"
}

// Animation is everything needed to reconstruct a cloud's state at any time.
type Animation struct {
	Type          AnimationType
	FormationTime time.Duration
	DriftDelay    time.Duration
	Start         time.Duration // frame-clock time the cloud was created
	StartPos      mathutil.Vec2
	EndPos        mathutil.Vec2
	FinalScale    float64
	FinalOpacity  float64
	SceneScale    float64
	BaseScale     float64

	// Slow drift only. Phase advances by slowPhaseStep every frame.
	SlowPhase  float64
	SlowOffset float64
}

const (
	initialScaleRatio = 0.8
	slowPhaseStep     = 0.001
	slowAmplitude     = 50
	slowAlphaSwing    = 0.3
)

// PhaseAt maps time since Start onto the lifecycle.
func (a *Animation) PhaseAt(elapsed time.Duration) Phase {
	switch {
	case elapsed <= a.FormationTime:
		return Formation
	case elapsed <= a.FormationTime+a.DriftDelay:
		return HoldDelay
	case a.Type.Linear() && a.DriftProgress(elapsed) >= 1:
		return Done
	}
	return Drift
}

// InitialScale is the scale a cloud is created at.
func (a *Animation) InitialScale() float64 {
	return a.FinalScale * initialScaleRatio
}

// Formation returns alpha and scale during the formation phase. Both ramp
// linearly from 0 and 0.8x final; the scale arrives slightly early.
func (a *Animation) Formation(elapsed time.Duration) (alpha, scale float64) {
	if a.FormationTime <= 0 {
		return a.FinalOpacity, a.FinalScale
	}
	p := mathutil.ClampF(float64(elapsed)/float64(a.FormationTime), 0, 1)
	alpha = p * a.FinalOpacity
	scale = mathutil.Lerp(a.InitialScale(), a.FinalScale, math.Min(1, p*1.1))
	return alpha, scale
}

// DriftProgress is the fraction of the drift completed, in [0, 1].
func (a *Animation) DriftProgress(elapsed time.Duration) float64 {
	d := elapsed - a.FormationTime - a.DriftDelay
	if d <= 0 {
		return 0
	}
	return math.Min(1, float64(d)/float64(a.Type.Duration()))
}

// LinearDrift returns the position and alpha of a linear drift at progress p:
// fade in over the first 10%, fade out over the last 20%.
func (a *Animation) LinearDrift(p float64) (pos mathutil.Vec2, alpha float64) {
	pos = mathutil.LerpVec(a.StartPos, a.EndPos, p)
	switch {
	case p < 0.1:
		alpha = mathutil.Lerp(0, a.FinalOpacity, p*10)
	case p > 0.8:
		alpha = mathutil.Lerp(a.FinalOpacity, 0, (p-0.8)*5)
	default:
		alpha = a.FinalOpacity
	}
	return pos, alpha
}

// stepSlow advances the oscillation one frame and returns x and alpha.
func (a *Animation) stepSlow() (x, alpha float64) {
	a.SlowPhase += slowPhaseStep
	x = a.StartPos.X + slowAmplitude*math.Sin(a.SlowPhase)
	alpha = mathutil.ClampF(a.FinalOpacity+slowAlphaSwing*math.Sin(a.SlowPhase+a.SlowOffset), 0, 1)
	return x, alpha
}
