package cursor

import (
	"math"

	"skyfx/internal/mathutil"
	"skyfx/internal/scene"
)

// Shape is the outline of a confetti particle.
type Shape uint8

const (
	ShapeCircle Shape = iota
	ShapeSquare
	ShapeTriangle
	ShapeDiamond
	ShapeStar
	shapeCount
)

func (s Shape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapeSquare:
		return "square"
	case ShapeTriangle:
		return "triangle"
	case ShapeDiamond:
		return "diamond"
	case ShapeStar:
		return "star"
	}
	return "unknown"
}

// shapeDrawers has one entry per Shape; the array length keeps it in step
// with the enum.
var shapeDrawers = [shapeCount]func(g *scene.Graphics, size float64, col scene.RGB){
	ShapeCircle:   drawCircle,
	ShapeSquare:   drawSquare,
	ShapeTriangle: drawTriangle,
	ShapeDiamond:  drawDiamond,
	ShapeStar:     drawStar,
}

var confettiPalette = []scene.RGB{
	scene.Hex(0xFF5252), scene.Hex(0xFF7B25), scene.Hex(0xFFC107),
	scene.Hex(0x4CAF50), scene.Hex(0x2196F3), scene.Hex(0x9C27B0),
	scene.Hex(0xE91E63),
}

const maxParticleOpacity = 0.8

// Particle is a confetti piece spawned in the light theme.
type Particle struct {
	X, Y          float64
	VX, VY        float64
	Rotation      float64
	RotationSpeed float64
	Shape         Shape
	Color         scene.RGB
	Size          float64
	Life          float64 // frames left
	InitialLife   float64

	g *scene.Graphics
}

func newParticle(x, y float64, lifespan int, r *mathutil.Rand) Particle {
	life := float64(lifespan)
	return Particle{
		X:             x,
		Y:             y,
		VX:            r.Sign() * (r.Float64() / 10),
		VY:            -0.4 - r.Float64(),
		Rotation:      r.Float64() * 2 * math.Pi,
		RotationSpeed: (r.Float64() - 0.5) * 0.1,
		Shape:         Shape(r.Intn(int(shapeCount))),
		Color:         confettiPalette[r.Intn(len(confettiPalette))],
		Size:          2 + r.Float64()*2,
		Life:          life,
		InitialLife:   life,
	}
}

// step advances one frame: drift with jitter and a slight lift, spin, age.
func (p *Particle) step(r *mathutil.Rand) {
	p.X += p.VX
	p.Y += p.VY
	p.VX += r.Sign() * 2 / 75
	p.VY -= r.Float64() / 600
	p.Rotation += p.RotationSpeed
	p.Life--
}

func (p *Particle) progress() float64 {
	return 1 - p.Life/p.InitialLife
}

// Scale grows from 0.2 at birth to 1 at expiry.
func (p *Particle) Scale() float64 {
	return 0.2 + p.progress()*0.8
}

// Opacity fades in over the first 20% of life and out over the last 30%,
// capped at 0.8 in between.
func (p *Particle) Opacity() float64 {
	if p.Life <= 0 {
		return 0
	}
	prog := p.progress()
	var a float64
	switch {
	case prog < 0.2:
		a = prog * 4
	case p.Life < p.InitialLife*0.3:
		a = p.Life / (p.InitialLife * 0.3)
	default:
		a = maxParticleOpacity
	}
	return math.Min(maxParticleOpacity, a)
}

func (p *Particle) draw(size, alpha float64) {
	g := p.g
	g.Clear()
	g.Alpha = alpha
	shapeDrawers[p.Shape](g, size, p.Color)
	g.SetPosition(p.X, p.Y)
	g.Rotation = p.Rotation
}

func drawCircle(g *scene.Graphics, size float64, col scene.RGB) {
	g.FillCircle(0, 0, size, col, 1)
	g.StrokeCircle(0, 0, size, 1, scene.White, 0.3)
}

func drawSquare(g *scene.Graphics, size float64, col scene.RGB) {
	g.FillRect(-size, -size, size*2, size*2, col, 1)
}

func drawTriangle(g *scene.Graphics, size float64, col scene.RGB) {
	g.FillPolygon([]mathutil.Vec2{{X: 0, Y: -size}, {X: -size, Y: size}, {X: size, Y: size}}, col, 1)
}

func drawDiamond(g *scene.Graphics, size float64, col scene.RGB) {
	g.FillPolygon([]mathutil.Vec2{
		{X: 0, Y: -size}, {X: size, Y: 0}, {X: 0, Y: size}, {X: -size, Y: 0},
	}, col, 1)
}

func drawStar(g *scene.Graphics, size float64, col scene.RGB) {
	const spikes = 5
	pts := make([]mathutil.Vec2, spikes*2)
	for i := range pts {
		radius := size
		if i%2 == 1 {
			radius = size / 2
		}
		a := math.Pi / spikes * float64(i)
		pts[i] = mathutil.Vec2{X: math.Cos(a) * radius, Y: math.Sin(a) * radius}
	}
	g.FillStar(0, 0, pts, col, 1)
}
