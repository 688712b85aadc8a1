package cursor

import (
	"math"

	"skyfx/internal/mathutil"
	"skyfx/internal/scene"
)

var bloodPalette = []scene.RGB{
	scene.Hex(0xFF0000), scene.Hex(0xCC0000), scene.Hex(0xAA0000),
	scene.Hex(0x880000), scene.Hex(0x990000), scene.Hex(0xBB0000),
}

var bloodHighlight = scene.Hex(0xFF5555)

const (
	gravity         = 0.05
	trailLife       = 20
	splatterMaxLife = 30
	groundJitter    = 100 // pixels above the bottom edge the ground may sit
)

// TrailDrop is a small droplet left behind a falling drop.
type TrailDrop struct {
	X, Y  float64
	Size  float64
	Alpha float64
	Life  float64
}

// BloodDrop is a drip spawned in the dark theme. Once Splatter is set the
// drop has hit the ground: it stops for good and only fades.
type BloodDrop struct {
	X, Y        float64
	VX, VY      float64
	Elongation  float64
	Color       scene.RGB
	Size        float64
	Life        float64
	InitialLife float64
	Trail       bool
	TrailDrops  []TrailDrop
	Splatter    bool
	ImpactSpeed float64 // VY at the moment of splatter

	splat []mathutil.Vec2 // outline fixed at impact
	g     *scene.Graphics
}

func newBloodDrop(x, y float64, lifespan int, r *mathutil.Rand) BloodDrop {
	life := float64(lifespan) * 1.5
	return BloodDrop{
		X:           x,
		Y:           y,
		VX:          (r.Float64() - 0.5) * 0.5,
		VY:          0.5 + r.Float64()*1.5,
		Elongation:  1 + r.Float64()*2,
		Color:       bloodPalette[r.Intn(len(bloodPalette))],
		Size:        2 + r.Float64()*3,
		Life:        life,
		InitialLife: life,
		Trail:       r.Float64() > 0.7,
	}
}

// step advances one frame. It reports whether the drop splattered on this frame.
func (d *BloodDrop) step(groundY float64, r *mathutil.Rand) (splattered bool) {
	if !d.Splatter {
		d.X += d.VX
		d.Y += d.VY
		d.Elongation = 1 + d.VY*0.3
		d.VY += gravity
		d.VX += (r.Float64() - 0.5) * 0.02

		if d.Trail && d.Life > trailLife && r.Float64() > 0.9 {
			d.TrailDrops = append(d.TrailDrops, TrailDrop{
				X: d.X, Y: d.Y, Size: d.Size * 0.4, Alpha: 0.7, Life: trailLife,
			})
		}
	}

	for j := len(d.TrailDrops) - 1; j >= 0; j-- {
		t := &d.TrailDrops[j]
		t.Life--
		t.Alpha = t.Life / trailLife
		if t.Life <= 0 {
			d.TrailDrops = append(d.TrailDrops[:j], d.TrailDrops[j+1:]...)
		}
	}

	if !d.Splatter && d.Y > groundY-r.Float64()*groundJitter {
		d.splatter(r)
		splattered = true
	}

	d.Life--
	return splattered
}

func (d *BloodDrop) splatter(r *mathutil.Rand) {
	d.Splatter = true
	d.ImpactSpeed = d.VY
	d.VX, d.VY = 0, 0
	d.Life = math.Min(d.Life, splatterMaxLife)

	size := d.Size * (1.5 + r.Float64())
	n := 5 + r.Intn(4)
	d.splat = make([]mathutil.Vec2, n)
	for i := range d.splat {
		a := 2 * math.Pi / float64(n) * float64(i)
		rad := size * (0.5 + r.Float64()*0.8)
		d.splat[i] = mathutil.Vec2{X: math.Cos(a) * rad, Y: math.Sin(a) * rad}
	}
}

// Alpha is full for the first third of life, then fades linearly.
func (d *BloodDrop) Alpha() float64 {
	if d.Life <= 0 {
		return 0
	}
	return math.Min(1, d.Life/d.InitialLife*1.5)
}

func (d *BloodDrop) draw() {
	g := d.g
	g.Clear()
	alpha := d.Alpha()
	if d.Splatter {
		g.FillStar(0, 0, d.splat, d.Color, alpha*0.8)
	} else {
		g.FillEllipse(0, 0, d.Size, d.Size*d.Elongation, d.Color, alpha)
		g.FillEllipse(-d.Size*0.3, -d.Size*0.3, d.Size*0.4, d.Size*0.4, bloodHighlight, alpha*0.3)
	}
	for _, t := range d.TrailDrops {
		g.FillCircle(t.X-d.X, t.Y-d.Y, t.Size, d.Color, t.Alpha)
	}
	g.SetPosition(d.X, d.Y)
}
