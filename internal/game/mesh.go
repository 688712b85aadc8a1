package game

import (
	"math"

	"skyfx/internal/mathutil"
	"skyfx/internal/scene"
)

// ringSegments is the tessellation used for stroked circles.
const ringSegments = 24

// placement is a node's accumulated offset and alpha in surface pixels.
type placement struct {
	x, y  float64
	alpha float64
}

func (p placement) child(x, y, alpha float64) placement {
	return placement{x: p.x + x, y: p.y + y, alpha: p.alpha * alpha}
}

// appendGraphics tessellates every shape of g into buf as a triangle list of
// [x, y, r, g, b, a] vertices. at is g's own placement.
func appendGraphics(buf []float32, g *scene.Graphics, at placement) []float32 {
	sin, cos := math.Sincos(g.Rotation)
	world := func(p mathutil.Vec2) mathutil.Vec2 {
		return mathutil.Vec2{X: at.x + p.X*cos - p.Y*sin, Y: at.y + p.X*sin + p.Y*cos}
	}
	for _, sh := range g.Shapes() {
		a := at.alpha * sh.Alpha
		if a <= 0 {
			continue
		}
		switch sh.Kind {
		case scene.ShapeFill:
			buf = appendFan(buf, world(sh.Center), sh.Points, world, sh.Color, a)
		case scene.ShapeRing:
			buf = appendRing(buf, sh.Center, sh.Radius, sh.Width, world, sh.Color, a)
		}
	}
	return buf
}

func appendFan(buf []float32, c mathutil.Vec2, pts []mathutil.Vec2, world func(mathutil.Vec2) mathutil.Vec2, col scene.RGB, a float64) []float32 {
	n := len(pts)
	if n < 3 {
		return buf
	}
	for i := 0; i < n; i++ {
		p0 := world(pts[i])
		p1 := world(pts[(i+1)%n])
		buf = appendVertex(buf, c, col, a)
		buf = appendVertex(buf, p0, col, a)
		buf = appendVertex(buf, p1, col, a)
	}
	return buf
}

func appendRing(buf []float32, c mathutil.Vec2, r, w float64, world func(mathutil.Vec2) mathutil.Vec2, col scene.RGB, a float64) []float32 {
	inner := math.Max(0, r-w/2)
	outer := r + w/2
	if outer <= inner {
		return buf
	}
	at := func(rad float64, i int) mathutil.Vec2 {
		ang := 2 * math.Pi * float64(i%ringSegments) / ringSegments
		return world(mathutil.Vec2{X: c.X + math.Cos(ang)*rad, Y: c.Y + math.Sin(ang)*rad})
	}
	for i := 0; i < ringSegments; i++ {
		i0, o0 := at(inner, i), at(outer, i)
		i1, o1 := at(inner, i+1), at(outer, i+1)
		buf = appendVertex(buf, i0, col, a)
		buf = appendVertex(buf, o0, col, a)
		buf = appendVertex(buf, o1, col, a)
		buf = appendVertex(buf, i0, col, a)
		buf = appendVertex(buf, o1, col, a)
		buf = appendVertex(buf, i1, col, a)
	}
	return buf
}

func appendVertex(buf []float32, p mathutil.Vec2, col scene.RGB, a float64) []float32 {
	r, g, b := col.Floats()
	return append(buf, float32(p.X), float32(p.Y), r, g, b, float32(a))
}

// spriteRect is the on-surface rectangle of s placed at at.
func spriteRect(s *scene.Sprite, at placement) (x0, y0, x1, y1 float64) {
	w, h := s.Width(), s.Height()
	x0 = at.x - s.AnchorX*w
	y0 = at.y - s.AnchorY*h
	return x0, y0, x0 + w, y0 + h
}
