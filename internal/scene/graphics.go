package scene

import (
	"math"

	"skyfx/internal/mathutil"
)

// ShapeKind tells the renderer how to tessellate a Shape.
type ShapeKind uint8

const (
	// ShapeFill is a polygon that is star-shaped around Center; it is drawn
	// as a triangle fan from Center.
	ShapeFill ShapeKind = iota
	// ShapeRing is a circle outline of Radius and Width around Center.
	ShapeRing
)

// circleSegments is the tessellation used for circles and ellipses.
const circleSegments = 24

// Shape is one drawing command recorded by Graphics, in local coordinates.
type Shape struct {
	Kind   ShapeKind
	Center mathutil.Vec2
	Points []mathutil.Vec2 // ShapeFill only
	Radius float64         // ShapeRing only
	Width  float64         // ShapeRing only
	Color  RGB
	Alpha  float64
}

// Graphics is an immediate-style vector drawing node: callers Clear and
// redraw it every frame. Shapes are rotated by Rotation around the node origin.
type Graphics struct {
	nodeBase
	Rotation float64

	shapes []Shape
}

func NewGraphics(name string) *Graphics {
	return &Graphics{nodeBase: newBase(name)}
}

// Clear drops all recorded shapes, keeping the backing storage.
func (g *Graphics) Clear() {
	for i := range g.shapes {
		g.shapes[i].Points = nil
	}
	g.shapes = g.shapes[:0]
}

func (g *Graphics) Shapes() []Shape { return g.shapes }

func (g *Graphics) FillPolygon(pts []mathutil.Vec2, col RGB, alpha float64) {
	if len(pts) < 3 {
		return
	}
	var c mathutil.Vec2
	for _, p := range pts {
		c = c.Add(p)
	}
	c = c.Scale(1 / float64(len(pts)))
	g.fillAround(c, pts, col, alpha)
}

// fillAround records a fan polygon with an explicit centre, for shapes whose
// vertex average is not inside them.
func (g *Graphics) fillAround(c mathutil.Vec2, pts []mathutil.Vec2, col RGB, alpha float64) {
	cp := make([]mathutil.Vec2, len(pts))
	copy(cp, pts)
	g.shapes = append(g.shapes, Shape{Kind: ShapeFill, Center: c, Points: cp, Color: col, Alpha: alpha})
}

// FillStar records a polygon fanned from the given centre. Use it for
// irregular radial outlines such as stars and splats.
func (g *Graphics) FillStar(cx, cy float64, pts []mathutil.Vec2, col RGB, alpha float64) {
	if len(pts) < 3 {
		return
	}
	g.fillAround(mathutil.Vec2{X: cx, Y: cy}, pts, col, alpha)
}

func (g *Graphics) FillRect(x, y, w, h float64, col RGB, alpha float64) {
	g.FillPolygon([]mathutil.Vec2{
		{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h},
	}, col, alpha)
}

func (g *Graphics) FillEllipse(cx, cy, rx, ry float64, col RGB, alpha float64) {
	pts := make([]mathutil.Vec2, circleSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / circleSegments
		pts[i] = mathutil.Vec2{X: cx + math.Cos(a)*rx, Y: cy + math.Sin(a)*ry}
	}
	g.shapes = append(g.shapes, Shape{Kind: ShapeFill, Center: mathutil.Vec2{X: cx, Y: cy}, Points: pts, Color: col, Alpha: alpha})
}

func (g *Graphics) FillCircle(cx, cy, r float64, col RGB, alpha float64) {
	g.FillEllipse(cx, cy, r, r, col, alpha)
}

func (g *Graphics) StrokeCircle(cx, cy, r, width float64, col RGB, alpha float64) {
	g.shapes = append(g.shapes, Shape{
		Kind: ShapeRing, Center: mathutil.Vec2{X: cx, Y: cy},
		Radius: r, Width: width, Color: col, Alpha: alpha,
	})
}

// Destroy detaches the node and frees its geometry.
func (g *Graphics) Destroy() {
	if g.destroyed {
		return
	}
	g.detach(g)
	g.shapes = nil
	g.destroyed = true
}
