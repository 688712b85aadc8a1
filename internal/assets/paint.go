package assets

import (
	"image"
	"math"

	"skyfx/internal/mathutil"
	"skyfx/internal/scene"
)

// canvas paints non-premultiplied colour onto an NRGBA image with
// source-over blending.
type canvas struct {
	img  *image.NRGBA
	w, h int
}

func newCanvas(w, h int) *canvas {
	return &canvas{img: image.NewNRGBA(image.Rect(0, 0, w, h)), w: w, h: h}
}

// blend composites col at coverage a (0..1) over the pixel at x, y.
func (c *canvas) blend(x, y int, col scene.RGB, a float64) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h || a <= 0 {
		return
	}
	if a > 1 {
		a = 1
	}
	i := c.img.PixOffset(x, y)
	p := c.img.Pix[i : i+4 : i+4]
	da := float64(p[3]) / 255
	oa := a + da*(1-a)
	if oa <= 0 {
		return
	}
	mix := func(s uint8, d uint8) uint8 {
		v := (float64(s)*a + float64(d)*da*(1-a)) / oa
		return uint8(math.Round(mathutil.ClampF(v, 0, 255)))
	}
	p[0] = mix(col.R, p[0])
	p[1] = mix(col.G, p[1])
	p[2] = mix(col.B, p[2])
	p[3] = uint8(math.Round(oa * 255))
}

func (c *canvas) set(x, y int, col scene.RGB, a float64) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	i := c.img.PixOffset(x, y)
	c.img.Pix[i] = col.R
	c.img.Pix[i+1] = col.G
	c.img.Pix[i+2] = col.B
	c.img.Pix[i+3] = uint8(math.Round(mathutil.ClampF(a, 0, 1) * 255))
}

func (c *canvas) alphaAt(x, y int) uint8 {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return 0
	}
	return c.img.Pix[c.img.PixOffset(x, y)+3]
}

// verticalGradient fills the whole canvas from top to bottom.
func (c *canvas) verticalGradient(top, bottom scene.RGB) {
	for y := 0; y < c.h; y++ {
		t := 0.0
		if c.h > 1 {
			t = float64(y) / float64(c.h-1)
		}
		col := lerpRGB(top, bottom, t)
		for x := 0; x < c.w; x++ {
			c.set(x, y, col, 1)
		}
	}
}

// softCircle fills a disc whose edge fades out over feather pixels.
func (c *canvas) softCircle(cx, cy, r, feather float64, shade func(dy float64) scene.RGB, a float64) {
	x0, x1 := int(math.Floor(cx-r-1)), int(math.Ceil(cx+r+1))
	y0, y1 := int(math.Floor(cy-r-1)), int(math.Ceil(cy+r+1))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			if d > r {
				continue
			}
			cov := 1.0
			if feather > 0 && d > r-feather {
				cov = smoothstep(0, 1, (r-d)/feather)
			}
			c.blend(x, y, shade((float64(y)+0.5-cy)/r), cov*a)
		}
	}
}

// fillBelow fills every pixel under the profile ridge(x), with a one pixel
// anti-aliased edge.
func (c *canvas) fillBelow(ridge func(x float64) float64, col func(depth float64) scene.RGB) {
	for x := 0; x < c.w; x++ {
		top := ridge(float64(x) + 0.5)
		for y := int(math.Floor(top)); y < c.h; y++ {
			if y < 0 {
				continue
			}
			cov := mathutil.ClampF(float64(y)+1-top, 0, 1)
			depth := 0.0
			if c.h > 0 {
				depth = (float64(y) - top) / float64(c.h)
			}
			c.blend(x, y, col(depth), cov)
		}
	}
}

// fillPolygon scan-converts pts with the even-odd rule, sampling pixel centres.
func (c *canvas) fillPolygon(pts []mathutil.Vec2, col scene.RGB, a float64) {
	if len(pts) < 3 {
		return
	}
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		sy := float64(y) + 0.5
		for x := 0; x < c.w; x++ {
			if inside(pts, float64(x)+0.5, sy) {
				c.blend(x, y, col, a)
			}
		}
	}
}

func inside(pts []mathutil.Vec2, x, y float64) bool {
	in := false
	j := len(pts) - 1
	for i := range pts {
		pi, pj := pts[i], pts[j]
		if (pi.Y > y) != (pj.Y > y) && x < (pj.X-pi.X)*(y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			in = !in
		}
		j = i
	}
	return in
}

// outline recolours every opaque pixel that touches a transparent one.
func (c *canvas) outline(col scene.RGB) {
	var edge []image.Point
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			if c.alphaAt(x, y) == 0 {
				continue
			}
			if c.alphaAt(x-1, y) == 0 || c.alphaAt(x+1, y) == 0 || c.alphaAt(x, y-1) == 0 || c.alphaAt(x, y+1) == 0 {
				edge = append(edge, image.Pt(x, y))
			}
		}
	}
	for _, p := range edge {
		c.set(p.X, p.Y, col, 1)
	}
}

func lerpRGB(a, b scene.RGB, t float64) scene.RGB {
	t = mathutil.ClampF(t, 0, 1)
	ch := func(x, y uint8) uint8 {
		return uint8(math.Round(mathutil.Lerp(float64(x), float64(y), t)))
	}
	return scene.RGB{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B)}
}

func smoothstep(e0, e1, x float64) float64 {
	t := mathutil.ClampF((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}
