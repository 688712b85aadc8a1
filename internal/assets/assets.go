// Package assets paints every texture the scene needs at startup: cursor
// glyphs, cloud spritesheet frames and the themed background layers.
// Nothing is read from disk.
package assets

import (
	"context"
	"math"

	"skyfx/internal/cursor"
	"skyfx/internal/mathutil"
	"skyfx/internal/scene"
	"skyfx/internal/theme"
)

const (
	LayerWidth  = 512
	LayerHeight = 256 // layers are drawn 2:1 across the surface width

	MoonSize    = 128
	CloudWidth  = 256
	CloudHeight = 128
	GlyphSize   = 32
)

// Background layer names, back to front. "clouds" is owned by the cloud
// engine and has no texture here.
const (
	LayerBackground = "background"
	LayerMountain   = "mountain"
	LayerMoon       = "moon"
)

// FieldLayers are the rolling foreground strips, farthest first.
var FieldLayers = []string{"field7", "field6", "field5", "field4", "field3", "field2", "field1"}

// LayerTexture is the atlas name of layer's texture in theme t.
func LayerTexture(layer string, t theme.Theme) string {
	return "layer/" + t.String() + "/" + layer
}

type Options struct {
	Seed        uint64
	CloudSheet  string
	CloudFrames int
}

func (o Options) normalized() Options {
	if o.CloudSheet == "" {
		o.CloudSheet = "clouds_spritesheet"
	}
	if o.CloudFrames <= 0 {
		o.CloudFrames = 6
	}
	return o
}

// Bundle is a finished set of textures, ready to be published into an atlas.
type Bundle struct {
	Textures map[string]*scene.Texture
	Sheets   map[string][]*scene.Texture
}

// Publish puts every texture and spritesheet of b into a.
func (b *Bundle) Publish(a *scene.Atlas) {
	for name, t := range b.Textures {
		a.Put(name, t)
	}
	for name, frames := range b.Sheets {
		a.PutSpritesheet(name, frames)
	}
}

// Build paints the full bundle. The same options always give the same pixels.
func Build(opts Options) *Bundle {
	opts = opts.normalized()
	rng := mathutil.NewRand(opts.Seed)
	b := &Bundle{
		Textures: make(map[string]*scene.Texture),
		Sheets:   make(map[string][]*scene.Texture),
	}
	put := func(name string, c *canvas) {
		b.Textures[name] = scene.NewTexture(name, c.img)
	}

	put(cursor.TextureLight, paintGlyph(glyphLight))
	put(cursor.TextureDark, paintGlyph(glyphDark))

	frames := make([]*scene.Texture, opts.CloudFrames)
	for i := range frames {
		frames[i] = scene.NewTexture(opts.CloudSheet, paintCloud(rng.Split()).img)
	}
	b.Sheets[opts.CloudSheet] = frames

	ridgeRng := rng.Split()
	mountain := ridgeProfile(ridgeRng, 0.52, 0.22, 5)
	fields := make([]func(float64) float64, len(FieldLayers))
	for i := range FieldLayers {
		horizon := 0.6 + float64(i)*0.055
		fields[i] = ridgeProfile(ridgeRng, horizon, 0.035, 3)
	}

	for _, t := range []theme.Theme{theme.Light, theme.Dark} {
		p := layerPalettes[t]
		put(LayerTexture(LayerBackground, t), paintSky(p))
		put(LayerTexture(LayerMountain, t), paintRidge(mountain, p.mountainTop, p.mountainBase))
		for i, name := range FieldLayers {
			k := float64(i) / float64(len(FieldLayers)-1)
			top := lerpRGB(p.fieldFar, p.fieldNear, k)
			put(LayerTexture(name, t), paintRidge(fields[i], top, top.Mul(200)))
		}
	}
	put(LayerTexture(LayerMoon, theme.Dark), paintMoon(rng.Split()))
	return b
}

// Load builds the bundle on its own goroutine. The channel yields exactly one
// bundle, or is closed without one if ctx ends first.
func Load(ctx context.Context, opts Options) <-chan *Bundle {
	out := make(chan *Bundle, 1)
	go func() {
		defer close(out)
		b := Build(opts)
		select {
		case out <- b:
		case <-ctx.Done():
		}
	}()
	return out
}

type layerPalette struct {
	skyTop       scene.RGB
	skyBottom    scene.RGB
	mountainTop  scene.RGB
	mountainBase scene.RGB
	fieldFar     scene.RGB
	fieldNear    scene.RGB
}

var layerPalettes = map[theme.Theme]layerPalette{
	theme.Light: {
		skyTop:       scene.Hex(0x5FB4E8),
		skyBottom:    scene.Hex(0xCDEBFA),
		mountainTop:  scene.Hex(0x8C9DB8),
		mountainBase: scene.Hex(0x6F7F9C),
		fieldFar:     scene.Hex(0xA9CF86),
		fieldNear:    scene.Hex(0x4E8A3A),
	},
	theme.Dark: {
		skyTop:       scene.Hex(0x0B0C2A),
		skyBottom:    scene.Hex(0x191970),
		mountainTop:  scene.Hex(0x2E3156),
		mountainBase: scene.Hex(0x1E2040),
		fieldFar:     scene.Hex(0x24364A),
		fieldNear:    scene.Hex(0x0F1B22),
	},
}

func paintSky(p layerPalette) *canvas {
	c := newCanvas(LayerWidth, LayerHeight)
	c.verticalGradient(p.skyTop, p.skyBottom)
	return c
}

// ridgeProfile returns a horizon line around base (fraction of the layer
// height) made of octaves of sines with random phases.
func ridgeProfile(rng *mathutil.Rand, base, amp float64, octaves int) func(x float64) float64 {
	type wave struct{ freq, phase, amp float64 }
	waves := make([]wave, octaves)
	a := amp
	for i := range waves {
		waves[i] = wave{
			freq:  float64(i+1) * rng.RangeF(0.8, 1.6),
			phase: rng.RangeF(0, 2*math.Pi),
			amp:   a,
		}
		a *= 0.5
	}
	return func(x float64) float64 {
		u := x / LayerWidth
		y := base
		for _, w := range waves {
			y -= w.amp * (0.5 + 0.5*math.Sin(2*math.Pi*w.freq*u+w.phase))
		}
		return y * LayerHeight
	}
}

func paintRidge(ridge func(float64) float64, top, base scene.RGB) *canvas {
	c := newCanvas(LayerWidth, LayerHeight)
	c.fillBelow(ridge, func(depth float64) scene.RGB {
		return lerpRGB(top, base, depth*2)
	})
	return c
}

func paintMoon(rng *mathutil.Rand) *canvas {
	c := newCanvas(MoonSize, MoonSize)
	r := MoonSize*0.5 - 2
	body := scene.Hex(0xF4F1C9)
	c.softCircle(MoonSize/2, MoonSize/2, r, 2, func(float64) scene.RGB { return body }, 1)
	crater := scene.Hex(0xD9D4A8)
	for i := 0; i < 7; i++ {
		a := rng.RangeF(0, 2*math.Pi)
		d := rng.RangeF(0, r*0.6)
		cr := rng.RangeF(r*0.06, r*0.18)
		cx := MoonSize/2 + math.Cos(a)*d
		cy := MoonSize/2 + math.Sin(a)*d
		c.softCircle(cx, cy, cr, cr*0.5, func(float64) scene.RGB { return crater }, 0.7)
	}
	return c
}

// paintCloud piles soft puffs along a baseline, shaded darker underneath.
func paintCloud(rng *mathutil.Rand) *canvas {
	c := newCanvas(CloudWidth, CloudHeight)
	top := scene.White
	under := scene.Hex(0xD5DEEA)
	shade := func(dy float64) scene.RGB { return lerpRGB(top, under, dy) }

	puffs := rng.Range(5, 9)
	for i := 0; i < puffs; i++ {
		u := (float64(i) + 0.5) / float64(puffs)
		r := rng.RangeF(0.18, 0.34) * CloudHeight * (1 - 0.6*math.Abs(u-0.5))
		cx := mathutil.ClampF(u*CloudWidth+rng.RangeF(-10, 10), r+2, CloudWidth-r-2)
		cy := mathutil.ClampF(CloudHeight*0.62-rng.RangeF(0, r*0.6), r+2, CloudHeight-r-2)
		c.softCircle(cx, cy, r, r*0.35, shade, 0.95)
	}
	return c
}

type glyphStyle struct {
	fill, edge scene.RGB
}

var (
	glyphLight = glyphStyle{fill: scene.Hex(0x222222), edge: scene.White}
	glyphDark  = glyphStyle{fill: scene.Hex(0x8A0303), edge: scene.Hex(0xFF5555)}
)

// glyphArrow is a classic pointer outline on a 32px grid, tip at the origin.
var glyphArrow = []mathutil.Vec2{
	{X: 1, Y: 1}, {X: 1, Y: 25}, {X: 7, Y: 19}, {X: 12, Y: 30},
	{X: 16, Y: 28}, {X: 11, Y: 18}, {X: 19, Y: 18},
}

func paintGlyph(s glyphStyle) *canvas {
	c := newCanvas(GlyphSize, GlyphSize)
	c.fillPolygon(glyphArrow, s.fill, 1)
	c.outline(s.edge)
	return c
}
