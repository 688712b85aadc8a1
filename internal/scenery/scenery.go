// Package scenery builds the themed background layers behind the clouds and
// keeps them sized to the surface: sky, mountain, moon and the field strips.
package scenery

import (
	"log/slog"
	"math"

	"skyfx/internal/assets"
	"skyfx/internal/scene"
	"skyfx/internal/theme"
)

type layerSpec struct {
	name     string
	z        int
	darkOnly bool
}

// layerTable is back to front. The cloud engine adds its own layer at z -9.
var layerTable = []layerSpec{
	{name: assets.LayerBackground, z: -11},
	{name: assets.LayerMountain, z: -10},
	{name: assets.LayerMoon, z: -9, darkOnly: true},
	{name: "field7", z: -8},
	{name: "field6", z: -7},
	{name: "field5", z: -6},
	{name: "field4", z: -5},
	{name: "field3", z: -4},
	{name: "field2", z: -3},
	{name: "field1", z: -2},
}

const (
	moonFloatSpeed  = 0.4
	moonFloatHeight = 10
	moonSizeRatio   = 0.18
	moonPosX        = 0.78
	moonPosY        = 0.2
)

type glow struct {
	scale, alpha float64
}

// moonGlow are the halo copies drawn behind the moon, innermost first.
var moonGlow = []glow{
	{scale: 1.01, alpha: 0.15},
	{scale: 1.015, alpha: 0.1},
	{scale: 1.02, alpha: 0.05},
}

var backdrops = map[theme.Theme]scene.RGB{
	theme.Light: scene.Hex(0x87CEEB),
	theme.Dark:  scene.Hex(0x191970),
}

type layer struct {
	spec   layerSpec
	node   *scene.Container
	sprite *scene.Sprite
}

// Scenery owns one container per background layer under the group.
type Scenery struct {
	group    *scene.Container
	surface  *scene.Surface
	textures scene.TextureProvider
	clock    scene.Scheduler
	log      *slog.Logger

	theme  theme.Theme
	layers []*layer
	glows  []*scene.Sprite
	moonY  float64

	loaded bool
	warned map[string]bool

	moonTick     scene.Handle
	cancelTheme  func()
	cancelResize func()
}

// New creates the layer containers under group. Textures are applied on the
// first Refresh; until then every layer is empty.
func New(group *scene.Container, surface *scene.Surface, textures scene.TextureProvider, sig *theme.Signal, clock scene.Scheduler, log *slog.Logger) *Scenery {
	if log == nil {
		log = slog.Default()
	}
	s := &Scenery{
		group:    group,
		surface:  surface,
		textures: textures,
		clock:    clock,
		log:      log.With("component", "scenery"),
		warned:   make(map[string]bool),
	}
	group.SortableChildren = true
	for _, spec := range layerTable {
		l := &layer{spec: spec, node: scene.NewContainer(spec.name)}
		l.node.ZIndex = spec.z
		l.sprite = scene.NewSprite(spec.name, nil)
		l.sprite.Visible = false
		l.node.AddChild(l.sprite)
		group.AddChild(l.node)
		s.layers = append(s.layers, l)
	}
	if sig != nil {
		s.theme = sig.Current()
		s.cancelTheme = sig.Subscribe(s.OnThemeChange)
	}
	s.cancelResize = surface.OnResize(func(scene.Size) { s.layout() })
	return s
}

// Refresh re-reads every texture from the provider. Call it once assets land.
func (s *Scenery) Refresh() {
	s.loaded = true
	s.apply()
}

func (s *Scenery) OnThemeChange(t theme.Theme) {
	if t == s.theme {
		return
	}
	s.theme = t
	s.apply()
}

func (s *Scenery) Theme() theme.Theme { return s.theme }

// Backdrop is the clear colour shown where no layer covers the surface.
func (s *Scenery) Backdrop() scene.RGB { return backdrops[s.theme] }

// Layer returns the container for name, or nil.
func (s *Scenery) Layer(name string) *scene.Container {
	for _, l := range s.layers {
		if l.spec.name == name {
			return l.node
		}
	}
	return nil
}

func (s *Scenery) apply() {
	for _, l := range s.layers {
		show := !l.spec.darkOnly || s.theme == theme.Dark
		l.node.Visible = show
		if !show {
			continue
		}
		name := assets.LayerTexture(l.spec.name, s.theme)
		tex := s.textures.Texture(name)
		if tex == nil && s.loaded && !s.warned[name] {
			s.warned[name] = true
			s.log.Warn("no texture for layer", "layer", l.spec.name, "theme", s.theme)
		}
		l.sprite.Texture = tex
		l.sprite.Visible = tex != nil
	}
	s.resetGlow()
	s.layout()
}

// layout sizes every layer to cover the surface, keeping the texture aspect
// and pinning the bottom edge.
func (s *Scenery) layout() {
	w, h := s.surface.Width(), s.surface.Height()
	for _, l := range s.layers {
		if l.sprite.Texture == nil {
			continue
		}
		if l.spec.name == assets.LayerMoon {
			s.layoutMoon(l.sprite, w, h)
			continue
		}
		tw, th := l.sprite.Texture.Size()
		if tw <= 0 || th <= 0 {
			continue
		}
		ratio := tw / th
		cw := math.Max(w, h*ratio)
		l.sprite.SetAnchor(0.5, 1)
		l.sprite.SetSize(cw, cw/ratio)
		l.sprite.SetPosition(w/2, h)
	}
	for i, g := range s.glows {
		s.syncGlow(i, g)
	}
}

func (s *Scenery) layoutMoon(m *scene.Sprite, w, h float64) {
	size := math.Min(w, h) * moonSizeRatio
	m.SetAnchor(0.5, 0.5)
	m.SetSize(size, size)
	s.moonY = h * moonPosY
	m.SetPosition(w*moonPosX, s.moonY)
}

func (s *Scenery) moon() *layer {
	for _, l := range s.layers {
		if l.spec.name == assets.LayerMoon {
			return l
		}
	}
	return nil
}

// resetGlow rebuilds the halo and the float animation for the current theme.
func (s *Scenery) resetGlow() {
	for _, g := range s.glows {
		g.Destroy()
	}
	s.glows = nil
	if s.moonTick != 0 {
		s.clock.Remove(s.moonTick)
		s.moonTick = 0
	}

	m := s.moon()
	if m == nil || s.theme != theme.Dark || m.sprite.Texture == nil || s.clock == nil {
		return
	}
	// Halos go in front of the moon sprite in child order so they draw behind it.
	children := m.node.RemoveChildren()
	for _, cfg := range moonGlow {
		g := scene.NewSprite("moonGlow", m.sprite.Texture)
		g.Alpha = cfg.alpha
		m.node.AddChild(g)
		s.glows = append(s.glows, g)
	}
	for _, c := range children {
		m.node.AddChild(c)
	}
	s.moonTick = s.clock.Add(s.animateMoon)
}

func (s *Scenery) syncGlow(i int, g *scene.Sprite) {
	m := s.moon().sprite
	k := moonGlow[i].scale
	g.SetAnchor(m.AnchorX, m.AnchorY)
	g.SetPosition(m.X, m.Y)
	g.ScaleX, g.ScaleY = m.ScaleX*k, m.ScaleY*k
}

// animateMoon floats the moon and pulses its halo.
func (s *Scenery) animateMoon(float64) {
	m := s.moon().sprite
	t := s.clock.Now().Seconds()
	m.Y = s.moonY + math.Sin(t*moonFloatSpeed)*moonFloatHeight
	for i, g := range s.glows {
		pulse := (math.Sin((t+float64(i)*0.3)*0.6) + 1) / 2
		s.syncGlow(i, g)
		g.Alpha = moonGlow[i].alpha * (0.5 + pulse*0.4)
		k := moonGlow[i].scale * (1 + pulse*0.025)
		g.ScaleX, g.ScaleY = m.ScaleX*k, m.ScaleY*k
	}
}

// Glows returns the live halo sprites, empty outside the dark theme.
func (s *Scenery) Glows() []*scene.Sprite { return s.glows }

// Destroy unregisters every callback and removes the layers from the group.
func (s *Scenery) Destroy() {
	if s.moonTick != 0 {
		s.clock.Remove(s.moonTick)
		s.moonTick = 0
	}
	if s.cancelTheme != nil {
		s.cancelTheme()
	}
	if s.cancelResize != nil {
		s.cancelResize()
	}
	for _, l := range s.layers {
		l.node.Destroy()
	}
	s.layers = nil
	s.glows = nil
}
