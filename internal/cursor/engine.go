// Package cursor draws the themed cursor glyph and the particle trail that
// follows the pointer: confetti in the light theme, dripping blood in the dark.
package cursor

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"skyfx/internal/mathutil"
	"skyfx/internal/scene"
	"skyfx/internal/theme"
)

const (
	TextureLight = "cursor_light"
	TextureDark  = "cursor_dark"

	uiGroupZ = 1000
	glyphZ   = 10
)

// Deps are the collaborators the engine attaches to. Surface, UIGroup and
// Clock are required; Textures and Theme may be nil.
type Deps struct {
	Clock    scene.Scheduler
	Surface  *scene.Surface
	UIGroup  *scene.Container
	Textures scene.TextureProvider
	Theme    *theme.Signal
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithRand replaces the time-seeded generator, for reproducible runs.
func WithRand(r *mathutil.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// Splat describes a blood drop hitting the ground.
type Splat struct {
	X, Y  float64
	Size  float64 // drop radius, pixels
	Speed float64 // vertical speed on contact, pixels per frame
}

// WithSplatterHook registers fn to be called once each time a drop hits the ground.
func WithSplatterHook(fn func(Splat)) Option {
	return func(e *Engine) { e.onSplatter = fn }
}

// Engine owns the cursor glyph and every live particle. All methods must be
// called from the frame thread.
type Engine struct {
	cfg        Config
	deps       Deps
	log        *slog.Logger
	rng        *mathutil.Rand
	onSplatter func(Splat)

	initialized bool
	theme       theme.Theme
	container   *scene.Container
	glyph       *scene.Sprite
	warnedGlyph bool

	inside    bool
	pos, last mathutil.Vec2
	haveDrop  bool
	lastDrop  time.Duration

	particles []Particle
	drops     []BloodDrop

	tick          scene.Handle
	cancelPointer func()
	cancelTheme   func()
}

// New builds the engine and attaches it to deps. Missing required
// collaborators are logged and leave the engine inert; New never fails.
func New(cfg Config, deps Deps, opts ...Option) *Engine {
	e := &Engine{
		cfg:  cfg.normalized(),
		deps: deps,
		log:  slog.Default(),
		rng:  mathutil.NewRand(uint64(time.Now().UnixNano())),
	}
	for _, o := range opts {
		o(e)
	}
	e.log = e.log.With("component", "cursor")

	if err := deps.check(); err != nil {
		e.log.Error("cursor effects disabled", "err", err)
		return e
	}
	e.init()
	return e
}

func (d Deps) check() error {
	switch {
	case d.Surface == nil:
		return fmt.Errorf("drawing surface is required")
	case d.UIGroup == nil:
		return fmt.Errorf("ui group is required")
	case d.Clock == nil:
		return fmt.Errorf("frame clock is required")
	}
	return nil
}

func (e *Engine) init() {
	if e.deps.Theme != nil {
		e.theme = e.deps.Theme.Current()
	}

	e.container = scene.NewContainer("cursorParticles")
	e.container.SortableChildren = true
	e.deps.UIGroup.AddChild(e.container)
	e.deps.UIGroup.ZIndex = uiGroupZ

	e.ensureGlyph()

	e.cancelPointer = e.deps.Surface.OnPointer(e.handlePointer)
	if e.deps.Theme != nil {
		e.cancelTheme = e.deps.Theme.Subscribe(e.OnThemeChange)
	}
	e.tick = e.deps.Clock.Add(e.Update)
	e.initialized = true
}

func (e *Engine) Initialized() bool { return e.initialized }

func (e *Engine) handlePointer(ev scene.PointerEvent) {
	switch ev.Kind {
	case scene.PointerEnter:
		e.OnPointerEnter(ev.X, ev.Y)
	case scene.PointerLeave:
		e.OnPointerLeave()
	case scene.PointerMove:
		e.OnPointerMove(ev.X, ev.Y)
	}
}

func (e *Engine) glyphTexture() *scene.Texture {
	if e.deps.Textures == nil {
		return nil
	}
	if e.theme == theme.Dark {
		return e.deps.Textures.Texture(TextureDark)
	}
	return e.deps.Textures.Texture(TextureLight)
}

// ensureGlyph creates the cursor sprite once its texture is available.
func (e *Engine) ensureGlyph() {
	if e.glyph != nil {
		return
	}
	tex := e.glyphTexture()
	if tex == nil {
		if !e.warnedGlyph {
			e.warnedGlyph = true
			e.log.Warn("cursor texture not loaded yet", "theme", e.theme)
		}
		return
	}
	s := scene.NewSprite("cursor", tex)
	s.SetAnchor(0.1, 0.1)
	s.SetSize(e.cfg.CursorSize, e.cfg.CursorSize)
	s.ZIndex = glyphZ
	s.Visible = e.inside
	s.SetPosition(e.pos.X, e.pos.Y)
	e.deps.UIGroup.AddChild(s)
	e.glyph = s
}

// OnPointerEnter starts tracking at (x, y) and swaps the system cursor for the glyph.
func (e *Engine) OnPointerEnter(x, y float64) {
	if !e.initialized {
		return
	}
	e.inside = true
	e.pos = mathutil.Vec2{X: x, Y: y}
	e.last = e.pos
	e.deps.Surface.SetCursorHidden(true)
	if e.glyph != nil {
		e.glyph.Visible = true
	}
}

func (e *Engine) OnPointerLeave() {
	if !e.initialized {
		return
	}
	e.inside = false
	e.deps.Surface.SetCursorHidden(false)
	if e.glyph != nil {
		e.glyph.Visible = false
	}
}

// OnPointerMove tracks the pointer and spawns particles for the current
// theme when it moved further than MoveThreshold.
func (e *Engine) OnPointerMove(x, y float64) {
	if !e.initialized || !e.inside {
		return
	}
	e.pos = mathutil.Vec2{X: x, Y: y}
	delta := e.pos.Sub(e.last)
	dist := delta.Len()

	if dist > e.cfg.MoveThreshold && e.cfg.ParticlesEnabled {
		if e.theme == theme.Dark {
			now := e.deps.Clock.Now()
			if !e.haveDrop || now-e.lastDrop >= e.cfg.BloodDropRate {
				e.addBloodDrop(x, y)
				e.haveDrop = true
				e.lastDrop = now
			}
		} else {
			n := SpawnCount(dist, e.cfg.ParticlesCount)
			for i := 0; i < n; i++ {
				p := e.pos.Sub(delta.Scale(float64(i) / float64(n)))
				e.addParticle(p.X, p.Y)
			}
		}
	}
	e.last = e.pos
}

// SpawnCount is the number of confetti particles for a move of dist pixels.
func SpawnCount(dist float64, max int) int {
	n := int(math.Floor(dist/5)) + 1
	if n > max {
		return max
	}
	return n
}

func (e *Engine) addParticle(x, y float64) {
	p := newParticle(x, y, e.cfg.ParticlesLifespan, e.rng)
	p.g = scene.NewGraphics("particle")
	e.container.AddChild(p.g)
	p.draw(p.Size, maxParticleOpacity)
	e.particles = append(e.particles, p)
}

func (e *Engine) addBloodDrop(x, y float64) {
	d := newBloodDrop(x, y, e.cfg.ParticlesLifespan, e.rng)
	d.g = scene.NewGraphics("blood")
	e.container.AddChild(d.g)
	d.draw()
	e.drops = append(e.drops, d)
}

// OnThemeChange switches the species spawned from now on and re-textures
// the glyph. Particles already alive finish their own lifecycle.
func (e *Engine) OnThemeChange(t theme.Theme) {
	if !e.initialized || t == e.theme {
		return
	}
	e.theme = t
	if e.glyph != nil {
		if tex := e.glyphTexture(); tex != nil {
			e.glyph.Texture = tex
			e.glyph.SetSize(e.cfg.CursorSize, e.cfg.CursorSize)
		}
	}
}

// SetTheme forces the engine's theme without touching the shared signal.
func (e *Engine) SetTheme(t theme.Theme) { e.OnThemeChange(t) }

func (e *Engine) Theme() theme.Theme { return e.theme }

// Update runs once per frame. Physics is per frame; dt is not used for it.
func (e *Engine) Update(dt float64) {
	if !e.initialized {
		return
	}
	e.ensureGlyph()
	if e.glyph != nil {
		e.glyph.SetPosition(e.pos.X, e.pos.Y)
	}

	for i := len(e.particles) - 1; i >= 0; i-- {
		if !e.guard("particle", func() { e.updateParticle(i) }) || e.particles[i].Life <= 0 {
			e.removeParticle(i)
		}
	}

	ground := e.deps.Surface.Height()
	for i := len(e.drops) - 1; i >= 0; i-- {
		if !e.guard("blood drop", func() { e.updateDrop(i, ground) }) || e.drops[i].Life <= 0 {
			e.removeDrop(i)
		}
	}
}

func (e *Engine) updateParticle(i int) {
	p := &e.particles[i]
	p.step(e.rng)
	p.draw(p.Size*p.Scale(), p.Opacity())
}

func (e *Engine) updateDrop(i int, ground float64) {
	d := &e.drops[i]
	if d.step(ground, e.rng) && e.onSplatter != nil {
		e.onSplatter(Splat{X: d.X, Y: d.Y, Size: d.Size, Speed: d.ImpactSpeed})
	}
	d.draw()
}

// guard runs fn and reports false if it panicked.
func (e *Engine) guard(what string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("dropping element after panic", "element", what, "panic", r)
			ok = false
		}
	}()
	fn()
	return true
}

func (e *Engine) removeParticle(i int) {
	e.particles[i].g.Destroy()
	e.particles = append(e.particles[:i], e.particles[i+1:]...)
}

func (e *Engine) removeDrop(i int) {
	e.drops[i].g.Destroy()
	e.drops = append(e.drops[:i], e.drops[i+1:]...)
}

// UpdateConfig replaces the configuration and resizes the glyph.
func (e *Engine) UpdateConfig(cfg Config) {
	e.cfg = cfg.normalized()
	if e.glyph != nil {
		e.glyph.SetSize(e.cfg.CursorSize, e.cfg.CursorSize)
	}
}

func (e *Engine) Config() Config { return e.cfg }

// Particles returns a copy of the live confetti particles.
func (e *Engine) Particles() []Particle {
	out := make([]Particle, len(e.particles))
	copy(out, e.particles)
	return out
}

// BloodDrops returns a copy of the live drops.
func (e *Engine) BloodDrops() []BloodDrop {
	out := make([]BloodDrop, len(e.drops))
	for i, d := range e.drops {
		d.TrailDrops = append([]TrailDrop(nil), d.TrailDrops...)
		out[i] = d
	}
	return out
}

// Container is the node every particle graphic is attached to.
func (e *Engine) Container() *scene.Container { return e.container }

// Glyph is the cursor sprite, nil until its texture has loaded.
func (e *Engine) Glyph() *scene.Sprite { return e.glyph }

// Destroy unregisters the frame callback and every listener, restores the
// system cursor and releases all nodes. The engine is inert afterwards.
func (e *Engine) Destroy() {
	if !e.initialized {
		return
	}
	e.deps.Clock.Remove(e.tick)
	e.cancelPointer()
	if e.cancelTheme != nil {
		e.cancelTheme()
	}
	e.deps.Surface.SetCursorHidden(false)

	for _, p := range e.particles {
		p.g.Destroy()
	}
	e.particles = nil
	for _, d := range e.drops {
		d.g.Destroy()
	}
	e.drops = nil

	e.container.Destroy()
	if e.glyph != nil {
		e.glyph.Destroy()
		e.glyph = nil
	}
	e.initialized = false
}
