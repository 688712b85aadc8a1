// Package clouds keeps a drifting population of cloud sprites on screen in
// the light theme. Each cloud's state is a pure function of the time since
// it was created; the engine only tops the population up and sweeps out
// clouds whose drift has finished.
package clouds

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
	containerZ       = -9
	placementTries   = 10
	scaleLayerBg     = "background"
	scaleLayerMount  = "mountain"
	minSceneScale    = 0.25
	maxSceneScale    = 1.25
	sceneScaleWeight = 0.4
)

type formationSpeed struct {
	formation, delay time.Duration
}

var formationSpeeds = []formationSpeed{
	{4 * time.Second, 0},
	{5 * time.Second, 1 * time.Second},
	{6 * time.Second, 2 * time.Second},
}

var opacityLevels = []float64{0.2, 0.3, 0.5, 0.7, 0.8}

// Deps are the collaborators the engine uses. Clock, Surface and Textures are
// required. Group is the background container the clouds are attached under;
// its layer children also provide the scene scale.
type Deps struct {
	Clock    scene.Scheduler
	Surface  *scene.Surface
	Group    *scene.Container
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

func WithRand(r *mathutil.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// Cloud is one live sprite and its animation record.
type Cloud struct {
	Sprite           *scene.Sprite
	Anim             Animation
	MarkedForRemoval bool

	tick scene.Handle
}

// Engine manages the cloud population. All methods must be called from the
// frame thread.
type Engine struct {
	cfg  Config
	deps Deps
	log  *slog.Logger
	rng  *mathutil.Rand

	usable      bool
	initialized bool
	destroyed   bool
	theme       theme.Theme
	sceneHeight float64

	container *scene.Container
	clouds    []*Cloud

	lifecycle    *scene.Timer
	retry        *scene.Timer
	cancelTheme  func()
	cancelResize func()
}

// New builds an engine and attaches its container to deps.Group. Clouds are
// not created until Init. Missing collaborators leave the engine inert.
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
	e.log = e.log.With("component", "clouds")

	e.container = scene.NewContainer("clouds")
	e.container.ZIndex = containerZ
	if deps.Group != nil {
		deps.Group.AddChild(e.container)
	}
	if deps.Theme != nil {
		e.theme = deps.Theme.Current()
	}

	if err := deps.check(); err != nil {
		e.log.Error("clouds disabled", "err", err)
		return e
	}
	e.usable = true
	e.sceneHeight = e.computeSceneHeight()
	return e
}

func (d Deps) check() error {
	switch {
	case d.Clock == nil:
		return fmt.Errorf("frame clock is required")
	case d.Surface == nil:
		return fmt.Errorf("drawing surface is required")
	case d.Textures == nil:
		return fmt.Errorf("texture provider is required")
	}
	return nil
}

// Init populates the sky once the spritesheet is available, retrying every
// RetryDelay until it is. Calling Init on an initialized engine refreshes it.
func (e *Engine) Init() {
	if !e.usable || e.destroyed || e.retry.Active() {
		return
	}
	if e.initialized {
		e.Refresh()
		return
	}
	if len(e.deps.Textures.SpritesheetFrames(e.cfg.Spritesheet)) == 0 {
		e.log.Warn("spritesheet not loaded, retrying", "name", e.cfg.Spritesheet, "in", e.cfg.RetryDelay)
		e.retry = e.deps.Clock.After(e.cfg.RetryDelay, e.Init)
		return
	}
	e.retry = nil

	if e.deps.Theme != nil {
		e.theme = e.deps.Theme.Current()
		e.cancelTheme = e.deps.Theme.Subscribe(e.OnThemeChange)
	}
	e.cancelResize = e.deps.Surface.OnResize(func(s scene.Size) { e.OnResize(s.W, s.H) })
	e.initialized = true

	if e.theme == theme.Light {
		e.Refresh()
	}
}

func (e *Engine) Initialized() bool { return e.initialized }

// Refresh replaces every cloud with a freshly placed population and
// restarts the lifecycle timer. In the dark theme it only clears.
func (e *Engine) Refresh() {
	if !e.usable || e.destroyed {
		return
	}
	e.HideAll()
	if e.theme != theme.Light {
		return
	}
	n := e.targetCount()
	used := make([]mathutil.Vec2, 0, n)
	for i := 0; i < n; i++ {
		e.createCloud(&used)
	}
	e.startLifecycle()
}

// HideAll stops the lifecycle timer and removes every cloud at once.
func (e *Engine) HideAll() {
	if e.lifecycle != nil {
		e.lifecycle.Stop()
		e.lifecycle = nil
	}
	for _, c := range e.clouds {
		e.release(c)
	}
	e.clouds = nil
	for _, n := range e.container.RemoveChildren() {
		n.Destroy()
	}
}

func (e *Engine) startLifecycle() {
	if e.lifecycle != nil {
		e.lifecycle.Stop()
	}
	e.lifecycle = e.deps.Clock.Every(e.cfg.LifecycleInterval, func() {
		if e.initialized && e.theme == theme.Light {
			e.ManageLifecycle()
		}
	})
}

// ManageLifecycle sweeps finished clouds and tops the population up to a
// random target inside [MinClouds, MaxClouds].
func (e *Engine) ManageLifecycle() {
	if !e.usable || e.destroyed {
		return
	}
	e.Cleanup()
	visible := e.VisibleCount()
	if target := e.targetCount(); visible < target {
		e.addClouds(target - visible)
	}
}

func (e *Engine) targetCount() int {
	return e.rng.Range(e.cfg.MinClouds, e.cfg.MaxClouds)
}

// Cleanup releases every cloud marked for removal.
func (e *Engine) Cleanup() {
	live := e.clouds[:0]
	for _, c := range e.clouds {
		if c.MarkedForRemoval {
			e.release(c)
			continue
		}
		live = append(live, c)
	}
	for i := len(live); i < len(e.clouds); i++ {
		e.clouds[i] = nil
	}
	e.clouds = live
}

func (e *Engine) addClouds(n int) {
	used := make([]mathutil.Vec2, 0, len(e.clouds)+n)
	for _, c := range e.clouds {
		if c.Sprite != nil {
			used = append(used, mathutil.Vec2{X: c.Sprite.X, Y: c.Sprite.Y})
		}
	}
	for i := 0; i < n && !e.destroyed; i++ {
		e.createCloud(&used)
	}
}

// release unregisters the cloud's frame callback and destroys its sprite.
func (e *Engine) release(c *Cloud) {
	e.unregister(c)
	if c.Sprite != nil {
		c.Sprite.Destroy()
	}
}

func (e *Engine) unregister(c *Cloud) {
	if c.tick != 0 {
		e.deps.Clock.Remove(c.tick)
		c.tick = 0
	}
}

// createCloud places one new cloud away from used and appends its position.
func (e *Engine) createCloud(used *[]mathutil.Vec2) *Cloud {
	frames := e.deps.Textures.SpritesheetFrames(e.cfg.Spritesheet)
	if len(frames) == 0 {
		e.log.Warn("cannot create cloud, spritesheet not available", "name", e.cfg.Spritesheet)
		return nil
	}

	screenW := e.deps.Surface.Width()
	sceneH := e.sceneHeight

	s := scene.NewSprite(fmt.Sprintf("cloud-%d", len(e.clouds)), frames[e.rng.Intn(len(frames))])
	s.SetAnchor(0.5, 0.5)
	s.Alpha = 0

	typ := AnimationType(e.rng.Intn(int(animationTypeCount)))
	speed := formationSpeeds[e.rng.Intn(len(formationSpeeds))]
	sceneScale := e.SceneScale()
	base := e.rng.RangeF(e.cfg.MinScale, e.cfg.MaxScale)
	anim := Animation{
		Type:          typ,
		FormationTime: speed.formation,
		DriftDelay:    speed.delay,
		FinalOpacity:  opacityLevels[e.rng.Intn(len(opacityLevels))],
		FinalScale:    base * sceneScale,
		SceneScale:    sceneScale,
		BaseScale:     base,
		SlowOffset:    e.rng.Float64() * 2 * math.Pi,
	}
	s.SetScale(anim.InitialScale())

	// The first two clouds of an empty sky are pinned to opposite edges.
	var pos mathutil.Vec2
	switch len(e.clouds) {
	case 0:
		pos = mathutil.Vec2{X: -s.Width(), Y: e.bandY(0, sceneH)}
	case 1:
		pos = mathutil.Vec2{X: screenW - s.Width()/2, Y: e.bandY(1, sceneH)}
	default:
		pos = e.place(typ, s.Width(), s.Height(), screenW, sceneH, sceneScale, *used)
	}
	s.SetPosition(pos.X, pos.Y)

	anim.Start = e.deps.Clock.Now()
	anim.StartPos = pos
	anim.EndPos = EndPosition(typ, pos, screenW)

	c := &Cloud{Sprite: s, Anim: anim}
	e.container.AddChild(s)
	c.tick = e.deps.Clock.Add(e.animate(c))
	e.clouds = append(e.clouds, c)
	*used = append(*used, pos)
	return c
}

// place picks a start position for a cloud of the given size. It retries
// up to placementTries times to keep MinDistance from every used position
// and otherwise settles for the last candidate.
func (e *Engine) place(typ AnimationType, w, h, screenW, sceneH, sceneScale float64, used []mathutil.Vec2) mathutil.Vec2 {
	minDist := e.cfg.MinDistance * sceneScale
	band := len(e.clouds) % 3
	var pos mathutil.Vec2
	for attempt := 0; attempt < placementTries; attempt++ {
		pos.Y = e.bandY(band, sceneH)
		switch typ {
		case LeftToRight:
			pos.X = -w
		case RightToLeft:
			pos.X = screenW + w
		case DiagonalUp:
			pos.X = -w
			pos.Y = sceneH - h/2
		default:
			pos.X = math.Floor(e.rng.Float64()*screenW*0.8) + screenW*0.1
		}
		if clearOf(pos, used, minDist) {
			break
		}
	}
	return pos
}

// bandY draws a height inside the band-th third of the scene.
func (e *Engine) bandY(band int, sceneH float64) float64 {
	return sceneH/3*float64(band) + e.rng.Float64()*sceneH/3
}

func clearOf(p mathutil.Vec2, used []mathutil.Vec2, minDist float64) bool {
	for _, u := range used {
		if p.Dist(u) < minDist {
			return false
		}
	}
	return true
}

// animate returns the per-frame callback for c. A panic inside it drops
// the cloud instead of escaping into the frame clock.
func (e *Engine) animate(c *Cloud) scene.TickFunc {
	return func(float64) {
		defer func() {
			if r := recover(); r != nil {
				e.log.Warn("cloud animation failed", "panic", r)
				e.unregister(c)
				c.MarkedForRemoval = true
				if c.Sprite != nil {
					c.Sprite.Visible = false
				}
			}
		}()
		if e.destroyed || c.Sprite.Parent() == nil {
			e.unregister(c)
			return
		}
		e.apply(c, e.deps.Clock.Now()-c.Anim.Start)
	}
}

func (e *Engine) apply(c *Cloud, elapsed time.Duration) {
	a := &c.Anim
	s := c.Sprite
	switch a.PhaseAt(elapsed) {
	case Formation:
		alpha, scale := a.Formation(elapsed)
		s.Alpha = alpha
		s.SetScale(scale)
	case HoldDelay:
		s.Alpha = a.FinalOpacity
		s.SetScale(a.FinalScale)
	case Drift, Done:
		if !a.Type.Linear() {
			x, alpha := a.stepSlow()
			s.X = x
			s.Alpha = alpha
			return
		}
		p := a.DriftProgress(elapsed)
		pos, alpha := a.LinearDrift(p)
		s.SetPosition(pos.X, pos.Y)
		s.Alpha = alpha
		if p >= 1 {
			c.MarkedForRemoval = true
			s.Visible = false
			e.unregister(c)
		}
	}
}

// OnThemeChange tears every cloud down when leaving the light theme and
// repopulates from empty when returning to it.
func (e *Engine) OnThemeChange(t theme.Theme) {
	if !e.usable || e.destroyed || t == e.theme {
		return
	}
	e.theme = t
	if t == theme.Light {
		e.Refresh()
		return
	}
	e.HideAll()
}

func (e *Engine) Theme() theme.Theme { return e.theme }

// OnResize rescales live clouds to the new scene, keeping each cloud's
// vertical position relative to the scene height.
// A collapsed surface (h <= 0) is ignored so relative heights survive it.
func (e *Engine) OnResize(w, h float64) {
	if !e.usable || e.destroyed || h <= 0 {
		return
	}
	newH := h * e.cfg.SceneHeightRatio
	if e.theme != theme.Light || !e.initialized {
		e.sceneHeight = newH
		return
	}

	sceneScale := e.SceneScale()
	oldH := e.sceneHeight
	now := e.deps.Clock.Now()
	for _, c := range e.clouds {
		if c.MarkedForRemoval || c.Sprite == nil {
			continue
		}
		a := &c.Anim
		if a.BaseScale <= 0 {
			a.BaseScale = 1
		}
		a.SceneScale = sceneScale
		a.FinalScale = a.BaseScale * sceneScale

		elapsed := now - a.Start
		if elapsed >= a.FormationTime {
			c.Sprite.SetScale(a.FinalScale)
		} else {
			_, scale := a.Formation(elapsed)
			c.Sprite.SetScale(scale)
		}

		if oldH > 0 {
			k := newH / oldH
			c.Sprite.Y *= k
			a.StartPos.Y *= k
			a.EndPos.Y *= k
		}
		if a.Type.Linear() {
			a.EndPos.X = EndPosition(a.Type, a.StartPos, w).X
		}
	}
	e.sceneHeight = newH
}

func (e *Engine) computeSceneHeight() float64 {
	return e.deps.Surface.Height() * e.cfg.SceneHeightRatio
}

// SceneHeight is the height of the band clouds are placed in.
func (e *Engine) SceneHeight() float64 { return e.sceneHeight }

// SceneScale derives a cloud size factor from how wide the background or
// mountain layer is drawn relative to the surface.
func (e *Engine) SceneScale() float64 {
	k := 1.0
	if e.deps.Group != nil && e.deps.Surface.Width() > 0 {
		for _, n := range e.deps.Group.Children() {
			layer, ok := n.(*scene.Container)
			if !ok || (layer.Name != scaleLayerBg && layer.Name != scaleLayerMount) || layer.Len() == 0 {
				continue
			}
			if s, ok := layer.Children()[0].(*scene.Sprite); ok && s.Width() > 0 {
				k = s.Width() / e.deps.Surface.Width()
				break
			}
		}
	}
	k = mathutil.ClampF(k, minSceneScale, maxSceneScale)
	return 0.5 + (k-1)*sceneScaleWeight
}

// Clouds returns the tracked clouds. The slice is a copy; the clouds are not.
func (e *Engine) Clouds() []*Cloud {
	out := make([]*Cloud, len(e.clouds))
	copy(out, e.clouds)
	return out
}

// VisibleCount counts clouds that are shown and not marked for removal.
func (e *Engine) VisibleCount() int {
	n := 0
	for _, c := range e.clouds {
		if !c.MarkedForRemoval && c.Sprite != nil && c.Sprite.Visible {
			n++
		}
	}
	return n
}

func (e *Engine) Container() *scene.Container { return e.container }

// Destroy stops every timer, unregisters every callback and listener and
// destroys all cloud nodes. The engine cannot be reused.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	if e.retry != nil {
		e.retry.Stop()
		e.retry = nil
	}
	if e.usable {
		e.HideAll()
	}
	if e.cancelTheme != nil {
		e.cancelTheme()
	}
	if e.cancelResize != nil {
		e.cancelResize()
	}
	e.container.Destroy()
	e.initialized = false
}
