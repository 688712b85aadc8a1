// Package parallax offsets background layers against pointer position and
// scroll, each layer by its own speed, easing toward the target every frame.
package parallax

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"skyfx/internal/mathutil"
	"skyfx/internal/scene"
)

// StaticLayer is never offset.
const StaticLayer = "background"

type Config struct {
	Smooth          float64            `mapstructure:"smooth"`
	MouseIntensity  float64            `mapstructure:"mouse_intensity"`
	ScrollIntensity float64            `mapstructure:"scroll_intensity"`
	MouseBound      float64            `mapstructure:"mouse_bound"`
	ScrollBound     float64            `mapstructure:"scroll_bound"`
	Speeds          map[string]float64 `mapstructure:"speeds"`
}

func DefaultConfig() Config {
	return Config{
		Smooth:          0.05,
		MouseIntensity:  0.2,
		ScrollIntensity: 0.1,
		MouseBound:      1,
		ScrollBound:     3,
		Speeds: map[string]float64{
			"background": 0,
			"mountain":   0,
			"clouds":     0.02,
			"moon":       0.02,
			"field7":     -0.2,
			"field6":     -0.1,
			"field5":     0.08,
			"field4":     -0.07,
			"field3":     0.06,
			"field2":     -0.1,
			"field1":     0.09,
		},
	}
}

type layerState struct {
	node          *scene.Container
	originX       float64
	originY       float64
	x, y          float64
	targetX       float64
	targetY       float64
	targetScrollY float64
}

// Engine drives the layer offsets. Not safe for concurrent use.
type Engine struct {
	cfg     Config
	clock   scene.Scheduler
	surface *scene.Surface
	group   *scene.Container
	log     *slog.Logger

	layers map[uuid.UUID]*layerState

	tick          scene.Handle
	cancelPointer func()
	cancelScroll  func()
	active        bool
}

// New attaches the engine to the layers under group. It returns an error
// if a collaborator is missing; the caller may carry on without parallax.
func New(cfg Config, clock scene.Scheduler, surface *scene.Surface, group *scene.Container, log *slog.Logger) (*Engine, error) {
	if clock == nil || surface == nil || group == nil {
		return nil, fmt.Errorf("parallax: clock, surface and layer group are required")
	}
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{
		cfg:     cfg,
		clock:   clock,
		surface: surface,
		group:   group,
		log:     log.With("component", "parallax"),
		layers:  make(map[uuid.UUID]*layerState),
	}
	e.sync()
	e.cancelPointer = surface.OnPointer(func(ev scene.PointerEvent) {
		if ev.Kind == scene.PointerMove {
			e.OnPointerMove(ev.X, ev.Y)
		}
	})
	e.cancelScroll = surface.OnScroll(e.OnScroll)
	e.tick = clock.Add(e.Update)
	e.active = true
	e.OnScroll(surface.ScrollY())
	return e, nil
}

// sync picks up layers added to the group since the last call.
func (e *Engine) sync() {
	for _, n := range e.group.Children() {
		c, ok := n.(*scene.Container)
		if !ok {
			continue
		}
		id := scene.ID(c)
		if _, ok := e.layers[id]; ok {
			continue
		}
		e.layers[id] = &layerState{node: c, originX: c.X, originY: c.Y}
	}
}

func (e *Engine) speed(name string) float64 {
	return e.cfg.Speeds[name]
}

// OnPointerMove sets each layer's target from the pointer's offset
// against the surface centre.
func (e *Engine) OnPointerMove(x, y float64) {
	if !e.active {
		return
	}
	e.sync()
	cx, cy := e.surface.Width()/2, e.surface.Height()/2
	b := e.cfg.MouseBound
	for _, l := range e.layers {
		if l.node.Name == StaticLayer {
			continue
		}
		k := e.speed(l.node.Name) * e.cfg.MouseIntensity
		l.targetX = mathutil.ClampF((x-cx)*k, -b, b)
		l.targetY = mathutil.ClampF((y-cy)*k, -b, b)
	}
}

func (e *Engine) OnScroll(scrollY float64) {
	if !e.active {
		return
	}
	e.sync()
	b := e.cfg.ScrollBound
	for _, l := range e.layers {
		if l.node.Name == StaticLayer {
			continue
		}
		l.targetScrollY = mathutil.ClampF(-(scrollY * e.speed(l.node.Name) * e.cfg.ScrollIntensity), -b, b)
	}
}

// Update eases every layer one step toward its target.
func (e *Engine) Update(float64) {
	if !e.active {
		return
	}
	for id, l := range e.layers {
		if l.node.Destroyed() {
			delete(e.layers, id)
			continue
		}
		l.x = mathutil.Lerp(l.x, l.targetX, e.cfg.Smooth)
		l.y = mathutil.Lerp(l.y, l.targetScrollY+l.targetY, e.cfg.Smooth)
		l.node.SetPosition(l.originX+l.x, l.originY+l.y)
	}
}

// Offset returns the current offset of the named layer.
func (e *Engine) Offset(name string) (x, y float64, ok bool) {
	for _, l := range e.layers {
		if l.node.Name == name {
			return l.x, l.y, true
		}
	}
	return 0, 0, false
}

// UpdateConfig swaps tuning values; current offsets are kept.
func (e *Engine) UpdateConfig(cfg Config) {
	e.cfg = cfg
}

// Destroy unregisters the engine and puts every layer back at its origin.
func (e *Engine) Destroy() {
	if !e.active {
		return
	}
	e.active = false
	e.clock.Remove(e.tick)
	e.cancelPointer()
	e.cancelScroll()
	for _, l := range e.layers {
		if !l.node.Destroyed() {
			l.node.SetPosition(l.originX, l.originY)
		}
	}
	e.layers = nil
}
