// Package stage assembles the scene graph and the effect engines that run on
// it. It owns no window or GPU state, so the whole page can be driven from
// tests with a manual clock.
package stage

import (
	"log/slog"

	"skyfx/internal/assets"
	"skyfx/internal/clouds"
	"skyfx/internal/config"
	"skyfx/internal/cursor"
	"skyfx/internal/mathutil"
	"skyfx/internal/parallax"
	"skyfx/internal/scene"
	"skyfx/internal/scenery"
	"skyfx/internal/theme"
)

type Options struct {
	Seed       uint64
	Log        *slog.Logger
	OnSplatter func(cursor.Splat)
}

// Stage is one page: a background group with the scenery layers and clouds,
// a UI group with the cursor effects, and the clock that drives them.
type Stage struct {
	Ticker  *scene.Ticker
	Surface *scene.Surface
	Atlas   *scene.Atlas
	Theme   *theme.Signal

	Background *scene.Container
	UI         *scene.Container

	Scenery  *scenery.Scenery
	Cursor   *cursor.Engine
	Clouds   *clouds.Engine
	Parallax *parallax.Engine // nil when parallax could not start

	seed       uint64
	cloudSheet string
	log        *slog.Logger
}

// New builds the scene for a width x height surface. Textures are empty until
// PublishAssets; every engine copes with that.
func New(cfg config.Config, width, height float64, initial theme.Theme, opts Options) *Stage {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	s := &Stage{
		Ticker:     scene.NewTicker(),
		Surface:    scene.NewSurface(width, height),
		Atlas:      scene.NewAtlas(),
		Theme:      theme.NewSignal(initial),
		Background: scene.NewContainer("background"),
		UI:         scene.NewContainer("ui"),
		seed:       opts.Seed,
		cloudSheet: cfg.Clouds.Spritesheet,
		log:        log,
	}
	s.Surface.Root.AddChild(s.Background)
	s.Surface.Root.AddChild(s.UI)

	rng := mathutil.NewRand(opts.Seed)

	s.Scenery = scenery.New(s.Background, s.Surface, s.Atlas, s.Theme, s.Ticker, log)

	s.Clouds = clouds.New(cfg.Clouds, clouds.Deps{
		Clock:    s.Ticker,
		Surface:  s.Surface,
		Group:    s.Background,
		Textures: s.Atlas,
		Theme:    s.Theme,
	}, clouds.WithLogger(log), clouds.WithRand(rng.Split()))
	s.Clouds.Init()

	cursorOpts := []cursor.Option{cursor.WithLogger(log), cursor.WithRand(rng.Split())}
	if opts.OnSplatter != nil {
		cursorOpts = append(cursorOpts, cursor.WithSplatterHook(opts.OnSplatter))
	}
	s.Cursor = cursor.New(cfg.Cursor, cursor.Deps{
		Clock:    s.Ticker,
		Surface:  s.Surface,
		UIGroup:  s.UI,
		Textures: s.Atlas,
		Theme:    s.Theme,
	}, cursorOpts...)

	px, err := parallax.New(cfg.Parallax, s.Ticker, s.Surface, s.Background, log)
	if err != nil {
		log.Warn("parallax disabled", "err", err)
	}
	s.Parallax = px
	return s
}

// AssetOptions describes the bundle this stage wants from assets.Load.
func (s *Stage) AssetOptions() assets.Options {
	return assets.Options{Seed: s.seed, CloudSheet: s.cloudSheet}
}

// PublishAssets hands a loaded bundle to the atlas and re-skins the scenery.
// Clouds and the cursor glyph pick the textures up on their own.
func (s *Stage) PublishAssets(b *assets.Bundle) {
	if b == nil {
		return
	}
	b.Publish(s.Atlas)
	s.Scenery.Refresh()
	s.log.Info("assets published", "textures", len(b.Textures), "sheets", len(b.Sheets))
}

// Tick advances every engine by one frame.
func (s *Stage) Tick(dt float64) { s.Ticker.Tick(dt) }

// ToggleTheme flips the shared theme and returns the new one.
func (s *Stage) ToggleTheme() theme.Theme {
	t := s.Theme.Toggle()
	s.log.Info("theme changed", "theme", t)
	return t
}

// ApplyConfig pushes reloadable settings into the running engines. Cloud
// tuning is read at construction and needs a restart.
func (s *Stage) ApplyConfig(cfg config.Config) {
	s.Cursor.UpdateConfig(cfg.Cursor)
	if s.Parallax != nil {
		s.Parallax.UpdateConfig(cfg.Parallax)
	}
	if t, err := theme.Parse(cfg.Theme); err == nil && cfg.Theme != "" {
		s.Theme.Set(t)
	}
}

// Destroy tears every engine down. Parallax goes first so layers are back
// at their origins before the scenery releases them.
func (s *Stage) Destroy() {
	if s.Parallax != nil {
		s.Parallax.Destroy()
	}
	s.Cursor.Destroy()
	s.Clouds.Destroy()
	s.Scenery.Destroy()
	for _, n := range s.Surface.Root.RemoveChildren() {
		n.Destroy()
	}
}
