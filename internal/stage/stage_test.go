package stage

import (
	"testing"
	"time"

	"skyfx/internal/assets"
	"skyfx/internal/config"
	"skyfx/internal/cursor"
	"skyfx/internal/scene"
	"skyfx/internal/theme"
)

const frame = 1.0 / 60

func newStage(t *testing.T, initial theme.Theme) *Stage {
	t.Helper()
	return New(config.Default(), 1280, 720, initial, Options{Seed: 7})
}

func (s *Stage) run(d time.Duration) {
	for elapsed := 0.0; elapsed < d.Seconds(); elapsed += frame {
		s.Tick(frame)
	}
}

func (s *Stage) publish() {
	s.PublishAssets(assets.Build(s.AssetOptions()))
}

func TestNewAssemblesScene(t *testing.T) {
	s := newStage(t, theme.Light)
	if s.Scenery == nil || s.Cursor == nil || s.Clouds == nil || s.Parallax == nil {
		t.Fatal("engine missing")
	}
	if !s.Cursor.Initialized() {
		t.Fatal("cursor not initialized")
	}
	if s.Clouds.Initialized() {
		t.Fatal("clouds initialized without a spritesheet")
	}
	if s.UI.ZIndex <= s.Background.ZIndex {
		t.Fatalf("ui z %d must sit above background z %d", s.UI.ZIndex, s.Background.ZIndex)
	}
	if s.Background.ChildByName("clouds") == nil {
		t.Fatal("clouds container not under background")
	}
	if s.Scenery.Layer(assets.LayerMountain) == nil {
		t.Fatal("scenery layers missing")
	}
}

func TestCloudsAppearAfterAssetsLand(t *testing.T) {
	s := newStage(t, theme.Light)
	s.run(500 * time.Millisecond)
	s.publish()
	s.run(2 * time.Second)

	if !s.Clouds.Initialized() {
		t.Fatal("clouds did not pick the spritesheet up on retry")
	}
	if n := s.Clouds.VisibleCount(); n < config.Default().Clouds.MinClouds {
		t.Fatalf("visible clouds = %d", n)
	}
	if s.Cursor.Glyph() == nil {
		t.Fatal("cursor glyph not created once textures landed")
	}
}

func TestPointerSpawnsConfetti(t *testing.T) {
	s := newStage(t, theme.Light)
	s.publish()
	s.Surface.DispatchPointer(scene.PointerEvent{Kind: scene.PointerEnter, X: 100, Y: 100})
	s.Surface.DispatchPointer(scene.PointerEvent{Kind: scene.PointerMove, X: 160, Y: 120})

	if len(s.Cursor.Particles()) == 0 {
		t.Fatal("no particles after a move")
	}
	if !s.Surface.CursorHidden() {
		t.Fatal("system cursor should be hidden while inside")
	}
	s.Tick(frame)
	if _, y, ok := s.Parallax.Offset("field1"); !ok || y == 0 {
		t.Fatalf("field1 parallax offset y = %v (ok=%v)", y, ok)
	}
}

func TestToggleThemeSwapsLayers(t *testing.T) {
	s := newStage(t, theme.Light)
	s.publish()
	s.run(2500 * time.Millisecond)
	if s.Clouds.VisibleCount() == 0 {
		t.Fatal("expected clouds in light theme")
	}

	if got := s.ToggleTheme(); got != theme.Dark {
		t.Fatalf("ToggleTheme = %v", got)
	}
	if n := s.Clouds.VisibleCount(); n != 0 {
		t.Fatalf("clouds left in dark theme: %d", n)
	}
	if !s.Scenery.Layer(assets.LayerMoon).Visible {
		t.Fatal("moon hidden in dark theme")
	}
	if s.Cursor.Theme() != theme.Dark || s.Scenery.Backdrop() == scene.Hex(0x87CEEB) {
		t.Fatal("engines did not follow the theme")
	}

	s.Surface.DispatchPointer(scene.PointerEvent{Kind: scene.PointerEnter, X: 100, Y: 100})
	s.Surface.DispatchPointer(scene.PointerEvent{Kind: scene.PointerMove, X: 140, Y: 100})
	if len(s.Cursor.BloodDrops()) != 1 || len(s.Cursor.Particles()) != 0 {
		t.Fatalf("drops=%d particles=%d", len(s.Cursor.BloodDrops()), len(s.Cursor.Particles()))
	}
}

func TestSplatterHookCarriesImpact(t *testing.T) {
	var got []cursor.Splat
	s := New(config.Default(), 1280, 720, theme.Dark, Options{
		Seed:       3,
		OnSplatter: func(sp cursor.Splat) { got = append(got, sp) },
	})
	s.Surface.DispatchPointer(scene.PointerEvent{Kind: scene.PointerEnter, X: 300, Y: 560})
	s.Surface.DispatchPointer(scene.PointerEvent{Kind: scene.PointerMove, X: 340, Y: 560})
	for i := 0; i < 600 && len(got) == 0; i++ {
		s.Tick(frame)
	}
	if len(got) != 1 {
		t.Fatalf("%d splats", len(got))
	}
	if sp := got[0]; sp.Size <= 0 || sp.Speed <= 0 || sp.Y < 720-100 {
		t.Fatalf("splat %+v", sp)
	}
}

func TestApplyConfig(t *testing.T) {
	s := newStage(t, theme.Light)
	cfg := config.Default()
	cfg.Cursor.CursorSize = 48
	cfg.Theme = "dark"
	s.ApplyConfig(cfg)

	if s.Cursor.Config().CursorSize != 48 {
		t.Fatalf("cursor size = %v", s.Cursor.Config().CursorSize)
	}
	if s.Theme.Current() != theme.Dark {
		t.Fatal("explicit theme not applied")
	}

	cfg.Theme = "auto"
	s.ApplyConfig(cfg)
	if s.Theme.Current() != theme.Dark {
		t.Fatal("auto must leave the running theme alone")
	}
}

func TestPublishNilBundle(t *testing.T) {
	s := newStage(t, theme.Light)
	s.PublishAssets(nil)
	if s.Atlas.Texture(assets.LayerTexture(assets.LayerMountain, theme.Light)) != nil {
		t.Fatal("nil bundle published textures")
	}
}

func TestDestroyReleasesEverything(t *testing.T) {
	s := newStage(t, theme.Dark)
	s.publish()
	s.run(2500 * time.Millisecond)
	s.Surface.DispatchPointer(scene.PointerEvent{Kind: scene.PointerEnter, X: 10, Y: 10})
	s.Surface.DispatchPointer(scene.PointerEvent{Kind: scene.PointerMove, X: 50, Y: 10})

	s.Destroy()
	if s.Ticker.Len() != 0 || s.Ticker.TimerCount() != 0 {
		t.Fatalf("callbacks=%d timers=%d", s.Ticker.Len(), s.Ticker.TimerCount())
	}
	if s.Surface.ListenerCount() != 0 || s.Theme.SubscriberCount() != 0 {
		t.Fatalf("listeners=%d subscribers=%d", s.Surface.ListenerCount(), s.Theme.SubscriberCount())
	}
	if s.Surface.Root.Len() != 0 {
		t.Fatalf("root still has %d children", s.Surface.Root.Len())
	}
	if s.Surface.CursorHidden() {
		t.Fatal("system cursor not restored")
	}
}
