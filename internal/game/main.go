//go:build !android

package game

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"skyfx/internal/assets"
	"skyfx/internal/config"
	"skyfx/internal/cursor"
	"skyfx/internal/stage"
	"skyfx/internal/theme"
)

// RunDesktop opens the window and runs the page until it is closed or
// Escape is pressed. loader may be nil, in which case config is not watched.
func RunDesktop(cfg config.Config, loader *config.Loader, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	runtime.LockOSThread()

	window, err := initWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	log.Info("gl ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	audio, err := InitAudio(cfg.Audio)
	if err != nil {
		log.Warn("audio init failed (continuing without sound)", "err", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	initial, err := theme.Resolve(cfg.Theme)
	if err != nil {
		log.Warn("theme fallback", "setting", cfg.Theme, "theme", initial, "err", err)
	}

	// GL state.
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.MULTISAMPLE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	rend, err := NewRenderer()
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()

	bus := NewEventBus()
	wireAudio(bus, audio)

	winW, winH := window.GetSize()
	st := stage.New(cfg, float64(winW), float64(winH), initial, stage.Options{
		Seed: seed,
		Log:  log,
		OnSplatter: func(sp cursor.Splat) {
			bus.Emit(Event{Type: EventSplatter, Splat: sp})
		},
	})
	defer st.Destroy()

	input := NewInput()
	input.Attach(window, st.Surface)
	defer input.Detach(window)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bundles := assets.Load(ctx, st.AssetOptions())

	reloads := make(chan config.Config, 1)
	if loader != nil {
		err := loader.Watch(func(c config.Config) {
			select {
			case reloads <- c:
			default:
				// Frame thread has not drained the last one; keep the newest.
				select {
				case <-reloads:
				default:
				}
				reloads <- c
			}
		})
		if err != nil {
			log.Debug("config not watched", "err", err)
		}
	}

	log.Info("running", "theme", initial, "seed", seed, "audio", audio != nil)

	last := glfw.GetTime()
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - last
		last = now
		if dt > 0.1 {
			dt = 0.1
		}

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}
		if input.JustPressed(window, glfw.KeyT) {
			t := st.ToggleTheme()
			bus.Emit(Event{Type: EventThemeToggled, Theme: t})
		}

		select {
		case b, ok := <-bundles:
			if ok {
				st.PublishAssets(b)
			}
			bundles = nil
		case c := <-reloads:
			st.ApplyConfig(c)
			bus.Emit(Event{Type: EventConfigReloaded, Config: c})
		default:
		}

		st.Tick(dt)
		input.SyncCursor(window, st.Surface)

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}
		rend.BeginFrame(st.Surface.Width(), st.Surface.Height(), fbW, fbH, st.Scenery.Backdrop())
		rend.DrawScene(st.Surface.Root)
		rend.EndFrame()

		window.SwapBuffers()
	}
	return nil
}
