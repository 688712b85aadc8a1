//go:build !android

package game

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"skyfx/internal/mathutil"
	"skyfx/internal/scene"
)

// scrollStep is how far one wheel notch scrolls the virtual page, in pixels.
const scrollStep = 40

// scrollPages is the virtual page height in surface heights.
const scrollPages = 3

type Input struct {
	prevKeys    map[glfw.Key]bool
	scrollY     float64
	cursorShown bool
}

func NewInput() *Input {
	return &Input{
		prevKeys:    make(map[glfw.Key]bool),
		cursorShown: true,
	}
}

func (in *Input) JustPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}

// Attach forwards window events to the surface. Callbacks run inside
// glfw.PollEvents, so everything stays on the frame thread.
func (in *Input) Attach(window *glfw.Window, surface *scene.Surface) {
	window.SetCursorEnterCallback(func(w *glfw.Window, entered bool) {
		if !entered {
			surface.DispatchPointer(scene.PointerEvent{Kind: scene.PointerLeave})
			return
		}
		x, y := w.GetCursorPos()
		surface.DispatchPointer(scene.PointerEvent{Kind: scene.PointerEnter, X: x, Y: y})
	})
	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		surface.DispatchPointer(scene.PointerEvent{Kind: scene.PointerMove, X: x, Y: y})
	})
	window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		in.scrollY = mathutil.ClampF(in.scrollY-yoff*scrollStep, 0, surface.Height()*(scrollPages-1))
		surface.Scroll(in.scrollY)
	})
	window.SetSizeCallback(func(_ *glfw.Window, w, h int) {
		if w > 0 && h > 0 {
			surface.Resize(float64(w), float64(h))
		}
	})

	// glfw only reports enter on a crossing; a cursor already over the
	// window at startup gets a synthetic one.
	if window.GetAttrib(glfw.Hovered) == glfw.True {
		x, y := window.GetCursorPos()
		surface.DispatchPointer(scene.PointerEvent{Kind: scene.PointerEnter, X: x, Y: y})
	}
}

// Detach drops every callback installed by Attach.
func (in *Input) Detach(window *glfw.Window) {
	window.SetCursorEnterCallback(nil)
	window.SetCursorPosCallback(nil)
	window.SetScrollCallback(nil)
	window.SetSizeCallback(nil)
}

// SyncCursor hides or shows the system cursor to match the surface.
func (in *Input) SyncCursor(window *glfw.Window, surface *scene.Surface) {
	show := !surface.CursorHidden()
	if show == in.cursorShown {
		return
	}
	in.cursorShown = show
	if show {
		window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	} else {
		window.SetInputMode(glfw.CursorMode, glfw.CursorHidden)
	}
}
