//go:build !android

package game

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"skyfx/internal/config"
)

// Below this the field layers no longer cover the sky band clouds drift in.
const (
	minWindowW = 480
	minWindowH = 320
)

// initWindow opens the page window. Confetti edges are thin, so the
// framebuffer is multisampled.
func initWindow(cfg config.Window) (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.SetSizeLimits(minWindowW, minWindowH, glfw.DontCare, glfw.DontCare)
	window.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	return window, nil
}
