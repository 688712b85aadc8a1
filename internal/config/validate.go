package config

import (
	"strings"

	"skyfx/internal/theme"
)

// Validate clamps values that would make the engines misbehave. It never
// fails; unusable values fall back to defaults.
func Validate(c Config) Config {
	d := Default()

	switch t := strings.ToLower(strings.TrimSpace(c.Theme)); t {
	case "auto":
		c.Theme = t
	case "":
		c.Theme = d.Theme
	default:
		if _, err := theme.Parse(t); err != nil {
			c.Theme = d.Theme
		} else {
			c.Theme = t
		}
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		c.Window.Width, c.Window.Height = d.Window.Width, d.Window.Height
	}
	if c.Window.Title == "" {
		c.Window.Title = d.Window.Title
	}
	if c.Audio.Volume < 0 {
		c.Audio.Volume = 0
	}
	if c.Audio.Volume > 1 {
		c.Audio.Volume = 1
	}

	if c.Cursor.ParticlesCount < 0 {
		c.Cursor.ParticlesCount = d.Cursor.ParticlesCount
	}
	if c.Cursor.ParticlesLifespan <= 0 {
		c.Cursor.ParticlesLifespan = d.Cursor.ParticlesLifespan
	}
	if c.Cursor.CursorSize <= 0 {
		c.Cursor.CursorSize = d.Cursor.CursorSize
	}

	if c.Clouds.MinClouds < 0 {
		c.Clouds.MinClouds = 0
	}
	if c.Clouds.MaxClouds < c.Clouds.MinClouds {
		c.Clouds.MaxClouds = c.Clouds.MinClouds
	}
	if c.Clouds.MinScale <= 0 {
		c.Clouds.MinScale = d.Clouds.MinScale
	}
	if c.Clouds.MaxScale < c.Clouds.MinScale {
		c.Clouds.MaxScale = c.Clouds.MinScale
	}

	if c.Parallax.Smooth <= 0 || c.Parallax.Smooth > 1 {
		c.Parallax.Smooth = d.Parallax.Smooth
	}
	if c.Parallax.Speeds == nil {
		c.Parallax.Speeds = d.Parallax.Speeds
	}
	return c
}
