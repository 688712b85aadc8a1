package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, body string) string {
	t.Helper()
	p := filepath.Join(dir, "skyfx.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	d := Default()
	if c.Cursor != d.Cursor || c.Clouds != d.Clouds || c.Window != d.Window {
		t.Fatalf("got %+v", c)
	}
	if c.Parallax.Speeds["field1"] != 0.09 {
		t.Fatalf("parallax speeds = %v", c.Parallax.Speeds)
	}
}

func TestFileOverridesDefaults(t *testing.T) {
	p := writeFile(t, t.TempDir(), `
theme: dark
cursor:
  particles_count: 5
  blood_drop_rate: 250ms
clouds:
  max_clouds: 6
  lifecycle_interval: 3s
window:
  width: 640
  height: 480
`)
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Theme != "dark" {
		t.Errorf("theme = %q", c.Theme)
	}
	if c.Cursor.ParticlesCount != 5 || c.Cursor.BloodDropRate != 250*time.Millisecond {
		t.Errorf("cursor = %+v", c.Cursor)
	}
	if c.Cursor.CursorSize != 32 {
		t.Errorf("unset cursor_size lost its default: %v", c.Cursor.CursorSize)
	}
	if c.Clouds.MaxClouds != 6 || c.Clouds.MinClouds != 3 || c.Clouds.LifecycleInterval != 3*time.Second {
		t.Errorf("clouds = %+v", c.Clouds)
	}
	if c.Window.Width != 640 || c.Window.Height != 480 {
		t.Errorf("window = %+v", c.Window)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SKYFX_CURSOR_PARTICLES_COUNT", "7")
	t.Setenv("SKYFX_THEME", "light")
	t.Setenv("SKYFX_CLOUDS_RETRY_DELAY", "500ms")
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Cursor.ParticlesCount != 7 {
		t.Errorf("particles_count = %d", c.Cursor.ParticlesCount)
	}
	if c.Theme != "light" {
		t.Errorf("theme = %q", c.Theme)
	}
	if c.Clouds.RetryDelay != 500*time.Millisecond {
		t.Errorf("retry_delay = %v", c.Clouds.RetryDelay)
	}
}

func TestMalformedFile(t *testing.T) {
	p := writeFile(t, t.TempDir(), "cursor: [unterminated\n")
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		check func(Config) bool
	}{
		{"unknown theme", func(c *Config) { c.Theme = "sepia" }, func(c Config) bool { return c.Theme == "auto" }},
		{"theme case", func(c *Config) { c.Theme = " Dark" }, func(c Config) bool { return c.Theme == "dark" }},
		{"max below min", func(c *Config) { c.Clouds.MinClouds, c.Clouds.MaxClouds = 5, 2 }, func(c Config) bool { return c.Clouds.MaxClouds == 5 }},
		{"negative count", func(c *Config) { c.Cursor.ParticlesCount = -4 }, func(c Config) bool { return c.Cursor.ParticlesCount == 2 }},
		{"volume", func(c *Config) { c.Audio.Volume = 3 }, func(c Config) bool { return c.Audio.Volume == 1 }},
		{"window", func(c *Config) { c.Window.Width = 0 }, func(c Config) bool { return c.Window.Width == 1280 }},
		{"smooth", func(c *Config) { c.Parallax.Smooth = 0 }, func(c Config) bool { return c.Parallax.Smooth == 0.05 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.edit(&c)
			if got := Validate(c); !tt.check(got) {
				t.Fatalf("Validate = %+v", got)
			}
		})
	}
}

func TestWatchWithoutFile(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	if _, err := l.Load(); err != nil {
		t.Fatal(err)
	}
	if err := l.Watch(func(Config) {}); err == nil {
		t.Fatal("expected error watching a missing file")
	}
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "cursor:\n  particles_count: 1\n")
	l := NewLoader(p, nil)
	if _, err := l.Load(); err != nil {
		t.Fatal(err)
	}
	got := make(chan Config, 4)
	if err := l.Watch(func(c Config) { got <- c }); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "cursor:\n  particles_count: 4\n")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-got:
			if c.Cursor.ParticlesCount == 4 {
				return
			}
		case <-deadline:
			t.Fatal("no reload after file change")
		}
	}
}
