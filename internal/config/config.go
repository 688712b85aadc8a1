// Package config loads skyfx settings from an optional YAML file and
// SKYFX_* environment variables, and watches the file for edits.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"skyfx/internal/clouds"
	"skyfx/internal/cursor"
	"skyfx/internal/parallax"
)

const (
	EnvPrefix   = "SKYFX"
	DefaultName = "skyfx"
)

type Window struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
	VSync  bool   `mapstructure:"vsync"`
}

type Audio struct {
	Enabled bool    `mapstructure:"enabled"`
	Volume  float64 `mapstructure:"volume"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// Config is the full application configuration.
type Config struct {
	// Theme is "light", "dark" or "auto" (follow the OS preference).
	Theme    string          `mapstructure:"theme"`
	Seed     uint64          `mapstructure:"seed"` // 0 seeds from the clock
	Window   Window          `mapstructure:"window"`
	Audio    Audio           `mapstructure:"audio"`
	Log      Log             `mapstructure:"log"`
	Cursor   cursor.Config   `mapstructure:"cursor"`
	Clouds   clouds.Config   `mapstructure:"clouds"`
	Parallax parallax.Config `mapstructure:"parallax"`
}

func Default() Config {
	return Config{
		Theme:    "auto",
		Window:   Window{Width: 1280, Height: 720, Title: "skyfx", VSync: true},
		Audio:    Audio{Enabled: true, Volume: 0.6},
		Log:      Log{Level: "info", Format: "text"},
		Cursor:   cursor.DefaultConfig(),
		Clouds:   clouds.DefaultConfig(),
		Parallax: parallax.DefaultConfig(),
	}
}

// Loader wraps a viper instance bound to one config source.
type Loader struct {
	v    *viper.Viper
	path string
	log  *slog.Logger
}

// NewLoader prepares a loader for path. An empty path searches for
// skyfx.yaml in the working directory and the user config directory.
func NewLoader(path string, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(dir + string(os.PathSeparator) + DefaultName)
		}
	}
	return &Loader{v: v, path: path, log: log.With("component", "config")}
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("theme", d.Theme)
	v.SetDefault("seed", d.Seed)

	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)
	v.SetDefault("window.title", d.Window.Title)
	v.SetDefault("window.vsync", d.Window.VSync)

	v.SetDefault("audio.enabled", d.Audio.Enabled)
	v.SetDefault("audio.volume", d.Audio.Volume)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("cursor.particles_enabled", d.Cursor.ParticlesEnabled)
	v.SetDefault("cursor.cursor_size", d.Cursor.CursorSize)
	v.SetDefault("cursor.particles_count", d.Cursor.ParticlesCount)
	v.SetDefault("cursor.particles_lifespan", d.Cursor.ParticlesLifespan)
	v.SetDefault("cursor.blood_drop_rate", d.Cursor.BloodDropRate)
	v.SetDefault("cursor.move_threshold", d.Cursor.MoveThreshold)

	v.SetDefault("clouds.min_clouds", d.Clouds.MinClouds)
	v.SetDefault("clouds.max_clouds", d.Clouds.MaxClouds)
	v.SetDefault("clouds.min_distance", d.Clouds.MinDistance)
	v.SetDefault("clouds.min_scale", d.Clouds.MinScale)
	v.SetDefault("clouds.max_scale", d.Clouds.MaxScale)
	v.SetDefault("clouds.spritesheet", d.Clouds.Spritesheet)
	v.SetDefault("clouds.lifecycle_interval", d.Clouds.LifecycleInterval)
	v.SetDefault("clouds.retry_delay", d.Clouds.RetryDelay)
	v.SetDefault("clouds.scene_height_ratio", d.Clouds.SceneHeightRatio)

	v.SetDefault("parallax.smooth", d.Parallax.Smooth)
	v.SetDefault("parallax.mouse_intensity", d.Parallax.MouseIntensity)
	v.SetDefault("parallax.scroll_intensity", d.Parallax.ScrollIntensity)
	v.SetDefault("parallax.mouse_bound", d.Parallax.MouseBound)
	v.SetDefault("parallax.scroll_bound", d.Parallax.ScrollBound)
	v.SetDefault("parallax.speeds", d.Parallax.Speeds)
}

// Load reads the config source. A missing file is not an error: defaults
// and environment overrides still apply.
func (l *Loader) Load() (Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return Default(), fmt.Errorf("read config: %w", err)
		}
		l.log.Debug("no config file, using defaults")
	} else {
		l.log.Info("config loaded", "file", l.v.ConfigFileUsed())
	}
	return l.decode()
}

func (l *Loader) decode() (Config, error) {
	var c Config
	if err := l.v.Unmarshal(&c); err != nil {
		return Default(), fmt.Errorf("decode config: %w", err)
	}
	return Validate(c), nil
}

// File is the config file viper resolved. With an explicit path it is that
// path even if the file does not exist; otherwise "" until a file is found.
func (l *Loader) File() string { return l.v.ConfigFileUsed() }

// Watch calls fn with the re-read config each time the file changes.
// fn runs on the watcher goroutine. It fails if no file was loaded.
func (l *Loader) Watch(fn func(Config)) error {
	if l.File() == "" {
		return fmt.Errorf("watch config: no config file in use")
	}
	if _, err := os.Stat(l.File()); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	l.v.OnConfigChange(func(ev fsnotify.Event) {
		if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
			return
		}
		c, err := l.decode()
		if err != nil {
			l.log.Warn("ignoring config change", "file", ev.Name, "err", err)
			return
		}
		l.log.Info("config reloaded", "file", ev.Name)
		fn(c)
	})
	l.v.WatchConfig()
	return nil
}

// Load is a shortcut for NewLoader(path, nil).Load().
func Load(path string) (Config, error) {
	return NewLoader(path, nil).Load()
}
