package clouds

import "time"

type Config struct {
	MinClouds         int           `mapstructure:"min_clouds"`
	MaxClouds         int           `mapstructure:"max_clouds"`
	MinDistance       float64       `mapstructure:"min_distance"`
	MinScale          float64       `mapstructure:"min_scale"`
	MaxScale          float64       `mapstructure:"max_scale"`
	Spritesheet       string        `mapstructure:"spritesheet"`
	LifecycleInterval time.Duration `mapstructure:"lifecycle_interval"`
	RetryDelay        time.Duration `mapstructure:"retry_delay"`
	SceneHeightRatio  float64       `mapstructure:"scene_height_ratio"`
}

func DefaultConfig() Config {
	return Config{
		MinClouds:         3,
		MaxClouds:         10,
		MinDistance:       100,
		MinScale:          0.5,
		MaxScale:          2.5,
		Spritesheet:       "clouds_spritesheet",
		LifecycleInterval: 5 * time.Second,
		RetryDelay:        2 * time.Second,
		SceneHeightRatio:  0.35,
	}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.MinClouds < 0 {
		c.MinClouds = 0
	}
	if c.MaxClouds < c.MinClouds {
		c.MaxClouds = c.MinClouds
	}
	if c.MinScale <= 0 {
		c.MinScale = d.MinScale
	}
	if c.MaxScale < c.MinScale {
		c.MaxScale = c.MinScale
	}
	if c.Spritesheet == "" {
		c.Spritesheet = d.Spritesheet
	}
	if c.LifecycleInterval <= 0 {
		c.LifecycleInterval = d.LifecycleInterval
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = d.RetryDelay
	}
	if c.SceneHeightRatio <= 0 {
		c.SceneHeightRatio = d.SceneHeightRatio
	}
	return c
}
