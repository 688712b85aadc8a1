package cursor

import "time"

// Config tunes the cursor effects. Zero or negative numeric fields are
// replaced by their defaults when the engine takes the config.
type Config struct {
	ParticlesEnabled  bool          `mapstructure:"particles_enabled"`
	CursorSize        float64       `mapstructure:"cursor_size"`
	ParticlesCount    int           `mapstructure:"particles_count"`
	ParticlesLifespan int           `mapstructure:"particles_lifespan"` // frames
	BloodDropRate     time.Duration `mapstructure:"blood_drop_rate"`
	MoveThreshold     float64       `mapstructure:"move_threshold"` // pixels
}

func DefaultConfig() Config {
	return Config{
		ParticlesEnabled:  true,
		CursorSize:        32,
		ParticlesCount:    2,
		ParticlesLifespan: 60,
		BloodDropRate:     100 * time.Millisecond,
		MoveThreshold:     1.5,
	}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.CursorSize <= 0 {
		c.CursorSize = d.CursorSize
	}
	if c.ParticlesCount <= 0 {
		c.ParticlesCount = d.ParticlesCount
	}
	if c.ParticlesLifespan <= 0 {
		c.ParticlesLifespan = d.ParticlesLifespan
	}
	if c.BloodDropRate < 0 {
		c.BloodDropRate = d.BloodDropRate
	}
	if c.MoveThreshold < 0 {
		c.MoveThreshold = d.MoveThreshold
	}
	return c
}
