package backend

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config holds every recognized knob of the screensaver: canvas geometry,
// palette shape, trail physics, initial cursor placement, and frame pacing.
type Config struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	PaletteSize int     `json:"palette_size"`
	Lightness   float64 `json:"lightness"`
	Chroma      float64 `json:"chroma"`

	Speed    float64 `json:"speed"`
	MaxLines int     `json:"max_lines"`
	Drift    float64 `json:"drift"`

	HeadX     float64 `json:"head_x"`
	HeadY     float64 `json:"head_y"`
	HeadAngle float64 `json:"head_angle"`
	TailX     float64 `json:"tail_x"`
	TailY     float64 `json:"tail_y"`
	TailAngle float64 `json:"tail_angle"`

	IntervalMS int   `json:"interval_ms"`
	Seed       int64 `json:"seed"`
}

// DefaultConfig returns the classic 320×240 setup.
func DefaultConfig() Config {
	return Config{
		Width:       320,
		Height:      240,
		PaletteSize: 256,
		Lightness:   0.24,
		Chroma:      0.76,
		Speed:       8,
		MaxLines:    21,
		Drift:       2,
		HeadX:       31,
		HeadY:       17,
		HeadAngle:   23,
		TailX:       163,
		TailY:       109,
		TailAngle:   71,
		IntervalMS:  60,
		Seed:        1,
	}
}

// LoadConfig reads a JSON config file on top of the defaults. Fields absent
// from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run.
func (c Config) Validate() error {
	if c.Width < 2 || c.Height < 2 {
		return fmt.Errorf("canvas %dx%d too small", c.Width, c.Height)
	}
	if c.PaletteSize < 2 || c.PaletteSize > 256 {
		return fmt.Errorf("palette size %d outside [2,256]", c.PaletteSize)
	}
	if c.MaxLines < 1 {
		return fmt.Errorf("max lines %d must be at least 1", c.MaxLines)
	}
	if c.Speed < 0 {
		return fmt.Errorf("speed %v must not be negative", c.Speed)
	}
	if c.Drift < 0 {
		return fmt.Errorf("drift %v must not be negative", c.Drift)
	}
	if c.IntervalMS < 1 {
		return fmt.Errorf("interval %dms must be at least 1ms", c.IntervalMS)
	}
	return nil
}

// Interval returns the frame pacing delay.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// Tuning is the subset of Config that can change while the screensaver runs.
type Tuning struct {
	Lightness float64
	Chroma    float64
	Speed     float64
	MaxLines  int
	Drift     float64
	Interval  time.Duration
}

// Tuning extracts the live-reloadable knobs.
func (c Config) Tuning() Tuning {
	return Tuning{
		Lightness: c.Lightness,
		Chroma:    c.Chroma,
		Speed:     c.Speed,
		MaxLines:  c.MaxLines,
		Drift:     c.Drift,
		Interval:  c.Interval(),
	}
}
