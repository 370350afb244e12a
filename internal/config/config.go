// Package config provides the tunables for the raycaster frontends.
// Values are loaded from a JSON file layered over DefaultConfig.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all frontend settings
type Config struct {
	World    WorldConfig    `json:"world"`
	View     ViewConfig     `json:"view"`
	Controls ControlsConfig `json:"controls"`
	Audio    AudioConfig    `json:"audio"`
}

// WorldConfig sizes the grid and the overhead map
type WorldConfig struct {
	Width      int    `json:"width"`       // Grid columns
	Height     int    `json:"height"`      // Grid rows
	BlockSize  int    `json:"block_size"`  // Pixels per cell on the overhead map
	LayoutPath string `json:"layout_path"` // Optional JSON layout; empty uses the built-in arena
}

// ViewConfig controls the projection
type ViewConfig struct {
	FOVDegrees float64 `json:"fov_degrees"`
	TPS        int     `json:"tps"`        // Frame loop rate
	Workers    int     `json:"workers"`    // >1 casts columns concurrently
	DebugRays  int     `json:"debug_rays"` // Rays drawn on the overhead map, 0 = one per column
}

// ControlsConfig defines per-frame input steps
type ControlsConfig struct {
	DeltaAngle float64 `json:"delta_angle"` // Radians per frame while turning
	MoveSpeed  float64 `json:"move_speed"`  // Grid units per frame while moving
}

// AudioConfig defines the proximity cue
type AudioConfig struct {
	Enabled   bool    `json:"enabled"`
	Threshold float64 `json:"threshold"` // Forward distance that triggers the tone
	ToneHz    float64 `json:"tone_hz"`
}

// DefaultConfig returns the classic 30x30 arena setup
func DefaultConfig() *Config {
	return &Config{
		World: WorldConfig{
			Width:     30,
			Height:    30,
			BlockSize: 30,
		},
		View: ViewConfig{
			FOVDegrees: 60,
			TPS:        60,
			Workers:    1,
		},
		Controls: ControlsConfig{
			DeltaAngle: 0.03,
			MoveSpeed:  0.2,
		},
		Audio: AudioConfig{
			Enabled:   false,
			Threshold: 1.0,
			ToneHz:    440,
		},
	}
}

// LoadConfig loads config from a JSON file. A missing file yields defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects settings the frontends cannot run with
func (c *Config) Validate() error {
	switch {
	case c.World.Width <= 0 || c.World.Height <= 0:
		return fmt.Errorf("%w: world size %dx%d", ErrInvalidConfig, c.World.Width, c.World.Height)
	case c.World.BlockSize <= 0:
		return fmt.Errorf("%w: block size %d", ErrInvalidConfig, c.World.BlockSize)
	case c.View.FOVDegrees <= 0 || c.View.FOVDegrees >= 360:
		return fmt.Errorf("%w: fov %v degrees", ErrInvalidConfig, c.View.FOVDegrees)
	case c.View.TPS <= 0:
		return fmt.Errorf("%w: tps %d", ErrInvalidConfig, c.View.TPS)
	case c.View.Workers < 0 || c.View.DebugRays < 0:
		return fmt.Errorf("%w: negative workers or debug rays", ErrInvalidConfig)
	case c.Audio.Enabled && (c.Audio.Threshold <= 0 || c.Audio.ToneHz <= 0):
		return fmt.Errorf("%w: audio threshold %v, tone %v Hz", ErrInvalidConfig, c.Audio.Threshold, c.Audio.ToneHz)
	}
	return nil
}

// FOV returns the field of view in radians
func (c *Config) FOV() float64 {
	return c.View.FOVDegrees * math.Pi / 180
}

// PaneSize returns the pixel size of one view pane (overhead map or projection)
// for a grid of the given size in blocks
func (c *Config) PaneSize(gridWidth, gridHeight int) (width, height int) {
	return gridWidth * c.World.BlockSize, gridHeight * c.World.BlockSize
}
