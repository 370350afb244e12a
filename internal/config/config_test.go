package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())

	assert.Equal(t, 30, c.World.Width)
	assert.Equal(t, 0.03, c.Controls.DeltaAngle)
	assert.Equal(t, 0.2, c.Controls.MoveSpeed)
	assert.InDelta(t, math.Pi/3, c.FOV(), 1e-12)

	w, h := c.PaneSize(c.World.Width, c.World.Height)
	assert.Equal(t, 900, w)
	assert.Equal(t, 900, h)
	w, h = c.PaneSize(5, 3)
	assert.Equal(t, 150, w)
	assert.Equal(t, 90, h)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	c, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)

	c, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"world": {"width": 12, "layout_path": "maps/x.json"},
		"view": {"fov_degrees": 90, "workers": 4},
		"audio": {"enabled": true}
	}`)

	c, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 12, c.World.Width)
	assert.Equal(t, 30, c.World.Height, "unset fields keep defaults")
	assert.Equal(t, "maps/x.json", c.World.LayoutPath)
	assert.Equal(t, 4, c.View.Workers)
	assert.InDelta(t, math.Pi/2, c.FOV(), 1e-12)
	assert.True(t, c.Audio.Enabled)
	assert.Equal(t, 1.0, c.Audio.Threshold)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero width", `{"world": {"width": 0}}`},
		{"zero block", `{"world": {"block_size": 0}}`},
		{"fov too wide", `{"view": {"fov_degrees": 360}}`},
		{"zero tps", `{"view": {"tps": 0}}`},
		{"negative workers", `{"view": {"workers": -1}}`},
		{"silent tone", `{"audio": {"enabled": true, "tone_hz": 0}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadConfigBadJSON(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `{"world":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}
