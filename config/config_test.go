package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shader-scene/control"
	"shader-scene/shaders"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, shaders.DefaultVertex, cfg.Shaders.Vertex)
	assert.Equal(t, control.Default(), cfg.Controls)
	assert.Equal(t, float32(50), cfg.Camera.FOVDegrees)
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[window]
title = "cube"

[log]
level = "debug"

[controls.mesh]
resolution = 32
wireframe = true

[controls.shader.yDisplacement]
byWorldZ = 0.25

[controls.bloom]
strength = 1.5
`))
	require.NoError(t, err)

	assert.Equal(t, "cube", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 32, cfg.Controls.Mesh.Resolution)
	assert.True(t, cfg.Controls.Mesh.Wireframe)
	assert.Equal(t, float32(1), cfg.Controls.Mesh.ResolutionMultiplier)
	assert.Equal(t, float32(0.25), cfg.Controls.Shader.YDisplacement.ByWorldZ)
	assert.Equal(t, float32(0.95), cfg.Controls.Shader.YDisplacement.ByLocalX)
	assert.Equal(t, float32(1.5), cfg.Controls.Bloom.Strength)
	assert.Equal(t, float32(1.05), cfg.Controls.Bloom.Radius)

	level, err := ParseLevel(cfg.Log.Level)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "[controls.mesh]\nresolutoin = 3\n"},
		{"bad level", "[log]\nlevel = \"loud\"\n"},
		{"bad window", "[window]\nwidth = 0\n"},
		{"bad clip", "[camera]\nnear = 5.0\nfar = 1.0\n"},
		{"syntax", "[window\n"},
		{"nan control", "[controls.shader.xDisplacement]\nbyLocalX = nan\n"},
		{"inf control", "[controls.bloom]\nstrength = -inf\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tuning]\nfile = \"live.toml\"\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "live.toml", cfg.Tuning.File)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadChecksTuningDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.toml")

	// the tuning file may be absent as long as its directory exists
	live := filepath.ToSlash(filepath.Join(dir, "live.toml"))
	require.NoError(t, os.WriteFile(path, []byte("[tuning]\nfile = \""+live+"\"\n"), 0o644))
	_, err := Load(path)
	require.NoError(t, err)

	gone := filepath.ToSlash(filepath.Join(dir, "nope", "live.toml"))
	require.NoError(t, os.WriteFile(path, []byte("[tuning]\nfile = \""+gone+"\"\n"), 0o644))
	_, err = Load(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
