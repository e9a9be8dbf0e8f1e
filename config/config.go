// Package config loads the TOML configuration for the shader scene.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"shader-scene/control"
	"shader-scene/core"
	"shader-scene/shaders"
)

type Config struct {
	Window   core.WindowConfig `toml:"window"`
	Shaders  ShaderConfig      `toml:"shaders"`
	Camera   CameraConfig      `toml:"camera"`
	Render   RenderConfig      `toml:"render"`
	Tuning   TuningConfig      `toml:"tuning"`
	Log      LogConfig         `toml:"log"`
	Controls control.State     `toml:"controls"`
}

// ShaderConfig holds the two source refs, see shaders.Load.
type ShaderConfig struct {
	Vertex   string `toml:"vertex"`
	Fragment string `toml:"fragment"`
}

type CameraConfig struct {
	FOVDegrees float32 `toml:"fovDegrees"`
	Near       float32 `toml:"near"`
	Far        float32 `toml:"far"`
}

type RenderConfig struct {
	// Exposure scales HDR colour before Reinhard tone mapping.
	Exposure    float32 `toml:"exposure"`
	BloomPasses int     `toml:"bloomPasses"`
}

type TuningConfig struct {
	// File is an optional TOML file of [controls] overrides, re-read on save.
	File         string `toml:"file"`
	HistoryDepth int    `toml:"historyDepth"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func Default() Config {
	return Config{
		Window: core.DefaultWindowConfig(),
		Shaders: ShaderConfig{
			Vertex:   shaders.DefaultVertex,
			Fragment: shaders.DefaultFragment,
		},
		Camera: CameraConfig{
			FOVDegrees: 50,
			Near:       0.1,
			Far:        1000,
		},
		Render: RenderConfig{
			Exposure:    1,
			BloomPasses: 5,
		},
		Tuning: TuningConfig{
			HistoryDepth: 100,
		},
		Log: LogConfig{
			Level: "info",
		},
		Controls: control.Default(),
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.checkTuningDir(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// checkTuningDir requires the directory the tuning file is watched in. The
// file itself may appear later.
func (c Config) checkTuningDir() error {
	if c.Tuning.File == "" {
		return nil
	}
	dir := filepath.Dir(c.Tuning.File)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("tuning file directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("tuning file directory %s is not a directory", dir)
	}
	return nil
}

// Parse decodes data over the defaults. Unknown keys are an error so typos
// do not go unnoticed.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("unknown keys:\n%s", strict.String())
		}
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Shaders.Vertex == "" || c.Shaders.Fragment == "" {
		errs = append(errs, errors.New("both shader refs are required"))
	}
	if c.Camera.FOVDegrees <= 0 || c.Camera.FOVDegrees >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %g out of (0, 180)", c.Camera.FOVDegrees))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera clip range [%g, %g] is invalid", c.Camera.Near, c.Camera.Far))
	}
	if c.Render.BloomPasses < 0 {
		errs = append(errs, errors.New("bloom passes must not be negative"))
	}
	if c.Tuning.HistoryDepth < 0 {
		errs = append(errs, errors.New("history depth must not be negative"))
	}
	if err := control.Standard().Check(&c.Controls); err != nil {
		errs = append(errs, fmt.Errorf("controls: %w", err))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLevel accepts the slog level names (debug, info, warn, error).
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}
