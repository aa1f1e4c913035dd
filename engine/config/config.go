// Package config loads the demo settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every error Validate returns.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the root of the YAML document.
type Config struct {
	Window    Window    `yaml:"window"`
	Camera    Camera    `yaml:"camera"`
	Renderer  Renderer  `yaml:"renderer"`
	Assets    Assets    `yaml:"assets"`
	Debug     bool      `yaml:"debug"`
	Profiling Profiling `yaml:"profiling"`
}

// Window configures the OS window.
type Window struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Resizable bool   `yaml:"resizable"`
}

// Camera configures the initial camera and the controller.
type Camera struct {
	Eye           [3]float32 `yaml:"eye"`
	Target        [3]float32 `yaml:"target"`
	Up            [3]float32 `yaml:"up"`
	FovDegrees    float32    `yaml:"fov_degrees"`
	Near          float32    `yaml:"near"`
	Far           float32    `yaml:"far"`
	Speed         float32    `yaml:"speed"`
	MouseSlowdown float32    `yaml:"mouse_slowdown"`
	// Movement is "latched" or "held".
	Movement string `yaml:"movement"`
}

// Renderer configures the surface and render pass.
type Renderer struct {
	// PresentMode is "vsync" or "uncapped".
	PresentMode string `yaml:"present_mode"`
	// MSAA is the sample count, 1 or 4.
	MSAA                    int        `yaml:"msaa"`
	ClearColor              [4]float64 `yaml:"clear_color"`
	ClearColorFollowsCursor bool       `yaml:"clear_color_follows_cursor"`
	Software                bool       `yaml:"software"`
}

// Assets names the files loaded at startup. An empty texture path selects a generated checkerboard.
type Assets struct {
	Texture string `yaml:"texture"`
	Shader  string `yaml:"shader"`
}

// Profiling configures the frame-time profiler.
type Profiling struct {
	Enabled         bool `yaml:"enabled"`
	IntervalSeconds int  `yaml:"interval_seconds"`
	MemStats        bool `yaml:"mem_stats"`
}

// Default returns a configuration that runs the demo without a config file.
//
// Returns:
//   - Config: the default settings
func Default() Config {
	return Config{
		Window: Window{
			Title:     "flycam",
			Width:     800,
			Height:    600,
			Resizable: true,
		},
		Camera: Camera{
			Eye:           [3]float32{0, 1, 2},
			Target:        [3]float32{0, 0, 0},
			Up:            [3]float32{0, 1, 0},
			FovDegrees:    45,
			Near:          0.1,
			Far:           100,
			Speed:         0.05,
			MouseSlowdown: 100,
			Movement:      "latched",
		},
		Renderer: Renderer{
			PresentMode: "vsync",
			MSAA:        1,
			ClearColor:  [4]float64{0.1, 0.2, 0.3, 1.0},
		},
		Assets: Assets{
			Texture: "assets/texture.png",
			Shader:  "assets/shader.wgsl",
		},
		Profiling: Profiling{
			Enabled:         false,
			IntervalSeconds: 1,
		},
	}
}

// Load reads the file at path over the defaults and validates the result.
// Unknown keys are rejected.
//
// Parameters:
//   - path: the YAML file to read
//
// Returns:
//   - Config: the merged settings
//   - error: an error if the file cannot be read, parsed or validated
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML bytes over the defaults and validates the result.
//
// Parameters:
//   - b: the YAML document
//
// Returns:
//   - Config: the merged settings
//   - error: an error if the document cannot be parsed or validated
func Parse(b []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// parallelEpsilon bounds |forward x up| for unit vectors below which strafing has no axis.
const parallelEpsilon = 1e-4

func upParallel(c Camera) bool {
	forward := mgl32.Vec3(c.Target).Sub(mgl32.Vec3(c.Eye)).Normalize()
	up := mgl32.Vec3(c.Up).Normalize()
	return forward.Cross(up).Len() < parallelEpsilon
}

// Validate checks the settings the rest of the program relies on.
//
// Returns:
//   - error: nil, or an error wrapping ErrInvalidConfig that lists every problem
func (c Config) Validate() error {
	var problems []string
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		problems = append(problems, fmt.Sprintf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Camera.Eye == c.Camera.Target {
		problems = append(problems, "camera eye and target must differ")
	}
	if c.Camera.Up == [3]float32{} {
		problems = append(problems, "camera up must be non-zero")
	} else if c.Camera.Eye != c.Camera.Target && upParallel(c.Camera) {
		problems = append(problems, "camera up must not be parallel to target - eye")
	}
	if c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180 {
		problems = append(problems, fmt.Sprintf("camera fov_degrees %g must be in (0, 180)", c.Camera.FovDegrees))
	}
	if c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far {
		problems = append(problems, fmt.Sprintf("camera near %g must be positive and below far %g", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.Speed <= 0 {
		problems = append(problems, fmt.Sprintf("camera speed %g must be positive", c.Camera.Speed))
	}
	if c.Camera.MouseSlowdown <= 0 {
		problems = append(problems, fmt.Sprintf("camera mouse_slowdown %g must be positive", c.Camera.MouseSlowdown))
	}
	switch strings.ToLower(c.Camera.Movement) {
	case "", "latched", "held":
	default:
		problems = append(problems, fmt.Sprintf("camera movement %q must be latched or held", c.Camera.Movement))
	}
	switch strings.ToLower(c.Renderer.PresentMode) {
	case "", "vsync", "uncapped":
	default:
		problems = append(problems, fmt.Sprintf("renderer present_mode %q must be vsync or uncapped", c.Renderer.PresentMode))
	}
	switch c.Renderer.MSAA {
	case 0, 1, 4:
	default:
		problems = append(problems, fmt.Sprintf("renderer msaa %d must be 1 or 4", c.Renderer.MSAA))
	}
	if c.Assets.Shader == "" {
		problems = append(problems, "assets shader path is required")
	}
	if c.Profiling.Enabled && c.Profiling.IntervalSeconds <= 0 {
		problems = append(problems, fmt.Sprintf("profiling interval_seconds %d must be positive", c.Profiling.IntervalSeconds))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
