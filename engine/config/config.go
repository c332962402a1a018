// Package config loads the demo's TOML configuration and watches it for edits to the
// runtime-tunable values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
)

// Effect names accepted by scene.start_effect.
const (
	EffectSimple   = "simple"
	EffectPbr      = "pbr"
	EffectEquirect = "equirect"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Duration is a time.Duration written as a Go duration string ("2s", "500ms") in TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Color is an RGBA clear color with components in [0, 1].
type Color [4]float64

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type RendererConfig struct {
	// PresentMode is "vsync" or "uncapped".
	PresentMode string `toml:"present_mode"`
	// ShaderFormat is "wgsl" or "spirv". Both are compiled by naga at startup.
	ShaderFormat  string `toml:"shader_format"`
	ForceSoftware bool   `toml:"force_software"`
	// MaxTextureDimension downscales larger textures at load time. Zero disables it.
	MaxTextureDimension int `toml:"max_texture_dimension"`
}

type SceneConfig struct {
	ResourceDir string  `toml:"resource_dir"`
	StartEffect string  `toml:"start_effect"`
	CameraSpeed float64 `toml:"camera_speed"`
	ModelSpeed  float64 `toml:"model_speed"`
	SimpleClear Color   `toml:"simple_clear"`
	PbrClear    Color   `toml:"pbr_clear"`
}

type DebugConfig struct {
	LogLevel        string   `toml:"log_level"`
	Profiling       bool     `toml:"profiling"`
	ProfileInterval Duration `toml:"profile_interval"`
	// Watch enables hot reload of the runtime-tunable values.
	Watch bool `toml:"watch"`
}

// Config is the full demo configuration.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Scene    SceneConfig    `toml:"scene"`
	Debug    DebugConfig    `toml:"debug"`
}

// Default returns the configuration the demo runs with when no file is given.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-pbr",
			Width:  1280,
			Height: 720,
		},
		Renderer: RendererConfig{
			PresentMode:         "vsync",
			ShaderFormat:        "wgsl",
			MaxTextureDimension: 4096,
		},
		Scene: SceneConfig{
			ResourceDir: "resources",
			StartEffect: EffectPbr,
			CameraSpeed: 0.2,
			ModelSpeed:  0.02,
			SimpleClear: Color{0.1, 0.2, 0.3, 1},
			PbrClear:    Color{0.1, 0.1, 0.1, 1},
		},
		Debug: DebugConfig{
			LogLevel:        "info",
			ProfileInterval: Duration(2 * time.Second),
		},
	}
}

// Load reads a TOML file over Default. Keys the file omits keep their default value; unknown
// keys are rejected.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the validated configuration
//   - error: an error if the file cannot be read, does not decode, or fails validation
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode is Load for an already opened reader.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("unknown keys:\n%s", strict.String())
		}
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes the configuration as TOML.
func (c Config) Encode(w io.Writer) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf).SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		add("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	switch strings.ToLower(c.Renderer.PresentMode) {
	case "vsync", "uncapped":
	default:
		add("renderer.present_mode %q must be vsync or uncapped", c.Renderer.PresentMode)
	}
	switch strings.ToLower(c.Renderer.ShaderFormat) {
	case "spirv", "wgsl":
	default:
		add("renderer.shader_format %q must be spirv or wgsl", c.Renderer.ShaderFormat)
	}
	if c.Renderer.MaxTextureDimension < 0 {
		add("renderer.max_texture_dimension %d must not be negative", c.Renderer.MaxTextureDimension)
	}
	switch c.Scene.StartEffect {
	case EffectSimple, EffectPbr, EffectEquirect:
	default:
		add("scene.start_effect %q must be simple, pbr or equirect", c.Scene.StartEffect)
	}
	if c.Scene.CameraSpeed < 0 {
		add("scene.camera_speed %v must not be negative", c.Scene.CameraSpeed)
	}
	if !c.Scene.SimpleClear.valid() {
		add("scene.simple_clear %v has a component outside [0, 1]", c.Scene.SimpleClear)
	}
	if !c.Scene.PbrClear.valid() {
		add("scene.pbr_clear %v has a component outside [0, 1]", c.Scene.PbrClear)
	}
	if _, err := log.ParseLevel(c.Debug.LogLevel); err != nil {
		add("debug.log_level %q: %v", c.Debug.LogLevel, err)
	}
	if c.Debug.Profiling && c.Debug.ProfileInterval <= 0 {
		add("debug.profile_interval must be positive when profiling is on")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

func (c Color) valid() bool {
	for _, v := range c {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}

// MergeRuntime copies the values that may change while the demo runs from next into c:
// camera and model speed, both clear colors, log level and profiling.
//
// Parameters:
//   - next: the freshly loaded configuration
//
// Returns:
//   - []string: the dotted names of the fields that changed, empty if none did
func (c *Config) MergeRuntime(next Config) []string {
	var changed []string
	if c.Scene.CameraSpeed != next.Scene.CameraSpeed {
		c.Scene.CameraSpeed = next.Scene.CameraSpeed
		changed = append(changed, "scene.camera_speed")
	}
	if c.Scene.ModelSpeed != next.Scene.ModelSpeed {
		c.Scene.ModelSpeed = next.Scene.ModelSpeed
		changed = append(changed, "scene.model_speed")
	}
	if c.Scene.SimpleClear != next.Scene.SimpleClear {
		c.Scene.SimpleClear = next.Scene.SimpleClear
		changed = append(changed, "scene.simple_clear")
	}
	if c.Scene.PbrClear != next.Scene.PbrClear {
		c.Scene.PbrClear = next.Scene.PbrClear
		changed = append(changed, "scene.pbr_clear")
	}
	if c.Debug.LogLevel != next.Debug.LogLevel {
		c.Debug.LogLevel = next.Debug.LogLevel
		changed = append(changed, "debug.log_level")
	}
	if c.Debug.Profiling != next.Debug.Profiling || c.Debug.ProfileInterval != next.Debug.ProfileInterval {
		c.Debug.Profiling = next.Debug.Profiling
		c.Debug.ProfileInterval = next.Debug.ProfileInterval
		changed = append(changed, "debug.profiling")
	}
	return changed
}
