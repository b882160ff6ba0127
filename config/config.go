// Package config loads the startup configuration of the simulation from YAML.
// Everything here is read once at process start; nothing is reconfigured
// at runtime.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cutlass/sim"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Simulation SimulationConfig  `yaml:"simulation"`
	Player     PlayerConfig      `yaml:"player"`
	Camera     CameraConfig      `yaml:"camera"`
	Window     WindowConfig      `yaml:"window"`
	Bindings   map[string]string `yaml:"bindings"`
	Logging    LoggingConfig     `yaml:"logging"`
	Sentry     SentryConfig      `yaml:"sentry"`
	Statsview  StatsviewConfig   `yaml:"statsview"`
}

type Vec3 [3]float32

func (v Vec3) Vec() mgl32.Vec3 {
	return mgl32.Vec3(v)
}

type SimulationConfig struct {
	TickRate         int     `yaml:"tick_rate"`
	MaxFrameDelta    float64 `yaml:"max_frame_delta"`
	MaxTicksPerFrame int     `yaml:"max_ticks_per_frame"`
	Strict           bool    `yaml:"strict"`
}

type PlayerConfig struct {
	Spawn           Vec3    `yaml:"spawn"`
	Yaw             float32 `yaml:"yaw"`
	MoveSpeed       float32 `yaml:"move_speed"`
	Hull            Vec3    `yaml:"hull"`
	CrouchHull      Vec3    `yaml:"crouch_hull"`
	EyeHeight       float32 `yaml:"eye_height"`
	CrouchEyeHeight float32 `yaml:"crouch_eye_height"`
}

type CameraConfig struct {
	Pitch float32 `yaml:"pitch"`
	Fov   float32 `yaml:"fov"`
	Near  float32 `yaml:"near"`
	Far   float32 `yaml:"far"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type SentryConfig struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
}

// StatsviewConfig enables the live runtime charts when Addr is set.
type StatsviewConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickRate:         sim.DefaultTickRate,
			MaxFrameDelta:    sim.DefaultMaxFrameDelta,
			MaxTicksPerFrame: sim.DefaultMaxTicksPerFrame,
		},
		Player: PlayerConfig{
			MoveSpeed:       sim.DefaultMoveSpeed,
			Hull:            Vec3{49, 83, 49},
			CrouchHull:      Vec3{49, 69, 49},
			EyeHeight:       65,
			CrouchEyeHeight: 51,
		},
		Camera: CameraConfig{
			Pitch: 15,
			Fov:   sim.DefaultFov,
			Near:  sim.DefaultNear,
			Far:   sim.DefaultFar,
		},
		Window: WindowConfig{
			Width:  1024,
			Height: 576,
			Title:  "Cutlass",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the YAML file at path on top of Default and validates it.
// A file without a bindings section gets the default bindings.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Simulation.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("simulation.tick_rate must be positive, got %d", c.Simulation.TickRate))
	}
	if c.Simulation.MaxFrameDelta < 0 {
		errs = append(errs, fmt.Errorf("simulation.max_frame_delta must not be negative, got %v", c.Simulation.MaxFrameDelta))
	}
	if c.Simulation.MaxTicksPerFrame < 0 {
		errs = append(errs, fmt.Errorf("simulation.max_ticks_per_frame must not be negative, got %d", c.Simulation.MaxTicksPerFrame))
	}
	if c.Player.MoveSpeed < 0 {
		errs = append(errs, fmt.Errorf("player.move_speed must not be negative, got %v", c.Player.MoveSpeed))
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov must be in (0, 180), got %v", c.Camera.Fov))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera.near/far must satisfy 0 < near < far, got %v/%v", c.Camera.Near, c.Camera.Far))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if _, err := c.BindingTable(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// BindingTable resolves the bindings section. Values may combine several
// actions with "|". An empty section yields sim.DefaultBindings.
func (c *Config) BindingTable() (sim.Bindings, error) {
	if len(c.Bindings) == 0 {
		return sim.DefaultBindings(), nil
	}

	table := make(sim.Bindings, len(c.Bindings))
	for keyName, actionNames := range c.Bindings {
		key, err := sim.ParseKey(keyName)
		if err != nil {
			return nil, fmt.Errorf("bindings: %w", err)
		}

		var actions sim.Action
		for _, name := range strings.Split(actionNames, "|") {
			action, err := sim.ParseAction(name)
			if err != nil {
				return nil, fmt.Errorf("bindings.%s: %w", keyName, err)
			}
			actions |= action
		}
		table[key] = actions
	}
	return table, nil
}

// SchedulerOptions translates the simulation section into scheduler options.
func (c *Config) SchedulerOptions() []sim.Option {
	return []sim.Option{
		sim.WithTickRate(c.Simulation.TickRate),
		sim.WithMaxFrameDelta(c.Simulation.MaxFrameDelta),
		sim.WithMaxTicksPerFrame(c.Simulation.MaxTicksPerFrame),
		sim.WithStrict(c.Simulation.Strict),
	}
}

// NewWorld returns an empty world with the configured player and camera.
func (c *Config) NewWorld() *sim.World {
	w := sim.NewWorld()

	p := &w.Player
	p.Position = c.Player.Spawn.Vec()
	p.Rotation = c.Player.Yaw
	p.MoveSpeed = c.Player.MoveSpeed
	p.Hull = c.Player.Hull.Vec()
	p.CrouchHull = c.Player.CrouchHull.Vec()
	p.EyeHeight = c.Player.EyeHeight
	p.CrouchEyeHeight = c.Player.CrouchEyeHeight

	p.Camera.Position = p.Position.Add(mgl32.Vec3{0, p.EyeHeight, 0})
	p.Camera.Rotation = mgl32.Vec3{c.Camera.Pitch, p.Rotation, 0}
	p.Camera.Fov = c.Camera.Fov
	p.Camera.Near = c.Camera.Near
	p.Camera.Far = c.Camera.Far
	p.Camera.Aspect = float32(c.Window.Width) / float32(c.Window.Height)

	return w
}
