package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/partsim/internal/dynamo"
	"gopkg.in/gcfg.v1"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt     = 1.0 / 60.0
	DefaultTicks  = 600
	DefaultScene  = "random"
	DefaultMaxSPF = 1.0 / 30.0
)

type Config struct {
	Seed              uint32           `yaml:"seed"`
	Dt                float64          `yaml:"dt"`
	Ticks             int              `yaml:"ticks"`
	Scene             string           `yaml:"scene"`
	StartingParticles bool             `yaml:"starting_particles"`
	AutoAddParticles  bool             `yaml:"auto_add_particles"`
	Simulation        SimulationConfig `yaml:"simulation"`
	Benchmark         BenchmarkConfig  `yaml:"benchmark"`
}

// SimulationConfig mirrors dynamo.Config field for field.
type SimulationConfig struct {
	MaxParticleCount  int     `yaml:"max_particle_count" gcfg:"max-particle-count"`
	MaxSpeed          float64 `yaml:"max_speed" gcfg:"max-particle-speed"`
	MinSpeed          float64 `yaml:"min_speed" gcfg:"min-particle-speed"`
	MaxDirection      float64 `yaml:"max_direction" gcfg:"max-direction"`
	Friction          float64 `yaml:"friction" gcfg:"friction"`
	MemoryBudget      int     `yaml:"memory_budget" gcfg:"max-memory-allocation"`
	BorderCollision   bool    `yaml:"border_collision" gcfg:"enable-border-collision"`
	BorderClamp       bool    `yaml:"border_clamp" gcfg:"enable-border-clamp"`
	ParticleCollision bool    `yaml:"particle_collision" gcfg:"enable-particle-collision"`
	CircleParticles   bool    `yaml:"circle_particles" gcfg:"enable-circle-particles"`
	GenerateOnce      bool    `yaml:"generate_once" gcfg:"enable-generate-once"`
	Width             float64 `yaml:"width" gcfg:"window-width"`
	Height            float64 `yaml:"height" gcfg:"window-height"`
}

type BenchmarkConfig struct {
	MaxSPF   float64 `yaml:"max_spf" gcfg:"max-benchmark-spf"`
	MaxTicks int     `yaml:"max_ticks" gcfg:"max-ticks"`
}

// hostSection holds the INI [run] variables.
type hostSection struct {
	Seed                   uint32  `gcfg:"seed"`
	Dt                     float64 `gcfg:"dt"`
	Ticks                  int     `gcfg:"ticks"`
	Scene                  string  `gcfg:"scene"`
	EnableStartingParticle bool    `gcfg:"enable-starting-particles"`
	EnableAutoAdd          bool    `gcfg:"enable-auto-add-particles"`
}

type iniFile struct {
	Simulation SimulationConfig
	Run        hostSection
	Benchmark  BenchmarkConfig
}

func DefaultConfig() *Config {
	k := dynamo.DefaultConfig()
	return &Config{
		Dt:                DefaultDt,
		Ticks:             DefaultTicks,
		Scene:             DefaultScene,
		StartingParticles: true,
		Simulation: SimulationConfig{
			MaxParticleCount:  k.MaxParticleCount,
			MaxSpeed:          k.MaxSpeed,
			MinSpeed:          k.MinSpeed,
			MaxDirection:      k.MaxDirection,
			Friction:          k.Friction,
			MemoryBudget:      k.MemoryBudget,
			BorderCollision:   k.BorderCollision,
			BorderClamp:       k.BorderClamp,
			ParticleCollision: k.ParticleCollision,
			CircleParticles:   k.CircleParticles,
			GenerateOnce:      k.GenerateOnce,
			Width:             k.Width,
			Height:            k.Height,
		},
		Benchmark: BenchmarkConfig{
			MaxSPF:   DefaultMaxSPF,
			MaxTicks: 100000,
		},
	}
}

// Load reads a YAML file, or an INI file when the extension is .ini or
// .gcfg.
func Load(path string) (*Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".gcfg":
		return loadINI(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// loadINI reads the flat option file format. Enable flags are off unless
// the variable is present; a bare name turns one on.
func loadINI(path string) (*Config, error) {
	cfg := DefaultConfig()
	f := iniFile{
		Simulation: cfg.Simulation,
		Run:        hostSection{Dt: cfg.Dt, Ticks: cfg.Ticks, Scene: cfg.Scene},
		Benchmark:  cfg.Benchmark,
	}
	f.Simulation.clearFlags()

	if err := gcfg.ReadFileInto(&f, path); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.Simulation = f.Simulation
	cfg.Benchmark = f.Benchmark
	cfg.Seed = f.Run.Seed
	cfg.Dt = f.Run.Dt
	cfg.Ticks = f.Run.Ticks
	cfg.Scene = f.Run.Scene
	cfg.StartingParticles = f.Run.EnableStartingParticle
	cfg.AutoAddParticles = f.Run.EnableAutoAdd
	return cfg, nil
}

func (s *SimulationConfig) clearFlags() {
	s.BorderCollision = false
	s.BorderClamp = false
	s.ParticleCollision = false
	s.CircleParticles = false
	s.GenerateOnce = false
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Kernel converts the simulation section to the kernel's configuration.
func (c *Config) Kernel() dynamo.Config {
	s := c.Simulation
	return dynamo.Config{
		MaxParticleCount:  s.MaxParticleCount,
		MaxSpeed:          s.MaxSpeed,
		MinSpeed:          s.MinSpeed,
		MaxDirection:      s.MaxDirection,
		Friction:          s.Friction,
		MemoryBudget:      s.MemoryBudget,
		BorderCollision:   s.BorderCollision,
		BorderClamp:       s.BorderClamp,
		ParticleCollision: s.ParticleCollision,
		CircleParticles:   s.CircleParticles,
		GenerateOnce:      s.GenerateOnce,
		Width:             s.Width,
		Height:            s.Height,
	}
}

// Validate checks the kernel section and the run options.
func (c *Config) Validate() error {
	if err := c.Kernel().Validate(); err != nil {
		return err
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", c.Ticks)
	}
	return nil
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
