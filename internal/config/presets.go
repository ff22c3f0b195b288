package config

import "sort"

var Presets = map[string]func(*Config){
	"gas": func(c *Config) {
		c.Scene = "random"
		c.Simulation.MaxParticleCount = 200
		c.Simulation.Friction = 0
	},
	"bonding": func(c *Config) {
		c.Scene = "bonding"
		c.Simulation.MaxSpeed = 80
		c.Simulation.MinSpeed = 20
	},
	"pixels": func(c *Config) {
		c.Scene = "random"
		c.Simulation.CircleParticles = false
		c.Simulation.MaxParticleCount = 1000
		c.Simulation.ParticleCollision = false
	},
	"viscous": func(c *Config) {
		c.Scene = "clusters"
		c.Simulation.Friction = 0.5
	},
	"fountain": func(c *Config) {
		c.Scene = "empty"
		c.AutoAddParticles = true
		c.Simulation.GenerateOnce = true
		c.Simulation.MaxDirection = 30
		c.Simulation.BorderClamp = false
	},
	"benchmark": func(c *Config) {
		c.Scene = "empty"
		c.AutoAddParticles = true
		c.Simulation.MemoryBudget = 64 << 20
		c.Benchmark.MaxSPF = 1.0 / 30.0
	},
}

// GetPreset returns the default configuration with the named preset
// applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
