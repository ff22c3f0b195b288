package experiment

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
)

type Config struct {
	Kernel      dynamo.Config
	Scene       string
	Count       int // scene size hint
	Integrator  string
	Seed        uint32
	Dt          float64
	Ticks       int
	AutoSpawn   bool
	Validate    bool
	SampleEvery int
	Metrics     []string
}

// FromFile maps a loaded configuration onto an experiment. A world without
// starting particles opens empty whatever the scene.
func FromFile(c *config.Config) Config {
	scene := c.Scene
	if !c.StartingParticles {
		scene = "empty"
	}
	return Config{
		Kernel:     c.Kernel(),
		Scene:      scene,
		Count:      c.Simulation.MaxParticleCount,
		Integrator: "euler",
		Seed:       c.Seed,
		Dt:         c.Dt,
		Ticks:      c.Ticks,
		AutoSpawn:  c.AutoAddParticles,
		Validate:   true,
	}
}

type Experiment struct {
	cfg   Config
	world *sim.World
}

func New(cfg Config) *Experiment {
	if cfg.Seed == 0 {
		cfg.Seed = dynamo.SeedFromTime()
	}
	if cfg.Integrator == "" {
		cfg.Integrator = "euler"
	}
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Config() Config { return e.cfg }

// Setup builds the world, populates the scene and attaches metrics.
func (e *Experiment) Setup(reg *Registry) error {
	scene, err := reg.GetScene(e.cfg.Scene)
	if err != nil {
		return err
	}
	integ, err := reg.GetIntegrator(e.cfg.Integrator, e.cfg.Kernel)
	if err != nil {
		return err
	}
	ms, err := reg.Metrics(e.cfg.Metrics)
	if err != nil {
		return err
	}

	w, err := sim.New(e.cfg.Kernel, sim.WithSeed(e.cfg.Seed), sim.WithIntegrator(integ))
	if err != nil {
		return err
	}
	if err := scene(w, e.cfg.Count, int64(e.cfg.Seed)); err != nil {
		return fmt.Errorf("scene %s: %w", e.cfg.Scene, err)
	}
	for _, m := range ms {
		w.AddMetric(m)
	}

	log.Debug("experiment ready", "scene", e.cfg.Scene, "seed", e.cfg.Seed, "particles", w.Len())
	e.world = w
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.world == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	return e.world.Run(ctx, sim.RunConfig{
		Dt:            e.cfg.Dt,
		Ticks:         e.cfg.Ticks,
		AutoSpawn:     e.cfg.AutoSpawn,
		ValidateState: e.cfg.Validate,
		SampleEvery:   e.cfg.SampleEvery,
	})
}

// World returns the underlying world for adding observers.
func (e *Experiment) World() *sim.World {
	return e.world
}
