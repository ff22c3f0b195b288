package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/experiment"
	"github.com/san-kum/partsim/internal/metrics"
	"github.com/san-kum/partsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of actions applied to one world.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Preset      string         `yaml:"preset"`
	Seed        uint32         `yaml:"seed"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one action. Fields irrelevant to the action are ignored.
type ScenarioStep struct {
	Action   string    `yaml:"action"` // spawn, tick, set_velocity, fling, reset, scene
	At       []float64 `yaml:"at"`     // x, y; omitted means random
	Kind     string    `yaml:"kind"`
	Repeat   int       `yaml:"repeat"`
	Single   bool      `yaml:"single"`
	Ticks    int       `yaml:"ticks"`
	Dt       float64   `yaml:"dt"`
	Index    int       `yaml:"index"`
	Velocity []float64 `yaml:"velocity"`
	Scene    string    `yaml:"scene"`
	Count    int       `yaml:"count"`

	ExpectParticles *int `yaml:"expect_particles"`
}

type StepResult struct {
	Action    string
	Particles int
	Tick      sim.TickStats
}

type ScenarioResult struct {
	Name  string
	Steps []StepResult
	Stats sim.Stats
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// RunScenario builds a world from the scenario's preset and applies every
// step in order.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry) (*ScenarioResult, error) {
	cfg := config.DefaultConfig()
	if scenario.Preset != "" {
		if cfg = config.GetPreset(scenario.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", scenario.Preset)
		}
	}
	seed := scenario.Seed
	if seed == 0 {
		seed = dynamo.SeedFromTime()
	}

	w, err := sim.New(cfg.Kernel(), sim.WithSeed(seed))
	if err != nil {
		return nil, err
	}

	result := &ScenarioResult{Name: scenario.Name}
	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		log.Info("scenario step", "step", i+1, "of", len(scenario.Steps), "action", step.Action)

		sr, err := applyStep(w, step, cfg.Dt, registry)
		if err != nil {
			return result, fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}
		if step.ExpectParticles != nil && *step.ExpectParticles != w.Len() {
			return result, fmt.Errorf("step %d (%s): expected %d particles, have %d",
				i+1, step.Action, *step.ExpectParticles, w.Len())
		}
		result.Steps = append(result.Steps, sr)
	}
	result.Stats = w.Stats()
	return result, nil
}

func applyStep(w *sim.World, step ScenarioStep, defaultDt float64, registry *experiment.Registry) (StepResult, error) {
	sr := StepResult{Action: step.Action}

	switch step.Action {
	case "spawn":
		kind, err := dynamo.ParseKind(step.Kind)
		if err != nil {
			return sr, err
		}
		x, y := -1.0, -1.0
		if len(step.At) == 2 {
			x, y = step.At[0], step.At[1]
		}
		for n := max(step.Repeat, 1); n > 0; n-- {
			if step.Single {
				w.SpawnOne(x, y, kind)
			} else {
				w.Spawn(x, y, kind)
			}
		}

	case "tick":
		dt := step.Dt
		if dt == 0 {
			dt = defaultDt
		}
		for n := max(step.Ticks, 1); n > 0; n-- {
			ts, err := w.Tick(dt)
			if err != nil {
				return sr, err
			}
			sr.Tick.Collisions += ts.Collisions
			sr.Tick.Bonds += ts.Bonds
			sr.Tick.Degenerate += ts.Degenerate
			sr.Tick.BorderHits += ts.BorderHits
		}

	case "set_velocity":
		if len(step.Velocity) != 2 {
			return sr, fmt.Errorf("velocity needs two components")
		}
		if err := w.SetVelocity(step.Index, r2.Vec{X: step.Velocity[0], Y: step.Velocity[1]}); err != nil {
			return sr, err
		}

	case "fling":
		if len(step.At) != 2 {
			return sr, fmt.Errorf("fling needs a point")
		}
		if err := w.Fling(step.Index, step.At[0], step.At[1]); err != nil {
			return sr, err
		}

	case "reset":
		w.Reset()

	case "scene":
		scene, err := registry.GetScene(step.Scene)
		if err != nil {
			return sr, err
		}
		if err := scene(w, step.Count, int64(step.Index)); err != nil {
			return sr, err
		}

	default:
		return sr, fmt.Errorf("unknown action: %s", step.Action)
	}

	sr.Particles = w.Len()
	return sr, nil
}

// ParameterSweep runs one experiment per value of a kernel parameter.
type ParameterSweep struct {
	Scene     string
	Count     int
	ParamName string // friction, max_speed, min_speed, max_direction
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Ticks     int
	Dt        float64
	Seed      uint32
	Base      dynamo.Config
}

type SweepResult struct {
	ParamValue   float64
	MeanEnergy   float64
	FinalEnergy  float64
	BondFraction float64
	Collisions   int
	Particles    int
}

// SetParam sets one tunable kernel parameter by name.
func SetParam(cfg *dynamo.Config, name string, v float64) error {
	switch name {
	case "friction":
		cfg.Friction = v
	case "max_speed":
		cfg.MaxSpeed = v
	case "min_speed":
		cfg.MinSpeed = v
	case "max_direction":
		cfg.MaxDirection = v
	default:
		return fmt.Errorf("parameter %s cannot be swept", name)
	}
	return nil
}

// RunSweep executes a parameter sweep. Every run uses the same seed so
// only the parameter differs.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step")
	}
	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		kernel := sweep.Base
		if err := SetParam(&kernel, sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		exp := experiment.New(experiment.Config{
			Kernel:  kernel,
			Scene:   sweep.Scene,
			Count:   sweep.Count,
			Seed:    sweep.Seed,
			Dt:      sweep.Dt,
			Ticks:   sweep.Ticks,
			Metrics: []string{"kinetic_energy", "bond_fraction"},
		})
		if err := exp.Setup(registry); err != nil {
			return nil, err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		energy := result.Series["kinetic_energy"]
		sr := SweepResult{
			ParamValue:   paramVal,
			MeanEnergy:   result.Metrics["kinetic_energy"],
			BondFraction: result.Metrics["bond_fraction"],
			Collisions:   result.Stats.Collisions,
			Particles:    exp.World().Len(),
		}
		if len(energy) > 0 {
			sr.FinalEnergy = energy[len(energy)-1]
		}
		results = append(results, sr)

		log.Info("sweep", "step", i+1, "of", sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

// MonteCarloConfig runs the same scene under many seeds.
type MonteCarloConfig struct {
	Kernel    dynamo.Config
	Scene     string
	Count     int
	NumTrials int
	Ticks     int
	Dt        float64
	Seed      uint32
	MaxSpeed  float64 // a trial is unstable once any particle exceeds it
}

type MonteCarloResult struct {
	TrialID   int
	Seed      uint32
	Particles int
	Bonds     int
	Stable    bool
}

// RunMonteCarlo runs the trials in parallel on a sim.Ensemble.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	scene, err := registry.GetScene(cfg.Scene)
	if err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = dynamo.SeedFromTime()
	}
	limit := cfg.MaxSpeed
	if limit <= 0 {
		limit = cfg.Kernel.MaxSpeed * 10
	}

	setup := func(w *sim.World) error {
		w.AddMetric(metrics.NewStability(limit))
		return scene(w, cfg.Count, int64(seed))
	}
	runs, err := sim.NewEnsemble(cfg.Kernel, cfg.NumTrials, seed, setup).Run(ctx, sim.RunConfig{
		Dt:            cfg.Dt,
		Ticks:         cfg.Ticks,
		ValidateState: true,
		SampleEvery:   cfg.Ticks,
	})
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, r := range runs {
		results[i] = MonteCarloResult{
			TrialID:   i,
			Seed:      seed + uint32(i),
			Particles: r.Counts[len(r.Counts)-1],
			Bonds:     r.Stats.Bonds,
			Stable:    len(r.Errors) == 0 && r.Metrics["stability"] == 1,
		}
	}
	log.Info("monte carlo complete", "trials", len(results))
	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
