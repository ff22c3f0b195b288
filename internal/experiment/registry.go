package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/partsim/internal/compute"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/integrators"
	"github.com/san-kum/partsim/internal/metrics"
	"github.com/san-kum/partsim/internal/sim"
)

type Registry struct {
	scenes      map[string]Scene
	integrators map[string]func(dynamo.Config) sim.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		scenes:      make(map[string]Scene),
		integrators: make(map[string]func(dynamo.Config) sim.Integrator),
	}

	r.scenes["empty"] = emptyScene
	r.scenes["random"] = randomScene
	r.scenes["burst"] = burstScene
	r.scenes["grid"] = gridScene
	r.scenes["bonding"] = bondingScene
	r.scenes["billiards"] = billiardsScene
	r.scenes["clusters"] = clustersScene

	r.integrators["euler"] = func(cfg dynamo.Config) sim.Integrator {
		return integrators.NewEuler(cfg.Friction)
	}
	r.integrators["euler-parallel"] = func(cfg dynamo.Config) sim.Integrator {
		return integrators.NewParallelEuler(cfg.Friction, compute.GetBackend())
	}

	return r
}

func (r *Registry) GetScene(name string) (Scene, error) {
	fn, ok := r.scenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene: %s", name)
	}
	return fn, nil
}

func (r *Registry) GetIntegrator(name string, cfg dynamo.Config) (sim.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(cfg), nil
}

func (r *Registry) ListScenes() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Metrics builds the named metrics, or the defaults when names is empty.
func (r *Registry) Metrics(names []string) ([]sim.Metric, error) {
	if len(names) == 0 {
		var out []sim.Metric
		for _, m := range metrics.Defaults() {
			out = append(out, m)
		}
		return out, nil
	}
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		ctor, ok := metrics.Registry[name]
		if !ok {
			return nil, fmt.Errorf("unknown metric: %s", name)
		}
		out = append(out, ctor())
	}
	return out, nil
}
