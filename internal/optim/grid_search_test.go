package optim

import (
	"context"
	"testing"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/experiment"
)

func frictionExperiment(params map[string]float64) (*experiment.Experiment, error) {
	kernel := dynamo.DefaultConfig()
	kernel.Friction = params["friction"]
	if v, ok := params["min_speed"]; ok {
		kernel.MinSpeed = v
	}
	exp := experiment.New(experiment.Config{
		Kernel:  kernel,
		Scene:   "grid",
		Count:   30,
		Seed:    9,
		Dt:      1.0 / 60.0,
		Ticks:   60,
		Metrics: []string{"kinetic_energy"},
	})
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return nil, err
	}
	return exp, nil
}

func TestGridSearchMinimize(t *testing.T) {
	g := NewGridSearch([]string{"friction"}, [][]float64{{0, 0.5, 2}})
	best, trials, err := g.Search(context.Background(), frictionExperiment, "kinetic_energy")
	if err != nil {
		t.Fatal(err)
	}
	if len(trials) != 3 {
		t.Fatalf("trials = %d", len(trials))
	}
	if best.Params["friction"] != 2 {
		t.Errorf("best friction = %v, want 2", best.Params["friction"])
	}
}

func TestGridSearchMaximize(t *testing.T) {
	g := NewGridSearch([]string{"friction"}, [][]float64{{0, 2}}).Maximize()
	best, _, err := g.Search(context.Background(), frictionExperiment, "kinetic_energy")
	if err != nil {
		t.Fatal(err)
	}
	if best.Params["friction"] != 0 {
		t.Errorf("best friction = %v, want 0", best.Params["friction"])
	}
}

func TestGridSearchSkipsInvalidPoints(t *testing.T) {
	g := NewGridSearch([]string{"friction", "min_speed"}, [][]float64{{0, 1}, {10, 500}})
	_, trials, err := g.Search(context.Background(), frictionExperiment, "kinetic_energy")
	if err != nil {
		t.Fatal(err)
	}
	// min_speed 500 exceeds the default max speed
	if len(trials) != 2 {
		t.Errorf("trials = %d, want 2", len(trials))
	}
}

func TestGridSearchErrors(t *testing.T) {
	g := NewGridSearch([]string{"friction"}, [][]float64{{0}})
	if _, _, err := g.Search(context.Background(), frictionExperiment, "nope"); err == nil {
		t.Error("expected error for unrecorded metric")
	}

	g = NewGridSearch([]string{"min_speed"}, [][]float64{{500}})
	if _, _, err := g.Search(context.Background(), frictionExperiment, "kinetic_energy"); err == nil {
		t.Error("expected error when no point runs")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g = NewGridSearch([]string{"friction"}, [][]float64{{0, 1}})
	if _, _, err := g.Search(ctx, frictionExperiment, "kinetic_energy"); err == nil {
		t.Error("expected error on cancelled context")
	}
}
