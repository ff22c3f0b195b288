package optim

import (
	"context"
	"fmt"
	"maps"
	"math"

	"github.com/charmbracelet/log"
	"github.com/san-kum/partsim/internal/experiment"
)

// GridSearch runs one experiment per point of the cartesian product of the
// parameter ranges and keeps the best value of a metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Maximize makes larger metric values win. The default is to minimise.
func (g *GridSearch) Maximize() *GridSearch {
	g.maximize = true
	return g
}

type Trial struct {
	Params map[string]float64
	Value  float64
}

// Search visits every grid point. Points whose experiment cannot be built,
// such as a min speed above the max speed, are skipped. It fails when no
// point produced the metric.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (Trial, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return Trial{}, nil, fmt.Errorf("%d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := Trial{Value: math.Inf(1)}
	if g.maximize {
		best.Value = math.Inf(-1)
	}
	var trials []Trial

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) error {
		exp, err := buildExperiment(params)
		if err != nil {
			log.Debug("grid point skipped", "params", params, "err", err)
			return nil
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("metric %s not recorded", metricName)
		}
		trial := Trial{Params: maps.Clone(params), Value: val}
		trials = append(trials, trial)
		if g.better(val, best.Value) {
			best = trial
		}
		return nil
	})
	if err != nil {
		return Trial{}, trials, err
	}
	if best.Params == nil {
		return Trial{}, trials, fmt.Errorf("no grid point could run")
	}
	return best, trials, nil
}

func (g *GridSearch) better(v, than float64) bool {
	if g.maximize {
		return v > than
	}
	return v < than
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	visit func(map[string]float64) error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return visit(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := maps.Clone(current)
		next[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, next, visit); err != nil {
			return err
		}
	}
	return nil
}
