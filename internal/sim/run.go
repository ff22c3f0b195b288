package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/partsim/internal/dynamo"
)

// Run ticks the world headlessly and records a sampled time series of the
// particle count and every registered metric.
func (w *World) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := validateRunConfig(cfg); err != nil {
		return nil, err
	}
	every := cfg.SampleEvery
	if every <= 0 {
		every = 1
	}

	samples := cfg.Ticks/every + 1
	result := &Result{
		Times:   make([]float64, 0, samples),
		Counts:  make([]int, 0, samples),
		Series:  make(map[string][]float64),
		Metrics: make(map[string]float64),
	}

	for _, m := range w.metrics {
		m.Reset()
	}
	w.sample(result)

	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			w.finish(result)
			return result, ctx.Err()
		default:
		}

		if cfg.AutoSpawn {
			w.Spawn(-1, -1, dynamo.AnyKind)
		}
		if _, err := w.Tick(cfg.Dt); err != nil {
			result.Errors = append(result.Errors, err)
			break
		}
		result.TicksTaken++

		for _, m := range w.metrics {
			m.Observe(w.pool, w.stats.Time)
		}

		if cfg.ValidateState {
			if err := w.pool.Validate(); err != nil {
				result.Errors = append(result.Errors, &dynamo.SimulationError{
					Tick:    w.stats.Ticks,
					Time:    w.stats.Time,
					Wrapped: err,
				})
				break
			}
		}

		if (i+1)%every == 0 {
			w.sample(result)
		}
	}

	w.finish(result)
	return result, nil
}

func (w *World) sample(r *Result) {
	r.Times = append(r.Times, w.stats.Time)
	r.Counts = append(r.Counts, w.pool.Len())
	for _, m := range w.metrics {
		r.Series[m.Name()] = append(r.Series[m.Name()], m.Value())
	}
}

func (w *World) finish(r *Result) {
	for _, m := range w.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
	r.Stats = w.stats
}

func validateRunConfig(cfg RunConfig) error {
	if math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) || cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %v: %w", cfg.Dt, dynamo.ErrInvalidStep)
	}
	if cfg.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", cfg.Ticks)
	}
	return nil
}
