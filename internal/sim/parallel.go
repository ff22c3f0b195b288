package sim

import (
	"context"
	"sync"

	"github.com/san-kum/partsim/internal/dynamo"
)

// SetupFunc prepares a freshly built world, typically by spawning a scene
// and registering metrics. It runs on the world's own goroutine.
type SetupFunc func(w *World) error

// Ensemble runs independent worlds in parallel, one goroutine each. Run i
// uses seed seedStart+i.
type Ensemble struct {
	cfg       dynamo.Config
	numRuns   int
	seedStart uint32
	setup     SetupFunc
}

func NewEnsemble(cfg dynamo.Config, numRuns int, seedStart uint32, setup SetupFunc) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart, setup: setup}
}

func (e *Ensemble) Run(ctx context.Context, cfg RunConfig) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			w, err := New(e.cfg, WithSeed(e.seedStart+uint32(idx)))
			if err != nil {
				errs[idx] = err
				return
			}
			if e.setup != nil {
				if err := e.setup(w); err != nil {
					errs[idx] = err
					return
				}
			}

			results[idx], errs[idx] = w.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
