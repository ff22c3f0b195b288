package integrators

import (
	"github.com/san-kum/partsim/internal/compute"
	"github.com/san-kum/partsim/internal/dynamo"
)

// ParallelEuler is Euler with the particle loop split across a backend.
// Results are identical to Euler.
type ParallelEuler struct {
	Euler
	backend compute.Backend
}

func NewParallelEuler(friction float64, backend compute.Backend) *ParallelEuler {
	if backend == nil {
		backend = compute.GetBackend()
	}
	return &ParallelEuler{Euler: Euler{Friction: friction}, backend: backend}
}

func (e *ParallelEuler) Step(pool *dynamo.Pool, dt float64) {
	e.backend.Range(pool.Len(), func(lo, hi int) {
		e.stepRange(pool, lo, hi, dt)
	})
}
