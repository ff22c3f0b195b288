package sim

import "github.com/san-kum/partsim/internal/dynamo"

type Integrator interface {
	Step(pool *dynamo.Pool, dt float64)
}

type Metric interface {
	Name() string
	Observe(pool *dynamo.Pool, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(pool *dynamo.Pool, stats TickStats, t float64)
}

// TickStats counts the events of a single tick.
type TickStats struct {
	Collisions int
	Bonds      int
	Degenerate int
	BorderHits int
}

// Stats accumulates since construction or the last Reset.
type Stats struct {
	Ticks      int
	Time       float64
	Spawned    int
	Rejected   int
	Collisions int
	Bonds      int
	Degenerate int
	BorderHits int
}

func (s *Stats) add(t TickStats) {
	s.Collisions += t.Collisions
	s.Bonds += t.Bonds
	s.Degenerate += t.Degenerate
	s.BorderHits += t.BorderHits
}

type RunConfig struct {
	Dt            float64
	Ticks         int
	AutoSpawn     bool // spawn one random batch before every tick
	ValidateState bool
	SampleEvery   int
}

type Result struct {
	Times      []float64
	Counts     []int
	Series     map[string][]float64
	Metrics    map[string]float64
	Stats      Stats
	TicksTaken int
	Errors     []error
}
