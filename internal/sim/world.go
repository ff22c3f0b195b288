package sim

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/integrators"
	"github.com/san-kum/partsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// World owns one particle pool and the components that advance it. It is
// not safe for concurrent use.
type World struct {
	cfg        dynamo.Config
	pool       *dynamo.Pool
	rng        *dynamo.Rand
	spawner    *physics.Spawner
	integrator Integrator
	border     *physics.Border
	resolver   *physics.Resolver

	stats     Stats
	metrics   []Metric
	observers []Observer
}

type Option func(*World)

func WithSeed(seed uint32) Option {
	return func(w *World) { w.rng = dynamo.NewRand(seed) }
}

func WithRand(r *dynamo.Rand) Option {
	return func(w *World) { w.rng = r }
}

func WithIntegrator(i Integrator) Option {
	return func(w *World) { w.integrator = i }
}

func New(cfg dynamo.Config, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := &World{
		cfg:        cfg,
		pool:       dynamo.NewPool(cfg.MemoryBudget),
		integrator: integrators.NewEuler(cfg.Friction),
		border:     physics.NewBorder(cfg),
		resolver:   physics.NewResolver(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rng == nil {
		w.rng = dynamo.NewRand(dynamo.SeedFromTime())
	}
	w.spawner = physics.NewSpawner(cfg, w.rng)
	return w, nil
}

func (w *World) Config() dynamo.Config { return w.cfg }
func (w *World) Pool() *dynamo.Pool    { return w.pool }
func (w *World) Len() int              { return w.pool.Len() }
func (w *World) Bytes() int            { return w.pool.Bytes() }
func (w *World) Stats() Stats          { return w.stats }
func (w *World) Time() float64         { return w.stats.Time }

func (w *World) GenerateOnce() bool { return w.cfg.GenerateOnce }

// SetGenerateOnce switches between batch and single-particle spawning.
func (w *World) SetGenerateOnce(on bool) {
	w.cfg.GenerateOnce = on
	w.spawner = physics.NewSpawner(w.cfg, w.rng)
}

func (w *World) AddMetric(m Metric)     { w.metrics = append(w.metrics, m) }
func (w *World) AddObserver(o Observer) { w.observers = append(w.observers, o) }

// Spawn adds particles at (x, y), or at random positions when x or y is
// negative. It adds a single particle in generate-once mode and a random
// batch otherwise. A batch that would overrun the memory budget is dropped
// whole and Spawn returns 0.
func (w *World) Spawn(x, y float64, kind dynamo.Kind) int {
	return w.spawn(physics.Request{X: x, Y: y, Kind: kind, Single: w.cfg.GenerateOnce})
}

// SpawnOne adds exactly one particle regardless of the generate-once mode.
// It returns the new particle's index.
func (w *World) SpawnOne(x, y float64, kind dynamo.Kind) (int, bool) {
	idx := w.pool.Len()
	if w.spawn(physics.Request{X: x, Y: y, Kind: kind, Single: true}) != 1 {
		return -1, false
	}
	return idx, true
}

func (w *World) spawn(req physics.Request) int {
	if req.Kind != dynamo.AnyKind && (req.Kind < 0 || req.Kind >= dynamo.NumKinds) {
		return 0
	}
	n, err := w.spawner.Spawn(w.pool, req)
	if err != nil {
		if errors.Is(err, dynamo.ErrResourceExhausted) {
			w.stats.Rejected++
		}
		return 0
	}
	w.stats.Spawned += n
	return n
}

// Tick advances the world by dt: integrate, then the border, then particle
// interactions.
func (w *World) Tick(dt float64) (TickStats, error) {
	var ts TickStats
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return ts, fmt.Errorf("dt %v: %w", dt, dynamo.ErrInvalidStep)
	}

	w.integrator.Step(w.pool, dt)
	if w.cfg.BorderCollision {
		ts.BorderHits = w.border.Apply(w.pool)
	}
	if w.cfg.ParticleCollision {
		rs := w.resolver.Resolve(w.pool)
		ts.Collisions, ts.Bonds, ts.Degenerate = rs.Collisions, rs.Bonds, rs.Degenerate
	}

	w.stats.Ticks++
	w.stats.Time += dt
	w.stats.add(ts)

	for _, obs := range w.observers {
		obs.OnTick(w.pool, ts, w.stats.Time)
	}
	return ts, nil
}

// Reset removes every particle and clears the statistics. The random
// stream continues where it was.
func (w *World) Reset() {
	w.pool.Reset()
	w.stats = Stats{}
}

// Snapshot yields the rendering view of every particle.
func (w *World) Snapshot() iter.Seq[dynamo.Sprite] {
	return w.pool.Sprites()
}

func (w *World) Particle(i int) (dynamo.Particle, error) {
	p, err := w.pool.Get(i)
	if err != nil {
		return dynamo.Particle{}, err
	}
	return *p, nil
}

// SetVelocity overrides the velocity of particle i and of its bond partner.
func (w *World) SetVelocity(i int, v r2.Vec) error {
	p, err := w.pool.Get(i)
	if err != nil {
		return err
	}
	p.Vel = v
	if partner := w.pool.Partner(i); partner != nil {
		partner.Vel = v
	}
	return nil
}

// Fling sets particle i moving away from the point (x, y), as if pulled
// back on a sling. The speed grows with the drag distance up to half of
// MaxSpeed.
func (w *World) Fling(i int, x, y float64) error {
	p, err := w.pool.Get(i)
	if err != nil {
		return err
	}
	v := r2.Sub(p.Pos, r2.Vec{X: x, Y: y})
	limit := 0.5 * w.cfg.MaxSpeed
	if d := r2.Norm(v); d > limit {
		v = r2.Scale(limit/d, v)
	}
	return w.SetVelocity(i, v)
}

// Pick returns the particle under (x, y). Overlapping hits resolve to the
// highest index, the one drawn on top.
func (w *World) Pick(x, y float64) (int, bool) {
	at := r2.Vec{X: x, Y: y}
	hit := -1
	for i, p := range w.pool.Particles() {
		if r2.Norm(r2.Sub(at, p.Pos)) < p.Radius() {
			hit = i
		}
	}
	return hit, hit >= 0
}
