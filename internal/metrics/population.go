package metrics

import "github.com/san-kum/partsim/internal/dynamo"

// ParticleCount reports the pool length at the latest observation.
type ParticleCount struct {
	last int
}

func NewParticleCount() *ParticleCount { return &ParticleCount{} }

func (c *ParticleCount) Name() string                         { return "particles" }
func (c *ParticleCount) Observe(pool *dynamo.Pool, t float64) { c.last = pool.Len() }
func (c *ParticleCount) Value() float64                       { return float64(c.last) }
func (c *ParticleCount) Reset()                               { c.last = 0 }

// BondFraction reports the share of particles that are bonded at the latest
// observation.
type BondFraction struct {
	last float64
}

func NewBondFraction() *BondFraction { return &BondFraction{} }

func (b *BondFraction) Name() string { return "bond_fraction" }

func (b *BondFraction) Observe(pool *dynamo.Pool, t float64) {
	ps := pool.Particles()
	if len(ps) == 0 {
		b.last = 0
		return
	}
	bonded := 0
	for i := range ps {
		if ps[i].Bonded() {
			bonded++
		}
	}
	b.last = float64(bonded) / float64(len(ps))
}

func (b *BondFraction) Value() float64 { return b.last }
func (b *BondFraction) Reset()         { b.last = 0 }

// Registry maps metric names to constructors, used by the CLI.
var Registry = map[string]func() Metric{
	"kinetic_energy": func() Metric { return NewKineticEnergy() },
	"energy_drift":   func() Metric { return NewEnergyDrift() },
	"momentum":       func() Metric { return NewMomentum() },
	"particles":      func() Metric { return NewParticleCount() },
	"bond_fraction":  func() Metric { return NewBondFraction() },
	"stability":      func() Metric { return NewStability(1000) },
}

// Metric mirrors sim.Metric so this package does not import sim.
type Metric interface {
	Name() string
	Observe(pool *dynamo.Pool, t float64)
	Value() float64
	Reset()
}

// Defaults returns fresh instances of the metrics recorded by a plain run.
func Defaults() []Metric {
	return []Metric{NewParticleCount(), NewKineticEnergy(), NewMomentum(), NewBondFraction()}
}
