package metrics

import (
	"github.com/san-kum/partsim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Momentum reports the mean magnitude of the total linear momentum.
type Momentum struct {
	name    string
	sum     float64
	samples int
}

func NewMomentum() *Momentum {
	return &Momentum{
		name: "momentum",
	}
}

func (m *Momentum) Name() string {
	return m.name
}

func (m *Momentum) Observe(pool *dynamo.Pool, t float64) {
	m.sum += r2.Norm(Total(pool))
	m.samples++
}

func (m *Momentum) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Momentum) Reset() {
	m.sum = 0
	m.samples = 0
}

// Total returns the summed momentum vector of the pool.
func Total(pool *dynamo.Pool) r2.Vec {
	var sum r2.Vec
	for _, p := range pool.Particles() {
		sum = r2.Add(sum, r2.Scale(p.Mass, p.Vel))
	}
	return sum
}
