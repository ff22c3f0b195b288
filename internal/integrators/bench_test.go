package integrators

import (
	"testing"

	"github.com/san-kum/partsim/internal/dynamo"
)

func benchPool(b *testing.B, n int) *dynamo.Pool {
	ps := make([]dynamo.Particle, n)
	for i := range ps {
		ps[i] = particle(dynamo.Kind(i%dynamo.NumKinds), float64(i), float64(i), 1, -1)
	}
	return pool(b, ps...)
}

func BenchmarkEuler(b *testing.B) {
	pl := benchPool(b, 1000)
	integ := NewEuler(0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step(pl, 0.001)
	}
}

func BenchmarkEulerFriction(b *testing.B) {
	pl := benchPool(b, 1000)
	integ := NewEuler(0.01)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step(pl, 0.001)
	}
}

func BenchmarkParallelEuler(b *testing.B) {
	pl := benchPool(b, 10000)
	integ := NewParallelEuler(0.01, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step(pl, 0.001)
	}
}
