package physics

import (
	"github.com/san-kum/partsim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

func newParticle(kind dynamo.Kind, x, y, vx, vy float64) dynamo.Particle {
	tr := dynamo.TraitsOf(kind)
	return dynamo.Particle{
		Pos:           r2.Vec{X: x, Y: y},
		Vel:           r2.Vec{X: vx, Y: vy},
		Color:         tr.Color,
		Size:          tr.Size,
		Mass:          tr.Mass,
		Kind:          kind,
		CollidingWith: dynamo.NoRef,
		BondingWith:   dynamo.NoRef,
	}
}

func newPool(ps ...dynamo.Particle) *dynamo.Pool {
	pool := dynamo.NewPool(dynamo.RecordSize * (len(ps) + 8))
	if err := pool.Append(ps...); err != nil {
		panic(err)
	}
	return pool
}

func bondPair(pool *dynamo.Pool, i, j int) {
	pool.At(i).BondingWith = dynamo.Ref(j)
	pool.At(j).BondingWith = dynamo.Ref(i)
}
