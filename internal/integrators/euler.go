package integrators

import (
	"math"

	"github.com/san-kum/partsim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Euler advances positions by one explicit step and applies linear drag.
// Friction is a per-tick velocity loss, not scaled by dt.
type Euler struct {
	Friction float64
}

func NewEuler(friction float64) *Euler {
	return &Euler{Friction: friction}
}

func (e *Euler) Step(pool *dynamo.Pool, dt float64) {
	e.stepRange(pool, 0, pool.Len(), dt)
}

// stepRange advances particles [lo, hi). It writes only those particles and
// reads nothing of the others but a partner's mass.
func (e *Euler) stepRange(pool *dynamo.Pool, lo, hi int, dt float64) {
	ps := pool.Particles()
	for i := lo; i < hi; i++ {
		p := &ps[i]
		p.Pos = r2.Add(p.Pos, r2.Scale(dt, p.Vel))

		if e.Friction <= 0 || p.Vel.X == 0 || p.Vel.Y == 0 {
			continue
		}

		mass := p.Mass
		if partner := pool.Partner(i); partner != nil {
			mass += partner.Mass
		}
		decel := e.Friction / mass
		speed := math.Hypot(p.Vel.X, p.Vel.Y)

		p.Vel.X = dampen(p.Vel.X, decel*p.Vel.X/speed)
		p.Vel.Y = dampen(p.Vel.Y, decel*p.Vel.Y/speed)
	}
}

// dampen subtracts delta from v and stops at zero instead of reversing.
func dampen(v, delta float64) float64 {
	next := v - delta
	if (v > 0 && next < 0) || (v < 0 && next > 0) {
		return 0
	}
	return next
}
