package physics

import (
	"fmt"

	"github.com/san-kum/partsim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// OverlapSlack widens the contact test to absorb floating-point error.
	OverlapSlack = 1.0

	// DegenerateDistance is the separation below which no contact normal exists.
	DegenerateDistance = 1e-9
)

type outcome int

const (
	outcomeNone outcome = iota
	outcomeCollide
	outcomeBond
)

// interaction is the result of testing particle i against one neighbour j.
type interaction struct {
	outcome outcome
	j       int
	dist    float64
}

type ResolveStats struct {
	Collisions int
	Bonds      int
	Degenerate int
}

// Resolver performs the per-tick collision and bonding sweep.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve visits every particle in index order. A particle reacts only to
// its nearest overlapping collision candidate, and only when neither side
// already holds a claim this tick. Bonds form immediately during the scan.
//
// The nearest distance is seeded by the first neighbour scanned, overlapping
// or not, and a candidate must be strictly closer. That first neighbour is
// therefore never a candidate for i.
func (r *Resolver) Resolve(pool *dynamo.Pool) ResolveStats {
	var stats ResolveStats
	ps := pool.Particles()

	for i := range ps {
		best := dynamo.NoRef
		lowest := -1.0

		for j := range ps {
			if j == i || ps[i].BondingWith == dynamo.Ref(j) {
				continue
			}

			in := classify(&ps[i], &ps[j], j)
			if lowest < 0 {
				lowest = in.dist
			}
			switch in.outcome {
			case outcomeBond:
				bond(pool, i, in.j)
				stats.Bonds++
			case outcomeCollide:
				if in.dist < DegenerateDistance {
					stats.Degenerate++
					continue
				}
				if in.dist < lowest {
					lowest = in.dist
					best = dynamo.Ref(in.j)
				}
			}
		}

		if r.settle(pool, i, best, lowest) {
			stats.Collisions++
		}
	}
	return stats
}

// settle applies the outcome of particle i's scan. It reports whether an
// elastic collision was resolved.
func (r *Resolver) settle(pool *dynamo.Pool, i int, best dynamo.Ref, dist float64) bool {
	pi := pool.At(i)

	if !best.Valid() {
		pi.CollidingWith = dynamo.NoRef
		if partner := pool.Partner(i); partner != nil {
			partner.CollidingWith = dynamo.NoRef
		}
		return false
	}

	c := int(best)
	pc := pool.At(c)
	if pi.CollidingWith != dynamo.NoRef || pc.CollidingWith != dynamo.NoRef {
		return false
	}

	pi.CollidingWith = best
	pc.CollidingWith = dynamo.Ref(i)
	if partner := pool.Partner(i); partner != nil {
		partner.CollidingWith = best
	}
	if partner := pool.Partner(c); partner != nil {
		partner.CollidingWith = dynamo.Ref(i)
	}

	return ElasticCollision(pool, i, c, dist) == nil
}

func classify(a, b *dynamo.Particle, j int) interaction {
	d := r2.Norm(r2.Sub(a.Pos, b.Pos))
	if d >= a.Radius()+b.Radius()+OverlapSlack {
		return interaction{outcome: outcomeNone, j: j, dist: d}
	}

	switch {
	case a.Kind == b.Kind && (a.Kind == dynamo.Red || a.Kind == dynamo.Blue):
		return interaction{outcome: outcomeCollide, j: j, dist: d}
	case redBlue(a.Kind, b.Kind):
		if !a.Bonded() && !b.Bonded() {
			return interaction{outcome: outcomeBond, j: j, dist: d}
		}
		return interaction{outcome: outcomeCollide, j: j, dist: d}
	}
	// green, yellow and pink are inert.
	return interaction{outcome: outcomeNone, j: j, dist: d}
}

func redBlue(a, b dynamo.Kind) bool {
	return (a == dynamo.Red && b == dynamo.Blue) || (a == dynamo.Blue && b == dynamo.Red)
}

// bond links particles i and j: both take the mean of their velocities and
// each gains twice the other's pre-bond mass.
func bond(pool *dynamo.Pool, i, j int) {
	a, b := pool.At(i), pool.At(j)

	avg := r2.Vec{X: (a.Vel.X + b.Vel.X) / 2.0, Y: (a.Vel.Y + b.Vel.Y) / 2.0}
	a.Vel, b.Vel = avg, avg

	ma, mb := a.Mass, b.Mass
	a.Mass = ma + 2*mb
	b.Mass = mb + 2*ma

	a.BondingWith = dynamo.Ref(j)
	b.BondingWith = dynamo.Ref(i)
}

// ElasticCollision exchanges momentum between particles a and b along their
// contact normal. dist is their centre separation. Bond partners copy the
// new velocity of the particle they are bonded to.
func ElasticCollision(pool *dynamo.Pool, a, b int, dist float64) error {
	if !(dist >= DegenerateDistance) {
		return fmt.Errorf("collide %d with %d at distance %g: %w", a, b, dist, dynamo.ErrDegenerateGeometry)
	}

	pa, pb := pool.At(a), pool.At(b)

	n := r2.Vec{
		X: (pb.Pos.X - pa.Pos.X) / dist,
		Y: (pb.Pos.Y - pa.Pos.Y) / dist,
	}
	k := r2.Sub(pa.Vel, pb.Vel)
	p := 2.0 * r2.Dot(n, k) / (pa.Mass + pb.Mass)

	pa.Vel = r2.Sub(pa.Vel, r2.Scale(p*pb.Mass, n))
	pb.Vel = r2.Add(pb.Vel, r2.Scale(p*pa.Mass, n))

	if partner := pool.Partner(a); partner != nil {
		partner.Vel = pa.Vel
	}
	if partner := pool.Partner(b); partner != nil {
		partner.Vel = pb.Vel
	}
	return nil
}
