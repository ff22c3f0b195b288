// Package dynamo provides the core data model of the particle kernel.
//
// The package defines the types shared by every kernel component:
//
//   - [Particle]: a point-mass body with kind-dependent traits
//   - [Ref]: weak index reference into a [Pool] (collision claim, bond)
//   - [Pool]: capacity-bounded, append-only particle store
//   - [Rand]: seeded xorshift32 stream
//   - [Config]: validated kernel parameters
//
// # Example
//
//	pool := dynamo.NewPool(cfg.MemoryBudget)
//	rng := dynamo.NewRand(dynamo.SeedFromTime())
//	for s := range pool.Sprites() {
//	    draw(s.X, s.Y, s.Size, s.Color)
//	}
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use. A pool and its random
// stream belong to exactly one simulation world.
package dynamo
