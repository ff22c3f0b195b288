// Package physics implements the per-tick particle interactions.
//
// Each component mutates a [dynamo.Pool] in place:
//
//   - [Spawner]: appends particles with kind traits and random kinematics
//   - [Border]: reflects and clamps particles at the world bounds
//   - [Resolver]: nearest-neighbour elastic collisions and red-blue bonding
//
// Bonded particles behave as a rigid, velocity-linked pair: a velocity
// change applied to one side by a border or a collision is mirrored onto
// the other.
//
// # Ordering
//
// The resolver visits particles strictly in index order. Collision claims
// made for particle i are visible when particle j > i is processed in the
// same sweep, so outcomes depend on index order.
package physics
