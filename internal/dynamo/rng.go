package dynamo

import "time"

// fallbackSeed replaces a zero seed; xorshift maps zero to zero forever.
const fallbackSeed uint32 = 0x9e3779b9

// Rand is a xorshift32 stream. Deterministic for a given seed.
type Rand struct {
	state uint32
}

func NewRand(seed uint32) *Rand {
	if seed == 0 {
		seed = fallbackSeed
	}
	return &Rand{state: seed}
}

// SeedFromTime folds the wall clock's nanoseconds into 32 bits.
func SeedFromTime() uint32 {
	ns := uint64(time.Now().UnixNano())
	return uint32(ns) ^ uint32(ns>>32)
}

func (r *Rand) Uint32() uint32 {
	r.state ^= r.state << 13
	r.state ^= r.state >> 17
	r.state ^= r.state << 5
	return r.state
}

// Unit returns a value in (0, 1]. A non-zero state never yields zero.
func (r *Rand) Unit() float64 {
	return float64(r.Uint32()) / float64(^uint32(0))
}

func (r *Rand) State() uint32 { return r.state }
