package dynamo

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func particleAt(x, y float64) Particle {
	return Particle{Pos: r2.Vec{X: x, Y: y}, Size: 10, Mass: 1, CollidingWith: NoRef, BondingWith: NoRef}
}

func TestPool_AppendWithinBudget(t *testing.T) {
	pool := NewPool(RecordSize * 3)

	if err := pool.Append(particleAt(0, 0), particleAt(1, 1)); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if pool.Len() != 2 {
		t.Fatalf("expected 2 particles, got %d", pool.Len())
	}

	err := pool.Append(particleAt(2, 2), particleAt(3, 3))
	if !errors.Is(err, ErrResourceExhausted) {
		t.Fatalf("expected ErrResourceExhausted, got %v", err)
	}
	if pool.Len() != 2 {
		t.Errorf("rejected append changed the pool: len %d", pool.Len())
	}
	if pool.Bytes() > pool.Budget() {
		t.Errorf("pool uses %d bytes of %d", pool.Bytes(), pool.Budget())
	}
}

func TestPool_Reset(t *testing.T) {
	pool := NewPool(RecordSize * 4)
	_ = pool.Append(particleAt(0, 0), particleAt(1, 1))
	pool.Reset()

	if pool.Len() != 0 {
		t.Errorf("expected empty pool, got %d", pool.Len())
	}
	n := 0
	for range pool.Sprites() {
		n++
	}
	if n != 0 {
		t.Errorf("expected no sprites after reset, got %d", n)
	}
}

func TestPool_Get(t *testing.T) {
	pool := NewPool(RecordSize * 2)
	_ = pool.Append(particleAt(5, 6))

	if _, err := pool.Get(0); err != nil {
		t.Errorf("Get(0) failed: %v", err)
	}
	for _, i := range []int{-1, 1, 99} {
		if _, err := pool.Get(i); !errors.Is(err, ErrInvalidRef) {
			t.Errorf("Get(%d): expected ErrInvalidRef, got %v", i, err)
		}
	}
}

func TestPool_Validate(t *testing.T) {
	tests := []struct {
		name  string
		setup func(ps []Particle)
		valid bool
	}{
		{"free", func(ps []Particle) {}, true},
		{"mutual bond", func(ps []Particle) { ps[0].BondingWith, ps[1].BondingWith = 1, 0 }, true},
		{"one-sided bond", func(ps []Particle) { ps[0].BondingWith = 1 }, false},
		{"self bond", func(ps []Particle) { ps[2].BondingWith = 2 }, false},
		{"dangling claim", func(ps []Particle) { ps[0].CollidingWith = 7 }, false},
		{"NaN velocity", func(ps []Particle) { ps[1].Vel.X = math.NaN() }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewPool(RecordSize * 3)
			_ = pool.Append(particleAt(0, 0), particleAt(1, 0), particleAt(2, 0))
			tt.setup(pool.Particles())
			err := pool.Validate()
			if tt.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidState) {
				t.Errorf("expected ErrInvalidState, got %v", err)
			}
		})
	}
}

func TestPool_SpritesRestartable(t *testing.T) {
	pool := NewPool(RecordSize * 3)
	_ = pool.Append(particleAt(1, 2), particleAt(3, 4))

	seq := pool.Sprites()
	for pass := 0; pass < 2; pass++ {
		var xs []float64
		for s := range seq {
			xs = append(xs, s.X)
		}
		if len(xs) != 2 || xs[0] != 1 || xs[1] != 3 {
			t.Errorf("pass %d: got %v", pass, xs)
		}
	}
}

func TestPool_Partner(t *testing.T) {
	pool := NewPool(RecordSize * 2)
	_ = pool.Append(particleAt(0, 0), particleAt(1, 0))
	if pool.Partner(0) != nil {
		t.Fatal("free particle reported a partner")
	}
	ps := pool.Particles()
	ps[0].BondingWith, ps[1].BondingWith = 1, 0
	if pool.Partner(0) != pool.At(1) {
		t.Error("partner of 0 should be particle 1")
	}
}
