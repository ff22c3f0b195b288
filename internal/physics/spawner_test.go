package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/partsim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestSpawner_ExplicitPosition(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	cfg.MaxParticleCount = 50

	for _, seed := range []uint32{1, 99, 123456} {
		pool := dynamo.NewPool(cfg.MemoryBudget)
		s := NewSpawner(cfg, dynamo.NewRand(seed))

		n, err := s.Spawn(pool, Request{X: 120, Y: 45, Kind: dynamo.AnyKind})
		if err != nil {
			t.Fatalf("seed %d: spawn failed: %v", seed, err)
		}
		if n != pool.Len() {
			t.Fatalf("seed %d: reported %d, pool has %d", seed, n, pool.Len())
		}
		for i, p := range pool.Particles() {
			if p.Pos != (r2.Vec{X: 120, Y: 45}) {
				t.Errorf("seed %d: particle %d at %v", seed, i, p.Pos)
			}
		}
	}
}

func TestSpawner_Traits(t *testing.T) {
	cfg := dynamo.DefaultConfig()

	for k := dynamo.Red; k <= dynamo.Pink; k++ {
		pool := dynamo.NewPool(cfg.MemoryBudget)
		s := NewSpawner(cfg, dynamo.NewRand(5))
		if _, err := s.Spawn(pool, Request{X: 10, Y: 10, Kind: k, Single: true}); err != nil {
			t.Fatalf("%v: %v", k, err)
		}
		p := pool.At(0)
		tr := dynamo.TraitsOf(k)
		if p.Kind != k || p.Size != tr.Size || p.Mass != tr.Mass || p.Color != tr.Color {
			t.Errorf("%v: got %+v", k, p)
		}
		if p.CollidingWith != dynamo.NoRef || p.BondingWith != dynamo.NoRef {
			t.Errorf("%v: refs not cleared", k)
		}
	}
}

func TestSpawner_PointParticles(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	cfg.CircleParticles = false
	pool := dynamo.NewPool(cfg.MemoryBudget)
	s := NewSpawner(cfg, dynamo.NewRand(3))

	_, _ = s.Spawn(pool, Request{X: 1, Y: 1, Kind: dynamo.Blue, Single: true})
	if pool.At(0).Size != 1 {
		t.Errorf("expected unit size, got %v", pool.At(0).Size)
	}
}

func TestSpawner_SpeedAndCone(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	cfg.MinSpeed, cfg.MaxSpeed = 10, 20
	cfg.MaxDirection = 90
	pool := dynamo.NewPool(cfg.MemoryBudget)
	s := NewSpawner(cfg, dynamo.NewRand(77))

	for i := 0; i < 200; i++ {
		if _, err := s.Spawn(pool, Request{X: -1, Y: -1, Kind: dynamo.AnyKind, Single: true}); err != nil {
			t.Fatal(err)
		}
	}

	for i, p := range pool.Particles() {
		speed := r2.Norm(p.Vel)
		if speed < 10-1e-9 || speed > 20+1e-9 {
			t.Errorf("particle %d: speed %v outside [10, 20]", i, speed)
		}
		deg := math.Atan2(p.Vel.Y, p.Vel.X) / degToRad
		if deg < -135-1e-6 || deg > -45+1e-6 {
			t.Errorf("particle %d: heading %v outside the upward cone", i, deg)
		}
		if p.Pos.X < 0 || p.Pos.X > cfg.Width || p.Pos.Y < 0 || p.Pos.Y > cfg.Height {
			t.Errorf("particle %d: scattered outside the world at %v", i, p.Pos)
		}
		if p.Kind < dynamo.Red || p.Kind > dynamo.Pink {
			t.Errorf("particle %d: kind %v", i, p.Kind)
		}
	}
}

func TestSpawner_BudgetRejection(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	cfg.MemoryBudget = dynamo.RecordSize * 2
	pool := dynamo.NewPool(cfg.MemoryBudget)
	s := NewSpawner(cfg, dynamo.NewRand(11))

	for i := 0; i < 2; i++ {
		if _, err := s.Spawn(pool, Request{X: 5, Y: 5, Kind: dynamo.Red, Single: true}); err != nil {
			t.Fatalf("spawn %d: %v", i, err)
		}
	}

	n, err := s.Spawn(pool, Request{X: 5, Y: 5, Kind: dynamo.Red, Single: true})
	if n != 0 || !errors.Is(err, dynamo.ErrResourceExhausted) {
		t.Fatalf("expected rejection, got n=%d err=%v", n, err)
	}
	if pool.Len() != 2 {
		t.Errorf("pool grew past its budget: %d", pool.Len())
	}
}

func TestSpawner_BatchSize(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	cfg.MaxParticleCount = 10

	for seed := uint32(1); seed < 50; seed++ {
		pool := dynamo.NewPool(cfg.MemoryBudget)
		s := NewSpawner(cfg, dynamo.NewRand(seed))
		n, err := s.Spawn(pool, Request{X: -1, Y: -1, Kind: dynamo.AnyKind})
		if err != nil {
			t.Fatal(err)
		}
		if n < 0 || n > 10 {
			t.Errorf("seed %d: batch of %d", seed, n)
		}
	}
}

func TestSpawner_RandomDraws(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	tests := []struct {
		name  string
		req   Request
		draws int
	}{
		// direction and speed only; no count draw for a single particle
		{"single explicit", Request{X: 10, Y: 10, Kind: dynamo.Red, Single: true}, 2},
		{"single random kind", Request{X: 10, Y: 10, Kind: dynamo.AnyKind, Single: true}, 3},
		{"single random position", Request{X: -1, Y: -1, Kind: dynamo.Blue, Single: true}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := dynamo.NewRand(77)
			want := dynamo.NewRand(77)
			for range tt.draws {
				want.Unit()
			}

			pool := dynamo.NewPool(cfg.MemoryBudget)
			if n, err := NewSpawner(cfg, rng).Spawn(pool, tt.req); err != nil || n != 1 {
				t.Fatalf("spawn = %d, %v", n, err)
			}
			if rng.State() != want.State() {
				t.Errorf("rng advanced by a different number of draws than %d", tt.draws)
			}
		})
	}
}
