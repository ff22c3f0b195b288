package physics

import (
	"testing"

	"github.com/san-kum/partsim/internal/dynamo"
)

func TestBorder_ReflectAndClamp(t *testing.T) {
	tests := []struct {
		name           string
		x, y, vx, vy   float64
		wantX, wantY   float64
		wantVX, wantVY float64
		wantHits       int
	}{
		{"left", 5, 300, -3, 0, 10, 300, 3, 0, 1},
		{"right", 798, 300, 4, 1, 790, 300, -4, 1, 1},
		{"top", 400, 2, 1, -6, 400, 10, 1, 6, 1},
		{"bottom", 400, 595, 0, 2, 400, 590, 0, -2, 1},
		{"corner", 3, 597, -1, 1, 10, 590, 1, -1, 2},
		{"moving inward", 5, 300, 3, 0, 10, 300, 3, 0, 0},
		{"inside", 400, 300, -3, -3, 400, 300, -3, -3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := newPool(newParticle(dynamo.Red, tt.x, tt.y, tt.vx, tt.vy))
			b := NewBorder(dynamo.DefaultConfig())

			hits := b.Apply(pool)
			p := pool.At(0)
			if hits != tt.wantHits {
				t.Errorf("hits = %d, want %d", hits, tt.wantHits)
			}
			if p.Pos.X != tt.wantX || p.Pos.Y != tt.wantY {
				t.Errorf("pos = %v, want (%v, %v)", p.Pos, tt.wantX, tt.wantY)
			}
			if p.Vel.X != tt.wantVX || p.Vel.Y != tt.wantVY {
				t.Errorf("vel = %v, want (%v, %v)", p.Vel, tt.wantVX, tt.wantVY)
			}
		})
	}
}

func TestBorder_NoClamp(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	cfg.BorderClamp = false
	pool := newPool(newParticle(dynamo.Red, 5, 300, -3, 0))

	NewBorder(cfg).Apply(pool)
	p := pool.At(0)
	if p.Pos.X != 5 {
		t.Errorf("position moved without clamping: %v", p.Pos.X)
	}
	if p.Vel.X != 3 {
		t.Errorf("velocity not reflected: %v", p.Vel.X)
	}
}

func TestBorder_PartnerMirrors(t *testing.T) {
	pool := newPool(
		newParticle(dynamo.Red, 5, 300, -3, 1),
		newParticle(dynamo.Blue, 100, 300, -3, 1),
		newParticle(dynamo.Red, 400, 300, 0, 0),
	)
	bondPair(pool, 0, 1)
	pool.At(0).CollidingWith = 2
	pool.At(1).CollidingWith = 2

	NewBorder(dynamo.DefaultConfig()).Apply(pool)

	if v := pool.At(1).Vel.X; v != 3 {
		t.Errorf("partner vx = %v, want 3", v)
	}
	for i := 0; i < 2; i++ {
		if pool.At(i).CollidingWith != dynamo.NoRef {
			t.Errorf("particle %d kept its collision claim", i)
		}
	}
}
