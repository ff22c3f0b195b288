package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/partsim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

const degToRad = math.Pi / 180.0

// Request describes one spawn gesture. A negative X or Y scatters the new
// particles uniformly over the world instead.
type Request struct {
	X, Y   float64
	Kind   dynamo.Kind
	Single bool
}

type Spawner struct {
	cfg dynamo.Config
	rng *dynamo.Rand
	buf []dynamo.Particle
}

func NewSpawner(cfg dynamo.Config, rng *dynamo.Rand) *Spawner {
	return &Spawner{cfg: cfg, rng: rng}
}

// Spawn appends a batch of particles and returns how many were added. When
// the batch would not fit the memory budget nothing is added and the error
// wraps dynamo.ErrResourceExhausted.
func (s *Spawner) Spawn(pool *dynamo.Pool, req Request) (int, error) {
	count := 1
	if !req.Single {
		count = int(s.rng.Unit() * float64(s.cfg.MaxParticleCount))
	}
	if count == 0 {
		return 0, nil
	}
	if !pool.Fits(count) {
		return 0, fmt.Errorf("spawn %d: %w", count, dynamo.ErrResourceExhausted)
	}

	s.buf = s.buf[:0]
	for i := 0; i < count; i++ {
		s.buf = append(s.buf, s.newParticle(req))
	}
	if err := pool.Append(s.buf...); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Spawner) newParticle(req Request) dynamo.Particle {
	var p dynamo.Particle

	if req.X < 0 || req.Y < 0 {
		p.Pos.X = s.rng.Unit() * s.cfg.Width
		p.Pos.Y = s.rng.Unit() * s.cfg.Height
	} else {
		p.Pos = r2.Vec{X: req.X, Y: req.Y}
	}

	p.Kind = req.Kind
	if p.Kind == dynamo.AnyKind {
		p.Kind = s.randomKind()
	}

	tr := dynamo.TraitsOf(p.Kind)
	p.Color, p.Size, p.Mass = tr.Color, tr.Size, tr.Mass
	if !s.cfg.CircleParticles {
		p.Size = 1
	}

	direction := s.rng.Unit()*s.cfg.MaxDirection - 0.5*s.cfg.MaxDirection - 90.0
	speed := s.rng.Unit()*(s.cfg.MaxSpeed-s.cfg.MinSpeed) + s.cfg.MinSpeed
	sin, cos := math.Sincos(direction * degToRad)
	p.Vel = r2.Vec{X: cos * speed, Y: sin * speed}

	p.CollidingWith = dynamo.NoRef
	p.BondingWith = dynamo.NoRef
	return p
}

// Unit() can return exactly 1, which would index one past the last kind.
func (s *Spawner) randomKind() dynamo.Kind {
	k := dynamo.Kind(s.rng.Unit() * dynamo.NumKinds)
	if k >= dynamo.NumKinds {
		k = dynamo.NumKinds - 1
	}
	return k
}
