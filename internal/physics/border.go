package physics

import "github.com/san-kum/partsim/internal/dynamo"

type axis int

const (
	axisX axis = iota
	axisY
)

// Border keeps particles inside [0, Width] x [0, Height].
type Border struct {
	Width, Height float64
	Clamp         bool
}

func NewBorder(cfg dynamo.Config) *Border {
	return &Border{Width: cfg.Width, Height: cfg.Height, Clamp: cfg.BorderClamp}
}

// Apply reflects every particle whose edge crossed a boundary while moving
// outward. Left/right and top/bottom are exclusive per pass; the two axes
// are tested independently. Returns the number of reflections.
func (b *Border) Apply(pool *dynamo.Pool) int {
	hits := 0
	ps := pool.Particles()
	for i := range ps {
		p := &ps[i]
		r := p.Radius()

		if p.Pos.X-r < 0 {
			if p.Vel.X < 0 {
				b.reflect(pool, i, axisX)
				hits++
			}
			if b.Clamp {
				p.Pos.X = r
			}
		} else if p.Pos.X+r > b.Width {
			if p.Vel.X > 0 {
				b.reflect(pool, i, axisX)
				hits++
			}
			if b.Clamp {
				p.Pos.X = b.Width - r
			}
		}

		if p.Pos.Y-r < 0 {
			if p.Vel.Y < 0 {
				b.reflect(pool, i, axisY)
				hits++
			}
			if b.Clamp {
				p.Pos.Y = r
			}
		} else if p.Pos.Y+r > b.Height {
			if p.Vel.Y > 0 {
				b.reflect(pool, i, axisY)
				hits++
			}
			if b.Clamp {
				p.Pos.Y = b.Height - r
			}
		}
	}
	return hits
}

// reflect negates one velocity component of particle i and of its bond
// partner, dropping both collision claims.
func (b *Border) reflect(pool *dynamo.Pool, i int, ax axis) {
	flip := func(p *dynamo.Particle) {
		if ax == axisX {
			p.Vel.X = -p.Vel.X
		} else {
			p.Vel.Y = -p.Vel.Y
		}
		p.CollidingWith = dynamo.NoRef
	}

	flip(pool.At(i))
	if partner := pool.Partner(i); partner != nil {
		flip(partner)
	}
}
