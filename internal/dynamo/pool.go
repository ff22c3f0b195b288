package dynamo

import (
	"fmt"
	"iter"
)

// Pool stores particles in insertion order. It only grows through Append and
// only shrinks through Reset, so indices (and every Ref) stay stable.
type Pool struct {
	particles []Particle
	budget    int
}

func NewPool(budget int) *Pool {
	return &Pool{budget: budget}
}

func (p *Pool) Len() int    { return len(p.particles) }
func (p *Pool) Budget() int { return p.budget }
func (p *Pool) Bytes() int  { return len(p.particles) * RecordSize }

// Fits reports whether n more particles stay within the memory budget.
func (p *Pool) Fits(n int) bool {
	return (len(p.particles)+n)*RecordSize <= p.budget
}

// Append adds all particles or none of them.
func (p *Pool) Append(ps ...Particle) error {
	if !p.Fits(len(ps)) {
		return fmt.Errorf("append %d to %d particles (%d bytes budget): %w",
			len(ps), len(p.particles), p.budget, ErrResourceExhausted)
	}
	p.particles = append(p.particles, ps...)
	return nil
}

// Particles exposes the backing slice to kernel components. Callers must
// not append to or reslice it.
func (p *Pool) Particles() []Particle { return p.particles }

func (p *Pool) At(i int) *Particle { return &p.particles[i] }

func (p *Pool) Get(i int) (*Particle, error) {
	if i < 0 || i >= len(p.particles) {
		return nil, fmt.Errorf("index %d (len %d): %w", i, len(p.particles), ErrInvalidRef)
	}
	return &p.particles[i], nil
}

// Partner returns the bond partner of particle i, or nil.
func (p *Pool) Partner(i int) *Particle {
	ref := p.particles[i].BondingWith
	if !ref.Valid() {
		return nil
	}
	return &p.particles[ref]
}

// Reset drops every particle but keeps the allocation.
func (p *Pool) Reset() {
	p.particles = p.particles[:0]
}

// Validate checks the reference invariants: refs are in range and never
// self-referencing, and bonds are mutual.
func (p *Pool) Validate() error {
	n := Ref(len(p.particles))
	for i := range p.particles {
		pt := &p.particles[i]
		self := Ref(i)
		for _, ref := range [...]Ref{pt.CollidingWith, pt.BondingWith} {
			if ref != NoRef && (ref < 0 || ref >= n || ref == self) {
				return fmt.Errorf("particle %d holds ref %d: %w", i, ref, ErrInvalidState)
			}
		}
		if pt.Bonded() && p.particles[pt.BondingWith].BondingWith != self {
			return fmt.Errorf("bond %d -> %d is not mutual: %w", i, pt.BondingWith, ErrInvalidState)
		}
		if !pt.IsValid() {
			return fmt.Errorf("particle %d has non-finite kinematics: %w", i, ErrInvalidState)
		}
	}
	return nil
}

// Sprites yields the rendering attributes of the current pool contents. The
// sequence is evaluated lazily and can be ranged over any number of times.
func (p *Pool) Sprites() iter.Seq[Sprite] {
	return func(yield func(Sprite) bool) {
		for i := range p.particles {
			pt := &p.particles[i]
			if !yield(Sprite{X: pt.Pos.X, Y: pt.Pos.Y, Size: pt.Size, Color: pt.Color}) {
				return
			}
		}
	}
}
