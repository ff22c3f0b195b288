package dynamo

import (
	"fmt"
	"math"
	"strings"
	"unsafe"

	"gonum.org/v1/gonum/spatial/r2"
)

type Kind int

const (
	Red Kind = iota
	Blue
	Green
	Yellow
	Pink

	NumKinds = 5

	// AnyKind asks the spawner to draw a kind at random.
	AnyKind Kind = -1
)

var kindNames = [NumKinds]string{"red", "blue", "green", "yellow", "pink"}

func (k Kind) String() string {
	if k == AnyKind {
		return "any"
	}
	if k < 0 || int(k) >= NumKinds {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a name such as "red" or "any" to its Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "any" || s == "random" {
		return AnyKind, nil
	}
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return AnyKind, fmt.Errorf("unknown particle kind: %s", s)
}

type Color struct {
	R, G, B uint8
}

// Traits are the fixed physical properties a particle receives from its kind.
type Traits struct {
	Color Color
	Size  float64
	Mass  float64
}

var traitTable = [NumKinds]Traits{
	Red:    {Color: Color{255, 0, 0}, Size: 20, Mass: 1.0},
	Blue:   {Color: Color{0, 0, 255}, Size: 25, Mass: 1.2},
	Green:  {Color: Color{0, 255, 0}, Size: 10, Mass: 0.01},
	Yellow: {Color: Color{255, 255, 0}, Size: 5, Mass: 10.0},
	Pink:   {Color: Color{255, 0, 255}, Size: 2, Mass: 0.0001},
}

// TraitsOf returns the trait row for k. k must be a concrete kind.
func TraitsOf(k Kind) Traits {
	return traitTable[k]
}

// Ref is a weak index into a Pool. It never implies ownership.
type Ref int

const NoRef Ref = -1

func (r Ref) Valid() bool { return r >= 0 }

// Particle is a non-rotating point mass with a circular collision extent.
type Particle struct {
	Pos           r2.Vec
	Vel           r2.Vec
	Color         Color
	Size          float64
	Mass          float64
	Kind          Kind
	CollidingWith Ref
	BondingWith   Ref
}

// RecordSize is the number of bytes one particle costs against the memory budget.
const RecordSize = int(unsafe.Sizeof(Particle{}))

func (p *Particle) Radius() float64 { return 0.5 * p.Size }

func (p *Particle) Bonded() bool { return p.BondingWith.Valid() }

func (p *Particle) IsValid() bool {
	for _, v := range [...]float64{p.Pos.X, p.Pos.Y, p.Vel.X, p.Vel.Y, p.Mass} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Sprite is the read-only rendering view of one particle.
type Sprite struct {
	X, Y  float64
	Size  float64
	Color Color
}

// Config holds the kernel parameters. It is fixed for the lifetime of a world.
type Config struct {
	MaxParticleCount  int
	MaxSpeed          float64
	MinSpeed          float64
	MaxDirection      float64 // spread cone, degrees
	Friction          float64
	MemoryBudget      int // bytes
	BorderCollision   bool
	BorderClamp       bool
	ParticleCollision bool
	CircleParticles   bool
	GenerateOnce      bool
	Width             float64
	Height            float64
}

func DefaultConfig() Config {
	return Config{
		MaxParticleCount:  100,
		MaxSpeed:          200,
		MinSpeed:          50,
		MaxDirection:      360,
		Friction:          0,
		MemoryBudget:      1 << 20,
		BorderCollision:   true,
		BorderClamp:       true,
		ParticleCollision: true,
		CircleParticles:   true,
		GenerateOnce:      false,
		Width:             800,
		Height:            600,
	}
}

func (c Config) Validate() error {
	finite := func(field string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ConfigError{Field: field, Reason: "must be finite"}
		}
		return nil
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"max_speed", c.MaxSpeed},
		{"min_speed", c.MinSpeed},
		{"max_direction", c.MaxDirection},
		{"friction", c.Friction},
		{"width", c.Width},
		{"height", c.Height},
	} {
		if err := finite(f.name, f.v); err != nil {
			return err
		}
	}

	switch {
	case c.MaxParticleCount <= 0:
		return &ConfigError{Field: "max_particle_count", Reason: fmt.Sprintf("must be positive, got %d", c.MaxParticleCount)}
	case c.MinSpeed < 0:
		return &ConfigError{Field: "min_speed", Reason: fmt.Sprintf("must be non-negative, got %g", c.MinSpeed)}
	case c.MaxSpeed <= c.MinSpeed:
		return &ConfigError{Field: "max_speed", Reason: fmt.Sprintf("must exceed min_speed (%g), got %g", c.MinSpeed, c.MaxSpeed)}
	case c.MaxDirection < 0 || c.MaxDirection > 360:
		return &ConfigError{Field: "max_direction", Reason: fmt.Sprintf("must be within [0, 360], got %g", c.MaxDirection)}
	case c.Friction < 0:
		return &ConfigError{Field: "friction", Reason: fmt.Sprintf("must be non-negative, got %g", c.Friction)}
	case c.MemoryBudget < RecordSize:
		return &ConfigError{Field: "memory_budget", Reason: fmt.Sprintf("must hold at least one particle (%d bytes), got %d", RecordSize, c.MemoryBudget)}
	case c.Width <= 0:
		return &ConfigError{Field: "width", Reason: fmt.Sprintf("must be positive, got %g", c.Width)}
	case c.Height <= 0:
		return &ConfigError{Field: "height", Reason: fmt.Sprintf("must be positive, got %g", c.Height)}
	}
	return nil
}

// Capacity is the largest pool length the memory budget admits.
func (c Config) Capacity() int {
	return c.MemoryBudget / RecordSize
}
