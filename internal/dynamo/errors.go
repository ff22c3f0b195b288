package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for kernel operations.
var (
	// ErrResourceExhausted indicates a spawn request would exceed the memory budget.
	ErrResourceExhausted = errors.New("dynamo: memory budget exhausted")

	// ErrDegenerateGeometry indicates two particles are too close to derive a contact normal.
	ErrDegenerateGeometry = errors.New("dynamo: degenerate geometry (zero separation)")

	// ErrInvalidConfig indicates a kernel parameter is outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid config")

	// ErrInvalidRef indicates an index that does not address a particle in the pool.
	ErrInvalidRef = errors.New("dynamo: invalid particle reference")

	// ErrInvalidStep indicates a tick was requested with a NaN, Inf or negative dt.
	ErrInvalidStep = errors.New("dynamo: invalid step size")

	// ErrInvalidState indicates NaN/Inf kinematics or a broken bond invariant.
	ErrInvalidState = errors.New("dynamo: invalid state")
)

// ConfigError names the offending field of a rejected Config.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidConfig, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Tick    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
