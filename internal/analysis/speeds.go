package analysis

import (
	"slices"

	"github.com/san-kum/partsim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

type SpeedStats struct {
	Mean   float64
	StdDev float64
	Max    float64

	// Counts[i] particles move at a speed in [Dividers[i], Dividers[i+1]).
	Dividers []float64
	Counts   []float64
}

// Speeds bins the particle speeds of pool into the given number of equal
// bins spanning zero to the fastest particle.
func Speeds(pool *dynamo.Pool, bins int) SpeedStats {
	ps := pool.Particles()
	speeds := make([]float64, len(ps))
	for i := range ps {
		speeds[i] = r2.Norm(ps[i].Vel)
	}
	if len(speeds) == 0 || bins < 1 {
		return SpeedStats{}
	}
	slices.Sort(speeds)

	var s SpeedStats
	// the sample deviation of a single speed is undefined; report no spread
	if len(speeds) < 2 {
		s.Mean = speeds[0]
	} else {
		s.Mean, s.StdDev = stat.MeanStdDev(speeds, nil)
	}
	s.Max = speeds[len(speeds)-1]

	// the top divider must lie strictly above the fastest speed
	top := s.Max*(1+1e-9) + 1e-9
	s.Dividers = floats.Span(make([]float64, bins+1), 0, top)
	s.Counts = stat.Histogram(nil, s.Dividers, speeds, nil)
	return s
}
