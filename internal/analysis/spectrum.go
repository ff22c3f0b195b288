package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

var ErrTooShort = errors.New("series too short for a spectrum")

// Spectrum holds the one-sided amplitude spectrum of a real series.
type Spectrum struct {
	Freqs []float64 // Hz
	Power []float64
}

// PowerSpectrum transforms values sampled every sampleDt seconds. The mean
// is removed first so the zero bin does not swamp the rest.
func PowerSpectrum(values []float64, sampleDt float64) (*Spectrum, error) {
	n := len(values)
	if n < 4 || !(sampleDt > 0) {
		return nil, ErrTooShort
	}

	mean := stat.Mean(values, nil)
	centred := make([]float64, n)
	for i, v := range values {
		centred[i] = v - mean
	}

	coeffs := fft.FFTReal(centred)
	half := n/2 + 1
	s := &Spectrum{Freqs: make([]float64, half), Power: make([]float64, half)}
	for k := range half {
		s.Freqs[k] = float64(k) / (float64(n) * sampleDt)
		s.Power[k] = cmplx.Abs(coeffs[k])
	}
	return s, nil
}

// Dominant returns the strongest non-zero frequency.
func (s *Spectrum) Dominant() (freq, power float64) {
	for k := 1; k < len(s.Power); k++ {
		if s.Power[k] > power {
			freq, power = s.Freqs[k], s.Power[k]
		}
	}
	return freq, power
}
