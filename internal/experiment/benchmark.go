package experiment

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
)

// Benchmark adds a batch of random particles every tick until one tick
// takes longer than MaxSPF seconds.
type Benchmark struct {
	MaxSPF   float64
	MaxTicks int
	Dt       float64

	now func() time.Time
}

type StopReason string

const (
	StopSlow      StopReason = "max_spf"
	StopTicks     StopReason = "max_ticks"
	StopCancelled StopReason = "cancelled"
)

type BenchmarkReport struct {
	MaxSPF    float64
	Particles int
	Bytes     int
	Ticks     int
	LastSPF   float64
	Rejected  int
	Reason    StopReason
}

func NewBenchmark(maxSPF float64, maxTicks int, dt float64) *Benchmark {
	return &Benchmark{MaxSPF: maxSPF, MaxTicks: maxTicks, Dt: dt, now: time.Now}
}

func (b *Benchmark) Run(ctx context.Context, w *sim.World) (*BenchmarkReport, error) {
	if b.MaxSPF <= 0 {
		return nil, fmt.Errorf("max spf must be positive, got %g", b.MaxSPF)
	}

	report := &BenchmarkReport{MaxSPF: b.MaxSPF, Reason: StopTicks}
	for b.MaxTicks <= 0 || report.Ticks < b.MaxTicks {
		if ctx.Err() != nil {
			report.Reason = StopCancelled
			break
		}

		start := b.now()
		w.Spawn(-1, -1, dynamo.AnyKind)
		if _, err := w.Tick(b.Dt); err != nil {
			return nil, err
		}
		report.Ticks++
		report.LastSPF = b.now().Sub(start).Seconds()

		if report.Ticks%100 == 0 {
			log.Debug("benchmark", "tick", report.Ticks, "particles", w.Len(), "spf", report.LastSPF)
		}
		if report.LastSPF > b.MaxSPF {
			report.Reason = StopSlow
			break
		}
	}

	report.Particles = w.Len()
	report.Bytes = w.Bytes()
	report.Rejected = w.Stats().Rejected
	log.Info("benchmark finished", "particles", report.Particles, "bytes", report.Bytes, "reason", report.Reason)
	return report, nil
}

// WriteText writes the report in the plain benchmark.txt layout.
func (r *BenchmarkReport) WriteText(out io.Writer) error {
	_, err := fmt.Fprintf(out, "\nNumber of particles visible at %.2f seconds per frame: %d\nMemory used: %d bytes\n",
		r.MaxSPF, r.Particles, r.Bytes)
	return err
}
