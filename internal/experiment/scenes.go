package experiment

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

// Scene populates a world. n is a size hint; seed feeds any noise source
// the scene needs beyond the world's own random stream.
type Scene func(w *sim.World, n int, seed int64) error

func emptyScene(w *sim.World, n int, seed int64) error { return nil }

// randomScene is one spawn gesture at random positions.
func randomScene(w *sim.World, n int, seed int64) error {
	w.Spawn(-1, -1, dynamo.AnyKind)
	return nil
}

func burstScene(w *sim.World, n int, seed int64) error {
	cfg := w.Config()
	for i := 0; i < n; i++ {
		if _, ok := w.SpawnOne(cfg.Width/2, cfg.Height/2, dynamo.AnyKind); !ok {
			break
		}
	}
	return nil
}

func gridScene(w *sim.World, n int, seed int64) error {
	cfg := w.Config()
	cols := int(math.Ceil(math.Sqrt(float64(n) * cfg.Width / cfg.Height)))
	if cols < 1 {
		cols = 1
	}
	rows := (n + cols - 1) / cols
	dx, dy := cfg.Width/float64(cols+1), cfg.Height/float64(rows+1)

	for i := 0; i < n; i++ {
		x := dx * float64(i%cols+1)
		y := dy * float64(i/cols+1)
		if _, ok := w.SpawnOne(x, y, dynamo.AnyKind); !ok {
			break
		}
	}
	return nil
}

// bondingScene lays out red/blue pairs close enough to bond on the first
// tick.
func bondingScene(w *sim.World, n int, seed int64) error {
	cfg := w.Config()
	pairs := max(n/2, 1)
	cols := int(math.Ceil(math.Sqrt(float64(pairs))))
	dx := cfg.Width / float64(cols+1)
	dy := cfg.Height / float64((pairs+cols-1)/cols+1)

	for i := 0; i < pairs; i++ {
		x := dx * float64(i%cols+1)
		y := dy * float64(i/cols+1)
		if _, ok := w.SpawnOne(x-10, y, dynamo.Red); !ok {
			break
		}
		if _, ok := w.SpawnOne(x+10, y, dynamo.Blue); !ok {
			break
		}
	}
	return nil
}

// billiardsScene racks reds in a triangle and sends one cue ball into it.
func billiardsScene(w *sim.World, n int, seed int64) error {
	cfg := w.Config()
	size := dynamo.TraitsOf(dynamo.Red).Size
	apex := r2.Vec{X: cfg.Width * 0.6, Y: cfg.Height / 2}

	placed := 0
	for row := 0; placed < n; row++ {
		for k := 0; k <= row && placed < n; k++ {
			x := apex.X + float64(row)*size*0.87
			y := apex.Y + (float64(k)-float64(row)/2)*(size+1.5)
			if _, ok := w.SpawnOne(x, y, dynamo.Red); !ok {
				return nil
			}
			placed++
		}
	}

	cue, ok := w.SpawnOne(cfg.Width*0.15, apex.Y, dynamo.Red)
	if !ok {
		return nil
	}
	return w.SetVelocity(cue, r2.Vec{X: cfg.MaxSpeed})
}

// clustersScene scatters particles where 2D Perlin noise is high. The
// noise band picks the kind, so neighbours tend to share one.
func clustersScene(w *sim.World, n int, seed int64) error {
	cfg := w.Config()
	noise := perlin.NewPerlin(2, 2, 3, seed)
	const scale = 0.01
	step := math.Max(4, math.Sqrt(cfg.Width*cfg.Height/float64(max(n, 1)))/2)

	placed := 0
	for y := step / 2; y < cfg.Height && placed < n; y += step {
		for x := step / 2; x < cfg.Width && placed < n; x += step {
			v := noise.Noise2D(x*scale, y*scale)
			if v < 0.1 {
				continue
			}
			kind := dynamo.Kind(int(v*10) % dynamo.NumKinds)
			if _, ok := w.SpawnOne(x, y, kind); !ok {
				return nil
			}
			placed++
		}
	}
	return nil
}
