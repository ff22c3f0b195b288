package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

func testPool(t *testing.T) *dynamo.Pool {
	t.Helper()
	pool := dynamo.NewPool(1 << 16)
	ps := []dynamo.Particle{
		{Pos: r2.Vec{X: 0, Y: 0}, Kind: dynamo.Red, CollidingWith: dynamo.NoRef, BondingWith: 1},
		{Pos: r2.Vec{X: 799, Y: 599}, Kind: dynamo.Blue, CollidingWith: dynamo.NoRef, BondingWith: 0},
		{Pos: r2.Vec{X: 400, Y: 300}, Kind: dynamo.Green, CollidingWith: dynamo.NoRef, BondingWith: dynamo.NoRef},
		{Pos: r2.Vec{X: -50, Y: 300}, Kind: dynamo.Pink, CollidingWith: dynamo.NoRef, BondingWith: dynamo.NoRef},
	}
	if err := pool.Append(ps...); err != nil {
		t.Fatal(err)
	}
	return pool
}

func TestLiveRendererDrawsParticles(t *testing.T) {
	var out bytes.Buffer
	r := NewLiveRenderer(&out, "grid", dynamo.DefaultConfig(), 0)
	r.OnTick(testPool(t), sim.TickStats{Collisions: 2, Bonds: 1}, 1.5)

	if r.canvas[0][0] != 'R' || r.canvas[height-1][width-1] != 'B' {
		t.Error("bonded pair not drawn in upper case at the corners")
	}
	if r.canvas[height/2][width/2] != 'g' {
		t.Errorf("centre = %q", r.canvas[height/2][width/2])
	}
	s := out.String()
	for _, want := range []string{clearScreen, "grid  t=1.50s  n=4", "collisions=2 bonds=1"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.ContainsRune(s, 'p') {
		t.Error("particle outside the world was drawn")
	}
}

func TestLiveRendererFrameRate(t *testing.T) {
	var out bytes.Buffer
	r := NewLiveRenderer(&out, "x", dynamo.DefaultConfig(), 10)
	clock := time.Unix(100, 0)
	r.now = func() time.Time { return clock }
	pool := testPool(t)

	r.OnTick(pool, sim.TickStats{}, 0)
	first := out.Len()
	clock = clock.Add(50 * time.Millisecond)
	r.OnTick(pool, sim.TickStats{}, 0.05)
	if out.Len() != first {
		t.Error("drew a frame before the frame interval passed")
	}
	clock = clock.Add(60 * time.Millisecond)
	r.OnTick(pool, sim.TickStats{}, 0.11)
	if out.Len() == first {
		t.Error("no frame after the interval")
	}
}
