package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// glyphs marks each kind by its initial; pairs in a bond are upper case.
var glyphs = [dynamo.NumKinds]rune{'r', 'b', 'g', 'y', 'p'}

// LiveRenderer prints a coarse character view of the world to out as the
// run progresses. It is a sim.Observer for headless runs.
type LiveRenderer struct {
	out       io.Writer
	title     string
	worldW    float64
	worldH    float64
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
	now       func() time.Time
}

var _ sim.Observer = (*LiveRenderer)(nil)

// NewLiveRenderer draws at most frameRate frames per second; a frameRate
// of zero draws every tick.
func NewLiveRenderer(out io.Writer, title string, cfg dynamo.Config, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		out:       out,
		title:     title,
		worldW:    cfg.Width,
		worldH:    cfg.Height,
		frameRate: frameRate,
		canvas:    canvas,
		now:       time.Now,
	}
}

func (r *LiveRenderer) OnTick(pool *dynamo.Pool, stats sim.TickStats, t float64) {
	if r.frameRate > 0 {
		now := r.now()
		if now.Sub(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
		r.lastFrame = now
	}

	r.clear()
	for _, p := range pool.Particles() {
		g := glyphs[p.Kind]
		if p.Bonded() {
			g -= 'a' - 'A'
		}
		r.set(int(p.Pos.X/r.worldW*width), int(p.Pos.Y/r.worldH*height), g)
	}
	r.render(pool, stats, t)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) render(pool *dynamo.Pool, stats sim.TickStats, t float64) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  t=%.2fs  n=%d\n", r.title, t, pool.Len()))
	b.WriteString("  +" + strings.Repeat("-", width) + "+\n")

	for _, row := range r.canvas {
		b.WriteString("  |")
		b.WriteString(string(row))
		b.WriteString("|\n")
	}

	b.WriteString("  +" + strings.Repeat("-", width) + "+\n")
	b.WriteString(fmt.Sprintf("  collisions=%d bonds=%d border=%d\n", stats.Collisions, stats.Bonds, stats.BorderHits))

	io.WriteString(r.out, b.String())
}

func (r *LiveRenderer) Start() { io.WriteString(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { io.WriteString(r.out, showCursor) }
