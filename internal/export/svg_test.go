package export

import (
	"slices"
	"strings"
	"testing"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/stretchr/testify/assert"
)

func TestSnapshotToSVG(t *testing.T) {
	sprites := []dynamo.Sprite{
		{X: 10, Y: 20, Size: 20, Color: dynamo.Color{R: 255}},
		{X: 30, Y: 40, Size: 25, Color: dynamo.Color{B: 255}},
	}
	svg := SnapshotToSVG(slices.Values(sprites), 800, 600)

	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.Contains(t, svg, `viewBox="0 0 800 600"`)
	assert.Contains(t, svg, `<circle cx="10.0" cy="20.0" r="10.0" fill="#ff0000"/>`)
	assert.Contains(t, svg, `<circle cx="30.0" cy="40.0" r="12.5" fill="#0000ff"/>`)
	assert.Equal(t, 2, strings.Count(svg, "<circle"))
}

func TestSnapshotToSVGEmpty(t *testing.T) {
	svg := SnapshotToSVG(slices.Values([]dynamo.Sprite(nil)), 100, 100)
	assert.NotContains(t, svg, "<circle")
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
}

func TestSeriesToSVG(t *testing.T) {
	svg := SeriesToSVG([]float64{0, 1, 2}, []float64{5, 5, 5}, 300, 100, "#00ff88")
	assert.Contains(t, svg, `stroke="#00ff88"`)
	assert.Contains(t, svg, "M0.0,")
	assert.Equal(t, 2, strings.Count(svg, " L"))

	assert.Empty(t, SeriesToSVG([]float64{0}, []float64{1}, 300, 100, "#fff"))
	assert.Empty(t, SeriesToSVG([]float64{0, 1}, []float64{1}, 300, 100, "#fff"))
}
