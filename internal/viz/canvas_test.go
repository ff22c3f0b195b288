package viz

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestCanvasSetColor(t *testing.T) {
	c := NewCanvas(2, 1)
	c.SetColor(0, 0, "#ff0000")
	c.SetColor(1, 3, "")
	c.SetColor(9, 9, "#00ff00")
	c.SetColor(-1, 0, "#00ff00")

	if got := c.Grid[0][0]; got != blank|0x1|0x80 {
		t.Errorf("cell = %U", got)
	}
	if c.Colors[0][0] != lipgloss.Color("#ff0000") {
		t.Errorf("colour = %q", c.Colors[0][0])
	}
	if c.Grid[0][1] != blank || c.Colors[0][1] != "" {
		t.Error("out of range dot leaked into the grid")
	}

	c.Clear()
	if c.Grid[0][0] != blank || c.Colors[0][0] != "" {
		t.Error("clear left a dot behind")
	}
}

func TestFillEllipse(t *testing.T) {
	c := NewCanvas(4, 2)
	c.FillEllipse(3, 3, 0.4, 0.4, "")
	dots := countDots(c)
	if dots != 1 {
		t.Errorf("sub-dot radius drew %d dots", dots)
	}

	c.Clear()
	c.FillEllipse(3, 3, 2, 2, "#0000ff")
	if dots := countDots(c); dots < 9 {
		t.Errorf("radius 2 drew only %d dots", dots)
	}
	if c.Colors[0][1] != lipgloss.Color("#0000ff") {
		t.Error("filled cell not coloured")
	}
}

func TestCanvasRenderPlain(t *testing.T) {
	c := NewCanvas(3, 2)
	c.DrawLine(0, 0, 5, 7, "")
	if c.Render() != c.String() {
		t.Error("uncoloured render differs from String")
	}
	if n := strings.Count(c.String(), "\n"); n != 2 {
		t.Errorf("rows = %d", n)
	}
}

func countDots(c *Canvas) int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			for bits := int(r - blank); bits != 0; bits &= bits - 1 {
				n++
			}
		}
	}
	return n
}
