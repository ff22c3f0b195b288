package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/metrics"
	"github.com/san-kum/partsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600

	// canvas offset inside the terminal, from canvasStyle's padding
	padTop, padLeft = 1, 2

	gifPath = "partsim.gif"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(padTop, padLeft)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

type toolMode int

const (
	modeSpawn toolMode = iota
	modeVelocity
)

func (t toolMode) String() string {
	if t == modeVelocity {
		return "velocity"
	}
	return "spawn"
}

// Model drives a world from the terminal. The left mouse button spawns
// particles, or in velocity mode drags a particle and flings it on release.
type Model struct {
	world *sim.World
	dt    float64
	title string

	width, height int
	canvas        *Canvas
	running       bool
	showHelp      bool

	kind     dynamo.Kind
	mode     toolMode
	autoAdd  bool
	holding  bool
	mouseX   float64
	mouseY   float64
	selected int

	countHistory  []float64
	energyHistory []float64
	lastTick      sim.TickStats
	err           error

	recording bool
	frames    []*image.Paletted
}

// NewModel wraps a populated world. autoAdd spawns a random batch before
// every tick.
func NewModel(w *sim.World, dt float64, title string, autoAdd bool) Model {
	return Model{
		world:         w,
		dt:            dt,
		title:         title,
		width:         width,
		height:        height,
		canvas:        NewCanvas(width, height),
		running:       true,
		kind:          dynamo.AnyKind,
		autoAdd:       autoAdd,
		selected:      -1,
		countHistory:  make([]float64, 0, historyCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.saveGIF()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "k":
			m.cycleKind()
		case "o":
			m.world.SetGenerateOnce(!m.world.GenerateOnce())
		case "v":
			m.toggleMode()
		case "a":
			m.autoAdd = !m.autoAdd
		case "n":
			m.world.Spawn(-1, -1, m.kind)
		case "s":
			if !m.running {
				m.step()
			}
		case "g":
			if m.recording {
				m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case TickMsg:
		if m.running {
			m.step()
		}
		if m.recording {
			m.draw()
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) cycleKind() {
	if m.kind == dynamo.AnyKind {
		m.kind = dynamo.Red
		return
	}
	m.kind++
	if m.kind >= dynamo.NumKinds {
		m.kind = dynamo.AnyKind
	}
}

func (m *Model) toggleMode() {
	m.holding = false
	m.selected = -1
	if m.mode == modeSpawn {
		m.mode = modeVelocity
	} else {
		m.mode = modeSpawn
	}
}

// mouse tracks the left button. Positions outside the particle view are
// ignored, except that a release always ends a drag.
func (m *Model) mouse(msg tea.MouseMsg) {
	x, y, inside := m.toWorld(msg.X, msg.Y)
	if inside {
		m.mouseX, m.mouseY = x, y
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return
		}
		m.holding = true
		if m.mode == modeVelocity {
			m.selected, _ = m.world.Pick(x, y)
		}
	case tea.MouseActionRelease:
		if m.mode == modeVelocity && m.selected >= 0 {
			if err := m.world.Fling(m.selected, m.mouseX, m.mouseY); err != nil {
				m.err = err
			}
		}
		m.holding = false
		m.selected = -1
	}
}

// toWorld maps a terminal cell to the centre of its area in world space.
func (m *Model) toWorld(cellX, cellY int) (float64, float64, bool) {
	if m.showHelp {
		return 0, 0, false
	}
	col, row := cellX-padLeft, cellY-padTop
	if col < 0 || row < 0 || col >= m.width || row >= m.height {
		return 0, 0, false
	}
	cfg := m.world.Config()
	x := (float64(col) + 0.5) / float64(m.width) * cfg.Width
	y := (float64(row) + 0.5) / float64(m.height) * cfg.Height
	return x, y, true
}

// step spawns what the input asks for, then advances the world one tick.
func (m *Model) step() {
	if m.mode == modeSpawn && m.holding {
		m.world.Spawn(m.mouseX, m.mouseY, m.kind)
		if m.world.GenerateOnce() {
			m.holding = false
		}
	}
	if m.autoAdd {
		m.world.Spawn(-1, -1, m.kind)
	}

	ts, err := m.world.Tick(m.dt)
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.lastTick = ts

	m.countHistory = pushHistory(m.countHistory, float64(m.world.Len()))
	m.energyHistory = pushHistory(m.energyHistory, metrics.Kinetic(m.world.Pool()))
}

func pushHistory(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *Model) reset() {
	m.world.Reset()
	m.holding = false
	m.selected = -1
	m.err = nil
	m.countHistory = m.countHistory[:0]
	m.energyHistory = m.energyHistory[:0]
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render())

	var s strings.Builder
	s.WriteString(Title.Render(strings.ToUpper(m.title)) + "\n")
	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	if m.recording {
		status += " " + SparkLow.Render("● REC")
	}
	s.WriteString(status + "\n")

	if len(m.countHistory) > 1 {
		chart := asciigraph.Plot(m.countHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("particles"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	cfg := m.world.Config()
	st := m.world.Stats()
	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.world.Time()))
	row("Particles", fmt.Sprintf("%d", m.world.Len()))
	row("Memory", fmt.Sprintf("%d / %d B", m.world.Bytes(), cfg.MemoryBudget))
	s.WriteString(MetricLabel.Render("") + ProgressBar(float64(m.world.Bytes())/float64(cfg.MemoryBudget), 20) + "\n")
	row("Energy", fmt.Sprintf("%.1f", last(m.energyHistory)))
	s.WriteString(MetricLabel.Render("") + SparklineChart(m.energyHistory, 20) + "\n")
	row("Collisions", fmt.Sprintf("%d (+%d)", st.Collisions, m.lastTick.Collisions))
	row("Bonds", fmt.Sprintf("%d", st.Bonds))
	if st.Rejected > 0 {
		row("Rejected", fmt.Sprintf("%d", st.Rejected))
	}

	s.WriteString("\n")
	row("Kind", m.kind.String())
	row("Tool", m.mode.String())
	row("Once", onOff(m.world.GenerateOnce()))
	row("Auto add", onOff(m.autoAdd))
	if m.err != nil {
		s.WriteString(StatusPaused.Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause R:Reset Q:Quit\nK:Kind V:Tool O:Once A:Auto\nN:Spawn S:Step T:Theme ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  S        - Single step when paused  ║
║  R        - Remove all particles     ║
║  K        - Cycle particle kind      ║
║  V        - Spawn / velocity tool    ║
║  O        - Toggle generate once     ║
║  A        - Toggle auto add          ║
║  N        - Spawn at random          ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func last(h []float64) float64 {
	if len(h) == 0 {
		return 0
	}
	return h[len(h)-1]
}

// project maps world coordinates to canvas dots.
func (m *Model) project(x, y float64) (int, int) {
	cfg := m.world.Config()
	return int(x / cfg.Width * float64(m.canvas.DotsW())), int(y / cfg.Height * float64(m.canvas.DotsH()))
}

func (m *Model) draw() {
	m.canvas.Clear()
	cfg := m.world.Config()
	cw, ch := m.canvas.DotsW(), m.canvas.DotsH()
	sx, sy := float64(cw)/cfg.Width, float64(ch)/cfg.Height

	for sp := range m.world.Snapshot() {
		cx, cy := m.project(sp.X, sp.Y)
		r := 0.5 * sp.Size
		m.canvas.FillEllipse(cx, cy, r*sx, r*sy, KindColor(sp.Color))
	}

	if m.selected >= 0 && m.holding {
		if p, err := m.world.Particle(m.selected); err == nil {
			x0, y0 := m.project(p.Pos.X, p.Pos.Y)
			x1, y1 := m.project(m.mouseX, m.mouseY)
			m.canvas.DrawLine(x0, y0, x1, y1, CurrentTheme.Accent)
		}
	}

	m.canvas.DrawLine(0, 0, 0, ch-1, CurrentTheme.Border)
	m.canvas.DrawLine(cw-1, 0, cw-1, ch-1, CurrentTheme.Border)
}

// gifPalette holds black, white and the colour of every kind.
func gifPalette() (color.Palette, map[lipgloss.Color]uint8) {
	pal := color.Palette{color.Black, color.White}
	index := make(map[lipgloss.Color]uint8)
	for k := dynamo.Kind(0); k < dynamo.NumKinds; k++ {
		c := dynamo.TraitsOf(k).Color
		index[KindColor(c)] = uint8(len(pal))
		pal = append(pal, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
	}
	return pal, index
}

func (m *Model) captureFrame() {
	charW, charH := 8, 16
	dotW, dotH := charW/2, charH/4
	pal, index := gifPalette()
	img := image.NewPaletted(image.Rect(0, 0, m.width*charW, m.height*charH), pal)

	for row := 0; row < m.height; row++ {
		for col := 0; col < m.width; col++ {
			pattern := int(m.canvas.Grid[row][col] - blank)
			if pattern <= 0 {
				continue
			}
			ci, ok := index[m.canvas.Colors[row][col]]
			if !ok {
				ci = 1
			}
			baseX, baseY := col*charW, row*charH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, ci)
						}
					}
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(gifPath)
	if err != nil {
		m.err = err
		return
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		m.err = err
	}
}

// RunLive opens the live view on w until the user quits.
func RunLive(w *sim.World, dt float64, title string, autoAdd bool) error {
	p := tea.NewProgram(NewModel(w, dt, title, autoAdd), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
