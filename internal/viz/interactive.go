package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/experiment"
)

var presetInfo = map[string]string{
	"gas":       "elastic red and blue gas",
	"bonding":   "slow mix that pairs up",
	"pixels":    "point particles, no contact",
	"viscous":   "noisy clusters under friction",
	"fountain":  "narrow stream from one spot",
	"benchmark": "grow until frames slow down",
}

// menu picks a preset and hands over to the live view.
type menu struct {
	cursor  int
	presets []string
	reg     *experiment.Registry
	err     error
}

func NewInteractiveApp() tea.Model {
	return menu{presets: config.ListPresets(), reg: experiment.NewRegistry()}
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		live, err := m.start(m.presets[m.cursor])
		if err != nil {
			m.err = err
			return m, nil
		}
		return live, live.Init()
	}
	return m, nil
}

// start builds the world for a preset the same way the run command does.
func (m menu) start(name string) (Model, error) {
	cfg := config.GetPreset(name)
	if cfg == nil {
		return Model{}, fmt.Errorf("unknown preset: %s", name)
	}
	exp := experiment.New(experiment.FromFile(cfg))
	if err := exp.Setup(m.reg); err != nil {
		return Model{}, err
	}
	return NewModel(exp.World(), cfg.Dt, name, cfg.AutoAddParticles), nil
}

func (m menu) View() string {
	var b strings.Builder
	b.WriteString("\n\n    " + GradientText("PARTSIM", CurrentTheme.Primary, CurrentTheme.Accent) +
		"\n    " + Subtle.Render("2d particle kernel") + "\n    " + Separator(25) + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", Title.Render("▸"), lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%-12s", name)), Selected.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", Subtle.Render(fmt.Sprintf("  %-12s", name)), Subtle.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + StatusPaused.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + KeyHint.Render("j/k navigate  enter select  q quit") + "\n")
	return b.String()
}

func RunInteractive() error {
	_, err := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
