package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/samuehae/transport/internal/config"
	"github.com/samuehae/transport/internal/experiment"
)

var presetInfo = map[string]string{
	"rectangular": "square barrier",
	"absorber":    "complex barrier",
	"gaussian":    "smooth barrier",
	"lattice":     "finite crystal",
}

const (
	stateMenu = iota
	stateExplore
)

type app struct {
	state, cursor int
	presets       []string
	registry      *experiment.Registry
	explorer      Explorer
	err           error
	width, height int
}

func NewInteractiveApp(reg *experiment.Registry) *app {
	return &app{
		state:    stateMenu,
		presets:  config.ListPresets(),
		registry: reg,
		width:    defaultWidth,
		height:   defaultHeight,
	}
}

func (m app) Init() tea.Cmd { return nil }

func (m app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
	}
	if m.state == stateExplore {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			m.state = stateMenu
			return m, nil
		}
		next, cmd := m.explorer.Update(msg)
		m.explorer = next.(Explorer)
		return m, cmd
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		return m.menuKey(key)
	}
	return m, nil
}

func (m app) menuKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
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
		ex, err := NewExplorerFromConfig(config.GetPreset(m.presets[m.cursor]), m.registry)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		next, _ := ex.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		m.explorer = next.(Explorer)
		m.state = stateExplore
		return m, m.explorer.Init()
	}
	return m, nil
}

func (m app) View() string {
	if m.state == stateExplore {
		return m.explorer.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + Title.Render("TRANSPORT") + "\n    " + Subtle.Render("1d quantum scattering") + "\n    " + Subtle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", Title.Render("▸"), MetricValue.Render(fmt.Sprintf("%-16s", name)), KeyHint.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", Subtle.Render(fmt.Sprintf("  %-16s", name)), Subtle.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + ErrorText.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hint("j/k", "navigate") + hint("enter", "select") + hint("esc", "back") + hint("q", "quit") + "\n")
	return b.String()
}

func RunInteractive(reg *experiment.Registry) error {
	_, err := tea.NewProgram(NewInteractiveApp(reg), tea.WithAltScreen()).Run()
	return err
}
