package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/samuehae/transport/internal/config"
	"github.com/samuehae/transport/internal/experiment"
	"github.com/samuehae/transport/internal/scatter"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(10, 10)

	if c.Grid[0][0] != brailleBlank|0x1 {
		t.Errorf("expected dot 1, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != brailleBlank|0x80 {
		t.Errorf("expected dot 8, got %U", c.Grid[0][1])
	}

	c.Clear()
	if strings.Trim(c.String(), "⠀\n") != "" {
		t.Errorf("expected blank canvas, got %q", c.String())
	}
}

func TestCanvasPlot(t *testing.T) {
	c := NewCanvas(10, 2)
	c.Plot([]float64{0, 1, 0}, 0, 1)

	// Endpoints sit on the bottom row, the peak on the top row.
	if c.Grid[1][0]&0x40 == 0 {
		t.Error("expected first point in bottom-left corner")
	}
	if c.Grid[0][4] == brailleBlank && c.Grid[0][5] == brailleBlank {
		t.Error("expected peak on top row")
	}
	if c.Grid[1][9]&0x80 == 0 {
		t.Error("expected last point in bottom-right corner")
	}
}

func TestProbabilityBar(t *testing.T) {
	bar := ProbabilityBar(0.5, 0.25, 8)
	if n := strings.Count(bar, "█"); n != 6 {
		t.Errorf("expected 6 filled cells, got %d", n)
	}
	if n := strings.Count(bar, "░"); n != 2 {
		t.Errorf("expected 2 loss cells, got %d", n)
	}
}

func newTestExplorer(t *testing.T) Explorer {
	t.Helper()
	cfg := config.GetPreset("rectangular")
	cfg.Energies.Points = 20
	ex, err := NewExplorerFromConfig(cfg, experiment.NewRegistry())
	if err != nil {
		t.Fatalf("explorer: %v", err)
	}
	next, _ := ex.Update(ex.Init()())
	return next.(Explorer)
}

func press(m Explorer, key tea.KeyMsg) (Explorer, tea.Cmd) {
	next, cmd := m.Update(key)
	return next.(Explorer), cmd
}

func TestExplorerNavigation(t *testing.T) {
	m := newTestExplorer(t)
	if _, ok := m.Pair(); !ok {
		t.Fatal("expected spectrum after init")
	}
	if len(m.wave) != 500 {
		t.Fatalf("expected wave function of 500 points, got %d", len(m.wave))
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.cursor != 1 {
		t.Errorf("expected cursor 1, got %d", m.cursor)
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.cursor != 0 {
		t.Errorf("cursor should clamp at 0, got %d", m.cursor)
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnd})
	if m.cursor != 19 {
		t.Errorf("expected last energy, got %d", m.cursor)
	}
}

func TestExplorerToggleSide(t *testing.T) {
	m := newTestExplorer(t)
	right, _ := m.Pair()

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Side() != scatter.Left || !m.computing {
		t.Fatalf("expected pending left spectrum, got side %s", m.Side())
	}

	// A stale right-side result is ignored.
	next, _ := m.Update(spectrumMsg{side: scatter.Right})
	m = next.(Explorer)
	if !m.computing {
		t.Error("stale spectrum accepted")
	}

	next, _ = m.Update(cmd())
	m = next.(Explorer)
	left, ok := m.Pair()
	if !ok || !left.IsValid() {
		t.Fatal("expected left spectrum")
	}
	if d := left.T - right.T; real(d)*real(d)+imag(d)*imag(d) > 1e-12 {
		t.Errorf("transmission should not depend on side: %v vs %v", left.T, right.T)
	}
}

func TestExplorerView(t *testing.T) {
	m := newTestExplorer(t)
	view := m.View()
	for _, want := range []string{"RECTANGULAR", "AMPLITUDES", "POTENTIAL", "|ψ(x)|²"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	if !strings.Contains(m.View(), "Re ψ(x)") {
		t.Error("expected real part view")
	}
}

func TestAppMenu(t *testing.T) {
	a := NewInteractiveApp(experiment.NewRegistry())
	next, _ := a.Update(tea.KeyMsg{Type: tea.KeyDown})
	m := next.(app)
	if m.cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", m.cursor)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(app)
	if m.state != stateExplore || cmd == nil {
		t.Fatal("expected explorer after selecting a preset")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if next.(app).state != stateMenu {
		t.Error("expected menu after esc")
	}
}
