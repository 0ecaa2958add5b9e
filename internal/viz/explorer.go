package viz

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/samuehae/transport/internal/config"
	"github.com/samuehae/transport/internal/experiment"
	"github.com/samuehae/transport/internal/scatter"
)

const (
	defaultWidth  = 100
	defaultHeight = 40
	pageStep      = 10
)

// spectrumMsg carries a recomputed spectrum for one incidence side.
type spectrumMsg struct {
	side  scatter.Side
	pairs []scatter.Pair
	err   error
}

// Explorer browses the spectrum and wave functions of one potential.
type Explorer struct {
	name     string
	x        []float64
	dx       float64
	v        []complex128
	energies []float64
	solver   *scatter.Solver

	side      scatter.Side
	pairs     []scatter.Pair
	failed    int
	computing bool
	cursor    int
	wave      []complex128
	waveErr   error
	showReal  bool
	showHelp  bool
	quitting  bool

	width, height int
}

func NewExplorer(name string, x []float64, dx float64, v []complex128, energies []float64, side scatter.Side, solver *scatter.Solver) Explorer {
	if solver == nil {
		solver = scatter.New()
	}
	return Explorer{
		name:      name,
		x:         x,
		dx:        dx,
		v:         v,
		energies:  energies,
		solver:    solver,
		side:      side,
		computing: true,
		width:     defaultWidth,
		height:    defaultHeight,
	}
}

// NewExplorerFromConfig samples the configured potential and energy grid.
func NewExplorerFromConfig(cfg *config.Config, reg *experiment.Registry) (Explorer, error) {
	exp, err := experiment.New(cfg, reg)
	if err != nil {
		return Explorer{}, err
	}
	x, dx, v, err := exp.Sample()
	if err != nil {
		return Explorer{}, err
	}
	return NewExplorer(cfg.Name, x, dx, v, exp.Energies(), exp.Side(), exp.Solver()), nil
}

func (m Explorer) Init() tea.Cmd {
	return m.computeSpectrum(m.side)
}

func (m Explorer) computeSpectrum(side scatter.Side) tea.Cmd {
	solver, energies, v, dx := m.solver, m.energies, m.v, m.dx
	return func() tea.Msg {
		pairs, err := solver.AmplitudesBatch(energies, v, dx, side)
		return spectrumMsg{side: side, pairs: pairs, err: err}
	}
}

func (m Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case spectrumMsg:
		if msg.side != m.side {
			return m, nil
		}
		m.computing = false
		m.pairs = msg.pairs
		m.failed = 0
		var be *scatter.BatchError
		if errors.As(msg.err, &be) {
			m.failed = len(be.Failures)
		} else if msg.err != nil {
			m.pairs = nil
			m.waveErr = msg.err
			return m, nil
		}
		m.updateWave()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Explorer) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "pgdown":
		m.moveCursor(-pageStep)
	case "pgup":
		m.moveCursor(pageStep)
	case "home":
		m.moveCursor(-len(m.energies))
	case "end":
		m.moveCursor(len(m.energies))
	case "tab":
		if m.side == scatter.Right {
			m.side = scatter.Left
		} else {
			m.side = scatter.Right
		}
		m.computing = true
		return m, m.computeSpectrum(m.side)
	case "m":
		m.showReal = !m.showReal
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Explorer) moveCursor(delta int) {
	if len(m.energies) == 0 {
		return
	}
	m.cursor = max(0, min(len(m.energies)-1, m.cursor+delta))
	m.updateWave()
}

func (m *Explorer) updateWave() {
	if len(m.energies) == 0 {
		return
	}
	m.wave, m.waveErr = m.solver.Wavefunction(m.energies[m.cursor], m.v, m.dx, m.side)
}

// Energy returns the selected energy.
func (m Explorer) Energy() float64 {
	if len(m.energies) == 0 {
		return math.NaN()
	}
	return m.energies[m.cursor]
}

func (m Explorer) Side() scatter.Side { return m.side }

// Pair returns the amplitudes at the selected energy, if computed.
func (m Explorer) Pair() (scatter.Pair, bool) {
	if m.cursor >= len(m.pairs) {
		return scatter.Pair{}, false
	}
	return m.pairs[m.cursor], true
}

func (m Explorer) View() string {
	if m.quitting {
		return ""
	}
	plotWidth := max(m.width-40, 20)

	var b strings.Builder
	b.WriteString(Title.Render(strings.ToUpper(m.name)) + "  " +
		Subtle.Render(fmt.Sprintf("%s incidence · %d points · dx=%.4g", m.side, len(m.v), m.dx)) + "\n")
	b.WriteString(Separator(plotWidth+30) + "\n")

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.viewSpectrum(plotWidth),
		m.viewWave(plotWidth),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.viewStats(),
		m.viewPotential(),
	)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right) + "\n")

	if m.showHelp {
		b.WriteString(Panel.Render(m.viewHelp()) + "\n")
	} else {
		b.WriteString(hint("←/→", "energy") + hint("tab", "side") + hint("m", "mode") + hint("?", "help") + hint("q", "quit") + "\n")
	}
	return b.String()
}

func (m Explorer) viewSpectrum(width int) string {
	if m.computing {
		return Panel.Render(Subtle.Render("computing spectrum..."))
	}
	if len(m.pairs) == 0 {
		return Panel.Render(ErrorText.Render(fmt.Sprintf("spectrum failed: %v", m.waveErr)))
	}
	tr := make([]float64, len(m.pairs))
	rf := make([]float64, len(m.pairs))
	for i, p := range m.pairs {
		tr[i], rf[i] = p.Transmission(), p.Reflection()
	}
	graph := asciigraph.PlotMany([][]float64{tr, rf},
		asciigraph.Height(8),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.Caption(fmt.Sprintf("|t|² (blue), |r|² (red) for e in [%.3g, %.3g]", m.energies[0], m.energies[len(m.energies)-1])),
	)
	marker := strings.Repeat(" ", m.markerColumn(width)) + Title.Render("▲")
	return Panel.Render(graph + "\n" + marker)
}

func (m Explorer) markerColumn(width int) int {
	// asciigraph reserves a label column of roughly precision+6 runes.
	const labelWidth = 7
	if len(m.energies) < 2 {
		return labelWidth
	}
	return labelWidth + m.cursor*(width-1)/(len(m.energies)-1)
}

func (m Explorer) viewWave(width int) string {
	if m.waveErr != nil {
		return Panel.Render(ErrorText.Render(fmt.Sprintf("e=%.4g: %v", m.Energy(), m.waveErr)))
	}
	if len(m.wave) == 0 {
		return ""
	}
	ys := make([]float64, len(m.wave))
	caption := "|ψ(x)|²"
	for i, y := range m.wave {
		if m.showReal {
			ys[i] = real(y)
		} else {
			a := cmplx.Abs(y)
			ys[i] = a * a
		}
	}
	if m.showReal {
		caption = "Re ψ(x)"
	}
	graph := asciigraph.Plot(ys,
		asciigraph.Height(10),
		asciigraph.Width(width),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(asciigraph.Green),
		asciigraph.Caption(fmt.Sprintf("%s at e=%.4g, x in [%.3g, %.3g]", caption, m.Energy(), m.x[0], m.x[len(m.x)-1])),
	)
	return Panel.Render(graph)
}

func (m Explorer) viewStats() string {
	var b strings.Builder
	b.WriteString(Title.Render("AMPLITUDES") + "\n\n")
	row := func(label, value string) {
		b.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("energy", fmt.Sprintf("%.5g  [%d/%d]", m.Energy(), m.cursor+1, len(m.energies)))
	p, ok := m.Pair()
	if !ok || !p.IsValid() {
		row("status", "n/a")
	} else {
		row("r", fmt.Sprintf("%.4f%+.4fi", real(p.R), imag(p.R)))
		row("t", fmt.Sprintf("%.4f%+.4fi", real(p.T), imag(p.T)))
		row("|r|²", fmt.Sprintf("%.5f", p.Reflection()))
		row("|t|²", fmt.Sprintf("%.5f", p.Transmission()))
		row("loss", fmt.Sprintf("%.5f", p.Loss()))
		b.WriteString("\n" + ProbabilityBar(p.Transmission(), p.Reflection(), 26) + "\n")
	}
	if m.failed > 0 {
		b.WriteString(ErrorText.Render(fmt.Sprintf("%d energies failed", m.failed)) + "\n")
	}
	return Panel.Width(30).Render(b.String())
}

func (m Explorer) viewPotential() string {
	re := make([]float64, len(m.v))
	im := make([]float64, len(m.v))
	lo, hi := 0.0, 0.0
	absorbing := false
	for i, vi := range m.v {
		re[i], im[i] = real(vi), imag(vi)
		lo = min(lo, re[i], im[i])
		hi = max(hi, re[i], im[i])
		absorbing = absorbing || im[i] != 0
	}
	c := NewCanvas(26, 6)
	c.Plot(re, lo, hi)
	if absorbing {
		c.Plot(im, lo, hi)
	}
	return Panel.Width(30).Render(Title.Render("POTENTIAL") + "\n" + c.String() +
		Subtle.Render(fmt.Sprintf("v in [%.3g, %.3g]", lo, hi)))
}

func (m Explorer) viewHelp() string {
	lines := []string{
		hint("←/→ h/l", "previous / next energy"),
		hint("PgUp/PgDn", "jump ten energies"),
		hint("Home/End", "first / last energy"),
		hint("Tab", "toggle incidence side"),
		hint("m", "toggle |ψ|² / Re ψ"),
		hint("q", "quit"),
	}
	return strings.Join(lines, "\n")
}

// RunExplorer opens the explorer for a config.
func RunExplorer(cfg *config.Config, reg *experiment.Registry) error {
	m, err := NewExplorerFromConfig(cfg, reg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
