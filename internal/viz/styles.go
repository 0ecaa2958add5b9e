package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(12)

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	Key = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00aaaa")).
		Bold(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff4444")).
			Bold(true)

	// Probability bars: transmission, reflection, loss.
	TransmitColor = lipgloss.NewStyle().Foreground(lipgloss.Color("#636bab"))
	ReflectColor  = lipgloss.NewStyle().Foreground(lipgloss.Color("#d6568f"))
	LossColor     = lipgloss.NewStyle().Foreground(lipgloss.Color("#f59a53"))

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// ProbabilityBar splits width cells between |t|², |r|² and the loss. Negative
// or non-finite fractions render as empty.
func ProbabilityBar(t, r float64, width int) string {
	cells := func(p float64) int {
		if math.IsNaN(p) || p <= 0 {
			return 0
		}
		return min(int(math.Round(p*float64(width))), width)
	}
	nt := cells(t)
	nr := min(cells(r), width-nt)
	nl := width - nt - nr
	return TransmitColor.Render(strings.Repeat("█", nt)) +
		ReflectColor.Render(strings.Repeat("█", nr)) +
		LossColor.Render(strings.Repeat("░", nl))
}

// SparklineChart renders a mini sparkline from values in [0, 1].
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		v := values[i*step]
		if math.IsNaN(v) {
			result.WriteString(Subtle.Render("·"))
			continue
		}
		v = math.Max(0, math.Min(1, v))
		c := chars[int(v*float64(len(chars)-1))]
		switch {
		case v > 0.7:
			result.WriteString(SparkHigh.Render(string(c)))
		case v > 0.3:
			result.WriteString(SparkMid.Render(string(c)))
		default:
			result.WriteString(SparkLow.Render(string(c)))
		}
	}

	return result.String()
}

func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return Subtle.Render(left + " ◆ " + right)
}

func hint(key, label string) string {
	return Key.Render(key) + Subtle.Render(" "+label+"  ")
}
