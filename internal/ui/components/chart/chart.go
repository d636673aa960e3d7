// Package chart renders the category aggregate as horizontal bars.
package chart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/lazyvibe/propertydesk/internal/panel"
	"github.com/lazyvibe/propertydesk/internal/ui/styles"
)

// barGlyph draws one cell of a bar.
const barGlyph = "█"

// ErrMismatchedData is returned for labels and values of unequal length.
var ErrMismatchedData = errors.New("chart labels and values differ in length")

// Load checks that the terminal can draw bars. It is the chart's readiness
// step.
func Load() error {
	if ansi.StringWidth(barGlyph) != 1 {
		return fmt.Errorf("bar glyph %q is not single-width", barGlyph)
	}
	return nil
}

// Model is a bar chart. A *Model satisfies panel.Chart.
type Model struct {
	data    panel.ChartData
	built   bool
	redraws int
	width   int
	height  int
}

// New creates an empty chart.
func New() *Model {
	return &Model{}
}

// Factory returns a panel.ChartFactory that builds m on first draw.
func (m *Model) Factory() panel.ChartFactory {
	return func(data panel.ChartData) (panel.Chart, error) {
		if err := m.Update(data); err != nil {
			return nil, err
		}
		m.built = true
		return m, nil
	}
}

// Update replaces the chart data.
func (m *Model) Update(data panel.ChartData) error {
	if len(data.Labels) != len(data.Values) {
		return ErrMismatchedData
	}
	m.data = panel.ChartData{
		Labels: append([]string(nil), data.Labels...),
		Values: append([]int(nil), data.Values...),
	}
	m.redraws++
	return nil
}

// Built reports whether the chart has been constructed.
func (m *Model) Built() bool { return m.built }

// Data returns the current data.
func (m *Model) Data() panel.ChartData { return m.data }

// SetSize updates the component dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the chart panel. err is a chart load failure shown in place
// of the bars.
func (m *Model) View(err error) string {
	innerWidth := m.width - 4
	if innerWidth < 1 {
		innerWidth = 1
	}

	header := styles.PanelTitleIcon.Render(styles.IconChart) + styles.PanelTitle.Render("By Type")

	var body string
	switch {
	case err != nil:
		body = styles.ErrorText.Render(styles.TruncateWithEllipsis("Chart unavailable: "+err.Error(), innerWidth))
	case !m.built:
		body = styles.Placeholder.Render("Loading chart...")
	default:
		body = m.renderBars(innerWidth)
	}

	height := m.height - 2
	if height < 1 {
		height = 1
	}
	return styles.BorderStyle.
		Width(m.width - 2).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			header,
			strings.Repeat("─", innerWidth),
			body,
		))
}

func (m *Model) renderBars(width int) string {
	labelWidth := 0
	maxValue := 0
	for i, l := range m.data.Labels {
		labelWidth = max(labelWidth, ansi.StringWidth(l))
		maxValue = max(maxValue, m.data.Values[i])
	}
	countWidth := len(fmt.Sprint(maxValue))
	barSpace := width - labelWidth - countWidth - 2
	if barSpace < 1 {
		barSpace = 1
	}

	lines := make([]string, 0, len(m.data.Labels))
	for i, label := range m.data.Labels {
		v := m.data.Values[i]
		n := 0
		if maxValue > 0 {
			n = v * barSpace / maxValue
		}
		if v > 0 && n == 0 {
			n = 1
		}
		color, ok := styles.CategoryColors[label]
		if !ok {
			color = styles.Accent
		}
		bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat(barGlyph, n))
		lines = append(lines, fmt.Sprintf("%-*s %s %d", labelWidth, label, bar, v))
	}
	return strings.Join(lines, "\n")
}
