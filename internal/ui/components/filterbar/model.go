// Package filterbar provides the search and filter controls.
package filterbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lazyvibe/propertydesk/internal/model"
	"github.com/lazyvibe/propertydesk/internal/panel"
	"github.com/lazyvibe/propertydesk/internal/ui/styles"
)

// PriceSteps is the number of increments on the price control.
const PriceSteps = 20

// Model is the filter bar component.
type Model struct {
	input    textinput.Model
	query    panel.Query
	priceMax float64
	width    int
	height   int
}

// New creates a filter bar for prices up to priceMax.
func New(priceMax float64) Model {
	ti := textinput.New()
	ti.Placeholder = "Search name or description"
	ti.Prompt = "› "
	ti.CharLimit = 128
	ti.Width = 30
	return Model{input: ti, priceMax: priceMax, query: panel.NewQuery(priceMax)}
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-8, 5)
}

// SetQuery mirrors the engine's query. The input keeps its text unless
// the term differs, such as after clearing.
func (m *Model) SetQuery(q panel.Query) {
	m.query = q
	if m.input.Value() != q.SearchTerm {
		m.input.SetValue(q.SearchTerm)
		m.input.CursorEnd()
	}
}

// Focus moves the cursor into the search input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur leaves the search input.
func (m *Model) Blur() {
	m.input.Blur()
}

// Focused reports whether the search input has focus.
func (m Model) Focused() bool {
	return m.input.Focused()
}

// Value returns the typed search term.
func (m Model) Value() string {
	return m.input.Value()
}

// Step returns the price control increment.
func (m Model) Step() float64 {
	return m.priceMax / PriceSteps
}

// Update forwards input to the search field.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the filter panel.
func (m Model) View() string {
	innerWidth := m.width - 4
	if innerWidth < 1 {
		innerWidth = 1
	}

	title := styles.PanelTitle.Render("Filters")
	if m.Focused() {
		title = styles.PanelTitleFocused.Render("Filters")
	}
	header := styles.PanelTitleIcon.Render(styles.IconFilter) + title

	lines := []string{header, strings.Repeat("─", innerWidth), m.input.View(), ""}

	lines = append(lines, styles.ListItemDim.Render("Property Type"))
	for i, c := range model.Categories {
		box := styles.IconUnchk
		style := lipgloss.NewStyle().Foreground(styles.TextMuted)
		if m.query.Filters.Has(c) {
			box = styles.IconChecked
			style = lipgloss.NewStyle().Foreground(styles.CategoryColors[string(c)]).Bold(true)
		}
		lines = append(lines, style.Render(fmt.Sprintf(" %d %s %s", i+1, box, c)))
	}

	lines = append(lines, "", styles.ListItemDim.Render("Max Price"), m.renderPrice(innerWidth))

	return styles.BorderStyle.
		Width(m.width - 2).
		Height(max(m.height-2, 1)).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderPrice(width int) string {
	label := model.FormatCurrency(m.query.PriceCeiling)
	barWidth := max(width-2, 1)
	filled := 0
	if m.priceMax > 0 {
		filled = int(m.query.PriceCeiling / m.priceMax * float64(barWidth))
	}
	filled = min(max(filled, 0), barWidth)
	bar := lipgloss.NewStyle().Foreground(styles.Accent).Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Foreground(styles.Border).Render(strings.Repeat("─", barWidth-filled))
	return " " + bar + "\n " + styles.ListItemHighlight.Render(label)
}
