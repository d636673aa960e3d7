// Package propertytable provides the property table UI component.
package propertytable

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/lazyvibe/propertydesk/internal/model"
	"github.com/lazyvibe/propertydesk/internal/panel"
	"github.com/lazyvibe/propertydesk/internal/ui/styles"
)

// DraftFunc returns the pending inline value of a field, if any.
type DraftFunc func(model.Field) (string, bool)

const (
	markWidth  = 2
	priceWidth = 16
	typeWidth  = 8
)

// Model is the property table component.
type Model struct {
	table   table.Model
	rows    []panel.Row
	editing string
	focused bool
	width   int
	height  int
}

// New creates a new property table component.
func New() Model {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithRows(nil),
	)
	m := Model{table: t}
	m.applyStyles()
	return m
}

func columns(width int) []table.Column {
	rest := width - markWidth - priceWidth - typeWidth - 10
	if rest < 20 {
		rest = 20
	}
	name := rest * 2 / 5
	return []table.Column{
		{Title: "", Width: markWidth},
		{Title: model.FieldName.Label(), Width: name},
		{Title: model.FieldDescription.Label(), Width: rest - name},
		{Title: model.FieldPrice.Label(), Width: priceWidth},
		{Title: "Type", Width: typeWidth},
	}
}

func (m *Model) applyStyles() {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Border).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.TextMuted)
	s.Selected = lipgloss.NewStyle().
		Foreground(styles.TextCol).
		Background(styles.SurfaceCol).
		Bold(true)
	if !m.focused {
		s.Selected = s.Selected.Background(styles.Surface1).Bold(false)
	}
	if m.editing != "" {
		s.Selected = styles.EditingRow
	}
	m.table.SetStyles(s)
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	innerWidth := width - 4
	m.table.SetColumns(columns(innerWidth))
	m.table.SetWidth(innerWidth)
	m.table.SetHeight(m.tableHeight())
}

func (m Model) tableHeight() int {
	h := m.height - 4 - detailHeight - 1
	if h < 3 {
		h = 3
	}
	return h
}

// SetFocused updates the focus state.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
	if focused {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
	m.applyStyles()
}

// IsFocused returns whether the component is focused.
func (m Model) IsFocused() bool {
	return m.focused
}

// SetRows replaces the rows. The row marked editable shows draft values.
// The cursor stays on the same property when it is still present.
func (m *Model) SetRows(rows []panel.Row, draft DraftFunc) {
	selected := m.SelectedID()
	m.rows = rows
	m.editing = ""

	tableRows := make([]table.Row, len(rows))
	cursor := 0
	for i, r := range rows {
		if r.ID == selected {
			cursor = i
		}
		values := r.Values()
		mark := ""
		if r.Editable {
			m.editing = r.ID
			mark = styles.IconEdit
			if draft != nil {
				for _, f := range model.InlineFields {
					if v, ok := draft(f); ok {
						values[f] = v
					}
				}
			}
		}
		tableRows[i] = table.Row{
			mark,
			values[model.FieldName],
			values[model.FieldDescription],
			priceCell(r.Property, values[model.FieldPrice], r.Editable),
			values[model.FieldCategory],
		}
	}
	m.table.SetRows(tableRows)
	if len(rows) > 0 {
		m.table.SetCursor(cursor)
	}
	m.applyStyles()
}

// priceCell shows stored prices as currency and drafts verbatim.
func priceCell(p model.Property, value string, editing bool) string {
	if editing {
		return value
	}
	return model.FormatCurrency(p.Price)
}

// Selected returns the row under the cursor.
func (m Model) Selected() (panel.Row, bool) {
	c := m.table.Cursor()
	if c >= 0 && c < len(m.rows) {
		return m.rows[c], true
	}
	return panel.Row{}, false
}

// SelectedID returns the ID of the row under the cursor.
func (m Model) SelectedID() string {
	if r, ok := m.Selected(); ok {
		return r.ID
	}
	return ""
}

// ItemCount returns the number of rows.
func (m Model) ItemCount() int {
	return len(m.rows)
}

// HandleKey processes a navigation key.
func (m *Model) HandleKey(key string) bool {
	switch key {
	case "up", "k":
		m.table.MoveUp(1)
		return true
	case "down", "j":
		m.table.MoveDown(1)
		return true
	case "home", "g":
		m.table.GotoTop()
		return true
	case "end", "G":
		m.table.GotoBottom()
		return true
	}
	return false
}

// detailHeight is the number of lines below the table.
const detailHeight = 3

// View renders the table panel.
func (m Model) View() string {
	innerWidth := m.width - 4
	if innerWidth < 1 {
		innerWidth = 1
	}

	icon := styles.PanelTitleIcon.Render(styles.IconProperty)
	title := "Properties"
	if m.focused {
		title = styles.PanelTitleFocused.Render(title)
	} else {
		title = styles.PanelTitle.Render(title)
	}
	header := icon + title + " " + styles.ListItemDim.Render(fmt.Sprintf("(%d)", len(m.rows)))

	var body string
	if len(m.rows) == 0 {
		body = lipgloss.NewStyle().Height(m.tableHeight()).Render(lipgloss.JoinVertical(lipgloss.Left,
			"",
			styles.Placeholder.Render("No properties match"),
			styles.ListItemDim.Render("Press 'a' to add one or 'c' to clear filters"),
		))
	} else {
		body = m.table.View()
	}

	borderStyle := styles.BorderStyle
	if m.focused {
		borderStyle = styles.FocusedBorderStyle
	}
	return borderStyle.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			header,
			body,
			strings.Repeat("─", innerWidth),
			m.renderDetails(innerWidth),
		))
}

func (m Model) renderDetails(width int) string {
	labelStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(styles.TextCol)

	r, ok := m.Selected()
	if !ok {
		return lipgloss.NewStyle().Height(detailHeight).Render(labelStyle.Render("No property selected"))
	}
	lines := []string{
		renderDetailLine(labelStyle, valueStyle, "Description: ", r.Description, width),
		renderDetailLine(labelStyle, valueStyle, "Image: ", r.ImageURL, width),
		renderDetailLine(labelStyle, valueStyle, "Price: ", model.FormatCurrency(r.Price), width),
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(detailHeight).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderDetailLine(labelStyle, valueStyle lipgloss.Style, label, value string, width int) string {
	if width < 1 {
		return ""
	}
	labelRendered := labelStyle.Render(label)
	avail := width - lipgloss.Width(labelRendered)
	if avail < 0 {
		avail = 0
	}
	return labelRendered + valueStyle.Render(styles.TruncateWithEllipsis(value, avail))
}
