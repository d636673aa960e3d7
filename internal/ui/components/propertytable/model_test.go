package propertytable

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazyvibe/propertydesk/internal/model"
	"github.com/lazyvibe/propertydesk/internal/panel"
)

func rows(editable string) []panel.Row {
	props := []model.Property{
		{ID: "1", Name: "Cottage", Description: "Garden", Price: 120000, Category: model.CategorySmall},
		{ID: "2", Name: "Mansion", Description: "Pool", Price: 9900000, Category: model.CategoryLarge},
		{ID: "3", Name: "Studio", Description: "Central", Price: 80000, Category: model.CategorySmall},
	}
	out := make([]panel.Row, len(props))
	for i, p := range props {
		out[i] = panel.Row{Property: p, Editable: p.ID == editable}
	}
	return out
}

func newTable() Model {
	m := New()
	m.SetSize(100, 20)
	m.SetFocused(true)
	return m
}

func TestSetRowsAndNavigation(t *testing.T) {
	m := newTable()
	m.SetRows(rows(""), nil)
	require.Equal(t, 3, m.ItemCount())
	assert.Equal(t, "1", m.SelectedID())

	assert.True(t, m.HandleKey("down"))
	assert.Equal(t, "2", m.SelectedID())
	assert.True(t, m.HandleKey("G"))
	assert.Equal(t, "3", m.SelectedID())
	assert.True(t, m.HandleKey("g"))
	assert.Equal(t, "1", m.SelectedID())
	assert.False(t, m.HandleKey("x"))
}

func TestSetRowsKeepsSelection(t *testing.T) {
	m := newTable()
	m.SetRows(rows(""), nil)
	m.HandleKey("down")
	m.HandleKey("down")

	reordered := rows("")
	reordered[0], reordered[2] = reordered[2], reordered[0]
	m.SetRows(reordered, nil)
	assert.Equal(t, "3", m.SelectedID())
}

func TestEditableRowShowsDrafts(t *testing.T) {
	m := newTable()
	draft := func(f model.Field) (string, bool) {
		if f == model.FieldPrice {
			return "130000", true
		}
		return "", false
	}
	m.SetRows(rows("1"), draft)

	out := ansi.Strip(m.View())
	assert.Contains(t, out, "130000")
	assert.Contains(t, out, "✎")
	assert.Contains(t, out, "₹9,900,000.00")
	assert.Contains(t, out, "Properties (3)")
}

func TestEmptyView(t *testing.T) {
	m := newTable()
	m.SetRows(nil, nil)
	_, ok := m.Selected()
	assert.False(t, ok)
	assert.Contains(t, ansi.Strip(m.View()), "No properties match")
}
