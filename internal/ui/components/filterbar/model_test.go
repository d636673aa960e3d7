package filterbar

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/lazyvibe/propertydesk/internal/model"
	"github.com/lazyvibe/propertydesk/internal/panel"
)

func TestTypingUpdatesValue(t *testing.T) {
	m := New(1000000)
	m.SetSize(40, 20)
	m.Focus()
	assert.True(t, m.Focused())

	for _, r := range "vil" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	assert.Equal(t, "vil", m.Value())

	m.Blur()
	assert.False(t, m.Focused())
}

func TestSetQueryRendersFilters(t *testing.T) {
	m := New(1000000)
	m.SetSize(40, 20)
	m.SetQuery(panel.NewQuery(1000000).
		WithTerm("villa").
		WithCategory(model.CategoryMedium, true).
		WithPriceCeiling(250000))

	assert.Equal(t, "villa", m.Value())
	out := ansi.Strip(m.View())
	assert.Contains(t, out, "2 [x] Medium")
	assert.Contains(t, out, "1 [ ] Small")
	assert.Contains(t, out, "₹250,000.00")
	assert.Equal(t, 50000.0, m.Step())

	m.SetQuery(panel.NewQuery(1000000))
	assert.Empty(t, m.Value())
}
