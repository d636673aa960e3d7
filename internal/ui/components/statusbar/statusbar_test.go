package statusbar

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestViewShowsNotification(t *testing.T) {
	m := New()
	m.SetWidth(160)
	m.SetRowCount(3)
	m.SetModeLabel("filter")
	m.SetBindings([]key.Binding{key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))})
	m.SetNotification("Error deleting property", "locked", true)

	out := ansi.Strip(m.View())
	assert.Contains(t, out, "PropertyDesk")
	assert.Contains(t, out, "FILTER")
	assert.Contains(t, out, "3 properties")
	assert.Contains(t, out, "Error deleting property: locked")
	assert.Contains(t, out, "a:add")

	text, isErr := m.Message()
	assert.True(t, isErr)
	assert.Equal(t, "Error deleting property: locked", text)

	m.ClearMessage()
	text, _ = m.Message()
	assert.Empty(t, text)
}

func TestViewSpinner(t *testing.T) {
	m := New()
	m.SetWidth(120)
	m.SetSpinner("⠋")
	assert.Contains(t, ansi.Strip(m.View()), "loading")
}
