// Package statusbar provides the status bar UI component.
package statusbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/lazyvibe/propertydesk/internal/ui/styles"
)

// Model is the status bar component.
type Model struct {
	width     int
	title     string
	message   string
	isError   bool
	bindings  []key.Binding
	rowCount  int
	modeLabel string
	spinner   string
}

// New creates a new status bar component.
func New() Model {
	return Model{}
}

// SetWidth updates the status bar width.
func (m *Model) SetWidth(width int) {
	m.width = width
}

// SetMessage sets a temporary message.
func (m *Model) SetMessage(msg string, isError bool) {
	m.title = ""
	m.message = msg
	m.isError = isError
}

// SetNotification shows a titled notification.
func (m *Model) SetNotification(title, msg string, isError bool) {
	m.title = title
	m.message = msg
	m.isError = isError
}

// ClearMessage clears the temporary message.
func (m *Model) ClearMessage() {
	m.title = ""
	m.message = ""
	m.isError = false
}

// Message returns the current message text.
func (m Model) Message() (string, bool) {
	if m.title != "" {
		return m.title + ": " + m.message, m.isError
	}
	return m.message, m.isError
}

// SetRowCount updates the number of listed properties.
func (m *Model) SetRowCount(count int) {
	m.rowCount = count
}

// SetModeLabel updates the current focus label.
func (m *Model) SetModeLabel(label string) {
	m.modeLabel = strings.ToUpper(strings.TrimSpace(label))
}

// SetBindings sets the key hints shown on the right.
func (m *Model) SetBindings(bindings []key.Binding) {
	m.bindings = bindings
}

// SetSpinner shows a loading indicator frame. Empty hides it.
func (m *Model) SetSpinner(frame string) {
	m.spinner = frame
}

// View renders the status bar.
func (m Model) View() string {
	brand := styles.StatusBarBrand.Render(" PropertyDesk ")

	modeLabel := m.modeLabel
	if modeLabel == "" {
		modeLabel = "TABLE"
	}
	modeBadge := lipgloss.NewStyle().
		Foreground(styles.Base).
		Background(styles.Accent).
		Bold(true).
		Padding(0, 1).
		Render(modeLabel)

	helpItems := make([]string, 0, len(m.bindings))
	for _, b := range m.bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		helpItems = append(helpItems, m.renderKey(h.Key, h.Desc))
	}
	help := strings.Join(helpItems, " ")

	countInfo := lipgloss.NewStyle().
		Foreground(styles.Secondary).
		Render(fmt.Sprintf(" %s %d properties ", styles.IconDot, m.rowCount))
	if m.spinner != "" {
		countInfo += lipgloss.NewStyle().Foreground(styles.Accent).Render(m.spinner + " loading ")
	}

	var msgArea string
	if text, isErr := m.Message(); text != "" {
		msgStyle := lipgloss.NewStyle().Foreground(styles.Success)
		if isErr {
			msgStyle = lipgloss.NewStyle().Foreground(styles.Danger).Bold(true)
		}
		msgArea = msgStyle.Render(" " + text + " ")
	}

	leftContent := brand + modeBadge + countInfo
	rightContent := help
	middleContent := msgArea

	leftWidth := lipgloss.Width(leftContent)
	rightWidth := lipgloss.Width(rightContent)
	middleWidth := lipgloss.Width(middleContent)

	// Drop the key hints before the message when space runs out.
	if leftWidth+rightWidth+middleWidth > m.width {
		rightContent = ""
		rightWidth = 0
	}

	padding := m.width - leftWidth - rightWidth - middleWidth
	if padding < 0 {
		padding = 0
	}
	leftPad := padding / 2
	rightPad := padding - leftPad

	content := leftContent +
		strings.Repeat(" ", leftPad) +
		middleContent +
		strings.Repeat(" ", rightPad) +
		rightContent

	return lipgloss.NewStyle().
		Background(styles.Mantle).
		Foreground(styles.TextMuted).
		Width(m.width).
		MaxWidth(m.width).
		Render(content)
}

// renderKey renders a key binding hint.
func (m Model) renderKey(key, desc string) string {
	return styles.StatusBarKey.Render(key) + styles.StatusBarDesc.Render(":"+desc)
}
