// Package dialog provides the modal dialogs of the property panel: the
// create/edit property form and the delete confirmation.
package dialog

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lazyvibe/propertydesk/internal/ui/styles"
)

// Styles defines the visual appearance of the dialogs.
type Styles struct {
	Box          lipgloss.Style
	Title        lipgloss.Style
	Label        lipgloss.Style
	LabelFocused lipgloss.Style
	Input        lipgloss.Style
	InputFocused lipgloss.Style
	InputInvalid lipgloss.Style
	Problem      lipgloss.Style
	Choice       lipgloss.Style
	Button       lipgloss.Style
	ButtonActive lipgloss.Style
	Help         lipgloss.Style
}

// DefaultStyles returns the dialog styles in the panel palette.
func DefaultStyles() Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.Primary).
			Background(styles.Base).
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Accent).
			Background(styles.Base).
			Padding(0, 1).
			MarginBottom(1),

		Label: lipgloss.NewStyle().
			Foreground(styles.Overlay0),

		LabelFocused: lipgloss.NewStyle().
			Foreground(styles.Pink).
			Bold(true),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.Surface0).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.Primary).
			Padding(0, 1),

		InputInvalid: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.Danger).
			Padding(0, 1),

		Problem: lipgloss.NewStyle().
			Foreground(styles.Danger).
			PaddingLeft(1),

		Choice: lipgloss.NewStyle().
			Foreground(styles.Overlay0).
			Padding(0, 1).
			MarginRight(1),

		Button: lipgloss.NewStyle().
			Foreground(styles.Overlay0).
			Background(styles.Surface0).
			Padding(0, 2).
			MarginRight(1),

		ButtonActive: lipgloss.NewStyle().
			Foreground(styles.Text).
			Background(styles.Primary).
			Bold(true).
			Padding(0, 2).
			MarginRight(1),

		Help: lipgloss.NewStyle().
			Foreground(styles.Overlay0).
			MarginTop(1),
	}
}

// center places content in the middle of a width x height area.
func center(content string, width, height int) string {
	if width <= 0 || height <= 0 {
		return content
	}
	padX := max((width-lipgloss.Width(content))/2, 0)
	padY := max((height-lipgloss.Height(content))/2, 0)
	return lipgloss.NewStyle().
		MarginLeft(padX).
		MarginTop(padY).
		Render(content)
}
