package dialog

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmDialog asks a yes/no question. The destructive choice is never
// preselected.
type ConfirmDialog struct {
	title     string
	message   string
	yesLabel  string
	yes       bool
	confirmed bool
	cancelled bool
	width     int
	height    int
	styles    Styles
}

// NewConfirmDialog creates a confirmation dialog.
func NewConfirmDialog(title, yesLabel string) ConfirmDialog {
	return ConfirmDialog{
		title:    title,
		yesLabel: yesLabel,
		styles:   DefaultStyles(),
	}
}

// SetSize updates the dialog dimensions.
func (d *ConfirmDialog) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// Open shows message and resets the previous answer.
func (d *ConfirmDialog) Open(message string) {
	d.message = message
	d.yes = false
	d.confirmed = false
	d.cancelled = false
}

// Update handles confirmation keys.
func (d ConfirmDialog) Update(msg tea.Msg) (ConfirmDialog, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}
	switch km.String() {
	case "left", "right", "tab", "h", "l":
		d.yes = !d.yes
	case "y":
		d.confirmed = true
	case "n", "esc":
		d.cancelled = true
	case "enter":
		if d.yes {
			d.confirmed = true
		} else {
			d.cancelled = true
		}
	}
	return d, nil
}

// IsConfirmed returns true once the user accepted.
func (d ConfirmDialog) IsConfirmed() bool {
	return d.confirmed
}

// IsCancelled returns true once the user declined.
func (d ConfirmDialog) IsCancelled() bool {
	return d.cancelled
}

// Resume clears the answer so a failed action can be confirmed again.
func (d *ConfirmDialog) Resume() {
	d.confirmed = false
	d.cancelled = false
}

// View renders the dialog centered on screen.
func (d ConfirmDialog) View() string {
	var b strings.Builder
	b.WriteString(d.styles.Title.Render(d.title))
	b.WriteString("\n\n")
	b.WriteString(d.message)
	b.WriteString("\n\n")

	yes, no := d.styles.Button, d.styles.ButtonActive
	if d.yes {
		yes, no = d.styles.ButtonActive, d.styles.Button
	}
	b.WriteString(yes.Render(d.yesLabel))
	b.WriteString(no.Render("Cancel"))
	b.WriteString("\n")
	b.WriteString(d.styles.Help.Render("y: " + d.yesLabel + " • n/Esc: Cancel • ←/→: Choose"))

	return center(d.styles.Box.Render(b.String()), d.width, d.height)
}
