package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/lazyvibe/propertydesk/internal/model"
	"github.com/lazyvibe/propertydesk/internal/panel"
	"github.com/lazyvibe/propertydesk/internal/ui/styles"
)

// View renders the entire application.
func (a App) View() string {
	if a.quitting {
		bye := lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Primary).
			Render("👋 Goodbye from PropertyDesk!")
		return lipgloss.NewStyle().
			Width(a.width).
			Height(a.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(bye)
	}

	if !a.ready {
		loading := lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Accent).
			Render("⚡ Loading PropertyDesk...")
		return lipgloss.NewStyle().
			Width(a.width).
			Height(a.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(loading)
	}

	if a.windowTooSmall() {
		msg := fmt.Sprintf("Window too small, need at least %dx%d (now %dx%d)", minAppWidth, minAppHeight, a.width, a.height)
		notice := lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Accent).
			Render(msg)
		return lipgloss.NewStyle().
			Width(a.width).
			Height(a.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(notice)
	}

	switch a.engine.Modal().Kind {
	case panel.ModalCreating, panel.ModalEditing:
		return a.form.View()
	case panel.ModalConfirmingDelete:
		return a.confirm.View()
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		a.filterBar.View(),
		a.chart.View(a.engine.ChartErr()),
	)

	sections := []string{lipgloss.JoinHorizontal(lipgloss.Top, left, a.renderResults())}
	if _, editing := a.engine.Editing(); editing {
		sections = append(sections, a.renderInlineEditor())
	}
	if a.help.ShowAll {
		sections = append(sections, a.help.View(a.keys))
	}
	sections = append(sections, a.statusBar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderResults shows the table, or the failure panel when the last fetch
// failed.
func (a App) renderResults() string {
	failure, failed := a.engine.Failure()
	if !failed {
		return a.table.View()
	}

	width := a.width - a.leftWidth()
	height := a.mainHeight()

	header := styles.PanelTitleIcon.Render("⚠") + styles.PanelTitle.Render("Could not load properties")
	body := styles.ErrorText.Render(failure.Message())
	hint := styles.ListItemDim.Render("Press 'r' to retry")

	content := lipgloss.NewStyle().
		Width(max(width-4, 1)).
		Height(max(height-4, 1)).
		Align(lipgloss.Center, lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center, header, "", body, "", hint))

	return styles.ErrorBorderStyle.
		Width(max(width-2, 1)).
		Height(max(height-2, 1)).
		Render(content)
}

// renderInlineEditor shows the field being edited in the selected row.
func (a App) renderInlineEditor() string {
	f := model.InlineFields[a.inlineField]
	label := styles.StatusBarKey.Render(fmt.Sprintf(" %s (%d/%d) ", f.Label(), a.inlineField+1, len(model.InlineFields)))
	return lipgloss.NewStyle().
		Width(a.width).
		MaxWidth(a.width).
		Render(label + " " + a.inline.View())
}
