package ui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lazyvibe/propertydesk/internal/model"
	"github.com/lazyvibe/propertydesk/internal/panel"
)

// Update handles all messages for the application.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := a.update(msg)
	next.sync()
	return next, tea.Batch(cmd, next.flushNotifications())
}

func (a App) update(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetSize(msg.Width, msg.Height)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case notificationsSentMsg:
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a.quit()
		}
		// While a modal is open, keys belong to its dialog.
		switch a.engine.Modal().Kind {
		case panel.ModalCreating, panel.ModalEditing:
			return a.handleFormKeys(msg)
		case panel.ModalConfirmingDelete:
			return a.handleConfirmKeys(msg)
		}
		if _, editing := a.engine.Editing(); editing {
			return a.handleInlineKeys(msg)
		}
		if a.focus == FocusFilter {
			return a.handleFilterKeys(msg)
		}
		return a.handleTableKeys(msg)
	}

	return a, a.engine.Update(msg)
}

func (a App) quit() (App, tea.Cmd) {
	a.quitting = true
	a.engine.Close()
	return a, tea.Quit
}

// handleFilterKeys routes keys typed into the search input.
func (a App) handleFilterKeys(msg tea.KeyMsg) (App, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel), key.Matches(msg, a.keys.Tab), key.Matches(msg, a.keys.ShiftTab):
		return a, a.setFocus(FocusTable)
	case key.Matches(msg, a.keys.Save):
		return a, a.engine.Search()
	}

	before := a.filterBar.Value()
	var cmd tea.Cmd
	a.filterBar, cmd = a.filterBar.Update(msg)
	if term := a.filterBar.Value(); term != before {
		return a, tea.Batch(cmd, a.engine.SetSearchTerm(term))
	}
	return a, cmd
}

// handleTableKeys handles keys while the table has focus.
func (a App) handleTableKeys(msg tea.KeyMsg) (App, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a.quit()

	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil

	case key.Matches(msg, a.keys.Search), key.Matches(msg, a.keys.Tab), key.Matches(msg, a.keys.ShiftTab):
		return a, a.setFocus(FocusFilter)

	case key.Matches(msg, a.keys.Up), key.Matches(msg, a.keys.Down):
		a.table.HandleKey(msg.String())
		return a, nil

	case key.Matches(msg, a.keys.ToggleSmall):
		return a, a.engine.ToggleCategory(model.CategorySmall)
	case key.Matches(msg, a.keys.ToggleMedium):
		return a, a.engine.ToggleCategory(model.CategoryMedium)
	case key.Matches(msg, a.keys.ToggleLarge):
		return a, a.engine.ToggleCategory(model.CategoryLarge)

	case key.Matches(msg, a.keys.PriceUp):
		return a, a.engine.SetPriceCeiling(a.engine.Query().PriceCeiling + a.filterBar.Step())
	case key.Matches(msg, a.keys.PriceDown):
		return a, a.engine.SetPriceCeiling(a.engine.Query().PriceCeiling - a.filterBar.Step())

	case key.Matches(msg, a.keys.Clear):
		return a, a.engine.ClearFilters()

	case key.Matches(msg, a.keys.Refresh):
		a.statusBar.ClearMessage()
		return a, a.engine.Refresh()

	case key.Matches(msg, a.keys.InlineEdit):
		id := a.table.SelectedID()
		if id == "" {
			return a, nil
		}
		return a, a.startInlineEdit(id)

	case key.Matches(msg, a.keys.Add):
		if err := a.engine.RequestCreate(); err != nil {
			a.statusBar.SetMessage(err.Error(), true)
			return a, nil
		}
		a.showForm()
		return a, nil

	case key.Matches(msg, a.keys.Edit):
		id := a.table.SelectedID()
		if id == "" {
			return a, nil
		}
		if err := a.engine.RequestEdit(id); err != nil {
			a.statusBar.SetMessage(err.Error(), true)
			return a, nil
		}
		a.showForm()
		return a, nil

	case key.Matches(msg, a.keys.Delete):
		row, ok := a.table.Selected()
		if !ok {
			return a, nil
		}
		if err := a.engine.RequestDelete(row.ID); err != nil {
			a.statusBar.SetMessage(err.Error(), true)
			return a, nil
		}
		a.confirm.Open("Are you sure you want to delete \"" + row.Name + "\"?")
		return a, nil
	}

	a.table.HandleKey(msg.String())
	return a, nil
}

// handleInlineKeys drives the inline editor of the row under edit.
func (a App) handleInlineKeys(msg tea.KeyMsg) (App, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.engine.CancelEdit()
		return a, nil
	case key.Matches(msg, a.keys.Tab):
		a.cycleInlineField(1)
		return a, nil
	case key.Matches(msg, a.keys.ShiftTab):
		a.cycleInlineField(-1)
		return a, nil
	case key.Matches(msg, a.keys.Save):
		a.commitInlineField()
		return a, a.engine.SaveEdit()
	}

	var cmd tea.Cmd
	a.inline, cmd = a.inline.Update(msg)
	a.commitInlineField()
	return a, cmd
}

// handleFormKeys drives the create/edit form.
func (a App) handleFormKeys(msg tea.KeyMsg) (App, tea.Cmd) {
	var cmd tea.Cmd
	a.form, cmd = a.form.Update(msg)

	if a.form.IsCancelled() {
		a.engine.CancelModal()
		a.form.Reset()
		return a, nil
	}
	if !a.form.IsSubmitted() {
		return a, cmd
	}

	// The form stays interactive until the engine closes the modal.
	a.form.Resume()
	submit, err := a.engine.Submit(a.form.Values())
	if err != nil {
		if errors.Is(err, panel.ErrInFlight) {
			a.statusBar.SetMessage("Saving, please wait", false)
		} else {
			a.statusBar.SetMessage(err.Error(), true)
		}
		return a, cmd
	}
	return a, tea.Batch(cmd, submit)
}

// handleConfirmKeys drives the delete confirmation.
func (a App) handleConfirmKeys(msg tea.KeyMsg) (App, tea.Cmd) {
	var cmd tea.Cmd
	a.confirm, cmd = a.confirm.Update(msg)

	if a.confirm.IsCancelled() {
		a.engine.CancelModal()
		return a, nil
	}
	if !a.confirm.IsConfirmed() {
		return a, cmd
	}

	a.confirm.Resume()
	del, err := a.engine.ConfirmDelete()
	if err != nil {
		if errors.Is(err, panel.ErrInFlight) {
			a.statusBar.SetMessage("Deleting, please wait", false)
		} else {
			a.statusBar.SetMessage(err.Error(), true)
		}
		return a, cmd
	}
	return a, tea.Batch(cmd, del)
}
