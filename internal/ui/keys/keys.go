// Package keys defines keyboard shortcuts for the PropertyDesk TUI.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Tab      key.Binding
	ShiftTab key.Binding
	Search   key.Binding

	// Filters
	ToggleSmall  key.Binding
	ToggleMedium key.Binding
	ToggleLarge  key.Binding
	PriceUp      key.Binding
	PriceDown    key.Binding
	Clear        key.Binding
	Refresh      key.Binding

	// Row actions
	InlineEdit key.Binding
	Edit       key.Binding
	Add        key.Binding
	Delete     key.Binding
	Save       key.Binding
	Cancel     key.Binding

	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default keyboard shortcuts.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		ToggleSmall: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "small"),
		),
		ToggleMedium: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "medium"),
		),
		ToggleLarge: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "large"),
		),
		PriceUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "max price up"),
		),
		PriceDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "max price down"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear filters"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "refresh"),
		),
		InlineEdit: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "inline edit"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Save: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns short help text for the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Search,
		k.InlineEdit,
		k.Add,
		k.Edit,
		k.Delete,
		k.Refresh,
		k.Help,
		k.Quit,
	}
}

// FullHelp returns complete help text.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Tab, k.Search},
		{k.ToggleSmall, k.ToggleMedium, k.ToggleLarge, k.PriceUp, k.PriceDown, k.Clear},
		{k.InlineEdit, k.Save, k.Cancel, k.Refresh},
		{k.Add, k.Edit, k.Delete, k.Help, k.Quit},
	}
}

// EditHelp returns the bindings active while a row is edited inline.
func (k KeyMap) EditHelp() []key.Binding {
	return []key.Binding{k.Tab, k.ShiftTab, k.Save, k.Cancel}
}
