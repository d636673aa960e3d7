// Package styles defines the visual appearance for the PropertyDesk TUI.
// Using Catppuccin Mocha color palette for a modern, aesthetic look.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Catppuccin Mocha color palette
var (
	Pink     = lipgloss.Color("#F5C2E7")
	Mauve    = lipgloss.Color("#CBA6F7")
	Red      = lipgloss.Color("#F38BA8")
	Peach    = lipgloss.Color("#FAB387")
	Yellow   = lipgloss.Color("#F9E2AF")
	Green    = lipgloss.Color("#A6E3A1")
	Teal     = lipgloss.Color("#94E2D5")
	Sapphire = lipgloss.Color("#74C7EC")
	Blue     = lipgloss.Color("#89B4FA")

	// Surface colors
	Text     = lipgloss.Color("#CDD6F4")
	Subtext1 = lipgloss.Color("#BAC2DE")
	Subtext0 = lipgloss.Color("#A6ADC8")
	Overlay0 = lipgloss.Color("#6C7086")
	Surface1 = lipgloss.Color("#45475A")
	Surface0 = lipgloss.Color("#313244")
	Base     = lipgloss.Color("#1E1E2E")
	Mantle   = lipgloss.Color("#181825")
)

// Semantic colors (using the palette)
var (
	Primary     = Mauve
	Secondary   = Green
	Accent      = Sapphire
	Danger      = Red
	Warning     = Peach
	Success     = Green
	Info        = Blue
	SurfaceCol  = Surface0
	TextCol     = Text
	TextMuted   = Subtext0
	Border      = Surface1
	BorderFocus = Mauve
)

// CategoryColors colors chart bars and category badges.
var CategoryColors = map[string]lipgloss.Color{
	"Small":  Teal,
	"Medium": Yellow,
	"Large":  Pink,
}

// Base styles
var (
	// BorderStyle for panels
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border)

	// FocusedBorderStyle for focused panels
	FocusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(BorderFocus)

	// ErrorBorderStyle for the inline fetch error region
	ErrorBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Danger)
)

// Panel styles
var (
	// PanelTitle for panel headers
	PanelTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextCol).
			Padding(0, 1)

	// PanelTitleFocused for focused panel headers
	PanelTitleFocused = lipgloss.NewStyle().
				Bold(true).
				Foreground(Primary).
				Padding(0, 1)

	// PanelTitleIcon for icon prefix
	PanelTitleIcon = lipgloss.NewStyle().
			Foreground(Accent).
			MarginRight(1)
)

// List item styles
var (
	ListItemDim = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1)

	ListItemHighlight = lipgloss.NewStyle().
				Foreground(Accent).
				Bold(true).
				Padding(0, 1)

	// EditingRow marks the row under inline edit.
	EditingRow = lipgloss.NewStyle().
			Foreground(Base).
			Background(Peach).
			Bold(true)

	Placeholder = lipgloss.NewStyle().
			Foreground(TextMuted).
			Italic(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)
)

// StatusBar styles
var (
	StatusBarKey = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	StatusBarDesc = lipgloss.NewStyle().
			Foreground(Overlay0)

	StatusBarBrand = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)
)

// TruncateWithEllipsis truncates s to maxLen display cells with an
// ellipsis. ANSI sequences and wide runes are measured correctly.
func TruncateWithEllipsis(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return ansi.Truncate(s, maxLen, "")
	}
	return ansi.Truncate(s, maxLen, "...")
}

// Icons
var (
	IconProperty = "🏠"
	IconChart    = "📊"
	IconFilter   = "🔎"
	IconEdit     = "✎"
	IconChecked  = "[x]"
	IconUnchk    = "[ ]"
	IconDot      = "●"
)
