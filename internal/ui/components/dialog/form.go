package dialog

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lazyvibe/propertydesk/internal/model"
	"github.com/lazyvibe/propertydesk/internal/ui/styles"
)

const problemRequired = "required"

// PropertyForm is the create/edit form. Text fields are typed; the
// category is picked from model.Categories.
type PropertyForm struct {
	title       string
	submitLabel string
	inputs      map[model.Field]textinput.Model
	category    model.Category
	required    []model.Field
	focus       int
	// attempted is set by the first submit; blank required fields are
	// flagged from then on.
	attempted bool
	submitted bool
	cancelled bool
	width     int
	height    int
	styles    Styles
}

// NewPropertyForm creates the form. required lists the fields that must
// not be blank.
func NewPropertyForm(required []model.Field) PropertyForm {
	inputs := make(map[model.Field]textinput.Model, len(model.Fields))
	for _, f := range model.Fields {
		if f == model.FieldCategory {
			continue
		}
		ti := textinput.New()
		ti.Placeholder = placeholder(f)
		ti.CharLimit = 256
		ti.Width = 40
		if f == model.FieldPrice {
			ti.CharLimit = 24
		}
		inputs[f] = ti
	}
	form := PropertyForm{
		title:       "Property",
		submitLabel: "OK",
		inputs:      inputs,
		required:    append([]model.Field(nil), required...),
		styles:      DefaultStyles(),
	}
	form.Reset()
	return form
}

func placeholder(f model.Field) string {
	switch f {
	case model.FieldName:
		return "Sunrise Villa"
	case model.FieldDescription:
		return "3 bed, garden, close to the station"
	case model.FieldPrice:
		return "2500000"
	case model.FieldImage:
		return "https://example.com/photo.jpg"
	}
	return ""
}

// SetSize updates the dialog dimensions.
func (d *PropertyForm) SetSize(width, height int) {
	d.width = width
	d.height = height
	for f, ti := range d.inputs {
		ti.Width = max(width-16, 20)
		d.inputs[f] = ti
	}
}

// Open shows the form with a heading, a submit label and initial values.
// Fields missing from values start blank.
func (d *PropertyForm) Open(title, submitLabel string, values map[model.Field]string) {
	d.Reset()
	d.title = title
	d.submitLabel = submitLabel
	for f, ti := range d.inputs {
		ti.SetValue(values[f])
		ti.CursorEnd()
		d.inputs[f] = ti
	}
	if c, err := model.ParseCategory(values[model.FieldCategory]); err == nil {
		d.category = c
	}
}

// Reset clears the values and answers and focuses the first field.
func (d *PropertyForm) Reset() {
	d.submitted = false
	d.cancelled = false
	d.attempted = false
	d.category = ""
	for f, ti := range d.inputs {
		ti.SetValue("")
		d.inputs[f] = ti
	}
	d.focus = 0
	d.updateFocus()
}

// Resume clears the submitted flag so the form can be submitted again,
// keeping the typed values.
func (d *PropertyForm) Resume() {
	d.submitted = false
}

// Update handles form keys.
func (d PropertyForm) Update(msg tea.Msg) (PropertyForm, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}
	switch km.String() {
	case "tab", "down":
		return d, d.move(1)
	case "shift+tab", "up":
		return d, d.move(-1)
	case "enter":
		d.attempted = true
		d.submitted = true
		return d, nil
	case "esc":
		d.cancelled = true
		return d, nil
	}

	f := d.Focused()
	if f == model.FieldCategory {
		d.chooseCategory(km)
		return d, nil
	}
	var cmd tea.Cmd
	d.inputs[f], cmd = d.inputs[f].Update(km)
	return d, cmd
}

// chooseCategory moves the category choice: arrows and space cycle, a
// letter jumps to the category it starts, backspace clears.
func (d *PropertyForm) chooseCategory(km tea.KeyMsg) {
	switch km.Type {
	case tea.KeyLeft:
		d.cycleCategory(-1)
	case tea.KeyRight, tea.KeySpace:
		d.cycleCategory(1)
	case tea.KeyBackspace, tea.KeyDelete:
		d.category = ""
	case tea.KeyRunes:
		for _, r := range km.Runes {
			for _, c := range model.Categories {
				if unicode.ToLower(rune(c[0])) == unicode.ToLower(r) {
					d.category = c
					break
				}
			}
		}
	}
}

func (d *PropertyForm) cycleCategory(delta int) {
	n := len(model.Categories)
	i := -1
	for j, c := range model.Categories {
		if c == d.category {
			i = j
		}
	}
	if i < 0 {
		if delta > 0 {
			i = n - 1
		} else {
			i = 0
		}
	}
	d.category = model.Categories[((i+delta)%n+n)%n]
}

func (d *PropertyForm) move(delta int) tea.Cmd {
	n := len(model.Fields)
	d.focus = ((d.focus+delta)%n + n) % n
	return d.updateFocus()
}

func (d *PropertyForm) updateFocus() tea.Cmd {
	var cmd tea.Cmd
	focused := d.Focused()
	for f, ti := range d.inputs {
		if f == focused {
			cmd = ti.Focus()
		} else {
			ti.Blur()
		}
		d.inputs[f] = ti
	}
	return cmd
}

// Focused returns the field with focus.
func (d PropertyForm) Focused() model.Field {
	return model.Fields[d.focus]
}

// Value returns the current value of f.
func (d PropertyForm) Value(f model.Field) string {
	if f == model.FieldCategory {
		return string(d.category)
	}
	return d.inputs[f].Value()
}

// Values returns every field value keyed by field.
func (d PropertyForm) Values() map[model.Field]string {
	out := make(map[model.Field]string, len(model.Fields))
	for _, f := range model.Fields {
		out[f] = d.Value(f)
	}
	return out
}

// Problems returns what is wrong with each field that has a problem: an
// unparsable price, and blank required fields once a submit was tried.
func (d PropertyForm) Problems() map[model.Field]string {
	out := make(map[model.Field]string)
	if d.attempted {
		for _, f := range d.required {
			if strings.TrimSpace(d.Value(f)) == "" {
				out[f] = problemRequired
			}
		}
	}
	if price := strings.TrimSpace(d.Value(model.FieldPrice)); price != "" {
		if _, err := model.ParsePrice(price); err != nil {
			out[model.FieldPrice] = err.Error()
		}
	}
	return out
}

// IsSubmitted returns true if the user submitted the form.
func (d PropertyForm) IsSubmitted() bool {
	return d.submitted
}

// IsCancelled returns true if the user cancelled the form.
func (d PropertyForm) IsCancelled() bool {
	return d.cancelled
}

// Title returns the heading.
func (d PropertyForm) Title() string {
	return d.title
}

// View renders the form centered on screen.
func (d PropertyForm) View() string {
	problems := d.Problems()
	focused := d.Focused()

	var b strings.Builder
	b.WriteString(d.styles.Title.Render(d.title))
	b.WriteString("\n\n")

	for _, f := range model.Fields {
		label := d.styles.Label
		if f == focused {
			label = d.styles.LabelFocused
		}
		b.WriteString(label.Render(f.Label()))
		b.WriteString("\n")

		if f == model.FieldCategory {
			b.WriteString(d.renderCategories(f == focused))
		} else {
			box := d.styles.Input
			switch {
			case problems[f] != "":
				box = d.styles.InputInvalid
			case f == focused:
				box = d.styles.InputFocused
			}
			b.WriteString(box.Render(d.inputs[f].View()))
		}
		b.WriteString("\n")

		if p := problems[f]; p != "" {
			b.WriteString(d.styles.Problem.Render("✗ " + p))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(d.styles.ButtonActive.Render(d.submitLabel))
	b.WriteString(d.styles.Button.Render("Cancel"))
	b.WriteString("\n")

	help := "Tab/↓: Next field • Enter: " + d.submitLabel + " • Esc: Cancel"
	if focused == model.FieldCategory {
		help = "←/→: Choose type • " + help
	}
	b.WriteString(d.styles.Help.Render(help))

	return center(d.styles.Box.Render(b.String()), d.width, d.height)
}

func (d PropertyForm) renderCategories(focused bool) string {
	chips := make([]string, 0, len(model.Categories))
	for _, c := range model.Categories {
		chip := d.styles.Choice
		mark := "○ "
		if c == d.category {
			mark = "● "
			chip = chip.Foreground(styles.CategoryColors[string(c)]).Bold(true)
			if focused {
				chip = chip.Underline(true)
			}
		}
		chips = append(chips, chip.Render(mark+string(c)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}
