package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lazyvibe/propertydesk/internal/gateway"
	"github.com/lazyvibe/propertydesk/internal/model"
	"github.com/lazyvibe/propertydesk/internal/notify"
	"github.com/lazyvibe/propertydesk/internal/panel"
	"github.com/lazyvibe/propertydesk/internal/ui/components/chart"
	"github.com/lazyvibe/propertydesk/internal/ui/components/dialog"
	"github.com/lazyvibe/propertydesk/internal/ui/components/filterbar"
	"github.com/lazyvibe/propertydesk/internal/ui/components/propertytable"
	"github.com/lazyvibe/propertydesk/internal/ui/components/statusbar"
	"github.com/lazyvibe/propertydesk/internal/ui/keys"
	"github.com/lazyvibe/propertydesk/internal/ui/styles"
)

// FocusArea represents which UI pane has focus.
type FocusArea int

const (
	// FocusTable is the property table pane.
	FocusTable FocusArea = iota
	// FocusFilter is the search input.
	FocusFilter
)

const (
	minAppWidth  = 60
	minAppHeight = 18

	// filterHeight fits the search input, three checkboxes and the price bar.
	filterHeight = 16
)

// Options configures the application.
type Options struct {
	Gateway      gateway.Gateway
	Dispatcher   *notify.Dispatcher
	PriceMax     float64
	MinSearchLen int
	Context      context.Context
}

// App is the main application model.
type App struct {
	// Components
	filterBar filterbar.Model
	table     propertytable.Model
	chart     *chart.Model
	statusBar statusbar.Model
	form      dialog.PropertyForm
	confirm   dialog.ConfirmDialog
	inline    textinput.Model
	spinner   spinner.Model
	help      help.Model

	// State
	focus       FocusArea
	inlineField int
	width       int
	height      int
	ready       bool
	quitting    bool

	// Dependencies
	engine     *panel.Engine
	toasts     *toastQueue
	dispatcher *notify.Dispatcher
	keys       keys.KeyMap
	ctx        context.Context
}

// New creates a new application instance.
func New(opts Options) App {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	toasts := &toastQueue{}
	barChart := chart.New()
	engine := panel.NewEngine(panel.Options{
		Gateway:      opts.Gateway,
		Notifier:     toasts,
		Chart:        barChart.Factory(),
		LoadChart:    chart.Load,
		MinSearchLen: opts.MinSearchLen,
		PriceMax:     opts.PriceMax,
		Context:      ctx,
	})

	inline := textinput.New()
	inline.Prompt = styles.IconEdit + " "
	inline.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Accent)

	status := statusbar.New()
	status.SetModeLabel("TABLE")

	km := keys.DefaultKeyMap()
	status.SetBindings(km.ShortHelp())

	table := propertytable.New()
	table.SetFocused(true)

	return App{
		filterBar:  filterbar.New(engine.PriceMax()),
		table:      table,
		chart:      barChart,
		statusBar:  status,
		form:       dialog.NewPropertyForm(panel.RequiredFields),
		confirm:    dialog.NewConfirmDialog("Delete Property", "Delete"),
		inline:     inline,
		spinner:    sp,
		help:       help.New(),
		focus:      FocusTable,
		engine:     engine,
		toasts:     toasts,
		dispatcher: opts.Dispatcher,
		keys:       km,
		ctx:        ctx,
	}
}

// Init initializes the application.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.engine.Init(), a.spinner.Tick)
}

// Engine exposes the panel state.
func (a App) Engine() *panel.Engine {
	return a.engine
}

// SetSize updates the application dimensions.
func (a *App) SetSize(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.layout()
}

// layout distributes the window among the panes.
func (a *App) layout() {
	leftWidth := a.leftWidth()
	rightWidth := a.width - leftWidth

	mainHeight := a.mainHeight()
	top := min(filterHeight, mainHeight/2)

	a.filterBar.SetSize(leftWidth, top)
	a.chart.SetSize(leftWidth, mainHeight-top)
	a.table.SetSize(rightWidth, mainHeight)
	a.statusBar.SetWidth(a.width)
	a.help.Width = a.width
	a.inline.Width = max(rightWidth-24, 10)

	dialogWidth := max(a.width*60/100, 50)
	a.form.SetSize(dialogWidth, a.height)
	a.confirm.SetSize(a.width, a.height)
}

// leftWidth is the width of the filter and chart column.
func (a App) leftWidth() int {
	w := a.width * 30 / 100
	if w < 28 {
		w = 28
	}
	if w > 44 {
		w = 44
	}
	return w
}

// mainHeight is the height left for the panes.
func (a App) mainHeight() int {
	h := a.height - 1
	if _, editing := a.engine.Editing(); editing {
		h--
	}
	if a.help.ShowAll {
		h -= fullHelpHeight(a.keys)
	}
	return max(h, 4)
}

// fullHelpHeight is the number of lines the expanded help takes.
func fullHelpHeight(k keys.KeyMap) int {
	rows := 0
	for _, group := range k.FullHelp() {
		rows = max(rows, len(group))
	}
	return rows
}

func (a App) windowTooSmall() bool {
	return a.width < minAppWidth || a.height < minAppHeight
}

// sync copies engine state into the components after every update.
func (a *App) sync() {
	rows := a.engine.Rows()
	a.table.SetRows(rows, a.engine.Draft)
	a.filterBar.SetQuery(a.engine.Query())

	if _, editing := a.engine.Editing(); !editing && a.inline.Focused() {
		a.inline.Blur()
		a.inline.SetValue("")
	}

	a.statusBar.SetRowCount(len(rows))
	a.statusBar.SetModeLabel(a.modeLabel())
	a.statusBar.SetBindings(a.bindings())
	if a.engine.Loading() || a.engine.Busy() {
		a.statusBar.SetSpinner(a.spinner.View())
	} else {
		a.statusBar.SetSpinner("")
	}

	a.layout()
}

func (a App) modeLabel() string {
	if a.engine.Modal().Kind != panel.ModalClosed {
		return "MODAL"
	}
	if _, editing := a.engine.Editing(); editing {
		return "EDIT"
	}
	if a.focus == FocusFilter {
		return "FILTER"
	}
	return "TABLE"
}

func (a App) bindings() []key.Binding {
	if _, editing := a.engine.Editing(); editing {
		return a.keys.EditHelp()
	}
	return a.keys.ShortHelp()
}

// flushNotifications shows the latest engine notification in the status
// bar and forwards the batch to the dispatcher.
func (a *App) flushNotifications() tea.Cmd {
	batch := a.toasts.drain()
	if len(batch) == 0 {
		return nil
	}
	last := batch[len(batch)-1]
	a.statusBar.SetNotification(last.Title, last.Message, last.IsError())
	return dispatchCmd(a.ctx, a.dispatcher, batch)
}

// setFocus moves focus between the filter input and the table.
func (a *App) setFocus(area FocusArea) tea.Cmd {
	a.focus = area
	a.table.SetFocused(area == FocusTable)
	if area == FocusFilter {
		return a.filterBar.Focus()
	}
	a.filterBar.Blur()
	return nil
}

// showForm prepares the property form for the open modal.
func (a *App) showForm() {
	modal := a.engine.Modal()
	var values map[model.Field]string
	if modal.Kind == panel.ModalEditing {
		if p, ok := a.engine.Find(modal.TargetID); ok {
			values = p.Values()
		}
	}
	a.form.Open(modal.Title(), modal.SubmitLabel(), values)
}

// startInlineEdit opens the inline editor on the first editable field.
func (a *App) startInlineEdit(id string) tea.Cmd {
	if err := a.engine.BeginEdit(id); err != nil {
		a.statusBar.SetMessage(err.Error(), true)
		return nil
	}
	a.inlineField = 0
	a.loadInlineField()
	return a.inline.Focus()
}

// loadInlineField shows the draft of the current inline field.
func (a *App) loadInlineField() {
	f := model.InlineFields[a.inlineField]
	value, _ := a.engine.Draft(f)
	a.inline.Placeholder = f.Label()
	a.inline.SetValue(value)
	a.inline.CursorEnd()
}

// commitInlineField writes the inline input into the draft.
func (a *App) commitInlineField() {
	id, editing := a.engine.Editing()
	if !editing {
		return
	}
	f := model.InlineFields[a.inlineField]
	if err := a.engine.UpdateDraft(id, f, a.inline.Value()); err != nil {
		a.statusBar.SetMessage(err.Error(), true)
	}
}

// cycleInlineField commits the current field and moves by delta.
func (a *App) cycleInlineField(delta int) {
	a.commitInlineField()
	n := len(model.InlineFields)
	a.inlineField = ((a.inlineField+delta)%n + n) % n
	a.loadInlineField()
}
