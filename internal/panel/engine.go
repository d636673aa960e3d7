package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lazyvibe/propertydesk/internal/gateway"
	"github.com/lazyvibe/propertydesk/internal/model"
	"github.com/lazyvibe/propertydesk/internal/notify"
)

// ErrUnknownRow is returned when an action targets a row that is not in
// the current result set.
var ErrUnknownRow = errors.New("row not in result set")

// Notification texts.
const (
	titleSuccess    = "Success"
	titleError      = "Error"
	titleSaveError  = "Error updating or reloading properties"
	titleFormError  = "Error saving property"
	titleDeleteErr  = "Error deleting property"
	msgSaved        = "Properties updated"
	msgFormSaved    = "Property saved successfully"
	msgDeleted      = "Property deleted successfully"
	msgMissingField = "Please fill all required fields: "
)

// Notifier presents notifications.
type Notifier interface {
	Notify(notify.Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(notify.Notification)

func (f NotifierFunc) Notify(n notify.Notification) { f(n) }

// Row is a cached record plus its derived edit flag.
type Row struct {
	model.Property
	Editable bool
}

// Options configures an Engine.
type Options struct {
	Gateway  gateway.Gateway
	Notifier Notifier

	// Chart constructs the chart on first draw. Nil keeps counts only.
	Chart ChartFactory

	// LoadChart prepares the chart collaborator. Nil means ready at once.
	LoadChart func() error

	MinSearchLen int
	PriceMax     float64
	Context      context.Context
}

// Engine owns the panel state. All mutation happens on the bubbletea
// update goroutine through the methods below and Update; remote calls
// run inside returned commands and come back as messages.
type Engine struct {
	gw        gateway.Gateway
	notifier  Notifier
	loadChart func() error
	composer  Composer

	query     Query
	cache     ResultCache
	edit      EditSession
	workflow  Workflow
	aggregate *Aggregate

	ctx          context.Context
	cancel       context.CancelFunc
	stream       <-chan gateway.ListEvent
	streamSeq    uint64
	streamCancel context.CancelFunc
}

// NewEngine creates an Engine. Call Init to open the subscription.
func NewEngine(opts Options) *Engine {
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	composer := NewComposer(opts.MinSearchLen, opts.PriceMax)
	return &Engine{
		gw:        opts.Gateway,
		notifier:  opts.Notifier,
		loadChart: opts.LoadChart,
		composer:  composer,
		query:     NewQuery(composer.PriceMax),
		aggregate: NewAggregate(opts.Chart),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init opens the list subscription and loads the chart collaborator.
func (e *Engine) Init() tea.Cmd {
	return tea.Batch(e.Subscribe(), e.chartCmd())
}

// Close stops the subscription and every outstanding call.
func (e *Engine) Close() {
	e.cancel()
}

func (e *Engine) chartCmd() tea.Cmd {
	load := e.loadChart
	return safeCmd(func() tea.Msg {
		if load == nil {
			return ChartReadyMsg{}
		}
		return ChartReadyMsg{Err: load()}
	}, func(err error) tea.Msg {
		return ChartReadyMsg{Err: err}
	})
}

// Subscribe replaces any open subscription with a new ListAll stream that
// owns the cache.
func (e *Engine) Subscribe() tea.Cmd {
	e.stopStream()
	seq := e.cache.Begin(SourceSubscription, e.query)
	ctx, cancel := context.WithCancel(e.ctx)
	e.stream = e.gw.ListAll(ctx)
	e.streamSeq = seq
	e.streamCancel = cancel
	return waitForList(seq, e.stream)
}

func (e *Engine) stopStream() {
	if e.streamCancel != nil {
		e.streamCancel()
	}
	e.stream, e.streamSeq, e.streamCancel = nil, 0, nil
}

// Refresh re-issues the latest fetch without touching the query.
func (e *Engine) Refresh() tea.Cmd {
	if e.cache.Source() == SourceSearch {
		return e.search(e.cache.LastQuery())
	}
	return e.Subscribe()
}

func (e *Engine) search(q Query) tea.Cmd {
	e.stopStream()
	seq := e.cache.Begin(SourceSearch, q)
	req := q.Request()
	gw, ctx := e.gw, e.ctx
	slog.Debug("search issued", "seq", seq, "term", req.Term, "filters", req.Filters, "max", q.PriceCeiling)
	return safeCmd(func() tea.Msg {
		rows, err := gw.Search(ctx, req)
		return SearchResultMsg{Seq: seq, Rows: rows, Err: err}
	}, func(err error) tea.Msg {
		return SearchResultMsg{Seq: seq, Err: err}
	})
}

func (e *Engine) setQuery(q Query, issue bool) tea.Cmd {
	e.query = q
	if !issue {
		return nil
	}
	return e.search(q)
}

// SetSearchTerm handles a keystroke in the search input.
func (e *Engine) SetSearchTerm(term string) tea.Cmd {
	return e.setQuery(e.composer.OnTerm(e.query, term))
}

// SetCategory turns one category filter on or off.
func (e *Engine) SetCategory(c model.Category, on bool) tea.Cmd {
	return e.setQuery(e.composer.OnCategory(e.query, c, on))
}

// ToggleCategory flips one category filter.
func (e *Engine) ToggleCategory(c model.Category) tea.Cmd {
	return e.SetCategory(c, !e.query.Filters.Has(c))
}

// SetPriceCeiling moves the price range control.
func (e *Engine) SetPriceCeiling(v float64) tea.Cmd {
	return e.setQuery(e.composer.OnPriceCeiling(e.query, v))
}

// Search fires the explicit search trigger.
func (e *Engine) Search() tea.Cmd {
	return e.setQuery(e.composer.OnSearch(e.query))
}

// ClearFilters resets the query and searches again.
func (e *Engine) ClearFilters() tea.Cmd {
	return e.setQuery(e.composer.OnClear(e.query))
}

// BeginEdit puts the row with id into inline edit mode.
func (e *Engine) BeginEdit(id string) error {
	row, ok := e.cache.Find(id)
	if !ok {
		return fmt.Errorf("edit %s: %w", id, ErrUnknownRow)
	}
	e.edit.Begin(row)
	return nil
}

// UpdateDraft changes a pending value of the row under edit.
func (e *Engine) UpdateDraft(id string, f model.Field, value string) error {
	return e.edit.Update(id, f, value)
}

// CancelEdit drops the edit session without contacting the store.
func (e *Engine) CancelEdit() {
	e.edit.Clear()
}

// SaveEdit saves the active session's draft.
func (e *Engine) SaveEdit() tea.Cmd {
	return e.Save(e.edit.Drafts())
}

// Save sends drafts as one batch update.
func (e *Engine) Save(drafts []gateway.RowUpdate) tea.Cmd {
	if len(drafts) == 0 {
		return nil
	}
	gw, ctx := e.gw, e.ctx
	return safeCmd(func() tea.Msg {
		return SaveResultMsg{Rows: drafts, Err: gw.BatchUpdate(ctx, drafts)}
	}, func(err error) tea.Msg {
		return SaveResultMsg{Rows: drafts, Err: err}
	})
}

// RequestCreate opens the create form.
func (e *Engine) RequestCreate() error {
	return e.workflow.RequestCreate()
}

// RequestEdit opens the full edit form for a cached row.
func (e *Engine) RequestEdit(id string) error {
	if _, ok := e.cache.Find(id); !ok {
		return fmt.Errorf("edit %s: %w", id, ErrUnknownRow)
	}
	return e.workflow.RequestEdit(id)
}

// RequestDelete opens the delete confirmation for id.
func (e *Engine) RequestDelete(id string) error {
	return e.workflow.RequestDelete(id)
}

// CancelModal closes any open modal.
func (e *Engine) CancelModal() {
	e.workflow.Cancel()
}

// Submit validates the form and, when complete, sends it to the store.
// Missing fields produce an error notification and no call.
func (e *Engine) Submit(fields map[model.Field]string) (tea.Cmd, error) {
	missing, err := e.workflow.BeginSubmit(fields)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		e.notify(notify.Error(titleError, msgMissingField+strings.Join(missing, ", ")))
		return nil, nil
	}

	ticket := e.workflow.Ticket()
	row := gateway.RowUpdate{ID: ticket.Modal.TargetID, Fields: maps.Clone(fields)}
	gw, ctx := e.gw, e.ctx
	return safeCmd(func() tea.Msg {
		id, err := gw.CreateOrUpdate(ctx, row)
		return SubmitResultMsg{Ticket: ticket, ID: id, Err: err}
	}, func(err error) tea.Msg {
		return SubmitResultMsg{Ticket: ticket, ID: row.ID, Err: err}
	}), nil
}

// ConfirmDelete deletes the record awaiting confirmation.
func (e *Engine) ConfirmDelete() (tea.Cmd, error) {
	id, err := e.workflow.BeginDelete()
	if err != nil {
		return nil, err
	}
	ticket := e.workflow.Ticket()
	gw, ctx := e.gw, e.ctx
	return safeCmd(func() tea.Msg {
		return DeleteResultMsg{Ticket: ticket, ID: id, Err: gw.DeleteByID(ctx, id)}
	}, func(err error) tea.Msg {
		return DeleteResultMsg{Ticket: ticket, ID: id, Err: err}
	}), nil
}

// Update applies engine messages and returns follow-up commands. Other
// messages are ignored.
func (e *Engine) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ListEventMsg:
		if msg.Seq != e.streamSeq || e.stream == nil {
			return nil
		}
		if msg.Closed {
			e.stream = nil
			return nil
		}
		e.resolve(msg.Seq, msg.Event.Rows, msg.Event.Err)
		return waitForList(msg.Seq, e.stream)

	case SearchResultMsg:
		e.resolve(msg.Seq, msg.Rows, msg.Err)
		return nil

	case SaveResultMsg:
		if msg.Err != nil {
			slog.Warn("inline save failed", "rows", len(msg.Rows), "error", msg.Err)
			e.notify(notify.Error(titleSaveError, gateway.FailureOf(msg.Err).Message()))
			return nil
		}
		e.edit.Clear()
		e.notify(notify.Success(titleSuccess, msgSaved))
		return e.Refresh()

	case SubmitResultMsg:
		current := e.workflow.Finish(msg.Ticket, msg.Err)
		if msg.Err != nil {
			slog.Warn("form submit failed", "modal", msg.Ticket.Modal.String(), "current", current, "error", msg.Err)
			e.notify(notify.Error(titleFormError, gateway.FailureOf(msg.Err).Message()))
			return nil
		}
		e.notify(notify.Success(titleSuccess, msgFormSaved))
		return e.Refresh()

	case DeleteResultMsg:
		e.workflow.Finish(msg.Ticket, msg.Err)
		if msg.Err != nil {
			slog.Warn("delete failed", "id", msg.ID, "error", msg.Err)
			e.notify(notify.Error(titleDeleteErr, gateway.FailureOf(msg.Err).Message()))
			return nil
		}
		e.notify(notify.Success(titleSuccess, msgDeleted))
		return e.Refresh()

	case ChartReadyMsg:
		e.aggregate.Ready(msg.Err)
		return nil
	}
	return nil
}

// resolve applies a fetch completion. Replacing the rows ends any inline
// edit session and recomputes the aggregate.
func (e *Engine) resolve(seq uint64, rows []model.Property, err error) {
	if !e.cache.Resolve(seq, rows, err) {
		slog.Debug("discarding stale fetch result", "seq", seq, "latest", e.cache.Seq())
		return
	}
	if err != nil {
		slog.Warn("fetch failed", "source", e.cache.Source().String(), "error", err)
	}
	e.edit.Clear()
	current, _ := e.cache.Rows()
	e.aggregate.Recompute(current)
}

func (e *Engine) notify(n notify.Notification) {
	if e.notifier != nil {
		e.notifier.Notify(n)
	}
}

// Query returns the current query.
func (e *Engine) Query() Query { return e.query }

// PriceMax returns the upper bound of the price control.
func (e *Engine) PriceMax() float64 { return e.composer.PriceMax }

// Rows returns the cached rows with their derived edit flag, or nil when
// no rows are available.
func (e *Engine) Rows() []Row {
	cached, _ := e.cache.Rows()
	if cached == nil {
		return nil
	}
	rows := make([]Row, len(cached))
	for i, p := range cached {
		rows[i] = Row{Property: p, Editable: e.edit.Editable(p.ID)}
	}
	return rows
}

// Find returns the cached record with id.
func (e *Engine) Find(id string) (model.Property, bool) { return e.cache.Find(id) }

// Failure returns the fetch failure shown instead of the table.
func (e *Engine) Failure() (gateway.Failure, bool) { return e.cache.Failure() }

// Loading reports whether the latest fetch is outstanding.
func (e *Engine) Loading() bool { return e.cache.Loading() }

// Source returns what currently owns the cache.
func (e *Engine) Source() Source { return e.cache.Source() }

// Editing returns the row under inline edit.
func (e *Engine) Editing() (string, bool) { return e.edit.Active() }

// Draft returns a pending inline value.
func (e *Engine) Draft(f model.Field) (string, bool) { return e.edit.Draft(f) }

// Drafts returns the active inline session as a batch.
func (e *Engine) Drafts() []gateway.RowUpdate { return e.edit.Drafts() }

// Modal returns the modal state.
func (e *Engine) Modal() ModalState { return e.workflow.State() }

// Busy reports whether the modal has a call outstanding.
func (e *Engine) Busy() bool { return e.workflow.InFlight() }

// Counts returns the aggregate counts.
func (e *Engine) Counts() Counts { return e.aggregate.Counts() }

// ChartErr returns the chart failure, if any.
func (e *Engine) ChartErr() error { return e.aggregate.Err() }
