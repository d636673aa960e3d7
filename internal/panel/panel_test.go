package panel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazyvibe/propertydesk/internal/model"
)

func prop(id, name string, c model.Category, price float64) model.Property {
	return model.Property{
		ID:          id,
		Name:        name,
		Description: name + " description",
		Price:       price,
		Category:    c,
		ImageURL:    "https://img.example/" + id + ".png",
	}
}

func TestQueryIsReplacedWholesale(t *testing.T) {
	q := NewQuery(1000)
	next := q.WithTerm("villa").WithCategory(model.CategoryLarge, true).WithPriceCeiling(500)

	assert.Equal(t, Query{PriceCeiling: 1000}, q)
	assert.Equal(t, "villa", next.SearchTerm)
	assert.True(t, next.Filters.Has(model.CategoryLarge))
	assert.Equal(t, 500.0, next.PriceCeiling)
	assert.Equal(t, q, next.Cleared(1000))
	assert.Equal(t, 0.0, q.WithPriceCeiling(-5).PriceCeiling)

	req := next.Request()
	assert.Equal(t, "villa", req.Term)
	assert.Equal(t, []model.Category{model.CategoryLarge}, req.Filters)
	require.NotNil(t, req.PriceCeiling)
	assert.Equal(t, 500.0, *req.PriceCeiling)

	floor := q.WithPriceCeiling(0).Request()
	require.NotNil(t, floor.PriceCeiling, "a zero ceiling is still a ceiling")
	assert.Zero(t, *floor.PriceCeiling)
}

func TestComposerTriggerPolicy(t *testing.T) {
	c := NewComposer(0, 1000)
	tests := []struct {
		term  string
		issue bool
	}{
		{"", true},
		{"a", false},
		{"ab", false},
		{"abc", true},
		{"abcd", true},
		{"日本", false},
		{"日本語", true},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			q, issue := c.OnTerm(NewQuery(1000), tt.term)
			assert.Equal(t, tt.issue, issue)
			assert.Equal(t, tt.term, q.SearchTerm)
		})
	}

	q := NewQuery(1000).WithTerm("ab")
	_, issue := c.OnCategory(q, model.CategorySmall, true)
	assert.True(t, issue)
	next, issue := c.OnPriceCeiling(q, 5000)
	assert.True(t, issue)
	assert.Equal(t, 1000.0, next.PriceCeiling, "ceiling is capped at max")
	_, issue = c.OnSearch(q)
	assert.True(t, issue)
	next, issue = c.OnClear(q.WithCategory(model.CategoryMedium, true))
	assert.True(t, issue)
	assert.Equal(t, NewQuery(1000), next)
}

func TestResultCacheDiscardsStaleCompletions(t *testing.T) {
	var c ResultCache
	first := c.Begin(SourceSearch, NewQuery(0).WithTerm("first"))
	second := c.Begin(SourceSearch, NewQuery(0).WithTerm("second"))

	assert.False(t, c.Resolve(first, []model.Property{prop("1", "Old", model.CategorySmall, 1)}, nil))
	assert.True(t, c.Loading(), "stale completion must not clear loading")

	require.True(t, c.Resolve(second, []model.Property{prop("2", "New", model.CategoryLarge, 2)}, nil))
	rows, ok := c.Rows()
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0].ID)
	assert.False(t, c.Loading())
	assert.Equal(t, "second", c.LastQuery().SearchTerm)
}

func TestResultCacheFailureDiscardsRows(t *testing.T) {
	var c ResultCache
	_, ok := c.Rows()
	assert.False(t, ok)
	_, failed := c.Failure()
	assert.False(t, failed)

	seq := c.Begin(SourceSubscription, Query{})
	require.True(t, c.Resolve(seq, nil, nil))
	rows, ok := c.Rows()
	assert.True(t, ok)
	assert.Empty(t, rows)

	seq = c.Begin(SourceSubscription, Query{})
	require.True(t, c.Resolve(seq, nil, errors.New("boom")))
	_, ok = c.Rows()
	assert.False(t, ok)
	f, failed := c.Failure()
	require.True(t, failed)
	assert.Equal(t, "boom", f.Message())
	assert.Equal(t, SourceSubscription, c.Source())
}

func TestEditSession(t *testing.T) {
	var s EditSession
	_, active := s.Active()
	assert.False(t, active)
	assert.Nil(t, s.Drafts())

	row := prop("1", "Villa", model.CategoryLarge, 900)
	s.Begin(row)
	assert.True(t, s.Editable("1"))
	assert.False(t, s.Editable("2"))

	v, ok := s.Draft(model.FieldPrice)
	require.True(t, ok)
	assert.Equal(t, "900", v)

	require.NoError(t, s.Update("1", model.FieldPrice, "950"))
	assert.ErrorIs(t, s.Update("2", model.FieldPrice, "1"), ErrNotEditing)
	assert.Error(t, s.Update("1", model.FieldImage, "x"))

	drafts := s.Drafts()
	require.Len(t, drafts, 1)
	assert.Equal(t, "1", drafts[0].ID)
	assert.Equal(t, "950", drafts[0].Fields[model.FieldPrice])
	assert.Equal(t, "Villa", drafts[0].Fields[model.FieldName])

	s.Begin(prop("2", "Studio", model.CategorySmall, 100))
	assert.False(t, s.Editable("1"), "a new session evicts the previous one")
	v, _ = s.Draft(model.FieldPrice)
	assert.Equal(t, "100", v)

	s.Clear()
	assert.False(t, s.Editable("2"))
	assert.ErrorIs(t, s.Update("2", model.FieldName, "x"), ErrNotEditing)
}

func TestWorkflowTransitions(t *testing.T) {
	var w Workflow
	assert.Equal(t, Closed(), w.State())

	require.NoError(t, w.RequestCreate())
	assert.Equal(t, Creating(), w.State())
	assert.ErrorIs(t, w.RequestDelete("1"), ErrInvalidTransition)
	assert.Equal(t, "Add New Property", w.State().Title())
	assert.Equal(t, "Add", w.State().SubmitLabel())

	w.Cancel()
	require.NoError(t, w.RequestEdit("7"))
	assert.Equal(t, Editing("7"), w.State())
	assert.Equal(t, "Edit Property", w.State().Title())
	assert.Equal(t, "Save", w.State().SubmitLabel())
	_, err := w.BeginDelete()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	w.Cancel()
	assert.ErrorIs(t, w.RequestEdit(""), ErrInvalidTransition)
	require.NoError(t, w.RequestDelete("42"))
	assert.Equal(t, "confirming-delete(42)", w.State().String())

	id, err := w.BeginDelete()
	require.NoError(t, err)
	assert.Equal(t, "42", id)
	_, err = w.BeginDelete()
	assert.ErrorIs(t, err, ErrInFlight)

	assert.True(t, w.Finish(w.Ticket(), errors.New("locked")))
	assert.Equal(t, ConfirmingDelete("42"), w.State())
	assert.False(t, w.InFlight())

	_, err = w.BeginDelete()
	require.NoError(t, err)
	assert.True(t, w.Finish(w.Ticket(), nil))
	assert.Equal(t, Closed(), w.State())
}

func TestWorkflowFinishIgnoresOtherModal(t *testing.T) {
	var w Workflow
	require.NoError(t, w.RequestCreate())
	_, err := w.BeginSubmit(map[model.Field]string{
		model.FieldName: "a", model.FieldDescription: "b", model.FieldPrice: "1",
		model.FieldCategory: "Small", model.FieldImage: "c",
	})
	require.NoError(t, err)
	ticket := w.Ticket()

	w.Cancel()
	require.NoError(t, w.RequestDelete("9"))
	assert.False(t, w.Finish(ticket, nil))
	assert.Equal(t, ConfirmingDelete("9"), w.State())
}

func TestWorkflowFinishIgnoresReopenedModal(t *testing.T) {
	var w Workflow
	require.NoError(t, w.RequestEdit("7"))
	_, err := w.BeginSubmit(map[model.Field]string{
		model.FieldName: "a", model.FieldDescription: "b", model.FieldPrice: "1",
		model.FieldCategory: "Small", model.FieldImage: "c",
	})
	require.NoError(t, err)
	stale := w.Ticket()

	w.Cancel()
	require.NoError(t, w.RequestEdit("7"))
	assert.Equal(t, stale.Modal, w.State())

	assert.False(t, w.Finish(stale, nil))
	assert.Equal(t, Editing("7"), w.State(), "the reopened form stays open")
	assert.False(t, w.InFlight())

	assert.True(t, w.Finish(w.Ticket(), nil))
	assert.Equal(t, Closed(), w.State())
}

func TestMissingFields(t *testing.T) {
	missing := MissingFields(map[model.Field]string{
		model.FieldName:  "Villa",
		model.FieldPrice: "  ",
	})
	assert.Equal(t, []string{"Description", "Price", "Property Type", "Image URL"}, missing)

	var w Workflow
	_, err := w.BeginSubmit(nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, w.RequestCreate())
	missing, err = w.BeginSubmit(map[model.Field]string{model.FieldName: "Villa"})
	require.NoError(t, err)
	assert.Len(t, missing, 4)
	assert.False(t, w.InFlight())
}

type recordingChart struct {
	updates []ChartData
	err     error
}

func (c *recordingChart) Update(d ChartData) error {
	c.updates = append(c.updates, d)
	return c.err
}

func TestCountCategories(t *testing.T) {
	rows := []model.Property{
		{ID: "1", Category: model.CategorySmall},
		{ID: "2", Category: model.CategoryLarge},
		{ID: "3", Category: model.CategorySmall},
	}
	counts := CountCategories(rows)
	assert.Equal(t, Counts{
		model.CategorySmall:  2,
		model.CategoryMedium: 0,
		model.CategoryLarge:  1,
	}, counts)
	assert.Equal(t, len(rows), counts.Total())

	empty := CountCategories(nil)
	assert.Len(t, empty, len(model.Categories))
	assert.Zero(t, empty.Total())

	assert.Equal(t, ChartData{
		Labels: []string{"Small", "Medium", "Large"},
		Values: []int{2, 0, 1},
	}, counts.Data())
}

func TestAggregateChartPolicy(t *testing.T) {
	chart := &recordingChart{}
	var built []ChartData
	a := NewAggregate(func(d ChartData) (Chart, error) {
		built = append(built, d)
		return chart, nil
	})

	a.Recompute([]model.Property{{Category: model.CategoryMedium}})
	assert.Empty(t, built, "nothing is drawn before the chart is ready")

	a.Ready(nil)
	require.Len(t, built, 1)
	assert.Equal(t, []int{0, 1, 0}, built[0].Values)

	a.Recompute([]model.Property{{Category: model.CategoryLarge}, {Category: model.CategoryLarge}})
	assert.Len(t, built, 1, "existing chart is updated in place")
	require.Len(t, chart.updates, 1)
	assert.Equal(t, []int{0, 0, 2}, chart.updates[0].Values)
	assert.Same(t, chart, a.Chart())
}

func TestAggregateChartFailures(t *testing.T) {
	t.Run("load failure", func(t *testing.T) {
		a := NewAggregate(func(ChartData) (Chart, error) {
			t.Fatal("chart must not be built after a load failure")
			return nil, nil
		})
		a.Ready(errors.New("no color support"))
		counts := a.Recompute([]model.Property{{Category: model.CategorySmall}})

		assert.EqualError(t, a.Err(), "no color support")
		assert.Equal(t, 1, counts[model.CategorySmall])
	})

	t.Run("construction failure", func(t *testing.T) {
		calls := 0
		a := NewAggregate(func(ChartData) (Chart, error) {
			calls++
			return nil, errors.New("too narrow")
		})
		a.Ready(nil)
		a.Recompute(nil)

		assert.Equal(t, 1, calls)
		assert.EqualError(t, a.Err(), "too narrow")
		assert.Nil(t, a.Chart())
	})
}
