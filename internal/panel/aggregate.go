package panel

import (
	"log/slog"

	"github.com/lazyvibe/propertydesk/internal/model"
)

// Counts maps every fixed category to the number of cached rows in it.
type Counts map[model.Category]int

// Total sums all counts.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// ChartData is the payload handed to a chart.
type ChartData struct {
	Labels []string
	Values []int
}

// Data orders c by the fixed category enumeration.
func (c Counts) Data() ChartData {
	d := ChartData{
		Labels: make([]string, len(model.Categories)),
		Values: make([]int, len(model.Categories)),
	}
	for i, cat := range model.Categories {
		d.Labels[i] = string(cat)
		d.Values[i] = c[cat]
	}
	return d
}

// Chart is a constructed chart whose data can be replaced in place.
type Chart interface {
	Update(ChartData) error
}

// ChartFactory constructs a chart from its first data set.
type ChartFactory func(ChartData) (Chart, error)

// CountCategories tallies rows per category. Every category is present.
func CountCategories(rows []model.Property) Counts {
	counts := make(Counts, len(model.Categories))
	for _, cat := range model.Categories {
		counts[cat] = 0
	}
	for _, p := range rows {
		if _, ok := counts[p.Category]; ok {
			counts[p.Category]++
		}
	}
	return counts
}

// Aggregate derives category counts from the cache and keeps a chart in
// step with them once the chart collaborator is ready.
type Aggregate struct {
	counts  Counts
	factory ChartFactory
	chart   Chart
	ready   bool
	err     error
}

// NewAggregate returns an Aggregate drawing through factory. A nil factory
// only keeps counts.
func NewAggregate(factory ChartFactory) *Aggregate {
	return &Aggregate{counts: CountCategories(nil), factory: factory}
}

// Recompute replaces the counts from rows and redraws.
func (a *Aggregate) Recompute(rows []model.Property) Counts {
	a.counts = CountCategories(rows)
	a.draw()
	return a.counts
}

// Ready records that the chart collaborator finished loading. A load error
// is kept and disables drawing without affecting counts.
func (a *Aggregate) Ready(err error) {
	a.ready = true
	if err != nil {
		slog.Warn("chart unavailable", "error", err)
		a.err = err
		return
	}
	a.draw()
}

func (a *Aggregate) draw() {
	if !a.ready || a.err != nil || a.factory == nil {
		return
	}
	data := a.counts.Data()
	if a.chart != nil {
		if err := a.chart.Update(data); err != nil {
			slog.Warn("chart update failed", "error", err)
		}
		return
	}
	chart, err := a.factory(data)
	if err != nil {
		slog.Warn("chart construction failed", "error", err)
		a.err = err
		return
	}
	a.chart = chart
}

// Counts returns the latest counts.
func (a *Aggregate) Counts() Counts { return a.counts }

// Err returns the chart load or construction error.
func (a *Aggregate) Err() error { return a.err }

// Chart returns the constructed chart, if any.
func (a *Aggregate) Chart() Chart { return a.chart }
