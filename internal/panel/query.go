// Package panel keeps the property panel's local view in step with the
// remote store: the active query, the cached result set, the inline edit
// session, the modal mutation workflow and the category aggregate.
package panel

import (
	"github.com/lazyvibe/propertydesk/internal/gateway"
	"github.com/lazyvibe/propertydesk/internal/model"
)

// Query is the immutable filter state. Every change produces a new value.
type Query struct {
	SearchTerm   string
	Filters      model.CategorySet
	PriceCeiling float64
}

// NewQuery returns an empty query with the ceiling at max.
func NewQuery(max float64) Query {
	return Query{PriceCeiling: max}
}

func (q Query) WithTerm(term string) Query {
	q.SearchTerm = term
	return q
}

func (q Query) WithCategory(c model.Category, on bool) Query {
	q.Filters = q.Filters.With(c, on)
	return q
}

func (q Query) WithPriceCeiling(v float64) Query {
	if v < 0 {
		v = 0
	}
	q.PriceCeiling = v
	return q
}

// Cleared resets the term and filters and moves the ceiling back to max.
func (q Query) Cleared(max float64) Query {
	return NewQuery(max)
}

// Request converts q into a gateway search. The ceiling is always sent;
// a ceiling of zero keeps only free listings.
func (q Query) Request() gateway.SearchRequest {
	ceiling := q.PriceCeiling
	return gateway.SearchRequest{
		Term:         q.SearchTerm,
		Filters:      q.Filters.List(),
		PriceCeiling: &ceiling,
	}
}
