package panel

import (
	"unicode/utf8"

	"github.com/lazyvibe/propertydesk/internal/model"
)

// DefaultMinSearchLen is the shortest non-empty term that triggers a fetch.
const DefaultMinSearchLen = 3

// Composer applies the trigger policy. Each method returns the next query
// and whether a search must be issued for it.
type Composer struct {
	MinSearchLen int
	PriceMax     float64
}

// NewComposer returns a Composer. A minLen below 1 selects the default.
func NewComposer(minLen int, priceMax float64) Composer {
	if minLen < 1 {
		minLen = DefaultMinSearchLen
	}
	return Composer{MinSearchLen: minLen, PriceMax: priceMax}
}

// OnTerm handles a keystroke in the search input. Short partial terms
// update the query without fetching.
func (c Composer) OnTerm(q Query, term string) (Query, bool) {
	n := utf8.RuneCountInString(term)
	return q.WithTerm(term), n == 0 || n >= c.MinSearchLen
}

func (c Composer) OnCategory(q Query, cat model.Category, on bool) (Query, bool) {
	return q.WithCategory(cat, on), true
}

func (c Composer) OnPriceCeiling(q Query, v float64) (Query, bool) {
	if c.PriceMax > 0 && v > c.PriceMax {
		v = c.PriceMax
	}
	return q.WithPriceCeiling(v), true
}

// OnSearch handles the explicit search trigger.
func (c Composer) OnSearch(q Query) (Query, bool) {
	return q, true
}

// OnClear resets every filter.
func (c Composer) OnClear(q Query) (Query, bool) {
	return q.Cleared(c.PriceMax), true
}
