package panel

import (
	"github.com/lazyvibe/propertydesk/internal/gateway"
	"github.com/lazyvibe/propertydesk/internal/model"
)

// Source identifies which fetch last populated the cache.
type Source int

const (
	SourceNone Source = iota
	SourceSubscription
	SourceSearch
)

func (s Source) String() string {
	switch s {
	case SourceSubscription:
		return "subscription"
	case SourceSearch:
		return "search"
	}
	return "none"
}

// ResultCache is the local mirror of the last fetched record set.
//
// Every fetch is tagged with a sequence number when it is issued. Only a
// completion carrying the latest number is applied; anything older is
// dropped so a slow response can never overwrite a newer one.
type ResultCache struct {
	seq    uint64
	source Source
	query  Query

	rows    []model.Property
	hasRows bool
	failure gateway.Failure
	failed  bool
	loading bool
}

// Begin records a new fetch and returns its sequence number.
func (c *ResultCache) Begin(src Source, q Query) uint64 {
	c.seq++
	c.source = src
	c.query = q
	c.loading = true
	return c.seq
}

// Resolve applies a completion. It reports false when seq is stale.
// A failure discards the previous rows.
func (c *ResultCache) Resolve(seq uint64, rows []model.Property, err error) bool {
	if seq != c.seq {
		return false
	}
	c.loading = false
	if err != nil {
		c.rows, c.hasRows = nil, false
		c.failure, c.failed = gateway.FailureOf(err), true
		return true
	}
	if rows == nil {
		rows = []model.Property{}
	}
	c.rows, c.hasRows = rows, true
	c.failure, c.failed = gateway.Failure{}, false
	return true
}

// Seq returns the latest issued sequence number.
func (c *ResultCache) Seq() uint64 { return c.seq }

// Source returns the kind of the latest issued fetch.
func (c *ResultCache) Source() Source { return c.source }

// LastQuery returns the query of the latest issued fetch.
func (c *ResultCache) LastQuery() Query { return c.query }

// Rows returns the cached rows and whether any have been fetched.
func (c *ResultCache) Rows() ([]model.Property, bool) { return c.rows, c.hasRows }

// Failure returns the failure of the latest completion, if any.
func (c *ResultCache) Failure() (gateway.Failure, bool) { return c.failure, c.failed }

// Loading reports whether the latest fetch is still outstanding.
func (c *ResultCache) Loading() bool { return c.loading }

// Find returns the cached row with id.
func (c *ResultCache) Find(id string) (model.Property, bool) {
	for _, p := range c.rows {
		if p.ID == id {
			return p, true
		}
	}
	return model.Property{}, false
}
