// Package gateway is the boundary through which the panel reads and writes
// the authoritative property store.
package gateway

import (
	"context"

	"github.com/lazyvibe/propertydesk/internal/model"
)

// ListEvent is one emission of a ListAll stream: either the full current
// record set or a failure.
type ListEvent struct {
	Rows     []model.Property
	Revision uint64
	Err      error
}

// SearchRequest is a one-shot filtered query.
type SearchRequest struct {
	Term         string           `json:"term"`
	Filters      []model.Category `json:"filters"`
	PriceCeiling *float64         `json:"price_ceiling,omitempty"`
}

// RowUpdate carries field values for one property. An empty ID on
// CreateOrUpdate creates a new record.
type RowUpdate struct {
	ID     string                 `json:"id,omitempty"`
	Fields map[model.Field]string `json:"fields"`
}

// Gateway defines the remote operations consumed by the panel.
type Gateway interface {
	// ListAll streams the full record set, then one set per store change,
	// until ctx is cancelled. The channel is closed when the stream ends.
	ListAll(ctx context.Context) <-chan ListEvent
	// Search runs a filtered query.
	Search(ctx context.Context, req SearchRequest) ([]model.Property, error)
	// CreateOrUpdate upserts one record and returns its ID.
	CreateOrUpdate(ctx context.Context, row RowUpdate) (string, error)
	// BatchUpdate applies field changes to several records at once.
	BatchUpdate(ctx context.Context, rows []RowUpdate) error
	// DeleteByID removes a record.
	DeleteByID(ctx context.Context, id string) error
}
