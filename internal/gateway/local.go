package gateway

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/lazyvibe/propertydesk/internal/model"
	"github.com/lazyvibe/propertydesk/internal/store"
)

// Local serves the Gateway operations straight from a PropertyStore and
// wakes ListAll streams after every successful write.
type Local struct {
	store store.PropertyStore

	mu      sync.Mutex
	changed chan struct{}
}

// NewLocal creates a gateway over s.
func NewLocal(s store.PropertyStore) *Local {
	return &Local{
		store:   s,
		changed: make(chan struct{}),
	}
}

// Store returns the underlying store.
func (g *Local) Store() store.PropertyStore {
	return g.store
}

// notify wakes every waiter.
func (g *Local) notify() {
	g.mu.Lock()
	close(g.changed)
	g.changed = make(chan struct{})
	g.mu.Unlock()
}

// WaitForChange blocks until the store revision differs from since or ctx
// is done, and returns the revision observed last.
func (g *Local) WaitForChange(ctx context.Context, since uint64) uint64 {
	for {
		g.mu.Lock()
		ch := g.changed
		rev := g.store.Revision()
		g.mu.Unlock()
		if rev != since {
			return rev
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return rev
		}
	}
}

// ListAll streams the record set on subscription and after every change.
func (g *Local) ListAll(ctx context.Context) <-chan ListEvent {
	out := make(chan ListEvent)
	go func() {
		defer close(out)
		var rev uint64
		for {
			rev = g.store.Revision()
			rows, err := g.store.List(ctx)
			ev := ListEvent{Rows: rows, Revision: rev, Err: err}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
			if ctx.Err() != nil {
				return
			}
			g.WaitForChange(ctx, rev)
			if ctx.Err() != nil {
				return
			}
		}
	}()
	return out
}

// Search runs a filtered query against the store.
func (g *Local) Search(ctx context.Context, req SearchRequest) ([]model.Property, error) {
	return g.store.Search(ctx, store.Criteria{
		Term:         req.Term,
		Categories:   model.NewCategorySet(req.Filters...),
		PriceCeiling: req.PriceCeiling,
	})
}

// CreateOrUpdate builds or patches a record from field values.
func (g *Local) CreateOrUpdate(ctx context.Context, row RowUpdate) (string, error) {
	p := model.Property{}
	if row.ID != "" {
		existing, err := g.store.Get(ctx, row.ID)
		if err != nil {
			return "", err
		}
		p = *existing
	}

	var problems store.ValidationErrors
	for f, v := range row.Fields {
		if err := p.Set(f, v); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return "", problems
	}

	id, err := g.store.Upsert(ctx, &p)
	if err != nil {
		return "", err
	}
	slog.Debug("property saved", "id", id, "created", row.ID == "")
	g.notify()
	return id, nil
}

// BatchUpdate applies inline edits to several records.
func (g *Local) BatchUpdate(ctx context.Context, rows []RowUpdate) error {
	updates := make([]store.FieldUpdate, len(rows))
	for i, r := range rows {
		updates[i] = store.FieldUpdate{ID: r.ID, Fields: r.Fields}
	}
	if err := g.store.UpdateFields(ctx, updates); err != nil {
		return err
	}
	slog.Debug("properties updated", "count", len(rows))
	g.notify()
	return nil
}

// DeleteByID removes a record.
func (g *Local) DeleteByID(ctx context.Context, id string) error {
	if err := g.store.Delete(ctx, id); err != nil {
		return err
	}
	slog.Debug("property deleted", "id", id)
	g.notify()
	return nil
}
