// Package store provides persistence for the property records that the
// panel browses. It plays the part of the remote entity store.
package store

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/lazyvibe/propertydesk/internal/model"
)

var (
	// ErrNotFound is returned when a property is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when creating a duplicate property.
	ErrAlreadyExists = errors.New("already exists")
)

// ValidationErrors collects per-record problems from a write. Every entry
// is a user-facing message.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return strings.Join(v, "; ")
}

// Criteria filters a search.
type Criteria struct {
	// Term matches name or description, case-insensitively. Empty matches all.
	Term string
	// Categories restricts the category when not empty.
	Categories model.CategorySet
	// PriceCeiling is the inclusive maximum price. Nil means unbounded.
	PriceCeiling *float64
}

// AtMost returns a price ceiling of v.
func AtMost(v float64) *float64 {
	return &v
}

// Match reports whether p satisfies the criteria.
func (c Criteria) Match(p model.Property) bool {
	if term := strings.ToLower(strings.TrimSpace(c.Term)); term != "" {
		if !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			return false
		}
	}
	if !c.Categories.Empty() && !c.Categories.Has(p.Category) {
		return false
	}
	if c.PriceCeiling != nil && p.Price > *c.PriceCeiling {
		return false
	}
	return true
}

// FieldUpdate is a partial update of one property.
type FieldUpdate struct {
	ID     string
	Fields map[model.Field]string
}

// PropertyStore defines the interface for property persistence.
type PropertyStore interface {
	// List returns all properties sorted by name.
	List(ctx context.Context) ([]model.Property, error)
	// Get retrieves a property by its ID.
	Get(ctx context.Context, id string) (*model.Property, error)
	// Search returns the properties matching c sorted by name.
	Search(ctx context.Context, c Criteria) ([]model.Property, error)
	// Upsert creates the property when ID is empty, otherwise replaces it.
	// It returns the stored ID.
	Upsert(ctx context.Context, p *model.Property) (string, error)
	// UpdateFields applies all updates or none of them.
	UpdateFields(ctx context.Context, updates []FieldUpdate) error
	// Delete removes a property by its ID.
	Delete(ctx context.Context, id string) error
	// Revision increases after every successful write.
	Revision() uint64
	// Close releases any resources held by the store.
	Close() error
}

// applyUpdate patches p with u, returning the user-facing problems.
func applyUpdate(p *model.Property, u FieldUpdate) []string {
	var problems []string
	label := p.Name
	if label == "" {
		label = p.ID
	}
	for f, v := range u.Fields {
		if err := p.Set(f, v); err != nil {
			problems = append(problems, label+": "+err.Error())
		}
	}
	if len(problems) == 0 {
		if err := p.Validate(); err != nil {
			problems = append(problems, label+": "+err.Error())
		}
	}
	sort.Strings(problems)
	return problems
}

func sortProperties(props []model.Property) {
	sort.Slice(props, func(i, j int) bool {
		if props[i].Name != props[j].Name {
			return props[i].Name < props[j].Name
		}
		return props[i].ID < props[j].ID
	})
}
