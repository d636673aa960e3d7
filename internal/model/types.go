// Package model defines core data structures for PropertyDesk.
package model

import (
	"fmt"
	"strings"
)

// Category is the enumerated size label of a property.
type Category string

const (
	// CategorySmall is a small property (studio, 1BHK).
	CategorySmall Category = "Small"
	// CategoryMedium is a medium property.
	CategoryMedium Category = "Medium"
	// CategoryLarge is a large property (villa, plot).
	CategoryLarge Category = "Large"
)

// Categories is the fixed category enumeration in display order.
var Categories = []Category{CategorySmall, CategoryMedium, CategoryLarge}

// ParseCategory resolves a label case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (want one of Small, Medium, Large)", s)
}

// Valid reports whether c is part of the fixed enumeration.
func (c Category) Valid() bool {
	return c.index() >= 0
}

func (c Category) index() int {
	for i, v := range Categories {
		if v == c {
			return i
		}
	}
	return -1
}

// CategorySet is an immutable set over the fixed category enumeration.
// The zero value is the empty set. Labels outside the enumeration cannot
// be stored.
type CategorySet uint8

// NewCategorySet builds a set from labels, ignoring unknown ones.
func NewCategorySet(cats ...Category) CategorySet {
	var s CategorySet
	for _, c := range cats {
		s = s.With(c, true)
	}
	return s
}

// With returns a copy of the set with c included or excluded.
func (s CategorySet) With(c Category, on bool) CategorySet {
	i := c.index()
	if i < 0 {
		return s
	}
	if on {
		return s | 1<<i
	}
	return s &^ (1 << i)
}

// Has reports whether c is in the set.
func (s CategorySet) Has(c Category) bool {
	i := c.index()
	return i >= 0 && s&(1<<i) != 0
}

// Empty reports whether no category is selected.
func (s CategorySet) Empty() bool {
	return s == 0
}

// List returns the selected labels in enumeration order.
func (s CategorySet) List() []Category {
	out := make([]Category, 0, len(Categories))
	for _, c := range Categories {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Field names an editable property field.
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldPrice       Field = "price"
	FieldCategory    Field = "category"
	FieldImage       Field = "image"
)

// Fields lists editable fields in form order.
var Fields = []Field{FieldName, FieldDescription, FieldPrice, FieldCategory, FieldImage}

// InlineFields lists the fields editable in the table.
var InlineFields = []Field{FieldName, FieldDescription, FieldPrice, FieldCategory}

// Label returns the column/form label for the field.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Name"
	case FieldDescription:
		return "Description"
	case FieldPrice:
		return "Price"
	case FieldCategory:
		return "Property Type"
	case FieldImage:
		return "Image URL"
	}
	return string(f)
}
