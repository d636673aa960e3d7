package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Property is a listed real-estate record owned by the entity store.
type Property struct {
	// ID is the stable unique identifier.
	ID string `json:"id" yaml:"id,omitempty"`
	// Name is the listing title.
	Name string `json:"name" yaml:"name"`
	// Description is free text shown in the table.
	Description string `json:"description" yaml:"description"`
	// Price in rupees, never negative.
	Price float64 `json:"price" yaml:"price"`
	// Category is the size label.
	Category Category `json:"category" yaml:"category"`
	// ImageURL references the listing picture.
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	// UpdatedAt is the Unix timestamp of the last write.
	UpdatedAt int64 `json:"updated_at" yaml:"-"`
}

// Touch updates the UpdatedAt timestamp to now.
func (p *Property) Touch() {
	p.UpdatedAt = time.Now().Unix()
}

// Value returns the display string of field f.
func (p Property) Value(f Field) string {
	switch f {
	case FieldName:
		return p.Name
	case FieldDescription:
		return p.Description
	case FieldPrice:
		return FormatPrice(p.Price)
	case FieldCategory:
		return string(p.Category)
	case FieldImage:
		return p.ImageURL
	}
	return ""
}

// Set parses value into field f.
func (p *Property) Set(f Field, value string) error {
	value = strings.TrimSpace(value)
	switch f {
	case FieldName:
		p.Name = value
	case FieldDescription:
		p.Description = value
	case FieldPrice:
		price, err := ParsePrice(value)
		if err != nil {
			return err
		}
		p.Price = price
	case FieldCategory:
		c, err := ParseCategory(value)
		if err != nil {
			return err
		}
		p.Category = c
	case FieldImage:
		p.ImageURL = value
	default:
		return fmt.Errorf("unknown field %q", f)
	}
	return nil
}

// Values returns every editable field as display strings.
func (p Property) Values() map[Field]string {
	out := make(map[Field]string, len(Fields))
	for _, f := range Fields {
		out[f] = p.Value(f)
	}
	return out
}

// Validate checks the record invariants.
func (p Property) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !finite(p.Price) {
		return fmt.Errorf("price must be a finite number")
	}
	if p.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if !p.Category.Valid() {
		return fmt.Errorf("unknown category %q", p.Category)
	}
	return nil
}

// ParsePrice parses a decimal price, accepting thousands separators and a
// leading rupee sign.
func ParsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₹")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, fmt.Errorf("price is required")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("price must not be negative")
	}
	return v, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FormatPrice renders a price without currency decoration.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatCurrency renders a price as INR with grouped thousands.
func FormatCurrency(v float64) string {
	whole := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, frac, _ := strings.Cut(whole, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "₹" + b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}
