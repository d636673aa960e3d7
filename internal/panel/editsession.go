package panel

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lazyvibe/propertydesk/internal/gateway"
	"github.com/lazyvibe/propertydesk/internal/model"
)

// ErrNotEditing is returned when a draft change targets a row that is not
// in the active edit session.
var ErrNotEditing = errors.New("row is not being edited")

// EditSession tracks the single row under inline edit and its pending
// field values. Row editability is derived from it, never stored per row.
type EditSession struct {
	rowID string
	draft map[model.Field]string
}

// Begin opens a session for row, seeding the draft from its current
// values. Any previous session and its unsaved draft are discarded.
func (s *EditSession) Begin(row model.Property) {
	s.rowID = row.ID
	s.draft = make(map[model.Field]string, len(model.InlineFields))
	for _, f := range model.InlineFields {
		s.draft[f] = row.Value(f)
	}
}

// Update changes one draft field of the active row.
func (s *EditSession) Update(rowID string, f model.Field, value string) error {
	if s.rowID == "" || rowID != s.rowID {
		return fmt.Errorf("update %s: %w", rowID, ErrNotEditing)
	}
	if !slices.Contains(model.InlineFields, f) {
		return fmt.Errorf("field %q is not editable inline", f)
	}
	s.draft[f] = value
	return nil
}

// Clear ends the session without saving.
func (s *EditSession) Clear() {
	s.rowID = ""
	s.draft = nil
}

// Active returns the row under edit.
func (s *EditSession) Active() (string, bool) {
	return s.rowID, s.rowID != ""
}

// Editable reports whether the row with id is the one under edit.
func (s *EditSession) Editable(id string) bool {
	return s.rowID != "" && s.rowID == id
}

// Draft returns a copy of the pending value of f.
func (s *EditSession) Draft(f model.Field) (string, bool) {
	v, ok := s.draft[f]
	return v, ok
}

// Drafts returns the active session as a batch update. It is empty when
// no row is being edited.
func (s *EditSession) Drafts() []gateway.RowUpdate {
	if s.rowID == "" {
		return nil
	}
	fields := make(map[model.Field]string, len(s.draft))
	for f, v := range s.draft {
		fields[f] = v
	}
	return []gateway.RowUpdate{{ID: s.rowID, Fields: fields}}
}
