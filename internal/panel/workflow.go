package panel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lazyvibe/propertydesk/internal/model"
)

// ErrInvalidTransition is returned when a modal request is made from a
// state that does not allow it.
var ErrInvalidTransition = errors.New("invalid modal transition")

// ErrInFlight is returned when the modal already has a call outstanding.
var ErrInFlight = errors.New("modal request already in flight")

// ModalKind tags a ModalState.
type ModalKind int

const (
	ModalClosed ModalKind = iota
	ModalCreating
	ModalEditing
	ModalConfirmingDelete
)

func (k ModalKind) String() string {
	switch k {
	case ModalCreating:
		return "creating"
	case ModalEditing:
		return "editing"
	case ModalConfirmingDelete:
		return "confirming-delete"
	}
	return "closed"
}

// ModalState is exactly one of Closed, Creating, Editing(id) or
// ConfirmingDelete(id). TargetID is empty unless Kind carries a target.
type ModalState struct {
	Kind     ModalKind
	TargetID string
}

func Closed() ModalState { return ModalState{} }
func Creating() ModalState { return ModalState{Kind: ModalCreating} }
func Editing(id string) ModalState { return ModalState{Kind: ModalEditing, TargetID: id} }
func ConfirmingDelete(id string) ModalState { return ModalState{Kind: ModalConfirmingDelete, TargetID: id} }

func (m ModalState) String() string {
	if m.TargetID == "" {
		return m.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", m.Kind, m.TargetID)
}

// Title is the heading shown for a form modal.
func (m ModalState) Title() string {
	if m.Kind == ModalEditing {
		return "Edit Property"
	}
	return "Add New Property"
}

// SubmitLabel is the label of a form modal's submit button.
func (m ModalState) SubmitLabel() string {
	if m.Kind == ModalEditing {
		return "Save"
	}
	return "Add"
}

// RequiredFields must be present on a form submission.
var RequiredFields = []model.Field{
	model.FieldName,
	model.FieldDescription,
	model.FieldPrice,
	model.FieldCategory,
	model.FieldImage,
}

// Ticket identifies one opening of a modal. Reopening the same modal
// yields a different ticket.
type Ticket struct {
	Modal  ModalState
	opened uint64
}

// Workflow is the modal state machine for create, full edit and delete.
type Workflow struct {
	state ModalState
	// opened counts modal openings.
	opened uint64
	// inFlight is set while a submit or delete call is outstanding.
	inFlight bool
}

// State returns the current modal state.
func (w *Workflow) State() ModalState { return w.state }

// Ticket returns the ticket of the open modal.
func (w *Workflow) Ticket() Ticket { return Ticket{Modal: w.state, opened: w.opened} }

// InFlight reports whether a remote call for the modal is outstanding.
func (w *Workflow) InFlight() bool { return w.inFlight }

func (w *Workflow) open(next ModalState) error {
	if w.state.Kind != ModalClosed {
		return fmt.Errorf("%s -> %s: %w", w.state, next, ErrInvalidTransition)
	}
	w.state = next
	w.opened++
	w.inFlight = false
	return nil
}

func (w *Workflow) RequestCreate() error { return w.open(Creating()) }

func (w *Workflow) RequestEdit(id string) error {
	if id == "" {
		return fmt.Errorf("edit without target: %w", ErrInvalidTransition)
	}
	return w.open(Editing(id))
}

func (w *Workflow) RequestDelete(id string) error {
	if id == "" {
		return fmt.Errorf("delete without target: %w", ErrInvalidTransition)
	}
	return w.open(ConfirmingDelete(id))
}

// Cancel closes any modal. A result arriving afterwards no longer has a
// modal to close.
func (w *Workflow) Cancel() {
	w.state = Closed()
	w.inFlight = false
}

// BeginSubmit checks that a form modal is open and fields are complete.
// It returns the labels of missing fields when validation fails.
func (w *Workflow) BeginSubmit(fields map[model.Field]string) ([]string, error) {
	if w.state.Kind != ModalCreating && w.state.Kind != ModalEditing {
		return nil, fmt.Errorf("submit from %s: %w", w.state, ErrInvalidTransition)
	}
	if w.inFlight {
		return nil, ErrInFlight
	}
	if missing := MissingFields(fields); len(missing) > 0 {
		return missing, nil
	}
	w.inFlight = true
	return nil, nil
}

// BeginDelete checks that a delete confirmation is open and returns its
// target.
func (w *Workflow) BeginDelete() (string, error) {
	if w.state.Kind != ModalConfirmingDelete {
		return "", fmt.Errorf("confirm delete from %s: %w", w.state, ErrInvalidTransition)
	}
	if w.inFlight {
		return "", ErrInFlight
	}
	w.inFlight = true
	return w.state.TargetID, nil
}

// Finish ends the call issued under t. On success the modal closes, but
// only if it is still the opening that issued the call. On failure the
// modal stays open so the user can retry or cancel. It reports whether t
// was still current.
func (w *Workflow) Finish(t Ticket, err error) bool {
	if w.state != t.Modal || w.opened != t.opened {
		return false
	}
	w.inFlight = false
	if err == nil {
		w.state = Closed()
	}
	return true
}

// MissingFields returns the labels of required fields that are blank.
func MissingFields(fields map[model.Field]string) []string {
	var missing []string
	for _, f := range RequiredFields {
		if strings.TrimSpace(fields[f]) == "" {
			missing = append(missing, f.Label())
		}
	}
	return missing
}
