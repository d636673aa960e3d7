package panel

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lazyvibe/propertydesk/internal/gateway"
	"github.com/lazyvibe/propertydesk/internal/model"
)

// ListEventMsg carries one emission of the subscription opened as Seq.
type ListEventMsg struct {
	Seq    uint64
	Event  gateway.ListEvent
	Closed bool
}

// SearchResultMsg completes the search issued as Seq.
type SearchResultMsg struct {
	Seq  uint64
	Rows []model.Property
	Err  error
}

// SaveResultMsg completes an inline batch save.
type SaveResultMsg struct {
	Rows []gateway.RowUpdate
	Err  error
}

// SubmitResultMsg completes a form submission issued under Ticket.
type SubmitResultMsg struct {
	Ticket Ticket
	ID     string
	Err    error
}

// DeleteResultMsg completes a confirmed delete issued under Ticket.
type DeleteResultMsg struct {
	Ticket Ticket
	ID     string
	Err    error
}

// ChartReadyMsg reports that the chart collaborator finished loading.
type ChartReadyMsg struct {
	Err error
}

// safeCmd wraps fn so a panic becomes a message instead of crashing the
// program.
func safeCmd(fn func() tea.Msg, onPanic func(error) tea.Msg) tea.Cmd {
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = onPanic(fmt.Errorf("panic: %v", r))
			}
		}()
		return fn()
	}
}

func waitForList(seq uint64, ch <-chan gateway.ListEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return ListEventMsg{Seq: seq, Closed: true}
		}
		return ListEventMsg{Seq: seq, Event: ev}
	}
}
