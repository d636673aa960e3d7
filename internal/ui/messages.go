// Package ui provides the terminal user interface for PropertyDesk.
package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lazyvibe/propertydesk/internal/notify"
)

// notificationsSentMsg is returned once queued notifications have been
// handed to the dispatcher.
type notificationsSentMsg struct {
	Count int
}

// toastQueue collects engine notifications during one update. The engine
// calls Notify on the update goroutine, so no locking is needed.
type toastQueue struct {
	pending []notify.Notification
}

// Notify implements panel.Notifier.
func (q *toastQueue) Notify(n notify.Notification) {
	q.pending = append(q.pending, n)
}

// drain returns and clears the pending notifications.
func (q *toastQueue) drain() []notify.Notification {
	out := q.pending
	q.pending = nil
	return out
}

// dispatchCmd sends notifications to the external channels.
func dispatchCmd(ctx context.Context, d *notify.Dispatcher, batch []notify.Notification) tea.Cmd {
	if d == nil || !d.Enabled() || len(batch) == 0 {
		return nil
	}
	return func() tea.Msg {
		for _, n := range batch {
			d.Dispatch(ctx, n)
		}
		return notificationsSentMsg{Count: len(batch)}
	}
}
