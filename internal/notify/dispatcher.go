// Package notify delivers panel notifications to the desktop and to an
// optional webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gen2brain/beeep"
)

// Variant is the severity of a notification.
type Variant string

const (
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
)

// Notification is the single shape handed to presentation collaborators.
type Notification struct {
	Title     string
	Message   string
	Variant   Variant
	Timestamp time.Time
}

// Success builds a success notification.
func Success(title, message string) Notification {
	return Notification{Title: title, Message: message, Variant: VariantSuccess, Timestamp: time.Now()}
}

// Error builds an error notification.
func Error(title, message string) Notification {
	return Notification{Title: title, Message: message, Variant: VariantError, Timestamp: time.Now()}
}

// IsError reports whether n carries the error variant.
func (n Notification) IsError() bool {
	return n.Variant == VariantError
}

// Config selects the delivery channels.
type Config struct {
	Desktop    bool
	WebhookURL string
}

// maxMessageLen caps the message forwarded to external channels.
const maxMessageLen = 800

// Dispatcher sends notifications to configured channels.
type Dispatcher struct {
	cfg    Config
	client *http.Client
	// desktop is swapped in tests.
	desktop func(title, message string) error
}

// NewDispatcher creates a Dispatcher with sensible defaults.
func NewDispatcher(cfg Config) *Dispatcher {
	return &Dispatcher{
		cfg: cfg,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		desktop: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// Enabled reports whether any channel is configured.
func (d *Dispatcher) Enabled() bool {
	return d.cfg.Desktop || d.cfg.WebhookURL != ""
}

// Dispatch sends n to every configured channel. Delivery failures are
// logged and otherwise ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) {
	title := strings.TrimSpace(n.Title)
	if title == "" {
		title = "PropertyDesk"
	}
	message := strings.TrimSpace(n.Message)
	if message == "" {
		message = string(n.Variant)
	}
	if len(message) > maxMessageLen {
		message = message[:maxMessageLen] + "..."
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}

	if d.cfg.Desktop {
		if err := d.desktop(title, message); err != nil {
			slog.Debug("desktop notification failed", "error", err)
		}
	}

	if d.cfg.WebhookURL != "" {
		if err := d.postWebhook(ctx, title, message, n); err != nil {
			slog.Warn("webhook notification failed", "url", d.cfg.WebhookURL, "error", err)
		}
	}
}

func (d *Dispatcher) postWebhook(ctx context.Context, title, message string, n Notification) error {
	payload := map[string]any{
		"title":     title,
		"message":   message,
		"variant":   n.Variant,
		"timestamp": n.Timestamp.Unix(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}
