package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchWebhook(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := NewDispatcher(Config{WebhookURL: srv.URL})
	require.True(t, d.Enabled())
	d.Dispatch(context.Background(), Error("Error deleting property", "  Property not found "))

	assert.Equal(t, "Error deleting property", got["title"])
	assert.Equal(t, "Property not found", got["message"])
	assert.Equal(t, "error", got["variant"])
	assert.NotZero(t, got["timestamp"])
}

func TestDispatchDesktop(t *testing.T) {
	var titles, messages []string
	d := NewDispatcher(Config{Desktop: true})
	d.desktop = func(title, message string) error {
		titles = append(titles, title)
		messages = append(messages, message)
		return nil
	}

	d.Dispatch(context.Background(), Success("", ""))
	d.Dispatch(context.Background(), Success("Success", strings.Repeat("x", 900)))

	require.Len(t, titles, 2)
	assert.Equal(t, "PropertyDesk", titles[0])
	assert.Equal(t, "success", messages[0])
	assert.Len(t, messages[1], maxMessageLen+3)
	assert.True(t, strings.HasSuffix(messages[1], "..."))
}

func TestDispatchDisabled(t *testing.T) {
	d := NewDispatcher(Config{})
	assert.False(t, d.Enabled())

	called := false
	d.desktop = func(string, string) error {
		called = true
		return nil
	}
	d.Dispatch(context.Background(), Success("Success", "Properties updated"))
	assert.False(t, called)
}

func TestNotificationVariant(t *testing.T) {
	assert.True(t, Error("a", "b").IsError())
	assert.False(t, Success("a", "b").IsError())
}
