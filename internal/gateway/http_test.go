package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPGatewayListAllRecoversAfterFailedPoll(t *testing.T) {
	var polls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if polls.Add(1) == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"blip"}`))
			return
		}
		if r.URL.Query().Get("wait") != "" {
			time.Sleep(5 * time.Millisecond)
		}
		_, _ = w.Write([]byte(`{"revision":7,"properties":[{"id":"1","name":"Loft","price":100,"category":"Small"}]}`))
	}))
	t.Cleanup(ts.Close)

	g := NewHTTPGateway(ts.URL)
	g.retryDelay = 10 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream := g.ListAll(ctx)

	first := receive(t, stream)
	require.NoError(t, first.Err)
	assert.Len(t, first.Rows, 1)
	assert.Equal(t, uint64(7), first.Revision)

	failed := receive(t, stream)
	require.Error(t, failed.Err)
	assert.Equal(t, "blip", FailureOf(failed.Err).Message())

	recovered := receive(t, stream)
	require.NoError(t, recovered.Err)
	assert.Len(t, recovered.Rows, 1)
	assert.Equal(t, uint64(7), recovered.Revision)

	cancel()
	for range stream {
	}
}
