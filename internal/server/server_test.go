package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazyvibe/propertydesk/internal/gateway"
	"github.com/lazyvibe/propertydesk/internal/model"
	"github.com/lazyvibe/propertydesk/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *Server) {
	t.Helper()
	s, err := store.Open(store.BackendJSON, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	srv := New(gateway.NewLocal(s), prometheus.NewRegistry(), WithPollWait(100*time.Millisecond))
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, srv
}

func row(name, price string, c model.Category) gateway.RowUpdate {
	return gateway.RowUpdate{Fields: map[model.Field]string{
		model.FieldName:        name,
		model.FieldDescription: name + " description",
		model.FieldPrice:       price,
		model.FieldCategory:    string(c),
	}}
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestHTTPGatewayRoundTrip(t *testing.T) {
	ts, _ := newTestServer(t)
	gw := gateway.NewHTTPGateway(ts.URL)
	ctx := context.Background()

	villaID, err := gw.CreateOrUpdate(ctx, row("Villa", "900000", model.CategoryLarge))
	require.NoError(t, err)
	require.NotEmpty(t, villaID)
	_, err = gw.CreateOrUpdate(ctx, row("Studio", "150000", model.CategorySmall))
	require.NoError(t, err)

	rows, err := gw.Search(ctx, gateway.SearchRequest{Filters: []model.Category{model.CategoryLarge}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Villa", rows[0].Name)

	rows, err = gw.Search(ctx, gateway.SearchRequest{Term: "stu", PriceCeiling: store.AtMost(200000)})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Studio", rows[0].Name)

	rows, err = gw.Search(ctx, gateway.SearchRequest{PriceCeiling: store.AtMost(0)})
	require.NoError(t, err)
	assert.Empty(t, rows)

	err = gw.BatchUpdate(ctx, []gateway.RowUpdate{{
		ID:     villaID,
		Fields: map[model.Field]string{model.FieldPrice: "950000"},
	}})
	require.NoError(t, err)

	rows, err = gw.Search(ctx, gateway.SearchRequest{Term: "villa"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 950000.0, rows[0].Price)

	require.NoError(t, gw.DeleteByID(ctx, villaID))
	rows, err = gw.Search(ctx, gateway.SearchRequest{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestHTTPGatewayFailures(t *testing.T) {
	ts, _ := newTestServer(t)
	gw := gateway.NewHTTPGateway(ts.URL)
	ctx := context.Background()

	t.Run("validation returns a list", func(t *testing.T) {
		_, err := gw.CreateOrUpdate(ctx, gateway.RowUpdate{Fields: map[model.Field]string{
			model.FieldPrice:    "abc",
			model.FieldCategory: "Huge",
		}})
		require.Error(t, err)

		f := gateway.FailureOf(err)
		assert.Equal(t, gateway.FailureList, f.Kind)
		assert.Len(t, f.Messages, 2)
	})

	t.Run("missing record returns a single message", func(t *testing.T) {
		err := gw.DeleteByID(ctx, "nope")
		require.Error(t, err)

		var remote *gateway.RemoteError
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, http.StatusNotFound, remote.Status)
		assert.Equal(t, "Property not found", gateway.FailureOf(err).Message())
	})

	t.Run("bad search parameters", func(t *testing.T) {
		_, err := gw.Search(ctx, gateway.SearchRequest{Filters: []model.Category{"Huge"}})
		require.Error(t, err)
		assert.Equal(t, gateway.FailureList, gateway.FailureOf(err).Kind)
	})
}

func TestHTTPGatewayListAllLongPoll(t *testing.T) {
	ts, _ := newTestServer(t)
	gw := gateway.NewHTTPGateway(ts.URL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := gw.ListAll(ctx)
	first := receive(t, stream)
	require.NoError(t, first.Err)
	assert.Empty(t, first.Rows)

	_, err := gw.CreateOrUpdate(context.Background(), row("Loft", "300000", model.CategoryMedium))
	require.NoError(t, err)

	second := receive(t, stream)
	require.NoError(t, second.Err)
	require.Len(t, second.Rows, 1)
	assert.Greater(t, second.Revision, first.Revision)

	cancel()
	for range stream {
	}
}

func TestMetricsCountRequests(t *testing.T) {
	s, err := store.Open(store.BackendJSON, t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	reg := prometheus.NewRegistry()
	srv := New(gateway.NewLocal(s), reg)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(srv.requests.WithLabelValues("/healthz", "200")))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.True(t, strings.Contains(rec.Body.String(), "propertydesk_http_requests_total"))
}

func TestSearchRejectsNonFiniteCeiling(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, max := range []string{"NaN", "Inf"} {
		resp, err := http.Get(ts.URL + "/api/properties/search?max=" + max)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, max)
		assert.Contains(t, string(body), "invalid price", max)
	}
}

func TestListRejectsBadRevision(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/properties?wait=abc")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"message":"wait must be a revision number"}`, string(body))
}

func receive(t *testing.T, ch <-chan gateway.ListEvent) gateway.ListEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "stream closed")
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for list event")
	}
	return gateway.ListEvent{}
}
