package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lazyvibe/propertydesk/internal/model"
)

// ListResponse is the body of GET /api/properties.
type ListResponse struct {
	Revision   uint64           `json:"revision"`
	Properties []model.Property `json:"properties"`
}

// SaveResponse is the body of POST /api/properties.
type SaveResponse struct {
	ID string `json:"id"`
}

// HTTPGateway talks to a propertydesk server.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	// pollTimeout bounds one long-poll round trip.
	pollTimeout time.Duration
	// retryDelay is the pause after a failed long-poll.
	retryDelay time.Duration
}

// NewHTTPGateway creates a gateway for the server at baseURL.
func NewHTTPGateway(baseURL string) *HTTPGateway {
	return &HTTPGateway{
		baseURL:     strings.TrimRight(baseURL, "/"),
		client:      &http.Client{},
		pollTimeout: 60 * time.Second,
		retryDelay:  2 * time.Second,
	}
}

// ListAll long-polls the server and emits a set whenever the revision moves
// and after recovering from a failed poll.
func (g *HTTPGateway) ListAll(ctx context.Context) <-chan ListEvent {
	out := make(chan ListEvent)
	go func() {
		defer close(out)
		var rev uint64
		first := true
		for ctx.Err() == nil {
			resp, err := g.poll(ctx, rev, first)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				slog.Warn("list poll failed", "error", err)
				if !send(ctx, out, ListEvent{Err: err}) {
					return
				}
				// Resend the next successful poll even at the same revision.
				first = true
				select {
				case <-time.After(g.retryDelay):
				case <-ctx.Done():
					return
				}
				continue
			}
			if first || resp.Revision != rev {
				rev = resp.Revision
				first = false
				if !send(ctx, out, ListEvent{Rows: resp.Properties, Revision: rev}) {
					return
				}
			}
		}
	}()
	return out
}

func send(ctx context.Context, out chan<- ListEvent, ev ListEvent) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (g *HTTPGateway) poll(ctx context.Context, rev uint64, first bool) (*ListResponse, error) {
	u := g.baseURL + "/api/properties"
	if !first {
		u += "?wait=" + strconv.FormatUint(rev, 10)
	}
	ctx, cancel := context.WithTimeout(ctx, g.pollTimeout)
	defer cancel()

	var resp ListResponse
	if err := g.do(ctx, http.MethodGet, u, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Search runs a filtered query on the server.
func (g *HTTPGateway) Search(ctx context.Context, req SearchRequest) ([]model.Property, error) {
	q := url.Values{}
	q.Set("q", req.Term)
	for _, c := range req.Filters {
		q.Add("category", string(c))
	}
	if req.PriceCeiling != nil {
		q.Set("max", model.FormatPrice(*req.PriceCeiling))
	}
	var resp ListResponse
	if err := g.do(ctx, http.MethodGet, g.baseURL+"/api/properties/search?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Properties, nil
}

// CreateOrUpdate posts one record.
func (g *HTTPGateway) CreateOrUpdate(ctx context.Context, row RowUpdate) (string, error) {
	var resp SaveResponse
	if err := g.do(ctx, http.MethodPost, g.baseURL+"/api/properties", row, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// BatchUpdate patches several records.
func (g *HTTPGateway) BatchUpdate(ctx context.Context, rows []RowUpdate) error {
	return g.do(ctx, http.MethodPatch, g.baseURL+"/api/properties", rows, nil)
}

// DeleteByID deletes one record.
func (g *HTTPGateway) DeleteByID(ctx context.Context, id string) error {
	return g.do(ctx, http.MethodDelete, g.baseURL+"/api/properties/"+url.PathEscape(id), nil, nil)
}

func (g *HTTPGateway) do(ctx context.Context, method, u string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, u, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return &RemoteError{Status: resp.StatusCode, Failure: ParseFailure(data)}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", u, err)
	}
	return nil
}
