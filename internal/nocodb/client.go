// Package nocodb talks to a NocoDB-style table endpoint: list, create,
// update and delete of records carrying a Title and an IsDone column.
package nocodb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Makepad-fr/shoplist/internal/model"
)

const (
	tokenHeader      = "xc-token"
	defaultPageLimit = 100
	defaultTimeout   = 15 * time.Second
)

// Fields is the column payload of a create or update.
type Fields map[string]any

// FetchError is returned for any non-2xx response.
type FetchError struct {
	Status int
	Body   string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Body)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithPageLimit sets the page size requested by List.
func WithPageLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// Client is a thin wrapper around one table URL.
type Client struct {
	tableURL string
	token    string
	http     *http.Client
	timeout  time.Duration
	limit    int
	log      *zap.Logger
}

// New creates a client for tableURL authenticated with token.
func New(tableURL, token string, opts ...Option) *Client {
	c := &Client{
		tableURL: strings.TrimRight(strings.TrimSpace(tableURL), "/"),
		token:    token,
		http:     http.DefaultClient,
		timeout:  defaultTimeout,
		limit:    defaultPageLimit,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TableURL returns the normalized endpoint.
func (c *Client) TableURL() string { return c.tableURL }

// List fetches the first page of records. Pagination is not followed.
func (c *Client) List(ctx context.Context) ([]model.Item, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.limit))
	body, err := c.do(ctx, http.MethodGet, c.tableURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	raws, err := recordsOf(body)
	if err != nil {
		return nil, fmt.Errorf("list: decode response: %w", err)
	}
	items := make([]model.Item, 0, len(raws))
	for _, raw := range raws {
		it, err := Normalize(raw)
		if err != nil {
			c.log.Warn("skipping malformed record", zap.Error(err))
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

// Create inserts one record.
func (c *Client) Create(ctx context.Context, fields Fields) error {
	if _, err := c.do(ctx, http.MethodPost, c.tableURL, map[string]any{"fields": fields}); err != nil {
		return fmt.Errorf("create: %w", err)
	}
	return nil
}

// Update patches the given columns of record id.
func (c *Client) Update(ctx context.Context, id model.ID, fields Fields) error {
	if _, err := c.do(ctx, http.MethodPatch, c.tableURL, map[string]any{"id": id, "fields": fields}); err != nil {
		return fmt.Errorf("update %s: %w", id, err)
	}
	return nil
}

// Delete removes record id. The response body is ignored.
func (c *Client) Delete(ctx context.Context, id model.ID) error {
	if _, err := c.do(ctx, http.MethodDelete, c.tableURL, map[string]any{"id": id}); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, target string, payload any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rd io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(tokenHeader, c.token)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}
