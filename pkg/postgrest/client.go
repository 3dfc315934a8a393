package postgrest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/edgeflare/supago/internal/httpclient"
	"github.com/edgeflare/supago/pkg/util/rand"
)

const clientInfo = "supago/" + Version

// Version of the SDK, sent in the X-Client-Info header.
const Version = "0.1.0"

// Config holds the settings for a Client.
type Config struct {
	BaseURL    string        // e.g. https://<project>.supabase.co
	APIKey     string        // anon or service role key
	Schema     string        // Postgres schema, defaults to "public"
	Timeout    time.Duration // per-request timeout, defaults to 5s
	HTTPClient *http.Client  // optional; shared with other service clients
}

// Client talks to the PostgREST endpoints under {BaseURL}/rest/v1. It owns
// one http.Client for its lifetime; builders copy the handle, never the pool.
type Client struct {
	transport *httpclient.Client
	logger    *zap.Logger
	baseURL   string
	apiKey    string
	schema    string
	timeout   time.Duration
}

// NewClient creates a PostgREST client. An optional zap logger may be
// passed; the default is zap.NewProduction.
func NewClient(cfg Config, loggers ...*zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("postgrest: base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("postgrest: API key is required")
	}

	var logger *zap.Logger
	if len(loggers) > 0 && loggers[0] != nil {
		logger = loggers[0]
	}

	transport, err := httpclient.New(cfg.HTTPClient, logger)
	if err != nil {
		return nil, err
	}

	schema := cfg.Schema
	if schema == "" {
		schema = "public"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		transport: transport,
		logger:    transport.Logger(),
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		schema:    schema,
		timeout:   timeout,
	}, nil
}

// Transport exposes the shared transport so sibling service clients can
// reuse the same connection pool.
func (c *Client) Transport() *httpclient.Client { return c.transport }

// Schema returns the configured Postgres schema.
func (c *Client) Schema() string { return c.schema }

func (c *Client) endpoint(table string) string {
	return fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
}

func (c *Client) rpcEndpoint(function string) string {
	return fmt.Sprintf("%s/rest/v1/rpc/%s", c.baseURL, function)
}

// headers returns the default header set: apikey, bearer auth, content type
// and client info. extra pairs are appended afterwards.
func (c *Client) headers(extra ...[2]string) map[string][]string {
	h := map[string][]string{
		"apikey":        {c.apiKey},
		"Authorization": {"Bearer " + c.apiKey},
		"Content-Type":  {"application/json"},
		"X-Client-Info": {clientInfo},
	}
	for _, kv := range extra {
		h[kv[0]] = append(h[kv[0]], kv[1])
	}
	return h
}

func (c *Client) request(method, url, service string) httpclient.RequestConfig {
	cfg := httpclient.DefaultRequestConfig(method, url)
	cfg.Timeout = c.timeout
	cfg.Service = service
	return cfg
}

// From starts a query against table.
func (c *Client) From(table string) *QueryBuilder {
	return newQueryBuilder(c, table)
}

// Select is an alias for From, kept for symmetry with other Supabase SDKs.
func (c *Client) Select(table string) *QueryBuilder {
	return c.From(table)
}

// Rpc prepares a call to the Postgres function fn with the given named
// parameters (any JSON-marshalable value; nil means no arguments).
func (c *Client) Rpc(fn string, params any) *RpcBuilder {
	return newRpcBuilder(c, fn, params)
}

// Insert adds a row and returns the id of the created record, read from the
// representation the server returns.
func (c *Client) Insert(ctx context.Context, table string, row any) (string, error) {
	cfg := c.request(http.MethodPost, c.endpoint(table), "rest")
	cfg.Headers = c.headers(
		[2]string{"Prefer", "return=representation"},
		[2]string{"Content-Profile", c.schema},
	)

	resp, err := c.transport.Do(ctx, cfg, row)
	if err != nil {
		return "", &Error{Kind: KindHTTP, Message: err.Error()}
	}
	if !resp.IsSuccess() {
		return "", errorFromResponse(resp.StatusCode, resp.Body)
	}

	var rows []map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body, &rows); err != nil {
		return "", &Error{Kind: KindDecode, Message: fmt.Sprintf("failed to parse insert response: %v", err)}
	}
	if len(rows) == 0 {
		return "", &Error{Kind: KindDecode, Message: "insert returned no representation"}
	}
	return rawToString(rows[0]["id"]), nil
}

// InsertWithGeneratedID adds a row with a random int64 id and returns that id.
func (c *Client) InsertWithGeneratedID(ctx context.Context, table string, row map[string]any) (string, error) {
	id := rand.NewID()
	if row == nil {
		row = map[string]any{}
	}
	row["id"] = id

	cfg := c.request(http.MethodPost, c.endpoint(table), "rest")
	cfg.Headers = c.headers([2]string{"Content-Profile", c.schema})

	resp, err := c.transport.Do(ctx, cfg, row)
	if err != nil {
		return "", &Error{Kind: KindHTTP, Message: err.Error()}
	}
	if !resp.IsSuccess() {
		return "", errorFromResponse(resp.StatusCode, resp.Body)
	}
	return fmt.Sprintf("%d", id), nil
}

// InsertIfUnique adds a row only when no existing row matches every
// column/value pair of the body. A match fails with a conflict error.
func (c *Client) InsertIfUnique(ctx context.Context, table string, row map[string]any) (string, error) {
	qb := c.From(table)
	for column, value := range row {
		qb = qb.Eq(column, scalarString(value))
	}

	existing, err := qb.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("postgrest: uniqueness pre-check failed: %w", err)
	}
	if len(existing) > 0 {
		return "", &Error{
			Kind:    KindConflict,
			Status:  http.StatusConflict,
			Message: "duplicate entry: a row matching all provided values already exists",
		}
	}
	return c.Insert(ctx, table, row)
}

// BulkInsert adds multiple rows in one request. rows must marshal to a JSON
// array.
func (c *Client) BulkInsert(ctx context.Context, table string, rows any) error {
	cfg := c.request(http.MethodPost, c.endpoint(table), "rest")
	cfg.Headers = c.headers([2]string{"Content-Profile", c.schema})

	resp, err := c.transport.Do(ctx, cfg, rows)
	if err != nil {
		return &Error{Kind: KindHTTP, Message: err.Error()}
	}
	if !resp.IsSuccess() {
		return errorFromResponse(resp.StatusCode, resp.Body)
	}
	return nil
}

// Update patches the row whose id column equals id.
func (c *Client) Update(ctx context.Context, table, id string, row any) error {
	return c.UpdateByColumn(ctx, table, "id", id, row)
}

// UpdateByColumn patches all rows where column equals value.
func (c *Client) UpdateByColumn(ctx context.Context, table, column, value string, row any) error {
	url := fmt.Sprintf("%s?%s=eq.%s", c.endpoint(table), column, value)
	cfg := c.request(http.MethodPatch, url, "rest")
	cfg.Headers = c.headers([2]string{"Content-Profile", c.schema})

	resp, err := c.transport.Do(ctx, cfg, row)
	if err != nil {
		return &Error{Kind: KindHTTP, Message: err.Error()}
	}
	if !resp.IsSuccess() {
		return errorFromResponse(resp.StatusCode, resp.Body)
	}
	return nil
}

// Upsert inserts or updates the row keyed by id, signaled via
// Prefer: resolution=merge-duplicates.
func (c *Client) Upsert(ctx context.Context, table, id string, row map[string]any) error {
	if row == nil {
		row = map[string]any{}
	}
	row["id"] = id
	return c.UpsertRow(ctx, table, row)
}

// UpsertRow inserts or updates a row using whatever key the body carries.
func (c *Client) UpsertRow(ctx context.Context, table string, row any) error {
	cfg := c.request(http.MethodPost, c.endpoint(table), "rest")
	cfg.Headers = c.headers(
		[2]string{"Prefer", "resolution=merge-duplicates"},
		[2]string{"Prefer", "return=representation"},
		[2]string{"Content-Profile", c.schema},
	)

	resp, err := c.transport.Do(ctx, cfg, row)
	if err != nil {
		return &Error{Kind: KindHTTP, Message: err.Error()}
	}
	if !resp.IsSuccess() {
		return errorFromResponse(resp.StatusCode, resp.Body)
	}
	return nil
}

// Delete removes the row whose id column equals id.
func (c *Client) Delete(ctx context.Context, table, id string) error {
	return c.DeleteByColumn(ctx, table, "id", id)
}

// DeleteByColumn removes all rows where column equals value.
func (c *Client) DeleteByColumn(ctx context.Context, table, column, value string) error {
	url := fmt.Sprintf("%s?%s=eq.%s", c.endpoint(table), column, value)
	cfg := c.request(http.MethodDelete, url, "rest")
	cfg.Headers = c.headers()

	resp, err := c.transport.Do(ctx, cfg, nil)
	if err != nil {
		return &Error{Kind: KindHTTP, Message: err.Error()}
	}
	if !resp.IsSuccess() {
		return errorFromResponse(resp.StatusCode, resp.Body)
	}
	return nil
}

// GetID returns the id of the first row where column equals value.
func (c *Client) GetID(ctx context.Context, table, column, value string) (string, error) {
	rows, err := c.From(table).Eq(column, value).Execute(ctx)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", &Error{Kind: KindNotFound, Message: "no matching record found"}
	}
	var row map[string]json.RawMessage
	if err := json.Unmarshal(rows[0], &row); err != nil {
		return "", &Error{Kind: KindDecode, Message: err.Error()}
	}
	return rawToString(row["id"]), nil
}

// rawToString renders a raw JSON scalar without surrounding quotes.
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// scalarString renders a filter value: strings verbatim, everything else in
// its JSON form.
func scalarString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
