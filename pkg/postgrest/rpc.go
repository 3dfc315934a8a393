package postgrest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// RpcBuilder invokes a Postgres function through the dedicated PostgREST
// endpoint {base}/rest/v1/rpc/{function}. It shares the QueryBuilder filter
// surface: filters applied here shape the function's result set.
type RpcBuilder struct {
	client   *Client
	query    *Query
	function string
	params   any
	count    bool
}

func newRpcBuilder(c *Client, function string, params any) *RpcBuilder {
	if params == nil {
		params = map[string]any{}
	}
	return &RpcBuilder{client: c, query: NewQuery(), function: function, params: params}
}

// Eq filters result rows where column equals value.
func (rb *RpcBuilder) Eq(column, value string) *RpcBuilder {
	rb.query.AddParam(column, "eq."+value)
	return rb
}

// Neq filters result rows where column does not equal value.
func (rb *RpcBuilder) Neq(column, value string) *RpcBuilder {
	rb.query.AddParam(column, "neq."+value)
	return rb
}

// Gt filters result rows where column is greater than value.
func (rb *RpcBuilder) Gt(column, value string) *RpcBuilder {
	rb.query.AddParam(column, "gt."+value)
	return rb
}

// Lt filters result rows where column is less than value.
func (rb *RpcBuilder) Lt(column, value string) *RpcBuilder {
	rb.query.AddParam(column, "lt."+value)
	return rb
}

// Gte filters result rows where column is greater than or equal to value.
func (rb *RpcBuilder) Gte(column, value string) *RpcBuilder {
	rb.query.AddParam(column, "gte."+value)
	return rb
}

// Lte filters result rows where column is less than or equal to value.
func (rb *RpcBuilder) Lte(column, value string) *RpcBuilder {
	rb.query.AddParam(column, "lte."+value)
	return rb
}

// In filters result rows where column is one of values.
func (rb *RpcBuilder) In(column string, values ...string) *RpcBuilder {
	rb.query.AddParam(column, fmt.Sprintf("in.(%s)", strings.Join(values, ",")))
	return rb
}

// TextSearch adds a full-text search filter on column.
func (rb *RpcBuilder) TextSearch(column, value string) *RpcBuilder {
	rb.query.AddParam(column, "fts."+value)
	return rb
}

// Columns restricts the selected result columns.
func (rb *RpcBuilder) Columns(columns ...string) *RpcBuilder {
	rb.query.SetParam("select", strings.Join(columns, ","))
	return rb
}

// Order sorts result rows by column; ascending=false sorts descending.
func (rb *RpcBuilder) Order(column string, ascending bool) *RpcBuilder {
	dir := "asc"
	if !ascending {
		dir = "desc"
	}
	rb.query.SetParam("order", column+"."+dir)
	return rb
}

// Limit caps the number of returned rows.
func (rb *RpcBuilder) Limit(n int) *RpcBuilder {
	rb.query.SetParam("limit", strconv.Itoa(n))
	return rb
}

// Offset skips the first n rows.
func (rb *RpcBuilder) Offset(n int) *RpcBuilder {
	rb.query.SetParam("offset", strconv.Itoa(n))
	return rb
}

// Range requests rows from..to (inclusive, 0-based) via the Range header.
func (rb *RpcBuilder) Range(from, to int) *RpcBuilder {
	rb.query.SetRange(from, to)
	return rb
}

// Count requests an exact total row count alongside the results.
func (rb *RpcBuilder) Count() *RpcBuilder {
	rb.count = true
	return rb
}

// Execute calls the function and returns its result rows.
func (rb *RpcBuilder) Execute(ctx context.Context) ([]json.RawMessage, error) {
	resp, err := rb.dispatch(ctx, false)
	if err != nil {
		return nil, err
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(resp, &rows); err != nil {
		// Scalar-returning functions answer with a bare JSON value.
		return []json.RawMessage{resp}, nil
	}
	return rows, nil
}

// ExecuteSingle calls the function requesting single-object shaping and
// fails unless the result is exactly one row.
func (rb *RpcBuilder) ExecuteSingle(ctx context.Context) (json.RawMessage, error) {
	resp, err := rb.dispatch(ctx, true)
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(string(resp))
	if !strings.HasPrefix(body, "{") {
		return nil, &Error{Kind: KindDecode, Message: "expected a single JSON object"}
	}
	return json.RawMessage(body), nil
}

// ExecuteVoid calls the function and expects 204 No Content.
func (rb *RpcBuilder) ExecuteVoid(ctx context.Context) error {
	cfg := rb.client.request(http.MethodPost, rb.url(), "rpc")
	cfg.Headers = rb.headers(false)

	resp, err := rb.client.transport.Do(ctx, cfg, rb.params)
	if err != nil {
		return &Error{Kind: KindHTTP, Message: err.Error()}
	}
	if resp.StatusCode != http.StatusNoContent {
		return errorFromResponse(resp.StatusCode, resp.Body)
	}
	return nil
}

func (rb *RpcBuilder) url() string {
	endpoint := rb.client.rpcEndpoint(rb.function)
	if qs := rb.query.Build(); qs != "" {
		return endpoint + "?" + qs
	}
	return endpoint
}

func (rb *RpcBuilder) headers(single bool) map[string][]string {
	var pairs [][2]string
	if rb.client.schema != "public" {
		pairs = append(pairs,
			[2]string{"Content-Profile", rb.client.schema},
			[2]string{"Accept-Profile", rb.client.schema})
	}
	if rb.count {
		pairs = append(pairs, [2]string{"Prefer", "count=exact"})
	}
	if from, to, ok := rb.query.Range(); ok {
		pairs = append(pairs, [2]string{"Range", fmt.Sprintf("%d-%d", from, to)})
	}
	if single {
		pairs = append(pairs, [2]string{"Accept", "application/vnd.pgrst.object+json"})
	}
	return rb.client.headers(pairs...)
}

func (rb *RpcBuilder) dispatch(ctx context.Context, single bool) (json.RawMessage, error) {
	cfg := rb.client.request(http.MethodPost, rb.url(), "rpc")
	cfg.Headers = rb.headers(single)

	resp, err := rb.client.transport.Do(ctx, cfg, rb.params)
	if err != nil {
		return nil, &Error{Kind: KindHTTP, Message: err.Error()}
	}
	if !resp.IsSuccess() {
		return nil, errorFromResponse(resp.StatusCode, resp.Body)
	}
	return json.RawMessage(resp.Body), nil
}
