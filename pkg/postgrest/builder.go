package postgrest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/edgeflare/supago/internal/httpclient"
)

// QueryBuilder accumulates a query against one table and dispatches it with
// a terminal Execute* call. Each chained call mutates and returns the same
// builder; a builder is single-use and must not be shared across goroutines.
type QueryBuilder struct {
	client *Client
	query  *Query
	table  string
	count  bool
}

func newQueryBuilder(c *Client, table string) *QueryBuilder {
	return &QueryBuilder{client: c, query: NewQuery(), table: table}
}

// Columns restricts the selected columns, e.g. select=id,name.
func (qb *QueryBuilder) Columns(columns ...string) *QueryBuilder {
	qb.query.SetParam("select", strings.Join(columns, ","))
	return qb
}

// Eq filters rows where column equals value.
func (qb *QueryBuilder) Eq(column, value string) *QueryBuilder {
	qb.query.AddParam(column, "eq."+value)
	return qb
}

// Neq filters rows where column does not equal value.
func (qb *QueryBuilder) Neq(column, value string) *QueryBuilder {
	qb.query.AddParam(column, "neq."+value)
	return qb
}

// Gt filters rows where column is greater than value.
func (qb *QueryBuilder) Gt(column, value string) *QueryBuilder {
	qb.query.AddParam(column, "gt."+value)
	return qb
}

// Lt filters rows where column is less than value.
func (qb *QueryBuilder) Lt(column, value string) *QueryBuilder {
	qb.query.AddParam(column, "lt."+value)
	return qb
}

// Gte filters rows where column is greater than or equal to value.
func (qb *QueryBuilder) Gte(column, value string) *QueryBuilder {
	qb.query.AddParam(column, "gte."+value)
	return qb
}

// Lte filters rows where column is less than or equal to value.
func (qb *QueryBuilder) Lte(column, value string) *QueryBuilder {
	qb.query.AddParam(column, "lte."+value)
	return qb
}

// In filters rows where column is one of values.
func (qb *QueryBuilder) In(column string, values ...string) *QueryBuilder {
	qb.query.AddParam(column, fmt.Sprintf("in.(%s)", strings.Join(values, ",")))
	return qb
}

// TextSearch adds a full-text search filter on column.
func (qb *QueryBuilder) TextSearch(column, value string) *QueryBuilder {
	qb.query.AddParam(column, "fts."+value)
	return qb
}

// Filter appends a structured filter condition.
func (qb *QueryBuilder) Filter(f Filter) *QueryBuilder {
	qb.query.AddFilter(f)
	return qb
}

// Order sorts results by column; ascending=false sorts descending.
func (qb *QueryBuilder) Order(column string, ascending bool) *QueryBuilder {
	dir := "asc"
	if !ascending {
		dir = "desc"
	}
	qb.query.SetParam("order", column+"."+dir)
	return qb
}

// OrderBy appends a structured sorting criterion.
func (qb *QueryBuilder) OrderBy(s Sort) *QueryBuilder {
	qb.query.AddSort(s)
	return qb
}

// Limit caps the number of returned rows.
func (qb *QueryBuilder) Limit(n int) *QueryBuilder {
	qb.query.SetParam("limit", strconv.Itoa(n))
	return qb
}

// Offset skips the first n rows.
func (qb *QueryBuilder) Offset(n int) *QueryBuilder {
	qb.query.SetParam("offset", strconv.Itoa(n))
	return qb
}

// Range requests rows from..to (inclusive, 0-based) via the Range header.
func (qb *QueryBuilder) Range(from, to int) *QueryBuilder {
	qb.query.SetRange(from, to)
	return qb
}

// Count requests an exact total row count alongside the results. The count
// travels in the Prefer header and comes back in Content-Range; read it
// with ExecuteWithCount.
func (qb *QueryBuilder) Count() *QueryBuilder {
	qb.count = true
	return qb
}

// Execute performs the query and returns the matched rows.
func (qb *QueryBuilder) Execute(ctx context.Context) ([]json.RawMessage, error) {
	rows, _, err := qb.ExecuteWithCount(ctx)
	return rows, err
}

// ExecuteWithCount performs the query and additionally returns the total
// row count parsed from Content-Range, or -1 when not requested/returned.
func (qb *QueryBuilder) ExecuteWithCount(ctx context.Context) ([]json.RawMessage, int64, error) {
	resp, err := qb.dispatch(ctx, nil)
	if err != nil {
		return nil, -1, err
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(resp.Body, &rows); err != nil {
		return nil, -1, &Error{Kind: KindDecode, Message: fmt.Sprintf("failed to parse rows: %v", err)}
	}
	return rows, resp.ContentRangeTotal(), nil
}

// ExecuteTo performs the query and unmarshals the row array into dest,
// which must be a pointer to a slice.
func (qb *QueryBuilder) ExecuteTo(ctx context.Context, dest any) error {
	resp, err := qb.dispatch(ctx, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, dest); err != nil {
		return &Error{Kind: KindDecode, Message: fmt.Sprintf("failed to parse rows: %v", err)}
	}
	return nil
}

// ExecuteSingle performs the query requesting single-object shaping and
// fails unless exactly one row matches.
func (qb *QueryBuilder) ExecuteSingle(ctx context.Context) (json.RawMessage, error) {
	resp, err := qb.dispatch(ctx, [][2]string{{"Accept", "application/vnd.pgrst.object+json"}})
	if err != nil {
		return nil, err
	}

	// The server answers with a bare object under the pgrst.object accept
	// header; anything array-shaped means shaping was not applied.
	body := strings.TrimSpace(string(resp.Body))
	if !strings.HasPrefix(body, "{") {
		return nil, &Error{Kind: KindDecode, Message: "expected a single JSON object"}
	}
	return json.RawMessage(body), nil
}

// ExecuteVoid performs the query and expects 204 No Content.
func (qb *QueryBuilder) ExecuteVoid(ctx context.Context) error {
	url := qb.url()
	cfg := qb.client.request(http.MethodGet, url, "rest")
	cfg.Headers = qb.headers(nil)

	resp, err := qb.client.transport.Do(ctx, cfg, nil)
	if err != nil {
		return &Error{Kind: KindHTTP, Message: err.Error()}
	}
	if resp.StatusCode != http.StatusNoContent {
		return errorFromResponse(resp.StatusCode, resp.Body)
	}
	return nil
}

// First performs the query with limit 1 and returns the first row, or nil
// when nothing matches. Results are only deterministic with an order.
func (qb *QueryBuilder) First(ctx context.Context) (json.RawMessage, error) {
	rows, err := qb.Limit(1).Execute(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (qb *QueryBuilder) url() string {
	endpoint := qb.client.endpoint(qb.table)
	if qs := qb.query.Build(); qs != "" {
		return endpoint + "?" + qs
	}
	return endpoint
}

func (qb *QueryBuilder) headers(extra [][2]string) map[string][]string {
	pairs := [][2]string{{"Accept-Profile", qb.client.schema}}
	if qb.count {
		pairs = append(pairs, [2]string{"Prefer", "count=exact"})
	}
	if from, to, ok := qb.query.Range(); ok {
		pairs = append(pairs, [2]string{"Range", fmt.Sprintf("%d-%d", from, to)})
	}
	pairs = append(pairs, extra...)
	return qb.client.headers(pairs...)
}

func (qb *QueryBuilder) dispatch(ctx context.Context, extra [][2]string) (*httpclient.Response, error) {
	url := qb.url()
	cfg := qb.client.request(http.MethodGet, url, "rest")
	cfg.Headers = qb.headers(extra)

	qb.client.logger.Debug("executing query",
		zap.String("table", qb.table),
		zap.String("url", url))

	resp, err := qb.client.transport.Do(ctx, cfg, nil)
	if err != nil {
		return nil, &Error{Kind: KindHTTP, Message: err.Error()}
	}
	if !resp.IsSuccess() {
		return nil, errorFromResponse(resp.StatusCode, resp.Body)
	}
	return resp, nil
}
