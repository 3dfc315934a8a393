package postgrest

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgeflare/supago/internal/testutil"
)

func TestRpcExecute(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.HandleJSON(http.MethodPost, "/rest/v1/rpc/search_products", http.StatusOK, []map[string]any{
		{"id": 1, "name": "phone"},
	})

	client := newTestClient(t, srv)

	rows, err := client.Rpc("search_products", map[string]any{"term": "phone"}).
		Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	req := srv.LastRequest()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/rest/v1/rpc/search_products", req.Path)
	assert.JSONEq(t, `{"term":"phone"}`, string(req.Body))
}

func TestRpcNilParamsSendEmptyObject(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.HandleJSON(http.MethodPost, "/rest/v1/rpc/now_utc", http.StatusOK, "2026-01-01T00:00:00Z")

	client := newTestClient(t, srv)

	rows, err := client.Rpc("now_utc", nil).Execute(context.Background())
	require.NoError(t, err)
	// scalar results come back as a one-element row set
	require.Len(t, rows, 1)
	assert.JSONEq(t, `{}`, string(srv.LastRequest().Body))
}

func TestRpcFiltersShapeResult(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.HandleJSON(http.MethodPost, "/rest/v1/rpc/list_orders", http.StatusOK, []map[string]any{})

	client := newTestClient(t, srv)

	_, err := client.Rpc("list_orders", nil).
		Eq("status", "open").
		Columns("id", "total").
		Order("total", false).
		Limit(5).
		Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "status=eq.open&select=id,total&order=total.desc&limit=5", srv.LastRequest().Query)
}

func TestRpcExecuteSingle(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.Handle(http.MethodPost, "/rest/v1/rpc/get_profile", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1}`))
	})

	client := newTestClient(t, srv)

	row, err := client.Rpc("get_profile", map[string]any{"user_id": 1}).
		ExecuteSingle(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1}`, string(row))
	assert.Equal(t, "application/vnd.pgrst.object+json", srv.LastRequest().Header.Get("Accept"))
}

func TestRpcExecuteVoid(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.Handle(http.MethodPost, "/rest/v1/rpc/reset_counters", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	client := newTestClient(t, srv)
	require.NoError(t, client.Rpc("reset_counters", nil).ExecuteVoid(context.Background()))
}

func TestRpcAltSchemaHeaders(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.HandleJSON(http.MethodPost, "/rest/v1/rpc/fn", http.StatusOK, []map[string]any{})

	client, err := NewClient(Config{
		BaseURL: srv.URL,
		APIKey:  "k",
		Schema:  "tenants",
	})
	require.NoError(t, err)

	_, err = client.Rpc("fn", nil).Execute(context.Background())
	require.NoError(t, err)

	req := srv.LastRequest()
	assert.Equal(t, "tenants", req.Header.Get("Content-Profile"))
	assert.Equal(t, "tenants", req.Header.Get("Accept-Profile"))
}

func TestRpcErrorClassification(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.HandleJSON(http.MethodPost, "/rest/v1/rpc/secret_fn", http.StatusUnauthorized, map[string]string{
		"message": "permission denied",
	})

	client := newTestClient(t, srv)
	_, err := client.Rpc("secret_fn", nil).Execute(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotAuthorized))
}
