package graphql

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edgeflare/supago/internal/testutil"
)

func newTestClient(t *testing.T, srv *testutil.Server) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL: srv.URL,
		APIKey:  "anon-key",
	}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestExecute(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.HandleJSON(http.MethodPost, "/graphql/v1", http.StatusOK, map[string]any{
		"data": map[string]any{
			"usersCollection": map[string]any{"edges": []any{}},
		},
	})

	client := newTestClient(t, srv)

	data, err := client.Execute(context.Background(), `query { usersCollection { edges { node { id } } } }`, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"usersCollection":{"edges":[]}}`, string(data))

	req := srv.LastRequest()
	assert.Equal(t, "/graphql/v1", req.Path)
	assert.Equal(t, "anon-key", req.Header.Get("apikey"))
	assert.Contains(t, string(req.Body), "usersCollection")
}

func TestExecuteWithVariables(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.HandleJSON(http.MethodPost, "/graphql/v1", http.StatusOK, map[string]any{"data": map[string]any{}})

	client := newTestClient(t, srv)

	_, err := client.Execute(context.Background(),
		`query ($id: Int!) { usersCollection(filter: {id: {eq: $id}}) { edges { node { id } } } }`,
		map[string]any{"id": 7})
	require.NoError(t, err)
	assert.Contains(t, string(srv.LastRequest().Body), `"variables":{"id":7}`)
}

func TestExecuteServerErrors(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.HandleJSON(http.MethodPost, "/graphql/v1", http.StatusOK, map[string]any{
		"errors": []map[string]string{
			{"message": "Unknown field usersCollection"},
			{"message": "syntax error"},
		},
	})

	client := newTestClient(t, srv)

	_, err := client.Execute(context.Background(), `query { usersCollection { id } }`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown field usersCollection")
	assert.Contains(t, err.Error(), "syntax error")
}

func TestValidateRejectsMalformedQueries(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t"},
		{"unbalanced open", "query { usersCollection { id }"},
		{"unbalanced close", "query { usersCollection } }"},
		{"no root field", "query { }"},
	}

	srv := testutil.NewServer()
	defer srv.Close()
	client := newTestClient(t, srv)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.Execute(context.Background(), tc.query, nil)
			require.Error(t, err)
			// malformed queries never reach the server
			assert.Empty(t, srv.Requests())
		})
	}
}

func TestRootField(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"simple", `query { usersCollection { id } }`, "usersCollection"},
		{"no spaces", `{usersCollection{id}}`, "usersCollection"},
		{"with arguments", `query { ordersCollection(first: 10) { id } }`, "ordersCollection"},
		{"no selection set", `query usersCollection`, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RootField(tc.query))
		})
	}
}
