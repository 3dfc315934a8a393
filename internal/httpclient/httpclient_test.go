package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDoJSONPayload(t *testing.T) {
	var gotBody []byte
	var gotHeader http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client, err := New(nil, zap.NewNop())
	require.NoError(t, err)

	cfg := DefaultRequestConfig(http.MethodPost, srv.URL)
	cfg.Headers = map[string][]string{"X-Custom": {"yes"}}

	resp, err := client.Do(context.Background(), cfg, map[string]string{"name": "ada"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, resp.IsSuccess())
	assert.JSONEq(t, `{"name":"ada"}`, string(gotBody))
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, "yes", gotHeader.Get("X-Custom"))
	assert.NotEmpty(t, gotHeader.Get("X-Request-Id"))
}

func TestDoStringAndBytePayloads(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
	}))
	defer srv.Close()

	client, err := New(nil, zap.NewNop())
	require.NoError(t, err)

	cfg := DefaultRequestConfig(http.MethodPost, srv.URL)

	_, err = client.Do(context.Background(), cfg, "raw text")
	require.NoError(t, err)
	assert.Equal(t, "raw text", gotBody)

	_, err = client.Do(context.Background(), cfg, []byte{0x1, 0x2})
	require.NoError(t, err)
	assert.Equal(t, string([]byte{0x1, 0x2}), gotBody)
}

func TestDoReturnsNon2xxResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	defer srv.Close()

	client, err := New(nil, zap.NewNop())
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), DefaultRequestConfig(http.MethodGet, srv.URL), nil)
	require.NoError(t, err)
	assert.False(t, resp.IsSuccess())
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "short and stout", string(resp.Body))
}

func TestDoTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client, err := New(nil, zap.NewNop())
	require.NoError(t, err)

	cfg := DefaultRequestConfig(http.MethodGet, srv.URL)
	cfg.Timeout = 20 * time.Millisecond

	_, err = client.Do(context.Background(), cfg, nil)
	require.Error(t, err)
}

func TestContentRangeTotal(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int64
	}{
		{"full range", "0-24/3573", 3573},
		{"single row", "0-0/1", 1},
		{"unspecified total", "0-24/*", -1},
		{"absent", "", -1},
		{"garbage", "not-a-range", -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := http.Header{}
			if tc.header != "" {
				h.Set("Content-Range", tc.header)
			}
			r := &Response{Headers: h}
			assert.Equal(t, tc.want, r.ContentRangeTotal())
		})
	}
}

func TestDefaultRequestConfig(t *testing.T) {
	cfg := DefaultRequestConfig(http.MethodGet, "http://example.com")
	assert.False(t, cfg.RetryEnabled)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}
