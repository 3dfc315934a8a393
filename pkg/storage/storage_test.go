package storage

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edgeflare/supago/internal/testutil"
)

func newTestClient(t *testing.T, srv *testutil.Server) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL: srv.URL,
		APIKey:  "svc-key",
	}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestPublicURL(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "https://proj.supabase.co", APIKey: "k"}, zap.NewNop())
	require.NoError(t, err)

	got := c.PublicURL("avatars", "team/ada.png")
	assert.Equal(t, "https://proj.supabase.co/storage/v1/object/public/avatars/team/ada.png", got)
}

func TestDownload(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.Handle(http.MethodGet, "/storage/v1/object/public/avatars/ada.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	})

	client := newTestClient(t, srv)

	data, err := client.Download(context.Background(), "avatars", "ada.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	req := srv.LastRequest()
	assert.Equal(t, "svc-key", req.Header.Get("apikey"))
	assert.Equal(t, "Bearer svc-key", req.Header.Get("Authorization"))
}

func TestDownloadMissingObject(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()

	client := newTestClient(t, srv)

	_, err := client.Download(context.Background(), "avatars", "missing.png")
	require.Error(t, err)
}

func TestSaveToFile(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.Handle(http.MethodGet, "/storage/v1/object/public/exports/report.csv", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("a,b,c\n1,2,3\n"))
	})

	client := newTestClient(t, srv)

	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, client.SaveToFile(context.Background(), "exports", "report.csv", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b,c\n1,2,3\n", string(data))
}

func TestUpload(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.Handle(http.MethodPost, "/storage/v1/object/avatars/ada.png", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	client := newTestClient(t, srv)

	err := client.Upload(context.Background(), "avatars", "ada.png", []byte("png-bytes"), "image/png")
	require.NoError(t, err)

	req := srv.LastRequest()
	assert.Equal(t, "image/png", req.Header.Get("Content-Type"))
	assert.Equal(t, []byte("png-bytes"), req.Body)
}

func TestUploadDefaultContentType(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.Handle(http.MethodPost, "/storage/v1/object/avatars/blob", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	client := newTestClient(t, srv)

	require.NoError(t, client.Upload(context.Background(), "avatars", "blob", []byte{0x1}, ""))
	assert.Equal(t, "application/octet-stream", srv.LastRequest().Header.Get("Content-Type"))
}

func TestRemove(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.Handle(http.MethodDelete, "/storage/v1/object/avatars", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	client := newTestClient(t, srv)

	require.NoError(t, client.Remove(context.Background(), "avatars", "old/a.png", "old/b.png"))
	assert.JSONEq(t, `{"prefixes":["old/a.png","old/b.png"]}`, string(srv.LastRequest().Body))
}

func TestList(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	now := time.Now().UTC().Truncate(time.Second)
	srv.HandleJSON(http.MethodPost, "/storage/v1/object/list/avatars", http.StatusOK, []ObjectInfo{
		{Name: "team/ada.png", ID: "obj-1", CreatedAt: now, UpdatedAt: now},
	})

	client := newTestClient(t, srv)

	objects, err := client.List(context.Background(), "avatars", "team/")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "team/ada.png", objects[0].Name)
	assert.JSONEq(t, `{"prefix":"team/"}`, string(srv.LastRequest().Body))
}
