// Package storage is a client for Supabase Storage under
// {base}/storage/v1.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/edgeflare/supago/internal/httpclient"
)

// Config holds the settings for a Client.
type Config struct {
	BaseURL    string        // e.g. https://<project>.supabase.co
	APIKey     string        // anon or service role key
	Timeout    time.Duration // per-request timeout, defaults to 30s for object transfers
	HTTPClient *http.Client  // optional; shared with other service clients
}

// Client performs object operations against Supabase Storage.
type Client struct {
	transport *httpclient.Client
	logger    *zap.Logger
	baseURL   string
	apiKey    string
	timeout   time.Duration
}

// NewClient creates a Storage client. An optional zap logger may be passed;
// the default is zap.NewProduction.
func NewClient(cfg Config, loggers ...*zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("storage: base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("storage: API key is required")
	}

	var logger *zap.Logger
	if len(loggers) > 0 && loggers[0] != nil {
		logger = loggers[0]
	}
	transport, err := httpclient.New(cfg.HTTPClient, logger)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		transport: transport,
		logger:    transport.Logger(),
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		timeout:   timeout,
	}, nil
}

// PublicURL returns the public-object URL for object in bucket.
func (c *Client) PublicURL(bucket, object string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, bucket, object)
}

func (c *Client) objectURL(bucket, object string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, bucket, object)
}

func (c *Client) request(method, url string) httpclient.RequestConfig {
	cfg := httpclient.DefaultRequestConfig(method, url)
	cfg.Timeout = c.timeout
	cfg.Service = "storage"
	cfg.Headers = map[string][]string{
		"apikey":        {c.apiKey},
		"Authorization": {"Bearer " + c.apiKey},
	}
	return cfg
}

// Download fetches a public object and returns its bytes.
func (c *Client) Download(ctx context.Context, bucket, object string) ([]byte, error) {
	cfg := c.request(http.MethodGet, c.PublicURL(bucket, object))

	resp, err := c.transport.Do(ctx, cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: download failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, statusError("download", resp)
	}
	return resp.Body, nil
}

// SaveToFile downloads a public object and writes it to path.
func (c *Client) SaveToFile(ctx context.Context, bucket, object, path string) error {
	data, err := c.Download(ctx, bucket, object)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("storage: failed to write %s: %w", path, err)
	}
	return nil
}

// Upload stores data as object in bucket. contentType defaults to
// application/octet-stream.
func (c *Client) Upload(ctx context.Context, bucket, object string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	cfg := c.request(http.MethodPost, c.objectURL(bucket, object))
	cfg.Headers["Content-Type"] = []string{contentType}

	resp, err := c.transport.Do(ctx, cfg, data)
	if err != nil {
		return fmt.Errorf("storage: upload failed: %w", err)
	}
	if !resp.IsSuccess() {
		return statusError("upload", resp)
	}
	return nil
}

// Remove deletes objects from bucket.
func (c *Client) Remove(ctx context.Context, bucket string, objects ...string) error {
	url := fmt.Sprintf("%s/storage/v1/object/%s", c.baseURL, bucket)
	cfg := c.request(http.MethodDelete, url)
	cfg.Headers["Content-Type"] = []string{"application/json"}

	body := map[string][]string{"prefixes": objects}
	resp, err := c.transport.Do(ctx, cfg, body)
	if err != nil {
		return fmt.Errorf("storage: remove failed: %w", err)
	}
	if !resp.IsSuccess() {
		return statusError("remove", resp)
	}
	return nil
}

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Name      string    `json:"name"`
	ID        string    `json:"id"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedAt time.Time `json:"created_at"`
}

// List returns the objects in bucket under prefix.
func (c *Client) List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	url := fmt.Sprintf("%s/storage/v1/object/list/%s", c.baseURL, bucket)
	cfg := c.request(http.MethodPost, url)
	cfg.Headers["Content-Type"] = []string{"application/json"}

	body := map[string]string{"prefix": prefix}
	resp, err := c.transport.Do(ctx, cfg, body)
	if err != nil {
		return nil, fmt.Errorf("storage: list failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, statusError("list", resp)
	}

	var objects []ObjectInfo
	if err := json.Unmarshal(resp.Body, &objects); err != nil {
		return nil, fmt.Errorf("storage: failed to decode list response: %w", err)
	}
	return objects, nil
}

func statusError(op string, resp *httpclient.Response) error {
	return fmt.Errorf("storage: %s failed with status %d: %s", op, resp.StatusCode, string(resp.Body))
}
