// Package httpclient implements the shared HTTP transport used by every
// supago service client. One *http.Client (and so one connection pool) is
// owned per top-level client instance and reused across requests.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edgeflare/supago/pkg/metrics"
)

// RequestConfig holds per-request settings.
type RequestConfig struct {
	Headers        map[string][]string
	Method         string
	URL            string
	Service        string // metrics label: rest, rpc, auth, storage, graphql
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	RetryEnabled   bool
}

// DefaultRequestConfig returns a RequestConfig with sensible defaults.
// Retries are disabled: every builder terminal performs exactly one
// round trip unless the caller opts in.
func DefaultRequestConfig(method, url string) RequestConfig {
	return RequestConfig{
		Method:         method,
		URL:            url,
		Timeout:        5 * time.Second,
		RetryEnabled:   false,
		MaxRetries:     3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
	}
}

// Response is an HTTP response with the body already drained.
type Response struct {
	Headers    http.Header
	Body       []byte
	StatusCode int
}

// IsSuccess reports whether the status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ContentRangeTotal parses the total row count from a PostgREST
// Content-Range header like "0-24/3573". It returns -1 when the header is
// absent or the total is unspecified ("*").
func (r *Response) ContentRangeTotal() int64 {
	cr := r.Headers.Get("Content-Range")
	if cr == "" {
		return -1
	}
	for i := len(cr) - 1; i >= 0; i-- {
		if cr[i] == '/' {
			total, err := strconv.ParseInt(cr[i+1:], 10, 64)
			if err != nil {
				return -1
			}
			return total
		}
	}
	return -1
}

// Client wraps the single shared http.Client and logger.
type Client struct {
	hc     *http.Client
	logger *zap.Logger
}

// New creates a transport around hc. A nil hc gets a fresh http.Client;
// a nil logger gets zap.NewProduction.
func New(hc *http.Client, logger *zap.Logger) (*Client, error) {
	if hc == nil {
		hc = &http.Client{}
	}
	if logger == nil {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}
	return &Client{hc: hc, logger: logger}, nil
}

// HTTPClient exposes the underlying http.Client so service clients built
// from the same top-level client share one connection pool.
func (c *Client) HTTPClient() *http.Client { return c.hc }

// Logger returns the transport logger.
func (c *Client) Logger() *zap.Logger { return c.logger }

// Do performs an HTTP request. payload may be nil, []byte, string, or any
// JSON-marshalable value. The response is returned for every completed
// exchange, including non-2xx ones; classification into the error taxonomy
// is left to the calling service client.
func (c *Client) Do(ctx context.Context, config RequestConfig, payload any) (*Response, error) {
	var body []byte
	if payload != nil {
		var err error
		switch v := payload.(type) {
		case []byte:
			body = v
		case string:
			body = []byte(v)
		default:
			body, err = json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal payload: %w", err)
			}
		}
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	reqID := uuid.New().String()
	start := time.Now()

	var response *Response
	operation := func() error {
		var reqBody io.Reader
		if body != nil {
			reqBody = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, config.Method, config.URL, reqBody)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		for key, values := range config.Headers {
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}
		if reqBody != nil && req.Header.Get("Content-Type") == "" {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("X-Request-Id", reqID)

		resp, err := c.hc.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		response = &Response{
			StatusCode: resp.StatusCode,
			Body:       respBody,
			Headers:    resp.Header,
		}
		return nil
	}

	var err error
	if config.RetryEnabled {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = config.InitialBackoff
		b.MaxInterval = config.MaxBackoff
		b.MaxElapsedTime = time.Duration(config.MaxRetries) * config.MaxBackoff
		err = backoff.Retry(operation, backoff.WithContext(b, ctx))
	} else {
		err = operation()
	}

	latency := time.Since(start)
	if err != nil {
		metrics.RequestErrors.WithLabelValues(config.Service, config.Method).Inc()
		c.logger.Error("request failed",
			zap.String("req_id", reqID),
			zap.String("service", config.Service),
			zap.String("method", config.Method),
			zap.String("url", config.URL),
			zap.Duration("latency", latency),
			zap.Error(err))
		return nil, err
	}

	metrics.Requests.WithLabelValues(config.Service, config.Method, strconv.Itoa(response.StatusCode)).Inc()
	metrics.RequestDuration.WithLabelValues(config.Service, config.Method).Observe(latency.Seconds())
	c.logger.Debug("request completed",
		zap.String("req_id", reqID),
		zap.String("service", config.Service),
		zap.String("method", config.Method),
		zap.String("url", config.URL),
		zap.Int("status", response.StatusCode),
		zap.Duration("latency", latency))

	return response, nil
}
