// Package graphql posts queries to the Supabase GraphQL endpoint at
// {base}/graphql/v1 (pg_graphql).
package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/edgeflare/supago/internal/httpclient"
)

// Config holds the settings for a Client.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client executes GraphQL requests.
type Client struct {
	transport *httpclient.Client
	logger    *zap.Logger
	endpoint  string
	apiKey    string
	timeout   time.Duration
}

// NewClient creates a GraphQL client. An optional zap logger may be passed;
// the default is zap.NewProduction.
func NewClient(cfg Config, loggers ...*zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("graphql: base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("graphql: API key is required")
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
		timeout = 5 * time.Second
	}

	return &Client{
		transport: transport,
		logger:    transport.Logger(),
		endpoint:  cfg.BaseURL + "/graphql/v1",
		apiKey:    cfg.APIKey,
		timeout:   timeout,
	}, nil
}

// Request is a GraphQL request envelope.
type Request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type responseEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Execute posts query with optional variables and returns the data payload.
// Server-side GraphQL errors are joined into a single error.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	if err := validate(query); err != nil {
		return nil, err
	}

	cfg := httpclient.DefaultRequestConfig(http.MethodPost, c.endpoint)
	cfg.Timeout = c.timeout
	cfg.Service = "graphql"
	cfg.Headers = map[string][]string{
		"apikey":        {c.apiKey},
		"Authorization": {"Bearer " + c.apiKey},
		"Content-Type":  {"application/json"},
	}

	resp, err := c.transport.Do(ctx, cfg, Request{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("graphql: request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("graphql: request failed with status %d: %s", resp.StatusCode, string(resp.Body))
	}

	var envelope responseEnvelope
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, fmt.Errorf("graphql: failed to decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		msgs := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			msgs[i] = e.Message
		}
		return nil, fmt.Errorf("graphql: %s", strings.Join(msgs, "; "))
	}
	return envelope.Data, nil
}

// validate performs a shallow structural check on query before it is sent:
// non-empty, balanced braces, and at least one root field.
func validate(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return fmt.Errorf("graphql: empty query")
	}

	depth := 0
	for _, r := range trimmed {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return fmt.Errorf("graphql: unbalanced braces in query")
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("graphql: unbalanced braces in query")
	}
	if RootField(trimmed) == "" {
		return fmt.Errorf("graphql: query has no root field")
	}
	return nil
}

// RootField returns the first field name inside the outermost selection
// set, or "" if none can be found. For
// `query { usersCollection { edges { node { id } } } }` it returns
// "usersCollection".
func RootField(query string) string {
	open := strings.IndexByte(query, '{')
	if open < 0 {
		return ""
	}
	rest := query[open+1:]

	var b strings.Builder
	for _, r := range rest {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if b.Len() > 0 {
				return b.String()
			}
		case r == '{' || r == '}' || r == '(':
			return b.String()
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
