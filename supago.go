package supago

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/edgeflare/supago/pkg/auth"
	"github.com/edgeflare/supago/pkg/graphql"
	"github.com/edgeflare/supago/pkg/postgrest"
	"github.com/edgeflare/supago/pkg/storage"
)

// Config holds the project settings shared by all service clients.
type Config struct {
	// URL is the project base URL, e.g. https://<project-ref>.supabase.co.
	URL string
	// Key is the anon or service role API key.
	Key string
	// Schema selects the PostgREST database schema. Defaults to "public".
	Schema string
	// Timeout bounds each REST request. Defaults to 5s.
	Timeout time.Duration
	// HTTPClient overrides the shared HTTP client. One client backs all
	// services so connections are pooled across them.
	HTTPClient *http.Client
}

// Client bundles the per-service clients for one Supabase project.
type Client struct {
	// DB runs PostgREST table and RPC operations.
	DB *postgrest.Client
	// Auth manages GoTrue sessions and users.
	Auth *auth.Client
	// Storage transfers bucket objects.
	Storage *storage.Client
	// Graphql posts queries to pg_graphql.
	Graphql *graphql.Client
}

// NewClient creates the service clients for a project. All of them share a
// single underlying http.Client. An optional zap logger may be passed; the
// default is zap.NewProduction.
func NewClient(cfg Config, loggers ...*zap.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supago: project URL is required")
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("supago: API key is required")
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}

	db, err := postgrest.NewClient(postgrest.Config{
		BaseURL:    cfg.URL,
		APIKey:     cfg.Key,
		Schema:     cfg.Schema,
		Timeout:    cfg.Timeout,
		HTTPClient: hc,
	}, loggers...)
	if err != nil {
		return nil, err
	}

	authc, err := auth.NewClient(auth.Config{
		BaseURL:    cfg.URL,
		AnonKey:    cfg.Key,
		Timeout:    cfg.Timeout,
		HTTPClient: hc,
	}, loggers...)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewClient(storage.Config{
		BaseURL:    cfg.URL,
		APIKey:     cfg.Key,
		HTTPClient: hc,
	}, loggers...)
	if err != nil {
		return nil, err
	}

	gql, err := graphql.NewClient(graphql.Config{
		BaseURL:    cfg.URL,
		APIKey:     cfg.Key,
		Timeout:    cfg.Timeout,
		HTTPClient: hc,
	}, loggers...)
	if err != nil {
		return nil, err
	}

	return &Client{
		DB:      db,
		Auth:    authc,
		Storage: store,
		Graphql: gql,
	}, nil
}
