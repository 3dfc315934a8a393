// Package auth is a client for Supabase's GoTrue service under
// {base}/auth/v1. It keeps the current session in memory; persisting or
// refreshing tokens on a schedule is the caller's concern.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/edgeflare/supago/internal/httpclient"
)

// Config holds the settings for a Client.
type Config struct {
	BaseURL    string        // e.g. https://<project>.supabase.co
	AnonKey    string        // anon API key
	Timeout    time.Duration // per-request timeout, defaults to 5s
	HTTPClient *http.Client  // optional; shared with other service clients
}

// Client talks to GoTrue. Safe for concurrent use.
type Client struct {
	transport *httpclient.Client
	logger    *zap.Logger
	baseURL   string
	anonKey   string
	timeout   time.Duration

	mu      sync.RWMutex
	session *Session
}

// NewClient creates a GoTrue client. An optional zap logger may be passed;
// the default is zap.NewProduction.
func NewClient(cfg Config, loggers ...*zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("auth: base URL is required")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("auth: anon key is required")
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
		baseURL:   cfg.BaseURL,
		anonKey:   cfg.AnonKey,
		timeout:   timeout,
	}, nil
}

// Session returns a copy of the current session, if any.
func (c *Client) Session() (*Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil, false
	}
	s := *c.session
	return &s, true
}

// IsAuthenticated reports whether a session is held.
func (c *Client) IsAuthenticated() bool {
	_, ok := c.Session()
	return ok
}

func (c *Client) setSession(s *Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

// bearer returns the access token of the current session, or the anon key
// when unauthenticated.
func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session != nil {
		return c.session.AccessToken
	}
	return c.anonKey
}

func (c *Client) endpoint(path string) string {
	return fmt.Sprintf("%s/auth/v1/%s", c.baseURL, path)
}

func (c *Client) request(ctx context.Context, method, path string, payload any) (*httpclient.Response, error) {
	cfg := httpclient.DefaultRequestConfig(method, c.endpoint(path))
	cfg.Timeout = c.timeout
	cfg.Service = "auth"
	cfg.Headers = map[string][]string{
		"apikey":        {c.anonKey},
		"Authorization": {"Bearer " + c.bearer()},
		"Content-Type":  {"application/json"},
	}
	return c.transport.Do(ctx, cfg, payload)
}

// do performs a request and decodes a 2xx JSON body into out (skipped on
// 204 or nil out). Non-2xx statuses map to the error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	resp, err := c.request(ctx, method, path, payload)
	if err != nil {
		return &Error{Kind: ErrHTTP, Message: err.Error()}
	}

	if !resp.IsSuccess() {
		return errorFromResponse(resp.StatusCode, resp.Body)
	}
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		c.logger.Error("failed to decode auth response", zap.Error(err))
		return &Error{Kind: ErrInternal, Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	return nil
}

// Signup registers a new user with an email or phone identity and signs it
// in. metadata is stored as user_metadata.
func (c *Client) Signup(ctx context.Context, id Identity, password string, metadata map[string]string) (*Session, error) {
	if err := id.validate(); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, &Error{Kind: ErrInvalidParameters, Message: "empty password"}
	}

	body := signupRequest{
		Email:    id.Email,
		Phone:    id.Phone,
		Password: password,
		Data:     metadata,
	}

	var session Session
	if err := c.do(ctx, http.MethodPost, "signup", body, &session); err != nil {
		return nil, err
	}
	c.setSession(&session)
	return &session, nil
}

// SigninWithPassword performs a password grant against /token and stores
// the returned session.
func (c *Client) SigninWithPassword(ctx context.Context, id Identity, password string) (*Session, error) {
	if err := id.validate(); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, &Error{Kind: ErrInvalidParameters, Message: "empty password"}
	}

	body := passwordGrant{Email: id.Email, Phone: id.Phone, Password: password}

	var session Session
	if err := c.do(ctx, http.MethodPost, "token?grant_type=password", body, &session); err != nil {
		return nil, err
	}
	c.setSession(&session)
	return &session, nil
}

// RefreshToken exchanges a refresh token for a new session and stores it.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, &Error{Kind: ErrInvalidParameters, Message: "empty refresh token"}
	}

	body := map[string]string{"refresh_token": refreshToken}

	var session Session
	if err := c.do(ctx, http.MethodPost, "token?grant_type=refresh_token", body, &session); err != nil {
		return nil, err
	}
	c.setSession(&session)
	return &session, nil
}

// User fetches the user record behind the current session.
func (c *Client) User(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser changes attributes of the signed-in user. Zero fields are
// left untouched.
func (c *Client) UpdateUser(ctx context.Context, update UserUpdate) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPut, "user", update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Signout revokes the current session server-side and drops it locally.
// The local session is dropped even when the server call fails.
func (c *Client) Signout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "logout", nil, nil)
	c.setSession(nil)
	return err
}

type signupRequest struct {
	Email    string            `json:"email,omitempty"`
	Phone    string            `json:"phone,omitempty"`
	Password string            `json:"password"`
	Data     map[string]string `json:"data,omitempty"`
}

type passwordGrant struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}
