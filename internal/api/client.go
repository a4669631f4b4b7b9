package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"docq/internal/session"
)

// Client talks to the document question-answering backend. Every request
// carries the current bearer token from the session store; token expiry is
// handled transparently by a bounded refresh-and-retry protocol, so at most
// two round-trips happen per call.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Store      session.Store

	// OnSessionExpired is invoked after an unrecoverable 401 has cleared
	// the session store. The caller is expected to leave the
	// authenticated area.
	OnSessionExpired func()

	Logger *slog.Logger

	refreshMu sync.Mutex
	inflight  *refreshFlight
}

// refreshFlight collapses concurrent renewal attempts into one in-flight
// call shared by all waiters.
type refreshFlight struct {
	done  chan struct{}
	token string
	err   error
}

// NewClient creates a client against baseURL backed by store. The HTTP
// client carries a cookie jar so the server-set HTTP-only refresh cookie
// is sent back on renewal calls.
func NewClient(baseURL string, store session.Store, logger *slog.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		Store:  store,
		Logger: logger,
	}, nil
}

// Do sends one request and applies the 401 recovery protocol. The body is
// a byte slice (not a reader) so the single retry can replay it. The
// returned response is unmodified for every status except an unrecovered
// 401, which surfaces as ErrSessionExpired after the store was cleared.
func (c *Client) Do(ctx context.Context, method, path string, body []byte, contentType string) (*http.Response, error) {
	token := c.Store.Load().Token
	resp, err := c.send(ctx, method, path, body, contentType, token)
	if err != nil {
		return nil, err
	}

	// Recovery only applies to authenticated traffic. A 401 on a
	// tokenless call (failed login, register) is a plain API error.
	if resp.StatusCode != http.StatusUnauthorized || token == "" {
		return resp, nil
	}
	resp.Body.Close()

	token, err = c.RefreshToken(ctx)
	if err != nil {
		c.Logger.Warn("token refresh failed, clearing session", "error", err)
		if lerr := c.Store.Logout(); lerr != nil {
			c.Logger.Error("failed to clear session", "error", lerr)
		}
		if c.OnSessionExpired != nil {
			c.OnSessionExpired()
		}
		return nil, ErrSessionExpired
	}

	// One retry with the renewed token; its response is returned as-is
	// even if it fails again.
	return c.send(ctx, method, path, body, contentType, token)
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, contentType, token string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	return resp, nil
}

// RefreshToken performs one silent renewal against /auth/refresh using the
// stored refresh cookie and persists the new access token. Concurrent
// callers (a 401 handler racing the background cycle) share a single
// in-flight attempt.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	c.refreshMu.Lock()
	if f := c.inflight; f != nil {
		c.refreshMu.Unlock()
		select {
		case <-f.done:
			return f.token, f.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	f := &refreshFlight{done: make(chan struct{})}
	c.inflight = f
	c.refreshMu.Unlock()

	f.token, f.err = c.doRefresh(ctx)

	c.refreshMu.Lock()
	c.inflight = nil
	c.refreshMu.Unlock()
	close(f.done)

	return f.token, f.err
}

func (c *Client) doRefresh(ctx context.Context) (string, error) {
	// No bearer header: the renewal endpoint authenticates with the
	// HTTP-only cookie held in the jar.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/auth/refresh", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create refresh request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute refresh request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("refresh failed with status: %d", resp.StatusCode)
	}

	var out RefreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("refresh response missing access token")
	}

	// Token only; the user identity is untouched by a silent renewal.
	if err := c.Store.Login(out.AccessToken, c.Store.Load().User); err != nil {
		return "", fmt.Errorf("failed to persist refreshed token: %w", err)
	}

	return out.AccessToken, nil
}
