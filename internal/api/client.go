// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/abdulazeez2247/moe/internal/logging"
)

// Configuration constants for the MOE backend.
const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize caps every response body.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	// DefaultUserAgent is sent when none is configured.
	DefaultUserAgent = "moe/dev"
)

// TokenStore is the part of the session store the gateway uses. Token is
// read immediately before every request; Clear runs on any 401.
type TokenStore interface {
	Token() string
	Clear() error
}

// Client is the gateway to the MOE backend. One method per backend
// operation; all of them are safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	limiter    *rate.Limiter
	userAgent  string
	log        *zap.Logger

	hookMu         sync.RWMutex
	onUnauthorized func(op string)
}

// New creates a client for baseURL (the backend origin plus "/api").
// tokens may be nil for a client that never authenticates.
func New(baseURL string, tokens TokenStore) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		tokens:     tokens,
		userAgent:  DefaultUserAgent,
		log:        zap.NewNop(),
	}
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithRateLimit paces outgoing requests to rps per second. Zero disables
// pacing.
func (c *Client) WithRateLimit(rps float64) *Client {
	if rps <= 0 {
		c.limiter = nil
		return c
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return c
}

// WithUserAgent sets the User-Agent header.
func (c *Client) WithUserAgent(ua string) *Client {
	if ua != "" {
		c.userAgent = ua
	}
	return c
}

// WithLogger sets the request logger.
func (c *Client) WithLogger(log *zap.Logger) *Client {
	c.log = logging.OrNop(log).Named("api")
	return c
}

// OnUnauthorized sets the hook run after a 401 has cleared the session.
// It replaces any previous hook.
func (c *Client) OnUnauthorized(fn func(op string)) {
	c.hookMu.Lock()
	c.onUnauthorized = fn
	c.hookMu.Unlock()
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// request describes one backend call.
type request struct {
	op     string
	method string
	path   string
	query  url.Values

	// JSON body, or a prepared body with its content type.
	body        any
	raw         []byte
	contentType string
}

// do sends r and decodes the unwrapped 2xx body into out (when non-nil).
// It returns the unwrapped body for callers that inspect it further.
func (c *Client) do(ctx context.Context, r request, out any) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s: %w", r.op, err)
		}
	}

	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.op, err)
	}

	c.logRequest(req)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	req.Header.Del("Authorization")
	if err != nil {
		c.log.Debug("api request failed", zap.String("op", r.op), zap.Error(err))
		return nil, fmt.Errorf("%s: request failed: %w", r.op, err)
	}
	defer resp.Body.Close()
	c.logResponse(r.op, req, resp, time.Since(start))

	body, err := readResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.handleErrorResponse(r.op, resp.StatusCode, body)
	}

	body = unwrapData(body)
	if out != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return nil, fmt.Errorf("%s: failed to parse response: %w", r.op, err)
		}
	}
	return body, nil
}

func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var (
		payload     io.Reader
		contentType string
	)
	switch {
	case r.raw != nil:
		payload = bytes.NewReader(r.raw)
		contentType = r.contentType
	case r.body != nil:
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		payload = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, contentType)
	return req, nil
}

// setHeaders attaches the bearer token as it is right now, never a cached
// copy, so a logout is honoured by the very next request.
func (c *Client) setHeaders(req *http.Request, contentType string) {
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
}

// readResponse reads the response body with size limits to prevent memory
// exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("%w: exceeded %d bytes", ErrResponseTooLarge, MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse converts a non-2xx response into a *RequestError. A
// 401 clears the session and fires the unauthorized hook before returning.
func (c *Client) handleErrorResponse(op string, status int, body []byte) error {
	reqErr := &RequestError{
		Op:              op,
		Status:          status,
		Message:         errorMessage(body),
		UpgradeRequired: gjson.GetBytes(body, "upgradeRequired").Bool() || gjson.GetBytes(body, "data.upgradeRequired").Bool(),
		Body:            body,
	}

	if status == http.StatusUnauthorized {
		c.log.Info("unauthorized response, clearing session", zap.String("op", op))
		if c.tokens != nil {
			if err := c.tokens.Clear(); err != nil {
				c.log.Warn("failed to clear session", zap.Error(err))
			}
		}
		c.hookMu.RLock()
		hook := c.onUnauthorized
		c.hookMu.RUnlock()
		if hook != nil {
			hook(op)
		}
	}
	return reqErr
}

// errorMessage extracts the server text from the shapes the backend uses:
// {"message"}, {"error": "..."}, {"error": {"message"}} and {"msg"}.
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range []string{"message", "error.message", "error", "msg", "data.message"} {
		r := gjson.GetBytes(body, path)
		if r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return ""
}

// unwrapData returns the contents of a top-level "data" envelope when it
// holds an object or array, and body unchanged otherwise.
func unwrapData(body []byte) []byte {
	if !gjson.ValidBytes(body) {
		return body
	}
	r := gjson.GetBytes(body, "data")
	if r.IsObject() || r.IsArray() {
		return []byte(r.Raw)
	}
	return body
}

// =============================================================================
// REQUEST/RESPONSE LOGGING
// =============================================================================

// logRequest logs method and path only. Headers carry the token and bodies
// carry passwords.
func (c *Client) logRequest(req *http.Request) {
	c.log.Debug("api request", zap.String("method", req.Method), zap.String("path", req.URL.Path))
}

func (c *Client) logResponse(op string, req *http.Request, resp *http.Response, d time.Duration) {
	c.log.Info("api response",
		zap.String("op", op),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", d))
}
