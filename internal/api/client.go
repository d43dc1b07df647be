// Package api is a thin typed client for the project-management REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/existflow/jera/internal/logger"
	"github.com/existflow/jera/internal/obs"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// maxErrorBody bounds how much of a failed response is read for a message.
const maxErrorBody = 1 << 20

// TokenSource supplies the bearer token for each request.
// The session store implements it.
type TokenSource interface {
	Token() string
}

// Client is the API client. It performs no retries and no caching;
// deadlines and cancellation come from the caller's context.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *obs.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit paces requests to rps per second. rps <= 0 disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMetrics records every request on m.
func WithMetrics(m *obs.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a client for baseURL. tokens may be nil for anonymous use.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

// do sends a request authenticated with the session token.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	return c.doAs(ctx, c.token(), method, path, body, out)
}

// doAs sends a request with an explicit token. An empty token sends no
// Authorization header.
func (c *Client) doAs(ctx context.Context, token, method, path string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Method: method, Path: path, Err: err}
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger.Debug("HTTP Request",
		logger.F("method", method),
		logger.F("url", url),
		logger.F("request_id", requestID))

	start := time.Now()
	record := c.metrics.Start(method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		record(0)
		logger.Error("HTTP request failed", logger.F("error", err), logger.F("url", url))
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	record(resp.StatusCode)

	logger.Debug("HTTP Response",
		logger.F("status", resp.StatusCode),
		logger.F("url", url),
		logger.F("duration", time.Since(start).String()))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rerr := newRequestError(resp)
		logger.Warn("API error",
			logger.F("method", method),
			logger.F("path", path),
			logger.F("status", rerr.Status),
			logger.F("message", rerr.Message))
		return rerr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// newRequestError prefers the server's message over a generic one.
func newRequestError(resp *http.Response) *RequestError {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(data, &body); err == nil {
		msg = body.Message
		if msg == "" {
			msg = body.Error
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed: status %d", resp.StatusCode)
	}
	return &RequestError{Status: resp.StatusCode, Message: msg}
}

// list, get and send fix the common shapes of resource calls.

func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var items []T
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func get[T any](ctx context.Context, c *Client, path string) (*T, error) {
	var item T
	if err := c.do(ctx, http.MethodGet, path, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func send[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var item T
	if err := c.do(ctx, method, path, body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func remove(ctx context.Context, c *Client, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
