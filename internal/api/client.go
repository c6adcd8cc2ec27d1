package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"kidofood-web/internal/logger"
	"kidofood-web/internal/metrics"
	"kidofood-web/internal/transport"

	"go.uber.org/zap"
)

// Client talks to the KidoFood backend on behalf of the visitor whose
// request is stored in the context.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	localCookies []string
}

type Option func(*Client)

// WithHTTPClient replaces the default client, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLocalCookies names cookies that belong to this server and must not
// be forwarded to the backend.
func WithLocalCookies(names ...string) Option {
	return func(c *Client) { c.localCookies = append(c.localCookies, names...) }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a read-only request and normalizes the reply. It never
// fails: every problem ends up in the Result's Failure.
func Get[T any](ctx context.Context, c *Client, path string) Result[T] {
	status, body, cookies, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return failure[T](UnknownError, status)
	}
	res := normalize[T](body, status)
	res.Cookies = cookies
	return res
}

// PostJSON sends payload as JSON and normalizes the reply like Get.
func PostJSON[T any](ctx context.Context, c *Client, path string, payload any) Result[T] {
	buf, err := json.Marshal(payload)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to marshal backend payload", zap.String("path", path), zap.Error(err))
		return failure[T](UnknownError, 0)
	}

	status, body, cookies, err := c.do(ctx, http.MethodPost, path, buf)
	if err != nil {
		return failure[T](UnknownError, status)
	}
	res := normalize[T](body, status)
	res.Cookies = cookies
	return res
}

// do runs one request to completion. The call is detached from the
// visitor's cancellation so a guard always sees a finished answer.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, []*http.Cookie, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("method", method),
		zap.String("path", path),
	)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), method, c.url(path), reader)
	if err != nil {
		log.Error("failed building backend request", zap.Error(err))
		return 0, nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if reqID := logger.RequestIDFrom(ctx); reqID != "" {
		req.Header.Set(logger.RequestIDHeader, reqID)
	}
	transport.ForwardCookies(ctx, req, c.localCookies...)

	metrics.BackendRequests.Inc()
	timer := metrics.StartTimer()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.BackendFailures.Inc()
		log.Warn("backend request failed", zap.Error(err), zap.Duration("duration", timer.Duration()))
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.BackendFailures.Inc()
		log.Warn("failed to read backend response", zap.Int("status", resp.StatusCode), zap.Error(err))
		return resp.StatusCode, nil, nil, fmt.Errorf("reading backend response: %w", err)
	}

	log.Debug("backend responded",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", timer.Duration()),
	)
	return resp.StatusCode, bodyBytes, resp.Cookies(), nil
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}
