// Package backend talks to the crawler service's REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/user/crawler-console/pkg/metrics"
	"github.com/user/crawler-console/pkg/utils"
)

const (
	apiPrefix            = "/api/crawler"
	defaultExportTimeout = 5 * time.Minute
)

// Client issues plain request/response calls against the backend. It does
// not retry; callers decide what a failure means.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	// stream has no client-wide timeout. Streamed calls carry their own
	// context deadline that lasts until the body is closed.
	stream        *http.Client
	exportTimeout time.Duration
	logger        *zap.Logger
	metrics       *metrics.Metrics
}

type Option func(*Client)

// WithExportTimeout bounds a whole export, headers and body, to d.
func WithExportTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.exportTimeout = d
		}
	}
}

// NewClient creates a client for the backend rooted at baseURL. timeout
// applies to every call except exports.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", baseURL)
	}
	c := &Client{
		baseURL:       u,
		http:          &http.Client{Timeout: timeout},
		stream:        &http.Client{},
		exportTimeout: defaultExportTimeout,
		logger:        logger,
		metrics:       m,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type call struct {
	endpoint string // metrics/log label, e.g. "tasks.start"
	method   string
	path     []string
	query    url.Values
	body     any
	stream   bool
}

// send performs c and returns the response when the backend answered 2xx.
// The caller owns the response body.
func (c *Client) send(ctx context.Context, req call) (*http.Response, error) {
	start := time.Now()

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		c.observe(req.endpoint, "transport_error", start)
		return nil, &TransportError{Endpoint: req.endpoint, Err: err}
	}

	hc := c.http
	if req.stream {
		hc = c.stream
	}
	resp, err := hc.Do(httpReq)
	if err != nil {
		c.observe(req.endpoint, "transport_error", start)
		c.logger.Warn("backend call failed",
			zap.String("endpoint", req.endpoint),
			zap.String("trace_id", utils.TraceID(ctx)),
			zap.Error(err),
		)
		return nil, &TransportError{Endpoint: req.endpoint, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		reqErr := newRequestError(req.endpoint, resp)
		c.observe(req.endpoint, "request_error", start)
		c.logger.Warn("backend rejected request",
			zap.String("endpoint", req.endpoint),
			zap.String("trace_id", utils.TraceID(ctx)),
			zap.Int("status", resp.StatusCode),
			zap.String("message", reqErr.Message),
		)
		return nil, reqErr
	}

	c.observe(req.endpoint, "success", start)
	c.logger.Debug("backend call succeeded",
		zap.String("endpoint", req.endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return resp, nil
}

// doJSON performs req and decodes the JSON response into out (when non-nil).
func (c *Client) doJSON(ctx context.Context, req call, out any) error {
	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Endpoint: req.endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req call) (*http.Request, error) {
	u := utils.JoinURL(c.baseURL, append([]string{apiPrefix}, req.path...)...)
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if traceID := utils.TraceID(ctx); traceID != "" {
		httpReq.Header.Set(utils.TraceIDHeader, traceID)
	}
	return httpReq, nil
}

func (c *Client) observe(endpoint, outcome string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.ObserveBackend(endpoint, outcome, time.Since(start).Seconds())
}
