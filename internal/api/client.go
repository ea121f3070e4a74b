// Package api is the typed client for the student records backend. Every
// endpoint gets one method with an explicit response schema; calls are
// single-shot with a per-request timeout and no retries.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"learnhub/internal/jsonutil"
)

const maxResponseBody = 1 << 20 // 1MB

// Connection pooling limits; the TUI issues short bursts of small requests.
const (
	maxIdleConns        = 100
	maxIdleConnsPerHost = 10
	maxConnsPerHost     = 10
	idleConnTimeout     = 60 * time.Second
)

const defaultTimeout = 10 * time.Second

// Options configures optional client collaborators. Zero values get defaults.
type Options struct {
	Timeout time.Duration
	Logger  *slog.Logger
	Tracer  oteltrace.Tracer
}

// Client talks to the student records backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	logger     *slog.Logger
	tracer     oteltrace.Tracer
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer("learnhub")
	}
	return &Client{
		httpClient: &http.Client{
			// no client-wide timeout; each request carries its own via context
			Transport: &http.Transport{
				MaxIdleConns:        maxIdleConns,
				MaxIdleConnsPerHost: maxIdleConnsPerHost,
				MaxConnsPerHost:     maxConnsPerHost,
				IdleConnTimeout:     idleConnTimeout,
			},
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: opts.Timeout,
		logger:  opts.Logger,
		tracer:  opts.Tracer,
	}
}

// Close releases idle connections in the pool.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}

// do performs one request and decodes the JSON response into out when out is
// non-nil. Non-2xx responses become *APIError carrying the server's message.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, method+" "+path, oteltrace.WithSpanKind(oteltrace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", path),
	)

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		c.logger.Error("request failed",
			"method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("read response body: %w", err)
	}

	c.logger.Debug("request complete",
		"method", method, "path", path, "status", resp.StatusCode,
		"latency", time.Since(start), "request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: serverMessage(data)}
		span.RecordError(apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	return jsonutil.UnmarshalWithContext(data, out, method+" "+path)
}

// serverMessage pulls the error text out of a failure payload. The backend
// uses both {"error": ...} and {"success": false, "message": ...} shapes.
func serverMessage(data []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}
