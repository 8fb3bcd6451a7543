// internal/gateway/client.go
package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultBaseURL is the local development address of the remote service.
const DefaultBaseURL = "http://127.0.0.1:8000/api"

// ErrUnauthorized matches any 401 response via errors.Is, so callers can
// detect an expired or missing credential and send the user back to login.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response from the remote service, surfaced as-is.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote service returned status %d", e.Status)
	}
	return fmt.Sprintf("remote service returned status %d: %s", e.Status, e.Body)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// TokenSource yields the current bearer token, or "" when none is stored.
// It is consulted at request time, not at client construction.
type TokenSource interface {
	Token() string
}

// Client exposes one method per remote operation against a fixed base
// address, attaching credentials and content type uniformly. Failures are
// logged and returned unchanged: no retry, no fallback.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client. Its transport is
// still wrapped with the bearer-token interceptor.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		clone := *hc
		c.http = &clone
	}
}

// WithLogger substitutes the structured logger used for failure detail.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient builds a gateway client for the service at baseURL (the default
// development address when empty). tokens may be nil, in which case every
// request goes out unauthenticated.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  slog.Default(),
		tracer:  otel.Tracer("libraclient/gateway"),
	}
	for _, opt := range opts {
		opt(c)
	}

	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http.Transport = &authTransport{base: base, tokens: tokens}
	return c
}

// authTransport attaches "Authorization: Bearer <token>" to every outgoing
// request for which the token source yields a token. Without one the request
// proceeds unauthenticated and the remote service decides whether to reject.
type authTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.tokens != nil {
		if tok := t.tokens.Token(); tok != "" {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return t.base.RoundTrip(req)
}

// do performs one request and decodes the response into out (skipped when
// out is nil). Transport failures, non-2xx statuses, and malformed payloads
// are all logged with available detail and returned to the caller unchanged
// in meaning.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	ctx, span := c.tracer.Start(ctx, "gateway."+op,
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.path", path),
		),
	)
	defer span.End()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetAttributes(attribute.Bool("transport.failed", true))
		c.logger.Error("api request failed",
			"operation", op, "method", method, "path", path, "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		apiErr := &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(detail))}
		c.logger.Error("api request rejected",
			"operation", op, "method", method, "path", path,
			"status", resp.StatusCode, "detail", apiErr.Body)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("api response malformed",
			"operation", op, "method", method, "path", path, "error", err)
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}
