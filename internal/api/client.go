// Package api is the HTTP client for the storefront backend. Every
// response uses the same envelope:
//
//	{ "status": { "remarks": "success"|"failed", "message": ..., "code": ... }, "payload": ... }
//
// A call succeeds iff status.remarks is "success"; anything else is
// surfaced as an *Error carrying the server message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Error is an application-level failure reported by the backend.
type Error struct {
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Message == "" {
		return "Request failed"
	}
	return e.Message
}

type Status struct {
	Remarks string `json:"remarks"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type Envelope struct {
	Status  Status          `json:"status"`
	Payload json.RawMessage `json:"payload"`
}

// Bind unmarshals the envelope payload into v.
func (e *Envelope) Bind(v any) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return errors.New("envelope has no payload")
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	breaker *gobreaker.CircuitBreaker[*Envelope]
}

type Option func(*Client)

// WithHTTPClient replaces the default instrumented client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTokenSource enables bearer auth on JSON calls.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker[*Envelope](gobreaker.Settings{
		Name:    "storefront-api",
		Timeout: 30 * time.Second,
		IsSuccessful: func(err error) bool {
			// Application failures come from a healthy backend and must
			// not trip the breaker.
			var apiErr *Error
			return err == nil || errors.As(err, &apiErr)
		},
	})
	return c
}

// Get performs an authenticated JSON GET against endpoint.
func (c *Client) Get(ctx context.Context, endpoint string) (*Envelope, error) {
	return c.doJSON(ctx, http.MethodGet, endpoint, nil)
}

// Post performs an authenticated JSON POST with body against endpoint.
func (c *Client) Post(ctx context.Context, endpoint string, body any) (*Envelope, error) {
	return c.doJSON(ctx, http.MethodPost, endpoint, body)
}

// PostMultipart uploads a file plus form fields. Multipart calls carry
// no auth header; the backend accepts them unauthenticated.
func (c *Client) PostMultipart(ctx context.Context, endpoint string, fields map[string]string, fileField, filename string, file io.Reader) (*Envelope, error) {
	return c.breaker.Execute(func() (*Envelope, error) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for k, v := range fields {
			if err := w.WriteField(k, v); err != nil {
				return nil, fmt.Errorf("write field %s: %w", k, err)
			}
		}
		part, err := w.CreateFormFile(fileField, filename)
		if err != nil {
			return nil, fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return nil, fmt.Errorf("copy file: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("finalize multipart body: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(endpoint), &buf)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("X-Request-ID", uuid.NewString())

		return c.send(req)
	})
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, body any) (*Envelope, error) {
	return c.breaker.Execute(func() (*Envelope, error) {
		var reader io.Reader
		if body != nil {
			data, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("encode request body: %w", err)
			}
			reader = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.url(endpoint), reader)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-ID", uuid.NewString())
		if c.tokens != nil {
			if token, ok := c.tokens.Token(ctx); ok {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}

		return c.send(req)
	})
}

func (c *Client) send(req *http.Request) (*Envelope, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		// No parseable envelope at all: a transport-level failure.
		return nil, fmt.Errorf("request failed with status %d: %w", resp.StatusCode, err)
	}
	if env.Status.Remarks != "success" {
		return nil, &Error{Message: env.Status.Message, Code: env.Status.Code}
	}
	return &env, nil
}

func (c *Client) url(endpoint string) string {
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}
