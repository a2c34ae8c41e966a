// Package api provides the HTTP client for the medical-supply catalog API.
//
// Every endpoint answers with the same envelope:
//
//	{"success": true, "data": <payload>, "response": "<message on failure>"}
//
// A non-2xx status or success:false is a failure regardless of the payload.
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

	"github.com/google/uuid"

	"github.com/medsupply/catadmin/internal/logger"
)

// Client represents the API client for the catalog service
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a new API client. baseURL is scheme://host[:port]
// without a trailing slash; every request path starts with /api/.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Envelope is the wrapper every API response uses
type Envelope struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data"`
	Response string          `json:"response"`
}

// hasData reports whether the envelope carries a non-null payload
func (e *Envelope) hasData() bool {
	d := bytes.TrimSpace(e.Data)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}

// doRequest performs an HTTP request with a JSON body
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	c.log.Debug("%s %s (request %s)", method, path, reqID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}

	return resp, nil
}

// call performs a request and decodes the envelope. When target is non-nil
// the envelope's data is decoded into it; requireData makes a missing
// payload an envelope failure.
func (c *Client) call(ctx context.Context, method, path string, body, target interface{}, requireData bool) error {
	resp, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		c.log.Warn("%s %s failed: %v", method, path, err)
		return err
	}

	if err := c.parseResponse(method, path, resp, target, requireData); err != nil {
		c.log.Warn("%s %s failed: %v", method, path, err)
		return err
	}
	return nil
}

// parseResponse reads the HTTP response and unwraps the envelope
func (c *Client) parseResponse(method, path string, resp *http.Response, target interface{}, requireData bool) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warn("failed to close response body: %v", err)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: err}
	}

	var env Envelope
	envErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		te := &TransportError{Method: method, Path: path, StatusCode: resp.StatusCode}
		if envErr == nil {
			te.Message = env.Response
		}
		return te
	}

	if envErr != nil {
		return &EnvelopeError{Method: method, Path: path, Reason: "malformed envelope", Err: envErr}
	}
	if !env.Success {
		return &EnvelopeError{Method: method, Path: path, Message: env.Response, Reason: "request rejected"}
	}

	if target == nil {
		return nil
	}
	if !env.hasData() {
		if requireData {
			return &EnvelopeError{Method: method, Path: path, Reason: "missing data"}
		}
		return nil
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		return &EnvelopeError{Method: method, Path: path, Reason: "malformed data", Err: err}
	}

	return nil
}

// Health checks that the API answers on the brand amount endpoint
func (c *Client) Health(ctx context.Context) error {
	_, err := c.Amount(ctx, BrandPath)
	return err
}
