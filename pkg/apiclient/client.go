// Package apiclient is the JSON-over-HTTP client shared by the remote catalog and
// orders sources.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultBackoff  = 200 * time.Millisecond
	maxBodyBytes    = 8 << 20
	requestIDHeader = "X-Request-Id"
)

// TransportError covers network failures and non-2xx responses.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Retryable is true for network failures, 429 and 5xx. Other 4xx answers are final.
func (e *TransportError) Retryable() bool {
	return e.StatusCode == 0 || e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// DecodeError reports a 2xx response whose body is not the expected JSON.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Options tunes a Client. Retries applies to idempotent requests only.
type Options struct {
	Timeout    time.Duration
	Retries    uint64
	Backoff    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	name    string
	baseURL *url.URL
	http    *http.Client
	retries uint64
	backoff time.Duration
}

type requestIDKey struct{}

// WithRequestID propagates the inbound request id to outbound calls.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func New(name, baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid %s base url %q", name, baseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}

	return &Client{
		name:    name,
		baseURL: u,
		http:    httpClient,
		retries: opts.Retries,
		backoff: backoff,
	}, nil
}

func (c *Client) Name() string { return c.name }

// GetJSON issues GET path?query and decodes the body into dest. Retryable transport
// failures are retried up to Options.Retries times; 4xx and decode failures are not.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, dest any) error {
	target := c.resolve(path, query)
	b := retry.WithMaxRetries(c.retries, retry.NewConstant(c.backoff))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := c.do(ctx, http.MethodGet, target, nil, dest)
		var te *TransportError
		if errors.As(err, &te) && te.Retryable() {
			return retry.RetryableError(err)
		}
		return err
	})
}

// PostJSON sends body as JSON and decodes the response into dest. Never retried.
func (c *Client) PostJSON(ctx context.Context, path string, body, dest any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", c.name, err)
	}
	return c.do(ctx, http.MethodPost, c.resolve(path, nil), payload, dest)
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, method, target string, payload []byte, dest any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &TransportError{Method: method, URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		req.Header.Set(requestIDHeader, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Method: method, URL: target, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Method: method, URL: target, StatusCode: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return &DecodeError{URL: target, Err: err}
	}
	return nil
}
