// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	mylog "github.com/staranto/statsctl/internal/log"
)

// DefaultBaseURL is the public statistics API.
const DefaultBaseURL = "https://api.michielo.com/api/statistics"

// Observer is told about every finished request. Code is 0 when no response
// was received.
type Observer func(endpoint string, code int, elapsed time.Duration)

// Client issues GET requests against the statistics API.
type Client struct {
	baseURL  string
	http     *retryablehttp.Client
	observer Observer
}

type Option func(*Client)

// WithRetries sets how many times a request is retried on connection errors
// and 5xx responses.
func WithRetries(n int) Option {
	return func(c *Client) { c.http.RetryMax = n }
}

// WithRetryWait bounds the backoff between retries.
func WithRetryWait(minWait, maxWait time.Duration) Option {
	return func(c *Client) {
		c.http.RetryWaitMin = minWait
		c.http.RetryWaitMax = maxWait
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.HTTPClient.Timeout = d }
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient returns a Client for baseURL. An empty baseURL selects
// DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	rc := retryablehttp.NewClient()
	rc.Logger = mylog.Retryable{}
	rc.RetryMax = 2
	rc.HTTPClient.Timeout = 15 * time.Second
	// Hand back the last response instead of a generic "giving up" error so
	// a final 5xx still surfaces as a StatusError.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    rc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get fetches baseURL + path and returns the body of a 2xx response.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	target := c.baseURL + path
	start := time.Now()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	log.Debugf("GET %s", target)
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(path, 0, start)
		return nil, fmt.Errorf("%w: GET %s: %v", ErrTransport, target, err)
	}
	defer resp.Body.Close()

	c.observe(path, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: target, Code: resp.StatusCode}
	}

	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrTransport, target, err)
	}

	return body.Bytes(), nil
}

func (c *Client) observe(path string, code int, start time.Time) {
	if c.observer != nil {
		c.observer(endpointOf(path), code, time.Since(start))
	}
}

// endpointOf collapses ids out of a path so metrics stay low-cardinality:
// /mc/bstats/42 -> /mc/bstats/{id}.
func endpointOf(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case len(parts) >= 3 && parts[0] == "mc":
		return "/" + parts[0] + "/" + parts[1] + "/{id}"
	case len(parts) >= 2 && parts[0] != "mc":
		return "/" + parts[0] + "/{id}"
	default:
		return "/" + strings.Join(parts, "/")
	}
}

// GetWrapped fetches path and decodes the data member of a
// {success, data, message} envelope into T.
func GetWrapped[T any](ctx context.Context, c *Client, path string) (T, error) {
	var zero T
	body, err := c.Get(ctx, path)
	if err != nil {
		return zero, err
	}
	return decodeWrapped[T](c.baseURL+path, body)
}

// GetBare fetches path and decodes the whole body into T.
func GetBare[T any](ctx context.Context, c *Client, path string) (T, error) {
	var zero T
	body, err := c.Get(ctx, path)
	if err != nil {
		return zero, err
	}
	return decodeBare[T](c.baseURL+path, body)
}

func decodeWrapped[T any](target string, body []byte) (T, error) {
	var zero T
	if !gjson.ValidBytes(body) {
		return zero, fmt.Errorf("%w: %s is not JSON", ErrMalformed, target)
	}
	doc := gjson.ParseBytes(body)
	if !doc.Get("success").Bool() {
		return zero, &UnsuccessfulError{URL: target, Message: doc.Get("message").String()}
	}
	data := doc.Get("data")
	if !data.Exists() {
		return zero, fmt.Errorf("%w: %s has no data", ErrMalformed, target)
	}
	var v T
	if err := json.Unmarshal([]byte(data.Raw), &v); err != nil {
		return zero, fmt.Errorf("%w: %s: %v", ErrMalformed, target, err)
	}
	return v, nil
}

// decodeMaybeWrapped accepts either shape: a body with a top level success
// member is treated as an envelope.
func decodeMaybeWrapped[T any](target string, body []byte) (T, error) {
	if gjson.GetBytes(body, "success").Exists() {
		return decodeWrapped[T](target, body)
	}
	return decodeBare[T](target, body)
}

func decodeBare[T any](target string, body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %s: %v", ErrMalformed, target, err)
	}
	return v, nil
}

func escape(id string) string {
	// Hugging Face ids are "author/model"; the API takes them unescaped.
	segments := strings.Split(id, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
