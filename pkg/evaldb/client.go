// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package evaldb

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
)

// DefaultBaseURL is the public evaldb service.
const DefaultBaseURL = "https://evaldb.turb.io"

const defaultUserAgent = "evaldb-go/1.0"

// Client runs queries against one evaldb database.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	key        string
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another evaldb deployment.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New creates a client for the database identified by key.
//
// key is accepted as any so that credentials read from untyped sources
// (decoded JSON, config files) are checked here: anything other than a
// string fails with KindInvalidKey before any network activity. The key is
// stored verbatim; emptiness and format are not validated.
func New(key any, opts ...Option) (*Client, error) {
	s, ok := key.(string)
	if !ok {
		return nil, newError(KindInvalidKey, fmt.Sprintf("evaldb key must be a string, got %T", key))
	}
	return newClient(s, opts...), nil
}

func newClient(key string, opts ...Option) *Client {
	c := &Client{
		key:        key,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the database key the client was built with.
func (c *Client) Key() string { return c.key }

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Read runs a read-only query.
func (c *Client) Read(ctx context.Context, code string, args ...Arg) (Value, error) {
	return c.Query(ctx, code, Args(args), true)
}

// Write runs a query that may mutate the database.
func (c *Client) Write(ctx context.Context, code string, args ...Arg) (Value, error) {
	return c.Query(ctx, code, Args(args), false)
}

// Query posts code with args and returns the object from the response.
// When the service reports an error, the returned error is an *Error of
// KindQuery carrying the service's message.
func (c *Client) Query(ctx context.Context, code string, args Args, readonly bool) (Value, error) {
	res, err := c.Do(ctx, Request{Code: code, Readonly: readonly, Args: args})
	if err != nil {
		return Value{}, err
	}
	return res.Unwrap()
}

// Do sends req and returns the decoded response without interpreting its
// error field. Only transport and decoding failures are returned as errors.
func (c *Client) Do(ctx context.Context, req Request) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.evalURL(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.setStandardHeaders(httpReq)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	return &res, nil
}

// evalURL concatenates the key without escaping it.
func (c *Client) evalURL() string { return c.baseURL + "/eval/" + c.key }

func (c *Client) setStandardHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", uuid.NewString())
}
