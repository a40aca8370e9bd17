// Package httpclient provides the HTTP client shared by the platform API
// clients, with middleware support for auth, observability, rate limiting
// and retries.
package httpclient

import (
	"net/http"
	"time"
)

// DefaultTimeout is the request timeout applied when no client is supplied.
const DefaultTimeout = 30 * time.Second

// Doer executes HTTP requests. *Client and *http.Client both satisfy it;
// API clients depend on this interface so tests can substitute either.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is an HTTP client that supports middleware chaining.
type Client struct {
	base       *http.Client
	middleware []Middleware
}

// Middleware wraps an http.RoundTripper to add behavior.
// Middleware is applied in order: first middleware is outermost.
type Middleware func(http.RoundTripper) http.RoundTripper

// New creates a new HTTP client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		base: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	if len(c.middleware) > 0 {
		transport := c.base.Transport
		if transport == nil {
			transport = http.DefaultTransport
		}

		// Apply middleware in reverse order so the first middleware is outermost.
		for i := len(c.middleware) - 1; i >= 0; i-- {
			transport = c.middleware[i](transport)
		}

		c.base.Transport = transport
	}

	return c
}

// Do executes an HTTP request through the configured middleware chain.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.base.Do(req)
}

// HTTPClient returns the underlying http.Client.
// Useful when the client has to be handed to code expecting *http.Client.
func (c *Client) HTTPClient() *http.Client {
	return c.base
}
