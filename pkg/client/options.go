package client

import (
	"net/http"
	"time"

	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/monitoring/logging"
)

// Option is a functional option for configuring the Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger sets a custom logger
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout bounds every call.  Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUserAgent sets a custom User-Agent string
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.header.Set(key, value)
	}
}

// WithAuthorization sets "Authorization: <scheme> <token>".  An empty token
// sends no Authorization header.
func WithAuthorization(scheme, token string) Option {
	return func(c *Client) {
		if token != "" {
			c.header.Set("Authorization", scheme+" "+token)
		}
	}
}

//Personal.AI order the ending
