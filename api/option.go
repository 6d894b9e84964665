package api

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Option represents a client option
type Option func(c *Client)

// WithPlainClient sets the non-intercepted client used for session issuance
func WithPlainClient(client *http.Client) Option {
	return func(c *Client) {
		c.plain = client
	}
}

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}
