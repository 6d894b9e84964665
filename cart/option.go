package cart

import "github.com/rs/zerolog"

// Option represents a cart option
type Option func(c *Cart)

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Cart) {
		c.logger = logger
	}
}
