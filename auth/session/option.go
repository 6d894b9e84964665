package session

import (
	"github.com/rs/zerolog"
	"github.com/velovis/velovis/auth/store"
)

// Option represents a session option
type Option func(s *Session)

// WithStore sets durable storage
func WithStore(store store.Store) Option {
	return func(s *Session) {
		s.store = store
	}
}

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}
