package mock

import "time"

// Option represents a service option
type Option func(s *Service)

// WithAccessTTL sets access token lifetime
func WithAccessTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.AccessTTL = ttl
	}
}

// WithSecret sets the token signing secret
func WithSecret(secret []byte) Option {
	return func(s *Service) {
		s.Secret = secret
	}
}

// WithoutSeed starts with no users, roles or products
func WithoutSeed() Option {
	return func(s *Service) {
		s.seed = false
	}
}
