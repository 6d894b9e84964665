package transport

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Option represents a round tripper option
type Option func(*RoundTripper)

// WithTransport sets the underlying transport used for API requests
func WithTransport(transport http.RoundTripper) Option {
	return func(r *RoundTripper) {
		r.transport = transport
	}
}

// WithRefresher sets the credential refresher
func WithRefresher(refresher Refresher) Option {
	return func(r *RoundTripper) {
		r.refresher = refresher
	}
}

// WithRefreshURL sets an HTTP refresher posting to URL through a dedicated client
func WithRefreshURL(URL string) Option {
	return func(r *RoundTripper) {
		r.refreshURL = URL
	}
}

// WithSignOut sets the hook invoked after an irrecoverable refresh failure
func WithSignOut(fn SignOutFunc) Option {
	return func(r *RoundTripper) {
		r.signOut = fn
	}
}

// WithSignInPath sets the sign-in entry point passed to the sign-out hook
func WithSignInPath(path string) Option {
	return func(r *RoundTripper) {
		r.signInPath = path
	}
}

// WithCoalescing enables or disables sharing one refresh between concurrent 401s
func WithCoalescing(enabled bool) Option {
	return func(r *RoundTripper) {
		r.coalesce = enabled
	}
}

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) Option {
	return func(r *RoundTripper) {
		r.logger = logger
	}
}
