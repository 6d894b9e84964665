package auth

import "errors"

var (
	// ErrIncompleteCredentials is returned when only one half of the token pair is present.
	ErrIncompleteCredentials = errors.New("incomplete credentials: access and refresh token are both required")
	// ErrMissingProfile is returned when a login is attempted with a profile naming no user.
	ErrMissingProfile = errors.New("missing user profile")
	// ErrNotAuthenticated is returned when the session holds no credentials.
	ErrNotAuthenticated = errors.New("not authenticated")
)
