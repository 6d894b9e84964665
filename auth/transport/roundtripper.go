package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/velovis/velovis/auth"
	"golang.org/x/sync/singleflight"
)

const (
	// HeaderRequestID correlates a request with its retry in logs
	HeaderRequestID = "X-Request-ID"
	// DefaultSignInPath is the sign-in entry point users are sent back to
	DefaultSignInPath = "/login"
)

// Session is the credential store the round tripper reads from and writes to
type Session interface {
	Snapshot() auth.State
	SetCredentials(ctx context.Context, credentials auth.Credentials) error
	Logout(ctx context.Context)
}

// SignOutFunc is invoked once the session was cleared after a failed refresh
type SignOutFunc func(ctx context.Context, signInPath string, cause error)

// RoundTripper attaches bearer credentials and refreshes them on 401
type RoundTripper struct {
	session    Session
	refresher  Refresher
	refreshURL string
	transport  http.RoundTripper
	signOut    SignOutFunc
	signInPath string
	coalesce   bool
	group      singleflight.Group
	logger     zerolog.Logger
}

// New creates an authenticated round tripper for the session
func New(session Session, options ...Option) (*RoundTripper, error) {
	if session == nil {
		return nil, errors.New("session was nil")
	}
	ret := &RoundTripper{
		session:    session,
		transport:  http.DefaultTransport,
		signInPath: DefaultSignInPath,
		coalesce:   true,
		logger:     log.Logger.With().Str("component", "transport").Logger(),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.refresher == nil {
		if ret.refreshURL == "" {
			return nil, errors.New("refresher or refresh URL is required")
		}
		ret.refresher = NewHTTPRefresher(ret.refreshURL, ret.transport)
	}
	if ret.signOut == nil {
		ret.signOut = func(ctx context.Context, signInPath string, cause error) {
			ret.logger.Warn().Str("signIn", signInPath).Msg("session expired, sign in required")
		}
	}
	return ret, nil
}

func (r *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	outbound, err := clone(ctx, req)
	if err != nil {
		return nil, err
	}
	requestID := outbound.Header.Get(HeaderRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
		outbound.Header.Set(HeaderRequestID, requestID)
	}
	sentAccess := r.session.Snapshot().AccessToken()
	if sentAccess != "" {
		outbound.Header.Set("Authorization", bearer(sentAccess))
	}

	resp, err := r.transport.RoundTrip(outbound)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}
	logger := r.logger.With().Str("requestId", requestID).Str("method", req.Method).Str("url", req.URL.Redacted()).Logger()
	if IsRetry(ctx) {
		logger.Debug().Msg("retried request unauthorized, giving up")
		return resp, nil
	}
	// a request sent anonymously is not retried with credentials acquired meanwhile
	if sentAccess == "" {
		logger.Debug().Msg("anonymous request unauthorized")
		return resp, nil
	}
	refreshToken := r.session.Snapshot().RefreshToken()
	if refreshToken == "" {
		logger.Debug().Msg("unauthorized without refresh token")
		return resp, nil
	}
	resp = detach(resp)

	credentials, err := r.renew(ctx, sentAccess, refreshToken)
	if err != nil {
		logger.Warn().Err(err).Msg("credential refresh failed")
		return resp, nil
	}

	retry, err := clone(WithRetry(ctx), outbound)
	if err != nil {
		return nil, err
	}
	retry.Header.Set(HeaderRequestID, requestID)
	retry.Header.Set("Authorization", bearer(credentials.AccessToken))
	logger.Debug().Msg("resending request with refreshed credentials")
	return r.transport.RoundTrip(retry)
}

// renew returns credentials to retry with, refreshing when needed
func (r *RoundTripper) renew(ctx context.Context, sentAccess, refreshToken string) (*auth.Credentials, error) {
	if !r.coalesce {
		return r.refresh(ctx, refreshToken)
	}
	// another request already rotated the pair while this one was in flight
	if current := r.session.Snapshot(); current.Credentials != nil && current.AccessToken() != sentAccess {
		return current.Credentials, nil
	}
	value, err, _ := r.group.Do(refreshToken, func() (interface{}, error) {
		current := r.session.Snapshot()
		if current.Credentials == nil {
			return nil, auth.ErrNotAuthenticated
		}
		if current.RefreshToken() != refreshToken {
			return current.Credentials, nil
		}
		return r.refresh(context.WithoutCancel(ctx), refreshToken)
	})
	if err != nil {
		return nil, err
	}
	return value.(*auth.Credentials), nil
}

func (r *RoundTripper) refresh(ctx context.Context, refreshToken string) (*auth.Credentials, error) {
	credentials, err := r.refresher.Refresh(ctx, refreshToken)
	switch {
	case err != nil:
	case !credentials.Valid():
		err = fmt.Errorf("%w: incomplete token pair", ErrRefreshRejected)
	default:
		if err = r.session.SetCredentials(ctx, *credentials); err != nil {
			err = fmt.Errorf("%w: %v", ErrRefreshRejected, err)
		}
	}
	if err != nil {
		r.session.Logout(ctx)
		r.signOut(ctx, r.signInPath, err)
		return nil, err
	}
	return credentials, nil
}
