package velovis

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/velovis/velovis/api"
	"github.com/velovis/velovis/auth/session"
	"github.com/velovis/velovis/auth/transport"
	"github.com/velovis/velovis/cart"
)

// Client represents a storefront client acting for a single user
type Client struct {
	Options   *ClientOptions
	Session   *session.Session
	Transport *transport.RoundTripper
	API       *api.Client
	Cart      *cart.Cart
}

// Close detaches session observers
func (c *Client) Close() {
	if c.Cart != nil {
		c.Cart.Close()
	}
}

// NewClient creates a client with session, authenticated transport, API and cart configured via ClientOptions.
func NewClient(ctx context.Context, options *ClientOptions) (*Client, error) {
	if options == nil {
		return nil, fmt.Errorf("options were nil")
	}
	options.Init()
	if err := options.Validate(); err != nil {
		return nil, err
	}
	refreshURL, err := url.JoinPath(options.BaseURL, options.RefreshPath)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh URL: %w", err)
	}
	logger := log.Logger.With().Str("baseURL", options.BaseURL).Logger()

	sess, err := session.New(ctx, session.WithStore(options.SessionStore()), session.WithLogger(component(logger, "session")))
	if err != nil {
		return nil, err
	}
	transportOptions := []transport.Option{
		transport.WithRefreshURL(refreshURL),
		transport.WithSignInPath(options.SignInPath),
		transport.WithCoalescing(options.Coalescing()),
		transport.WithLogger(component(logger, "transport")),
	}
	if options.SignOut != nil {
		transportOptions = append(transportOptions, transport.WithSignOut(options.SignOut))
	}
	roundTripper, err := transport.New(sess, transportOptions...)
	if err != nil {
		return nil, err
	}
	authenticated := &http.Client{Transport: roundTripper, Timeout: options.Timeout}
	plain := &http.Client{Transport: http.DefaultTransport, Timeout: options.Timeout}
	apiClient := api.New(options.BaseURL, sess, authenticated, api.WithPlainClient(plain), api.WithLogger(component(logger, "api")))
	return &Client{
		Options:   options,
		Session:   sess,
		Transport: roundTripper,
		API:       apiClient,
		Cart:      cart.New(ctx, apiClient, sess, cart.WithLogger(component(logger, "cart"))),
	}, nil
}

func component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
