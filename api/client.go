package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/velovis/velovis/auth/session"
)

// Client talks to the storefront REST API on behalf of the session user
type Client struct {
	baseURL string
	http    *http.Client
	plain   *http.Client
	session *session.Session
	logger  zerolog.Logger
}

// Session returns the session the client acts for
func (c *Client) Session() *session.Session {
	return c.session
}

// BaseURL returns the API base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

type requestOption func(r *http.Request)

func withBearer(token string) requestOption {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func withQuery(key, value string) requestOption {
	return func(r *http.Request) {
		query := r.URL.Query()
		query.Set(key, value)
		r.URL.RawQuery = query.Encode()
	}
}

func (c *Client) send(ctx context.Context, method, path string, in, out interface{}, options ...requestOption) error {
	return c.do(ctx, c.http, method, path, in, out, options...)
}

func (c *Client) do(ctx context.Context, client *http.Client, method, path string, in, out interface{}, options ...requestOption) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "failed to encode request")
		}
		body = bytes.NewReader(data)
	}
	URL, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return errors.Wrapf(err, "invalid path %v", path)
	}
	req, err := http.NewRequestWithContext(ctx, method, URL, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for _, opt := range options {
		opt(req)
	}
	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%v %v", method, path)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "failed to read %v %v response", method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newError(resp.StatusCode, data)
		c.logger.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg(apiErr.Message)
		return apiErr
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "failed to decode %v %v response", method, path)
	}
	return nil
}

// New creates an API client; httpClient is expected to use the authenticated transport
func New(baseURL string, sess *session.Session, httpClient *http.Client, options ...Option) *Client {
	ret := &Client{
		baseURL: baseURL,
		http:    httpClient,
		session: sess,
		logger:  log.Logger.With().Str("component", "api").Logger(),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.http == nil {
		ret.http = http.DefaultClient
	}
	if ret.plain == nil {
		ret.plain = &http.Client{Transport: http.DefaultTransport, Timeout: ret.http.Timeout}
	}
	return ret
}
