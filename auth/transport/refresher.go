package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/velovis/velovis/auth"
)

// ErrRefreshRejected is returned when the backend refuses to exchange a refresh token
var ErrRefreshRejected = errors.New("refresh token rejected")

// RefreshError carries the status the refresh endpoint answered with
type RefreshError struct {
	StatusCode int
	Body       string
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refresh failed with status %d: %s", e.StatusCode, e.Body)
}

func (e *RefreshError) Unwrap() error {
	return ErrRefreshRejected
}

// Refresher exchanges a refresh token for a new credential pair
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*auth.Credentials, error)
}

// HTTPRefresher calls the backend refresh endpoint with a plain client
type HTTPRefresher struct {
	URL    string
	Client *http.Client
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *HTTPRefresher) Refresh(ctx context.Context, refreshToken string) (*auth.Credentials, error) {
	payload, err := json.Marshal(&refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	client := h.Client
	if client == nil {
		client = &http.Client{Transport: http.DefaultTransport}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call refresh endpoint: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read refresh response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RefreshError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	credentials := &auth.Credentials{}
	if err = json.Unmarshal(data, credentials); err != nil {
		return nil, fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if !credentials.Valid() {
		return nil, fmt.Errorf("%w: incomplete token pair", ErrRefreshRejected)
	}
	return credentials, nil
}

// NewHTTPRefresher creates a refresher posting to URL with its own client
func NewHTTPRefresher(URL string, transport http.RoundTripper) *HTTPRefresher {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &HTTPRefresher{URL: URL, Client: &http.Client{Transport: transport}}
}

// RefresherFunc adapts a function to Refresher
type RefresherFunc func(ctx context.Context, refreshToken string) (*auth.Credentials, error)

func (f RefresherFunc) Refresh(ctx context.Context, refreshToken string) (*auth.Credentials, error) {
	return f(ctx, refreshToken)
}
