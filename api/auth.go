package api

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/velovis/velovis/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type emailRequest struct {
	Email string `json:"email"`
}

// Login issues a session for the user, loads the profile and stores both in the session
func (c *Client) Login(ctx context.Context, username, password string) (*auth.Profile, error) {
	credentials := &auth.Credentials{}
	if err := c.do(ctx, c.plain, http.MethodPost, "/auth/login", &loginRequest{Username: username, Password: password}, credentials); err != nil {
		return nil, errors.Wrap(err, "[Client.Login] login")
	}
	if !credentials.Valid() {
		return nil, errors.Wrap(auth.ErrIncompleteCredentials, "[Client.Login] login")
	}
	profile := &auth.Profile{}
	if err := c.do(ctx, c.plain, http.MethodGet, "/auth/me", nil, profile, withBearer(credentials.AccessToken)); err != nil {
		return nil, errors.Wrap(err, "[Client.Login] me")
	}
	if err := c.session.Login(ctx, *credentials, *profile); err != nil {
		return nil, errors.Wrap(err, "[Client.Login] session")
	}
	return profile, nil
}

// Logout terminates the backend session and always clears the local one.
// Backend failures are logged, not returned.
func (c *Client) Logout(ctx context.Context) {
	state := c.session.Snapshot()
	if state.Credentials != nil {
		if err := c.send(ctx, http.MethodPost, "/auth/logout", &refreshTokenRequest{RefreshToken: state.RefreshToken()}, nil); err != nil {
			c.logger.Warn().Err(err).Msg("backend logout failed")
		}
	}
	c.session.Logout(ctx)
}

// Me fetches the current user profile
func (c *Client) Me(ctx context.Context) (*auth.Profile, error) {
	profile := &auth.Profile{}
	if err := c.send(ctx, http.MethodGet, "/auth/me", nil, profile); err != nil {
		return nil, errors.Wrap(err, "[Client.Me]")
	}
	return profile, nil
}

// Register creates an inactive account; the backend mails an activation link
func (c *Client) Register(ctx context.Context, registration *Registration) error {
	return errors.Wrap(c.do(ctx, c.plain, http.MethodPost, "/auth/register", registration, nil), "[Client.Register]")
}

// Activate activates an account with the mailed token
func (c *Client) Activate(ctx context.Context, token string) (*Message, error) {
	ret := &Message{}
	if err := c.do(ctx, c.plain, http.MethodGet, "/auth/activate", nil, ret, withQuery("token", token)); err != nil {
		return nil, errors.Wrap(err, "[Client.Activate]")
	}
	return ret, nil
}

// ForgotPassword requests a password reset mail
func (c *Client) ForgotPassword(ctx context.Context, email string) (*Message, error) {
	ret := &Message{}
	if err := c.do(ctx, c.plain, http.MethodPost, "/auth/forgot-password", &emailRequest{Email: email}, ret); err != nil {
		return nil, errors.Wrap(err, "[Client.ForgotPassword]")
	}
	return ret, nil
}

// ResetPassword sets a new password with a reset token
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (*Message, error) {
	ret := &Message{}
	if err := c.do(ctx, c.plain, http.MethodPost, "/auth/reset-password", &resetPasswordRequest{Token: token, NewPassword: newPassword}, ret); err != nil {
		return nil, errors.Wrap(err, "[Client.ResetPassword]")
	}
	return ret, nil
}

// ChangePassword changes the signed in user's password
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	err := c.send(ctx, http.MethodPatch, "/auth/change-password", &changePasswordRequest{CurrentPassword: currentPassword, NewPassword: newPassword}, nil)
	return errors.Wrap(err, "[Client.ChangePassword]")
}
