package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Credentials represents the access/refresh token pair issued by the backend.
// Each refresh yields a new pair, the previous refresh token is no longer usable.
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Valid reports whether both tokens are present
func (c *Credentials) Valid() bool {
	return c != nil && c.AccessToken != "" && c.RefreshToken != ""
}

// Clone returns a copy of the credentials
func (c *Credentials) Clone() *Credentials {
	if c == nil {
		return nil
	}
	ret := *c
	return &ret
}

// ExpiresAt returns the expiry encoded in a JWT access token. The signature is not
// verified, the backend remains the authority. Opaque tokens yield zero time.
func (c *Credentials) ExpiresAt() time.Time {
	if c == nil || c.AccessToken == "" {
		return time.Time{}
	}
	token, _, err := jwt.NewParser().ParseUnverified(c.AccessToken, jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}
	expiry, err := token.Claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}
	}
	return expiry.Time
}

// Expired reports whether a JWT access token is past its expiry at the given time.
func (c *Credentials) Expired(now time.Time) bool {
	expiry := c.ExpiresAt()
	if expiry.IsZero() {
		return false
	}
	return !now.Before(expiry)
}

// Token converts credentials into an oauth2 bearer token
func (c *Credentials) Token() *oauth2.Token {
	if c == nil {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       c.ExpiresAt(),
	}
}
