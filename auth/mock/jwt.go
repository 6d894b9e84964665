package mock

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType  = "access_token"
	refreshTokenType = "refresh_token"
)

var errTokenRevoked = errors.New("token revoked")

// createJWT creates a signed token for the user with the given type and expiry
func (s *Service) createJWT(username, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   username,
		"typ":   tokenType,
		"jti":   uuid.NewString(),
		"epoch": s.epoch.Load(),
		"exp":   now.Add(expiry).Unix(),
		"iat":   now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// verifyAccessToken returns the username of a valid, non expired access token
func (s *Service) verifyAccessToken(signed string) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil {
		return "", err
	}
	if typ, _ := claims["typ"].(string); typ != accessTokenType {
		return "", fmt.Errorf("unexpected token type %v", claims["typ"])
	}
	if epoch, _ := claims["epoch"].(float64); int64(epoch) != s.epoch.Load() {
		return "", errTokenRevoked
	}
	return claims.GetSubject()
}
