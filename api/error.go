package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when a looked up resource does not exist client side
var ErrNotFound = errors.New("not found")

// Error represents a non 2xx backend response
type Error struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

type errorBody struct {
	Message json.RawMessage `json:"message"`
}

func newError(statusCode int, body []byte) *Error {
	ret := &Error{StatusCode: statusCode, Body: string(body)}
	var decoded errorBody
	if err := json.Unmarshal(body, &decoded); err != nil || len(decoded.Message) == 0 {
		ret.Message = strings.TrimSpace(string(body))
		return ret
	}
	var message string
	if err := json.Unmarshal(decoded.Message, &message); err == nil {
		ret.Message = message
		return ret
	}
	var messages []string
	if err := json.Unmarshal(decoded.Message, &messages); err == nil {
		ret.Message = strings.Join(messages, "; ")
		return ret
	}
	ret.Message = string(decoded.Message)
	return ret
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a final 401 response
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsForbidden reports whether err is a 403 response
func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 response or a client side lookup miss
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound || errors.Is(err, ErrNotFound)
}
