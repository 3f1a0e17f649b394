package shopapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/niksmo/cloudshop/internal/core/domain"
)

// Response envelope codes.
const (
	CodeSuccess     = 1000
	CodeAuthExpired = 1001
)

var (
	ErrInvalidBaseURL = errors.New("invalid base url")
	ErrNoToken        = errors.New("login response carries no token")
)

// An APIError is a well-formed envelope with a failure code.
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("api error code %d", e.Code)
	}
	return fmt.Sprintf("api error code %d: %s", e.Code, e.Msg)
}

// An HTTPError is a non-2xx response without a decodable envelope.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return "unexpected http status: " + e.Status
}

func (e *HTTPError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnauthorized:
		return domain.ErrAuthExpired
	}
	return nil
}
