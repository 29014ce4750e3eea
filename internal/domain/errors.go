package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors used throughout the application.
var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrSuperseded           = errors.New("request superseded by a newer one")
	ErrClosed               = errors.New("controller closed")
	ErrReasonRequired       = errors.New("a reason is required for this action")
	ErrConfirmationRequired = errors.New("this action must be confirmed")
	ErrUnknownAction        = errors.New("unknown action")
	ErrUnknownResource      = errors.New("unknown resource")
	ErrNoCredentials        = errors.New("not logged in")
)

// APIError is a non-2xx response from the society API.
// Message is the server-provided message, which may be empty.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("society api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("society api: %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is match API errors against the sentinel errors above.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrInvalidInput:
		return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
	}
	return false
}

// ServerMessage returns the message the API attached to err, if any.
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
