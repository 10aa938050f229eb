package models

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorKind is the closed set of generation failure kinds.
type ErrorKind string

const (
	KindAuth       ErrorKind = "auth_error"
	KindRateLimit  ErrorKind = "rate_limit_error"
	KindNetwork    ErrorKind = "network_error"
	KindAPI        ErrorKind = "api_error"
	KindValidation ErrorKind = "validation_error"
	KindCancelled  ErrorKind = "cancelled"
)

// GenerationError is the only error type returned by slide generation.
type GenerationError struct {
	Kind       ErrorKind `json:"kind" example:"rate_limit_error"`
	Message    string    `json:"message" example:"provider throttled the request"`
	Code       string    `json:"code,omitempty" example:"rate_limit_exceeded"`
	StatusCode int       `json:"status,omitempty" example:"429"`
	Attempts   int       `json:"attempts,omitempty" example:"3"`

	// RetryAfter is the provider hint, zero when absent
	RetryAfter time.Duration `json:"-"`
	Err        error         `json:"-"`
}

func (e *GenerationError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Attempts > 1 {
		msg = fmt.Sprintf("%s after %d attempts", msg, e.Attempts)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt may succeed.
// Only the 5xx flavour of api_error is retried, a malformed payload is not.
func (e *GenerationError) Retryable() bool {
	switch e.Kind {
	case KindRateLimit, KindNetwork:
		return true
	case KindAPI:
		return e.StatusCode >= http.StatusInternalServerError
	default:
		return false
	}
}

// HTTPStatus is the status the HTTP surface answers with for this error.
func (e *GenerationError) HTTPStatus() int {
	switch e.Kind {
	case KindAuth:
		return http.StatusUnauthorized
	case KindRateLimit:
		return http.StatusTooManyRequests
	case KindNetwork, KindAPI:
		return http.StatusBadGateway
	case KindValidation:
		return http.StatusBadRequest
	case KindCancelled:
		// nginx's "client closed request"
		return 499
	default:
		return http.StatusInternalServerError
	}
}

func NewValidationError(msg string, err error) *GenerationError {
	return &GenerationError{Kind: KindValidation, Message: msg, Err: err}
}

func NewAuthError(msg string) *GenerationError {
	return &GenerationError{Kind: KindAuth, Message: msg}
}
