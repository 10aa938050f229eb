package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/kdduha/slidegen/internal/models"
	"github.com/openai/openai-go/v3"
)

// ClassifyStatus maps a provider HTTP status onto the error taxonomy.
func ClassifyStatus(status int) models.ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return models.KindAuth
	case status == http.StatusTooManyRequests:
		return models.KindRateLimit
	case status >= http.StatusInternalServerError:
		return models.KindAPI
	case status >= http.StatusBadRequest:
		return models.KindValidation
	default:
		return models.KindAPI
	}
}

// ClassifyError turns the outcome of one provider call into a GenerationError.
// callerErr is the caller context's error, non-nil means the caller gave up.
func ClassifyError(err error, callerErr error) *models.GenerationError {
	var genErr *models.GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}

	if callerErr != nil {
		return &models.GenerationError{
			Kind:    models.KindCancelled,
			Message: "generation cancelled",
			Err:     callerErr,
		}
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		genErr = &models.GenerationError{
			Kind:       ClassifyStatus(apiErr.StatusCode),
			Message:    apiMessage(apiErr),
			Code:       apiErr.Code,
			StatusCode: apiErr.StatusCode,
			Err:        err,
		}
		if genErr.Kind == models.KindRateLimit && apiErr.Response != nil {
			genErr.RetryAfter, _ = RetryAfter(apiErr.Response.Header, time.Now())
		}
		return genErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &models.GenerationError{
			Kind:    models.KindNetwork,
			Message: "provider request timed out",
			Err:     err,
		}
	}

	var (
		urlErr *url.Error
		netErr net.Error
	)
	if errors.As(err, &urlErr) || errors.As(err, &netErr) || isConnectionDrop(err) {
		return &models.GenerationError{
			Kind:    models.KindNetwork,
			Message: "provider is unreachable",
			Err:     err,
		}
	}

	// transport succeeded but the payload could not be decoded
	return &models.GenerationError{
		Kind:    models.KindAPI,
		Message: "malformed provider response",
		Err:     err,
	}
}

// isConnectionDrop reports a connection lost after the response headers
// arrived, while the body was still being read. A bare io.EOF or
// io.ErrUnexpectedEOF is not enough: the JSON decoder returns those for an
// empty or cut short payload that did arrive whole.
func isConnectionDrop(err error) bool {
	var readErr *bodyReadError
	return errors.As(err, &readErr) || errors.Is(err, syscall.ECONNRESET)
}

// ShouldRetry decides whether attempt (1-based) is followed by another one.
func ShouldRetry(err *models.GenerationError, attempt, maxAttempts int) bool {
	return err.Retryable() && attempt < maxAttempts
}

// RetryAfter reads the provider's retry hint: retry-after-ms, then Retry-After
// as seconds or an HTTP date.
func RetryAfter(h http.Header, now time.Time) (time.Duration, bool) {
	if v := h.Get("Retry-After-Ms"); v != "" {
		if ms, err := strconv.ParseFloat(v, 64); err == nil && ms >= 0 {
			return time.Duration(ms * float64(time.Millisecond)), true
		}
	}

	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0, false
	}
	if sec, err := strconv.ParseFloat(v, 64); err == nil && sec >= 0 {
		return time.Duration(sec * float64(time.Second)), true
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := at.Sub(now); d > 0 {
			return d, true
		}
		return 0, true
	}
	return 0, false
}

func apiMessage(apiErr *openai.Error) string {
	if apiErr.Message != "" {
		return apiErr.Message
	}
	if text := http.StatusText(apiErr.StatusCode); text != "" {
		return strings.ToLower(text)
	}
	return "provider error"
}
