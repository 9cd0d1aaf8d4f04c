// Package errors wraps the standard errors package with context helpers and
// the transport-level sentinels shared by the HTTP client and the adapters.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Transport sentinels.
var (
	// ErrTimeout an operation exceeded its time limit
	ErrTimeout = errors.New("operation timed out")

	// ErrRateLimit the origin answered 429
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrNotFound the origin answered 404 or 410
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput a caller passed a malformed argument
	ErrInvalidInput = errors.New("invalid input")

	// ErrConnectionFailed the TCP/TLS connection could not be established
	ErrConnectionFailed = errors.New("connection failed")

	// ErrUnauthorized the origin answered 401 or 403
	ErrUnauthorized = errors.New("unauthorized")

	// ErrServiceUnavailable the origin answered a retryable 5xx
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrInvalidResponse a response could not be parsed or had an unexpected status
	ErrInvalidResponse = errors.New("invalid response")

	// ErrTooLarge a response body exceeded the configured cap
	ErrTooLarge = errors.New("response too large")

	// ErrCircuitOpen a circuit breaker rejected the call
	ErrCircuitOpen = errors.New("circuit breaker open")
)

type wrappedError struct {
	msg   string
	cause error
}

func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *wrappedError) Unwrap() error {
	return e.cause
}

// Wrap adds a context message to err. Wrap(nil, ...) is nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: msg, cause: err}
}

// Wrapf adds a formatted context message to err. Wrapf(nil, ...) is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: fmt.Sprintf(format, args...), cause: err}
}

// StatusError is an unexpected HTTP status. It unwraps to the matching sentinel.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

// Unwrap maps the status code onto a sentinel so callers can use Is.
func (e *StatusError) Unwrap() error {
	switch {
	case e.Code == http.StatusTooManyRequests:
		return ErrRateLimit
	case e.Code == http.StatusNotFound || e.Code == http.StatusGone:
		return ErrNotFound
	case e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden:
		return ErrUnauthorized
	case e.Code == http.StatusBadGateway || e.Code == http.StatusServiceUnavailable || e.Code == http.StatusGatewayTimeout:
		return ErrServiceUnavailable
	default:
		return ErrInvalidResponse
	}
}

// NewStatusError builds a StatusError.
func NewStatusError(url string, code int) error {
	return &StatusError{URL: url, Code: code}
}

// IsRetryable reports whether err is worth another attempt: timeouts,
// connection failures, 429 and transient 5xx. Context cancellation is not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if Is(err, ErrTimeout) || Is(err, ErrRateLimit) || Is(err, ErrServiceUnavailable) || Is(err, ErrConnectionFailed) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return false
}

// Is wraps errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New wraps errors.New.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf wraps fmt.Errorf.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// IsTimeout reports whether err is a timeout.
func IsTimeout(err error) bool {
	return Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// IsRateLimit reports whether err is a rate limit rejection.
func IsRateLimit(err error) bool {
	return Is(err, ErrRateLimit)
}

// IsNotFound reports whether err is a not-found answer.
func IsNotFound(err error) bool {
	return Is(err, ErrNotFound)
}

// IsUnauthorized reports whether err is an auth rejection.
func IsUnauthorized(err error) bool {
	return Is(err, ErrUnauthorized)
}

// Reason classifies err into a short label for logs: timeout, rate_limit,
// not_found, unauthorized, circuit_open, unavailable or other.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case IsTimeout(err):
		return "timeout"
	case IsRateLimit(err):
		return "rate_limit"
	case IsNotFound(err):
		return "not_found"
	case IsUnauthorized(err):
		return "unauthorized"
	case Is(err, ErrCircuitOpen):
		return "circuit_open"
	case Is(err, ErrServiceUnavailable), Is(err, ErrConnectionFailed):
		return "unavailable"
	default:
		return "other"
	}
}
