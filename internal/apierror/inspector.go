package apierror

import (
	"errors"
	"net/http"
	"strings"
)

// Inspector provides methods for analyzing Miro API errors.
type Inspector interface {
	// IsAuthError returns true if the error represents an authentication or authorization failure.
	IsAuthError(err error) bool

	// IsNotFoundError returns true if the error represents a resource not found error.
	IsNotFoundError(err error) bool

	// IsRateLimitError returns true if the error represents a rate limit error.
	IsRateLimitError(err error) bool

	// IsNetworkError returns true if the error represents a network connectivity error.
	IsNetworkError(err error) bool
}

// NewInspector creates the default inspector: status codes carried in the
// error chain are authoritative, with string matching as the fallback for
// transport-level failures that never reach an HTTP response.
func NewInspector() Inspector {
	return NewStatusCodeInspector(&MiroErrorInspector{})
}

// MiroErrorInspector implements the Inspector interface by matching the
// text of Miro API and transport errors.
type MiroErrorInspector struct{}

// IsAuthError checks if the error is an authentication or authorization error.
func (i *MiroErrorInspector) IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "401") ||
		strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "forbidden") ||
		strings.Contains(errStr, "authentication")
}

// IsNotFoundError checks if the error is a not found error.
func (i *MiroErrorInspector) IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "404") ||
		strings.Contains(errStr, "not found")
}

// IsRateLimitError checks if the error is a rate limit error.
func (i *MiroErrorInspector) IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests")
}

// IsNetworkError checks if the error is a network connectivity error.
func (i *MiroErrorInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "tls handshake") ||
		strings.Contains(errStr, "network is unreachable")
}

// statusCoder is implemented by errors that carry the HTTP status code of
// the response that produced them.
type statusCoder interface {
	HTTPStatus() int
}

// StatusCodeInspector wraps a base inspector and classifies errors that carry
// an HTTP status code anywhere in their chain. When a status code is present
// it is authoritative; string matching applies only to errors without one.
type StatusCodeInspector struct {
	base Inspector
}

// NewStatusCodeInspector creates a new StatusCodeInspector around base.
func NewStatusCodeInspector(base Inspector) Inspector {
	return &StatusCodeInspector{base: base}
}

// IsAuthError classifies 401 and 403 responses as auth errors.
func (s *StatusCodeInspector) IsAuthError(err error) bool {
	if code, ok := httpStatus(err); ok {
		return code == http.StatusUnauthorized || code == http.StatusForbidden
	}
	return s.base.IsAuthError(err)
}

// IsNotFoundError classifies 404 responses as not found errors.
func (s *StatusCodeInspector) IsNotFoundError(err error) bool {
	if code, ok := httpStatus(err); ok {
		return code == http.StatusNotFound
	}
	return s.base.IsNotFoundError(err)
}

// IsRateLimitError classifies 429 responses as rate limit errors.
func (s *StatusCodeInspector) IsRateLimitError(err error) bool {
	if code, ok := httpStatus(err); ok {
		return code == http.StatusTooManyRequests
	}
	return s.base.IsRateLimitError(err)
}

// IsNetworkError never matches an error carrying a status code; a response
// was received, so the network worked.
func (s *StatusCodeInspector) IsNetworkError(err error) bool {
	if _, ok := httpStatus(err); ok {
		return false
	}
	return s.base.IsNetworkError(err)
}

func httpStatus(err error) (int, bool) {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatus(), true
	}
	return 0, false
}
