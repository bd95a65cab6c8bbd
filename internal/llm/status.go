package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrorFromStatus classifies a failed provider call by its HTTP status.
// A zero status falls back to inspecting the error text.
func ErrorFromStatus(provider string, status int, err error) *ProviderError {
	code := ErrCodeServiceDown
	message := "Service unavailable"

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		code, message = ErrCodeTimeout, "Request timed out"
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		code, message = ErrCodeAPIKey, "API key rejected"
	case status == http.StatusTooManyRequests:
		code, message = ErrCodeRateLimit, "Rate limit exceeded"
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		code, message = ErrCodeInvalidInput, "Request rejected"
	case status == 0 && IsRateLimitError(err):
		code, message = ErrCodeRateLimit, "Rate limit exceeded"
	}

	return &ProviderError{Provider: provider, Code: code, Message: message, Err: err}
}

// IsRateLimitError matches the quota markers providers put in error text.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "quota")
}
