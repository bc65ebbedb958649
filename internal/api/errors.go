package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is the only error type returned by Client. Error() is exactly
// Detail, which is what the dashboard shows to the user.
type APIError struct {
	Detail     string `json:"detail"`
	StatusCode int    `json:"status_code"`

	cause error
}

func (e *APIError) Error() string {
	return e.Detail
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// newStatusError builds the error for a non-2xx response. A body of the form
// {"detail": ..., "status_code": ...} is used as is; anything else becomes
// "HTTP <code>: <status text>".
func newStatusError(status int, body []byte) *APIError {
	var parsed APIError
	if err := json.Unmarshal(body, &parsed); err == nil && strings.TrimSpace(parsed.Detail) != "" {
		if parsed.StatusCode == 0 {
			parsed.StatusCode = status
		}
		return &parsed
	}

	text := http.StatusText(status)
	if text == "" {
		text = "Unknown Status"
	}
	return &APIError{
		Detail:     fmt.Sprintf("HTTP %d: %s", status, text),
		StatusCode: status,
	}
}

func newTransportError(err error) *APIError {
	return &APIError{
		Detail: fmt.Sprintf("request failed: %v", err),
		cause:  err,
	}
}

func newDecodeError(status int, err error) *APIError {
	return &APIError{
		Detail:     fmt.Sprintf("invalid response: %v", err),
		StatusCode: status,
		cause:      err,
	}
}

// Message flattens err to the string shown to the user, or fallback when
// err carries no message.
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
