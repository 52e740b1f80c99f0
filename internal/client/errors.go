package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrTransport    = errors.New("posts api unreachable")
	ErrBadResponse  = errors.New("unexpected response from posts api")
)

// APIError is a non-2xx answer of the posts API. Payload keeps the decoded
// body so callers can attach server messages to form fields.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Payload    map[string]interface{}
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("posts api %s: %d %s", e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("posts api %s: %d %s", e.Endpoint, e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// Field names the form field the error is about, or "" when it is not
// about a single field.
func (e *APIError) Field() string {
	if field, ok := e.Payload["field"].(string); ok && field != "" {
		return field
	}

	msg := strings.ToLower(e.Message)
	switch {
	case strings.Contains(msg, "email"):
		return "email"
	case strings.Contains(msg, "username"):
		return "username"
	case strings.Contains(msg, "password"):
		return "password"
	}

	return ""
}

func newAPIError(endpoint string, statusCode int, payload map[string]interface{}) *APIError {
	apiErr := &APIError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Payload:    payload,
	}
	for _, key := range []string{"message", "error", "details"} {
		if msg, ok := payload[key].(string); ok && msg != "" {
			apiErr.Message = msg
			break
		}
	}
	return apiErr
}
