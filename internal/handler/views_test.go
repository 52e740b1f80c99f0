package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/BloggingApp/post-web/internal/client"
	"github.com/BloggingApp/post-web/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2024-03-05", formatDate("2024-03-05T17:30:00Z"))
	assert.Equal(t, "2024-03-05", formatDate("2024-03-05 17:30"))
	assert.Equal(t, "soon", formatDate("soon"))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", excerpt("  short \n"))

	long := strings.Repeat("a", excerptLength+20)
	got := excerpt(long)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Len(t, got, excerptLength+3)
}

func TestErrorStatus(t *testing.T) {
	testCases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "field errors",
			err:     service.FieldErrors{"title": "Title is required"},
			status:  http.StatusUnprocessableEntity,
			message: errFixFields.Error(),
		},
		{
			name:    "in flight",
			err:     service.ErrSubmitInFlight,
			status:  http.StatusConflict,
			message: service.ErrSubmitInFlight.Error(),
		},
		{
			name:    "transport",
			err:     fmt.Errorf("%w: %w", service.ErrRequestFailed, client.ErrTransport),
			status:  http.StatusBadGateway,
			message: service.ErrRequestFailed.Error(),
		},
		{
			name:    "api client error",
			err:     &client.APIError{StatusCode: http.StatusBadRequest, Message: "Title too long"},
			status:  http.StatusBadRequest,
			message: "Title too long",
		},
		{
			name:    "api server error",
			err:     &client.APIError{StatusCode: http.StatusInternalServerError},
			status:  http.StatusBadGateway,
			message: errSomethingWentWrong.Error(),
		},
		{
			name:    "unknown",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			message: errSomethingWentWrong.Error(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, errorStatus(tc.err))
			assert.Equal(t, tc.message, errorMessage(tc.err))
		})
	}
}
