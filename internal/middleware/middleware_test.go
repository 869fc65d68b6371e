package middleware

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/npyskills/contact-api/internal/errs"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "validation error keeps its message",
			err:     errs.ValidationError(errors.New("Please provide a valid email address.")),
			status:  http.StatusBadRequest,
			message: "Please provide a valid email address.",
		},
		{
			name:    "wrapped http error",
			err:     pkgerrors.Wrap(errs.NewForbiddenError(errs.MsgCORS, true), "cors"),
			status:  http.StatusForbidden,
			message: errs.MsgCORS,
		},
		{
			name:    "unexpected error shown when overridden",
			err:     errs.NewUnexpectedError("An unexpected error occurred. Please try again later."),
			status:  http.StatusInternalServerError,
			message: "An unexpected error occurred. Please try again later.",
		},
		{
			name:    "5xx without override is masked",
			err:     &errs.HTTPError{Status: http.StatusBadGateway, Message: "upstream secret"},
			status:  http.StatusBadGateway,
			message: errs.MsgInternal,
		},
		{
			name:    "route not found",
			err:     echo.ErrNotFound,
			status:  http.StatusNotFound,
			message: errs.MsgNotFound,
		},
		{
			name:    "method not allowed looks like not found",
			err:     echo.ErrMethodNotAllowed,
			status:  http.StatusNotFound,
			message: errs.MsgNotFound,
		},
		{
			name:    "body too large",
			err:     echo.ErrStatusRequestEntityTooLarge,
			status:  http.StatusRequestEntityTooLarge,
			message: errs.MsgBodyTooLarge,
		},
		{
			name:    "other echo client error",
			err:     echo.NewHTTPError(http.StatusUnsupportedMediaType, "nope"),
			status:  http.StatusUnsupportedMediaType,
			message: "nope",
		},
		{
			name:    "plain error",
			err:     errors.New("database exploded"),
			status:  http.StatusInternalServerError,
			message: errs.MsgInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := resolve(tt.err)

			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, body.Message)
			assert.False(t, body.Success)
		})
	}
}

func TestValidRequestID(t *testing.T) {
	assert.True(t, validRequestID("3f2a9c1e-0000-4000-8000-000000000000"))
	assert.True(t, validRequestID("abc-123"))

	assert.False(t, validRequestID(""))
	assert.False(t, validRequestID("has space"))
	assert.False(t, validRequestID("line\nbreak"))
	assert.False(t, validRequestID(strings.Repeat("a", maxRequestIDLength+1)))
}
