package errs

import (
	"net/http"
)

const (
	// MsgInternal is the body of any 500 raised outside the contact pipeline.
	MsgInternal = "Internal server error"

	// MsgNotFound is returned for every unmatched route.
	MsgNotFound = "Endpoint not found"

	// MsgCORS is returned when an Origin is not on the allow-list.
	MsgCORS = "Not allowed by CORS"

	// MsgInvalidBody is returned for malformed JSON bodies.
	MsgInvalidBody = "Invalid request body."

	// MsgBodyTooLarge is returned when a body exceeds the configured limit.
	MsgBodyTooLarge = "Request body too large."
)

func newError(status int, message string, override bool) *HTTPError {
	return &HTTPError{
		Message:  message,
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Status:   status,
		Override: override,
	}
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// code optionally replaces the default "BAD_REQUEST".
func NewBadRequestError(message string, override bool, code *string) *HTTPError {
	err := newError(http.StatusBadRequest, message, override)
	if code != nil {
		err.Code = *code
	}
	return err
}

// NewForbiddenError creates a 403 Forbidden HTTPError.
func NewForbiddenError(message string, override bool) *HTTPError {
	return newError(http.StatusForbidden, message, override)
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool) *HTTPError {
	return newError(http.StatusNotFound, message, override)
}

// NewRequestEntityTooLargeError creates a 413 HTTPError.
func NewRequestEntityTooLargeError() *HTTPError {
	return newError(http.StatusRequestEntityTooLarge, MsgBodyTooLarge, true)
}

// NewInternalServerError creates a 500 HTTPError with the generic message.
//
// The real cause is logged by the caller; clients only see MsgInternal.
func NewInternalServerError() *HTTPError {
	return newError(http.StatusInternalServerError, MsgInternal, false)
}

// NewUnexpectedError creates a 500 HTTPError with a caller supplied, client-safe message.
func NewUnexpectedError(message string) *HTTPError {
	return newError(http.StatusInternalServerError, message, true)
}

// ValidationError converts a rule failure into a 400 with its message shown verbatim.
func ValidationError(err error) *HTTPError {
	code := "VALIDATION_FAILED"
	return NewBadRequestError(err.Error(), true, &code)
}
