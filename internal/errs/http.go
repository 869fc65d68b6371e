package errs

import "strings"

// HTTPError is the main custom error type for API responses.
//
// It implements the `error` interface and is serialized directly to JSON.
// Status never leaves the server; it only selects the HTTP status code.
type HTTPError struct {
	Success bool   `json:"success"`
	Message string `json:"error"`
	Code    string `json:"code,omitempty"`
	Status  int    `json:"-"`

	// Override marks messages that are safe to show verbatim. Messages without
	// it are replaced by a generic one on 5xx responses.
	Override bool `json:"-"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError, regardless of its fields.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Message:  message,
		Code:     e.Code,
		Status:   e.Status,
		Override: e.Override,
	}
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
