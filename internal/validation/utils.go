package validation

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/npyskills/contact-api/internal/errs"
)

// Validatable is implemented by request payload types that know how to validate themselves.
type Validatable interface {
	Validate() error
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. c.Bind(payload) populates the request struct from the body.
//  2. payload.Validate() applies the rule table.
//
// Malformed bodies and rule failures become 400 *errs.HTTPError values,
// a body cut off by the body limit middleware a 413.
// Anything else is returned wrapped so the global handler answers 500.
//
// payload must be a pointer so c.Bind can mutate it.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
			return errs.NewRequestEntityTooLargeError()
		}
		return errs.NewBadRequestError(errs.MsgInvalidBody, true, nil)
	}

	if err := payload.Validate(); err != nil {
		var ruleErr *RuleError
		if errors.As(err, &ruleErr) {
			return errs.ValidationError(ruleErr)
		}
		return errors.Wrap(err, "validate request")
	}

	return nil
}
