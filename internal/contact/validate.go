package contact

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/npyskills/contact-api/internal/validation"
)

// Client-facing validation messages.
const (
	MsgMissingFields = "Name, email, and message are required fields."
	MsgInvalidEmail  = "Please provide a valid email address."
	MsgInvalidPhone  = "Please provide a valid phone number."
)

// ws is the whitespace class the browser side uses: ASCII space characters,
// vertical tab, BOM and every Unicode separator.
const ws = `\s\v\x{FEFF}\p{Z}`

var (
	emailRegex = regexp.MustCompile(`^[^` + ws + `@]+@[^` + ws + `@]+\.[^` + ws + `@]+$`)
	phoneRegex = regexp.MustCompile(`^[+]?[1-9]\d{0,15}$`)
)

// ValidateEmail reports whether s looks like local@domain.tld with no whitespace.
func ValidateEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// ValidatePhone reports whether s is an international number: optional "+",
// a non-zero first digit and at most 15 more digits.
func ValidatePhone(s string) bool {
	return phoneRegex.MatchString(s)
}

// isSpace matches the characters a browser's String.prototype.trim strips.
// unicode.IsSpace also accepts NEL (U+0085), which trim keeps.
func isSpace(r rune) bool {
	return (r != '\u0085' && unicode.IsSpace(r)) || unicode.In(r, unicode.Z) || r == '\uFEFF'
}

// SanitizeString removes every '<' and '>' and trims surrounding whitespace.
//
// Brackets go first so the result never ends up with whitespace that was
// hidden behind one; that keeps the function idempotent.
func SanitizeString(s string) string {
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	return strings.TrimFunc(s, isSpace)
}

// Sanitize returns the sanitized field, or "" when the field is not a string.
func Sanitize(v Value) string {
	s, ok := v.String()
	if !ok {
		return ""
	}
	return SanitizeString(s)
}

// rules run in order; the first failing rule decides the response.
var rules = []validation.Rule[*Request]{
	{
		Field:   "name,email,message",
		Message: MsgMissingFields,
		Check: func(r *Request) bool {
			return r.Name.Present() && r.Email.Present() && r.Message.Present()
		},
	},
	{
		Field:   "email",
		Message: MsgInvalidEmail,
		Check: func(r *Request) bool {
			return ValidateEmail(r.Email.Text())
		},
	},
	{
		Field:   "phone",
		Message: MsgInvalidPhone,
		Check: func(r *Request) bool {
			return !r.Phone.Present() || ValidatePhone(r.Phone.Text())
		},
	},
}
