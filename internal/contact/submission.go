package contact

import "github.com/npyskills/contact-api/internal/validation"

// Request is the body of POST /api/contact.
type Request struct {
	Name         Value `json:"name" form:"name"`
	Email        Value `json:"email" form:"email"`
	Phone        Value `json:"phone" form:"phone"`
	Organization Value `json:"organization" form:"organization"`
	Program      Value `json:"program" form:"program"`
	Message      Value `json:"message" form:"message"`
}

// NewRequest returns an empty Request to bind into.
func NewRequest() *Request {
	return &Request{}
}

// Validate implements validation.Validatable.
func (r *Request) Validate() error {
	return validation.ApplyRules(r, rules)
}

// Submission is a validated, sanitized contact request.
type Submission struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Organization string `json:"organization"`
	Program      string `json:"program"`
	Message      string `json:"message"`
}

// Submission sanitizes every field. Call it only after Validate succeeded.
func (r *Request) Submission() Submission {
	return Submission{
		Name:         Sanitize(r.Name),
		Email:        Sanitize(r.Email),
		Phone:        Sanitize(r.Phone),
		Organization: Sanitize(r.Organization),
		Program:      Sanitize(r.Program),
		Message:      Sanitize(r.Message),
	}
}
