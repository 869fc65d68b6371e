// Package validation contains the logic for validating
// request data.
//
// Request types describe their checks as an ordered rule table; the first
// rule that fails becomes the client-facing error.
package validation
