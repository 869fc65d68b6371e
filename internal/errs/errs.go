// Package errs defines the error types returned to API clients.
//
// Every failure leaves the service in the same envelope:
//
//	{ "success": false, "error": "<human readable message>", "code": "BAD_REQUEST" }
//
// so the front-end only ever has to look at one shape.
package errs
