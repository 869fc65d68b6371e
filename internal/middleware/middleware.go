// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as CORS, body limits, request logging, rate limiting,
// tracing and panic recovery.
package middleware
