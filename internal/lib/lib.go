// Package lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It contains the email client (Resend), background job processing
// (Redis/Asynq), the rate limit stores and small shared utilities.
package lib
