// Package contact holds the contact-form submission model: decoding of the raw
// request, the ordered validation rules, sanitization and the rendering of one
// submission into every channel's message format.
//
// Nothing in this package performs I/O.
package contact
