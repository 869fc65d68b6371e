// Package notify delivers a composed contact notification to the admin over
// every configured channel.
//
// Each channel is a Notifier. A Notifier never returns an error: whatever goes
// wrong (network, provider, missing credentials) comes back as a failed
// Result, so one channel can never affect another or the HTTP response.
package notify

import (
	"context"

	"github.com/npyskills/contact-api/internal/contact"
)

// Channel names a notification transport.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelTelegram Channel = "telegram"
)

// ErrNotConfigured is the Result error of a channel that lacks credentials.
const ErrNotConfigured = "not configured"

// Result is the outcome of one channel send.
type Result struct {
	Channel    Channel `json:"channel"`
	Success    bool    `json:"success"`
	Identifier string  `json:"identifier,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// Notifier sends a notification over one channel.
type Notifier interface {
	Channel() Channel

	// Configured reports whether the channel has what it needs to send.
	// Send on an unconfigured notifier returns a "not configured" failure
	// without any I/O.
	Configured() bool

	Send(ctx context.Context, n contact.Notification) Result
}

func succeeded(ch Channel, id string) Result {
	return Result{Channel: ch, Success: true, Identifier: id}
}

func failed(ch Channel, err error) Result {
	return Result{Channel: ch, Error: err.Error()}
}

func notConfigured(ch Channel) Result {
	return Result{Channel: ch, Error: ErrNotConfigured}
}
