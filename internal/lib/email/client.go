// Package email provides an email sending client.
//
// It uses Resend (resend-go) as the email provider. Bodies arrive already
// rendered; this package only knows about envelopes.
package email

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/npyskills/contact-api/internal/config"
)

// ErrNoRecipient is returned when a message has no To address.
var ErrNoRecipient = errors.New("email recipient is empty")

// emailsAPI is the part of the Resend SDK the client uses.
type emailsAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Message is one outgoing email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
}

// Client wraps the Resend client and a logger.
type Client struct {
	emails emailsAPI
	from   string
	logger *zerolog.Logger
}

// NewClient creates an email Client from the integration config.
//
// A missing API key is not an error here; Resend rejects the call and the
// caller treats it like any other delivery failure.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	return newClient(resend.NewClient(cfg.Integration.ResendAPIKey).Emails, cfg.Integration, logger)
}

func newClient(api emailsAPI, cfg config.IntegrationConfig, logger *zerolog.Logger) *Client {
	from := cfg.EmailFrom
	if cfg.EmailFromName != "" && from != "" {
		from = fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom)
	}

	return &Client{
		emails: api,
		from:   from,
		logger: logger,
	}
}

// Send delivers msg and returns the provider message id.
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	if msg.To == "" {
		return "", ErrNoRecipient
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
		ReplyTo: msg.ReplyTo,
	}

	c.logger.Debug().
		Str("to", msg.To).
		Str("from", c.from).
		Str("subject", msg.Subject).
		Msg("sending email")

	sent, err := c.emails.SendWithContext(ctx, params)
	if err != nil {
		return "", errors.Wrap(err, "failed to send email")
	}

	return sent.Id, nil
}
