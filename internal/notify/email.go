package notify

import (
	"context"

	"github.com/npyskills/contact-api/internal/contact"
	"github.com/npyskills/contact-api/internal/lib/email"
)

// Mailer is implemented by *email.Client.
type Mailer interface {
	Send(ctx context.Context, msg email.Message) (string, error)
}

// EmailNotifier sends the HTML + text rendering to the admin address.
type EmailNotifier struct {
	mailer Mailer
	to     string
}

func NewEmailNotifier(mailer Mailer, adminEmail string) *EmailNotifier {
	return &EmailNotifier{mailer: mailer, to: adminEmail}
}

func (e *EmailNotifier) Channel() Channel { return ChannelEmail }

// Configured is always true: the email channel is mandatory, so missing
// credentials surface as provider failures instead of being skipped.
func (e *EmailNotifier) Configured() bool { return true }

func (e *EmailNotifier) Send(ctx context.Context, n contact.Notification) Result {
	id, err := e.mailer.Send(ctx, email.Message{
		To:      e.to,
		Subject: n.Subject,
		HTML:    n.HTML,
		Text:    n.Text,
		ReplyTo: n.ReplyTo,
	})
	if err != nil {
		return failed(ChannelEmail, err)
	}
	return succeeded(ChannelEmail, id)
}
