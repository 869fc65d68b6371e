package notify

import (
	"context"

	"github.com/pkg/errors"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/npyskills/contact-api/internal/config"
	"github.com/npyskills/contact-api/internal/contact"
)

const whatsAppPrefix = "whatsapp:"

// MessageCreator is the part of the Twilio REST client the notifiers use.
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// NewTwilioMessageCreator returns a Twilio client, or nil when no account
// credentials are configured.
func NewTwilioMessageCreator(cfg config.TwilioConfig) MessageCreator {
	if !cfg.Configured() {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return client.Api
}

// twilioNotifier is shared by the SMS and WhatsApp channels; they only
// differ in addressing and in which rendering they send.
type twilioNotifier struct {
	channel Channel
	api     MessageCreator
	from    string
	to      string
	enabled bool
	body    func(contact.Notification) string
}

// NewSMSNotifier sends the short SMS rendering to the admin phone.
// It needs account credentials, a sender number, an admin number and the
// enable_sms switch.
func NewSMSNotifier(api MessageCreator, cfg config.TwilioConfig, adminPhone string) Notifier {
	return &twilioNotifier{
		channel: ChannelSMS,
		api:     api,
		from:    cfg.PhoneNumber,
		to:      adminPhone,
		enabled: cfg.EnableSMS,
		body:    func(n contact.Notification) string { return n.SMS },
	}
}

// NewWhatsAppNotifier sends the WhatsApp rendering to the admin's WhatsApp
// number. Both addresses get the "whatsapp:" prefix.
func NewWhatsAppNotifier(api MessageCreator, cfg config.TwilioConfig, adminWhatsApp string) Notifier {
	n := &twilioNotifier{
		channel: ChannelWhatsApp,
		api:     api,
		enabled: true,
		body:    func(n contact.Notification) string { return n.WhatsApp },
	}
	if cfg.WhatsAppNumber != "" {
		n.from = whatsAppPrefix + cfg.WhatsAppNumber
	}
	if adminWhatsApp != "" {
		n.to = whatsAppPrefix + adminWhatsApp
	}
	return n
}

func (t *twilioNotifier) Channel() Channel { return t.channel }

func (t *twilioNotifier) Configured() bool {
	return t.enabled && t.api != nil && t.from != "" && t.to != ""
}

func (t *twilioNotifier) Send(ctx context.Context, n contact.Notification) Result {
	if !t.Configured() {
		return notConfigured(t.channel)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(t.to)
	params.SetBody(t.body(n))

	msg, err := withContext(ctx, func() (*twilioApi.ApiV2010Message, error) {
		return t.api.CreateMessage(params)
	})
	if err != nil {
		return failed(t.channel, errors.Wrapf(err, "twilio %s", t.channel))
	}

	var sid string
	if msg != nil && msg.Sid != nil {
		sid = *msg.Sid
	}
	return succeeded(t.channel, sid)
}

// withContext runs a call that takes no context and gives up when ctx ends.
// The call itself keeps running until the SDK's own http timeout.
func withContext[T any](ctx context.Context, call func() (T, error)) (T, error) {
	type outcome struct {
		v   T
		err error
	}

	done := make(chan outcome, 1)
	go func() {
		v, err := call()
		done <- outcome{v, err}
	}()

	select {
	case o := <-done:
		return o.v, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
