package notify

import (
	"github.com/rs/zerolog"

	"github.com/npyskills/contact-api/internal/config"
	"github.com/npyskills/contact-api/internal/lib/email"
)

// NewFromConfig wires the email primary and the SMS, WhatsApp and Telegram
// optional channels from cfg. Channels without credentials are still
// registered; they report themselves as not configured.
func NewFromConfig(cfg *config.Config, logger *zerolog.Logger) *Dispatcher {
	twilioClient := NewTwilioMessageCreator(cfg.Integration.Twilio)

	return NewDispatcher(
		logger,
		cfg.Notify.ChannelTimeout,
		NewEmailNotifier(email.NewClient(cfg, logger), cfg.Notify.AdminEmail),
		NewSMSNotifier(twilioClient, cfg.Integration.Twilio, cfg.Notify.AdminPhone),
		NewWhatsAppNotifier(twilioClient, cfg.Integration.Twilio, cfg.Notify.AdminWhatsApp),
		NewTelegramNotifier(cfg.Integration.Telegram, nil),
	)
}

// Status describes whether one channel is ready to send.
type Status struct {
	Channel    Channel `json:"channel"`
	Primary    bool    `json:"primary"`
	Configured bool    `json:"configured"`
}

// Statuses reports every channel without sending anything.
func (d *Dispatcher) Statuses() []Status {
	out := make([]Status, 0, len(d.optional)+1)
	for i, nt := range d.Notifiers() {
		out = append(out, Status{
			Channel:    nt.Channel(),
			Primary:    i == 0,
			Configured: nt.Configured(),
		})
	}
	return out
}
