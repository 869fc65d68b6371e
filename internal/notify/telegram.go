package notify

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/npyskills/contact-api/internal/config"
	"github.com/npyskills/contact-api/internal/contact"
)

// TelegramNotifier posts the HTML rendering to a chat through the Bot API.
type TelegramNotifier struct {
	bot    *bot.Bot
	chatID string

	// Telegram allows about one message per second into a single chat.
	limiter *rate.Limiter
}

// NewTelegramNotifier builds the Bot API client when both the token and the
// chat are set. The client never polls for updates; it only sends.
func NewTelegramNotifier(cfg config.TelegramConfig, httpClient *http.Client) *TelegramNotifier {
	n := &TelegramNotifier{
		chatID:  cfg.ChatID,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
	if cfg.BotToken == "" || cfg.ChatID == "" {
		return n
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	opts := []bot.Option{
		bot.WithSkipGetMe(),
		bot.WithHTTPClient(httpClient.Timeout, httpClient),
	}
	if cfg.APIBaseURL != "" {
		opts = append(opts, bot.WithServerURL(cfg.APIBaseURL))
	}

	// New only fails on a malformed token; the channel then reports itself
	// as not configured.
	b, err := bot.New(cfg.BotToken, opts...)
	if err == nil {
		n.bot = b
	}
	return n
}

func (t *TelegramNotifier) Channel() Channel { return ChannelTelegram }

func (t *TelegramNotifier) Configured() bool {
	return t.bot != nil
}

func (t *TelegramNotifier) Send(ctx context.Context, n contact.Notification) Result {
	if !t.Configured() {
		return notConfigured(ChannelTelegram)
	}

	id, err := t.send(ctx, n.Telegram)
	if err != nil {
		return failed(ChannelTelegram, err)
	}
	return succeeded(ChannelTelegram, id)
}

func (t *TelegramNotifier) send(ctx context.Context, text string) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", errors.Wrap(err, "telegram rate limit wait")
	}

	msg, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    t.chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		// The request URL carries the bot token; keep it out of logs.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return "", errors.Wrap(err, "telegram")
	}

	return strconv.Itoa(msg.ID), nil
}
