// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// present), loads them on top of a set of defaults into structured Go types,
// and validates that required values are present so they can be reused across
// the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional blocks (rate limiting, notify, observability).
package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

/*
	Env vars are read using the prefix ACADEMY_. The prefix is removed, the
	rest is lowercased and a double underscore marks a nesting level:

	  ACADEMY_SERVER__PORT                     -> server.port
	  ACADEMY_INTEGRATION__TWILIO__AUTH_TOKEN  -> integration.twilio.auth_token

	Single underscores stay part of the key name.
*/

const (
	// EnvPrefix is the prefix every recognised environment variable carries.
	EnvPrefix = "ACADEMY_"

	// ServiceName identifies this service in logs, traces and the health payload.
	ServiceName = "NPY Skills Academy Contact API"
)

// RateLimitStore names a backing store for the contact route rate limiter.
type RateLimitStore string

const (
	RateLimitStoreMemory RateLimitStore = "memory"
	RateLimitStoreRedis  RateLimitStore = "redis"
)

// Config is the root configuration object for the application.
//
// It is constructed once at process start and handed to the server container;
// nothing else in the codebase reads the environment directly.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	RateLimit     RateLimitConfig      `koanf:"rate_limit" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Notify        NotifyConfig         `koanf:"notify" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are stored as seconds.
type ServerConfig struct {
	Port         string `koanf:"port" validate:"required"`
	ReadTimeout  int    `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout int    `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout  int    `koanf:"idle_timeout" validate:"required,min=1"`

	// BodyLimit caps request bodies, in echo's size notation ("10M", "512K").
	BodyLimit string `koanf:"body_limit" validate:"required"`

	// FrontendURL is the production front-end origin allowed by CORS.
	FrontendURL string `koanf:"frontend_url"`

	// CORSAllowedOrigins replaces the local development origins when set.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// TrustProxy takes the client IP from X-Forwarded-For. Enable it only
	// behind a proxy that sets the header.
	TrustProxy bool `koanf:"trust_proxy"`
}

// RateLimitConfig controls the fixed-window limiter in front of the contact route.
type RateLimitConfig struct {
	Requests int            `koanf:"requests" validate:"required,min=1"`
	Window   time.Duration  `koanf:"window" validate:"required,min=1s"`
	Store    RateLimitStore `koanf:"store" validate:"required,oneof=memory redis"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port". Empty means Redis is not used.
type RedisConfig struct {
	Address  string `koanf:"address"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// NotifyConfig describes where admin notifications are delivered.
type NotifyConfig struct {
	AdminEmail    string `koanf:"admin_email"`
	AdminPhone    string `koanf:"admin_phone"`
	AdminWhatsApp string `koanf:"admin_whatsapp"`

	// ChannelTimeout bounds a single provider call.
	ChannelTimeout time.Duration `koanf:"channel_timeout" validate:"required,min=1s"`

	// Async pushes optional channels onto the job queue instead of goroutines.
	// It needs Redis.
	Async bool `koanf:"async"`
}

// IntegrationConfig stores provider credentials.
//
// Every value is optional at load time. A missing email key fails at the
// provider boundary; missing optional-channel credentials disable that channel.
type IntegrationConfig struct {
	ResendAPIKey  string         `koanf:"resend_api_key"`
	EmailFrom     string         `koanf:"email_from"`
	EmailFromName string         `koanf:"email_from_name"`
	Twilio        TwilioConfig   `koanf:"twilio"`
	Telegram      TelegramConfig `koanf:"telegram"`
}

// TwilioConfig holds credentials for the SMS and WhatsApp channels.
type TwilioConfig struct {
	AccountSID     string `koanf:"account_sid"`
	AuthToken      string `koanf:"auth_token"`
	PhoneNumber    string `koanf:"phone_number"`
	WhatsAppNumber string `koanf:"whatsapp_number"`
	EnableSMS      bool   `koanf:"enable_sms"`
}

// Configured reports whether account credentials are present.
func (t TwilioConfig) Configured() bool {
	return t.AccountSID != "" && t.AuthToken != ""
}

// TelegramConfig holds the bot credentials for the chat-bot channel.
type TelegramConfig struct {
	BotToken   string `koanf:"bot_token"`
	ChatID     string `koanf:"chat_id"`
	APIBaseURL string `koanf:"api_base_url" validate:"omitempty,url"`
}

// DefaultLocalOrigins are the development hosts the front-end runs on.
var DefaultLocalOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:3001",
}

// AllowedOrigins returns the CORS allow-list: the configured (or default local)
// origins followed by the production front-end URL, without blanks or duplicates.
func (s ServerConfig) AllowedOrigins() []string {
	base := s.CORSAllowedOrigins
	if len(base) == 0 {
		base = DefaultLocalOrigins
	}

	seen := make(map[string]struct{}, len(base)+1)
	origins := make([]string, 0, len(base)+1)
	for _, o := range append(append([]string{}, base...), s.FrontendURL) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		origins = append(origins, o)
	}
	return origins
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"primary.env":                       "development",
		"server.port":                       "5000",
		"server.read_timeout":               30,
		"server.write_timeout":              30,
		"server.idle_timeout":               60,
		"server.body_limit":                 "10M",
		"rate_limit.requests":               5,
		"rate_limit.window":                 15 * time.Minute,
		"rate_limit.store":                  string(RateLimitStoreMemory),
		"notify.channel_timeout":            10 * time.Second,
		"integration.email_from_name":       "NPY Skills Academy",
		"integration.telegram.api_base_url": "https://api.telegram.org",
	}
}

// LoadConfig loads the defaults, overlays environment variables, unmarshals
// the result into Config, validates it and fills in observability defaults.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "could not load config defaults")
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not load env variables")
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal main config")
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	if mainConfig.RateLimit.Store == RateLimitStoreRedis && mainConfig.Redis.Address == "" {
		return nil, errors.New("rate_limit.store=redis requires redis.address")
	}
	if mainConfig.Notify.Async && mainConfig.Redis.Address == "" {
		return nil, errors.New("notify.async requires redis.address")
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed; environment always follows primary.env.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid observability config")
	}

	return mainConfig, nil
}
