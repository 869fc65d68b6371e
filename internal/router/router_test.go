package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npyskills/contact-api/internal/config"
	"github.com/npyskills/contact-api/internal/contact"
	"github.com/npyskills/contact-api/internal/handler"
	"github.com/npyskills/contact-api/internal/lib/ratelimit"
	"github.com/npyskills/contact-api/internal/notify"
	"github.com/npyskills/contact-api/internal/server"
	"github.com/npyskills/contact-api/internal/service"
)

const janeDoe = `{"name":"Jane Doe","email":"jane@example.com","message":"Hello, I'm interested in corporate training."}`

// recordingNotifier captures every notification it is asked to send.
type recordingNotifier struct {
	channel notify.Channel
	fail    error
	panics  bool

	mu   sync.Mutex
	sent []contact.Notification
}

func (r *recordingNotifier) Channel() notify.Channel { return r.channel }
func (r *recordingNotifier) Configured() bool        { return true }

func (r *recordingNotifier) Send(_ context.Context, n contact.Notification) notify.Result {
	r.mu.Lock()
	r.sent = append(r.sent, n)
	r.mu.Unlock()

	if r.panics {
		panic("provider sdk exploded")
	}
	if r.fail != nil {
		return notify.Result{Channel: r.channel, Error: r.fail.Error()}
	}
	return notify.Result{Channel: r.channel, Success: true, Identifier: "id"}
}

func (r *recordingNotifier) Sent() []contact.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]contact.Notification(nil), r.sent...)
}

type testApp struct {
	echo   *echo.Echo
	server *server.Server
}

func testConfig() *config.Config {
	return &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:         "0",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
			BodyLimit:    "10M",
			FrontendURL:  "https://npyskills.example",
		},
		RateLimit: config.RateLimitConfig{
			Requests: 5,
			Window:   15 * time.Minute,
			Store:    config.RateLimitStoreMemory,
		},
		Notify: config.NotifyConfig{
			AdminEmail:     "admin@npyskills.example",
			ChannelTimeout: time.Second,
		},
		Observability: config.DefaultObservabilityConfig(),
	}
}

func newTestApp(t *testing.T, cfg *config.Config, primary notify.Notifier, optional ...notify.Notifier) *testApp {
	t.Helper()

	logger := zerolog.Nop()
	store := ratelimit.NewMemoryStore(time.Minute)
	limiter := ratelimit.New(store, cfg.RateLimit.Requests, cfg.RateLimit.Window)

	s := &server.Server{
		Config:      cfg,
		Logger:      &logger,
		Dispatcher:  notify.NewDispatcher(&logger, cfg.Notify.ChannelTimeout, primary, optional...),
		RateLimiter: limiter,
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})

	services := service.NewServices(s)
	return &testApp{
		echo:   NewRouter(s, handler.NewHandlers(s, services)),
		server: s,
	}
}

func (a *testApp) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) waitBackground(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, a.server.Dispatcher.Wait(ctx))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestContact_Accepted(t *testing.T) {
	email := &recordingNotifier{channel: notify.ChannelEmail}
	telegram := &recordingNotifier{channel: notify.ChannelTelegram}
	app := newTestApp(t, testConfig(), email, telegram)

	rec := app.do(http.MethodPost, "/api/contact", janeDoe, nil)
	app.waitBackground(t)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{
		"success": true,
		"message": service.MsgSubmitted,
	}, decode(t, rec))

	sent := email.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "New Contact Form Submission from Jane Doe", sent[0].Subject)
	assert.Equal(t, "jane@example.com", sent[0].ReplyTo)
	assert.Contains(t, sent[0].Text, "Phone: Not provided")

	assert.Len(t, telegram.Sent(), 1)
}

func TestContact_SanitizesBeforeSending(t *testing.T) {
	email := &recordingNotifier{channel: notify.ChannelEmail}
	app := newTestApp(t, testConfig(), email)

	body := `{"name":"  <b>Jane</b> ","email":"jane@example.com","phone":"+15550109999","message":"hi <script>"}`
	rec := app.do(http.MethodPost, "/api/contact", body, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	sent := email.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "New Contact Form Submission from bJane/b", sent[0].Subject)
	assert.NotContains(t, sent[0].Text, "<script>")
}

func TestContact_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{
			name:    "missing message",
			body:    `{"name":"Jane Doe","email":"jane@example.com"}`,
			message: contact.MsgMissingFields,
		},
		{
			name:    "empty name",
			body:    `{"name":"","email":"jane@example.com","message":"hi"}`,
			message: contact.MsgMissingFields,
		},
		{
			name:    "invalid email",
			body:    `{"name":"Jane","email":"bad-email","message":"hi"}`,
			message: contact.MsgInvalidEmail,
		},
		{
			name:    "email without tld",
			body:    `{"name":"Jane","email":"a@b","message":"hi"}`,
			message: contact.MsgInvalidEmail,
		},
		{
			name:    "phone with leading zero",
			body:    `{"name":"Jane","email":"jane@example.com","phone":"0123456","message":"hi"}`,
			message: contact.MsgInvalidPhone,
		},
		{
			name:    "invalid phone",
			body:    `{"name":"Jane","email":"jane@example.com","phone":"call me","message":"hi"}`,
			message: contact.MsgInvalidPhone,
		},
		{
			name:    "malformed json",
			body:    `{"name":`,
			message: "Invalid request body.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email := &recordingNotifier{channel: notify.ChannelEmail}
			app := newTestApp(t, testConfig(), email)

			rec := app.do(http.MethodPost, "/api/contact", tt.body, nil)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["error"])
			assert.Empty(t, email.Sent())
		})
	}
}

func TestContact_ProviderFailuresStillSucceed(t *testing.T) {
	t.Run("email rejected", func(t *testing.T) {
		email := &recordingNotifier{channel: notify.ChannelEmail, fail: errors.New("invalid api key")}
		sms := &recordingNotifier{channel: notify.ChannelSMS}
		app := newTestApp(t, testConfig(), email, sms)

		rec := app.do(http.MethodPost, "/api/contact", janeDoe, nil)
		app.waitBackground(t)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decode(t, rec)["success"])
		assert.Len(t, sms.Sent(), 1)
	})

	t.Run("optional channel panics", func(t *testing.T) {
		email := &recordingNotifier{channel: notify.ChannelEmail}
		telegram := &recordingNotifier{channel: notify.ChannelTelegram, panics: true}
		app := newTestApp(t, testConfig(), email, telegram)

		rec := app.do(http.MethodPost, "/api/contact", janeDoe, nil)
		app.waitBackground(t)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, email.Sent(), 1)
	})
}

func TestContact_RateLimit(t *testing.T) {
	app := newTestApp(t, testConfig(), &recordingNotifier{channel: notify.ChannelEmail})

	for i := 1; i <= 5; i++ {
		rec := app.do(http.MethodPost, "/api/contact", janeDoe, nil)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
		assert.Equal(t, "5", rec.Header().Get("RateLimit-Limit"))
		assert.Equal(t, string(rune('0'+5-i)), rec.Header().Get("RateLimit-Remaining"))
	}

	rec := app.do(http.MethodPost, "/api/contact", janeDoe, nil)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"Too many requests from this IP, please try again later."}`, rec.Body.String())
	assert.Equal(t, "0", rec.Header().Get("RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("RateLimit-Reset"))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderRetryAfter))

	// Other routes are not limited.
	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/api/health", "", nil).Code)
}

func TestContact_RateLimitCountsInvalidRequests(t *testing.T) {
	app := newTestApp(t, testConfig(), &recordingNotifier{channel: notify.ChannelEmail})

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusBadRequest, app.do(http.MethodPost, "/api/contact", `{}`, nil).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, app.do(http.MethodPost, "/api/contact", janeDoe, nil).Code)
}

func TestCORS(t *testing.T) {
	t.Run("allowed origin", func(t *testing.T) {
		app := newTestApp(t, testConfig(), &recordingNotifier{channel: notify.ChannelEmail})

		rec := app.do(http.MethodPost, "/api/contact", janeDoe, map[string]string{
			echo.HeaderOrigin: "http://localhost:3000",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
	})

	t.Run("configured frontend", func(t *testing.T) {
		app := newTestApp(t, testConfig(), &recordingNotifier{channel: notify.ChannelEmail})

		rec := app.do(http.MethodGet, "/api/health", "", map[string]string{
			echo.HeaderOrigin: "https://npyskills.example",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://npyskills.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	})

	t.Run("rejected origin", func(t *testing.T) {
		email := &recordingNotifier{channel: notify.ChannelEmail}
		app := newTestApp(t, testConfig(), email)

		rec := app.do(http.MethodPost, "/api/contact", janeDoe, map[string]string{
			echo.HeaderOrigin: "https://evil.example",
		})

		require.Equal(t, http.StatusForbidden, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Not allowed by CORS", body["error"])
		assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		assert.Empty(t, email.Sent())
	})

	t.Run("preflight", func(t *testing.T) {
		app := newTestApp(t, testConfig(), &recordingNotifier{channel: notify.ChannelEmail})

		rec := app.do(http.MethodOptions, "/api/contact", "", map[string]string{
			echo.HeaderOrigin:                     "http://127.0.0.1:3001",
			echo.HeaderAccessControlRequestMethod: http.MethodPost,
		})

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://127.0.0.1:3001", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodPost)
	})

	t.Run("no origin header", func(t *testing.T) {
		app := newTestApp(t, testConfig(), &recordingNotifier{channel: notify.ChannelEmail})

		assert.Equal(t, http.StatusOK, app.do(http.MethodPost, "/api/contact", janeDoe, nil).Code)
	})
}

func TestBodyLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.BodyLimit = "1K"
	email := &recordingNotifier{channel: notify.ChannelEmail}
	app := newTestApp(t, cfg, email)

	body := `{"name":"Jane","email":"jane@example.com","message":"` + strings.Repeat("a", 2048) + `"}`
	rec := app.do(http.MethodPost, "/api/contact", body, nil)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])
	assert.Empty(t, email.Sent())
}

func TestNotFound(t *testing.T) {
	app := newTestApp(t, testConfig(), &recordingNotifier{channel: notify.ChannelEmail})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/unknown"},
		{http.MethodGet, "/"},
		{http.MethodGet, "/api/contact"},
	} {
		rec := app.do(tc.method, tc.path, "", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code, tc.path)
		assert.JSONEq(t, `{"success":false,"error":"Endpoint not found","code":"NOT_FOUND"}`, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, testConfig(), &recordingNotifier{channel: notify.ChannelEmail})

	rec := app.do(http.MethodGet, "/api/health", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "NPY Skills Academy Contact API", body["service"])

	ts, err := time.Parse(time.RFC3339, body["timestamp"].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}

func TestOpenAPIDocument(t *testing.T) {
	app := newTestApp(t, testConfig(), &recordingNotifier{channel: notify.ChannelEmail})

	rec := app.do(http.MethodGet, "/api/docs/openapi.json", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Contains(t, body["paths"], "/api/contact")
}

func TestRequestIDAndSecureHeaders(t *testing.T) {
	app := newTestApp(t, testConfig(), &recordingNotifier{channel: notify.ChannelEmail})

	rec := app.do(http.MethodGet, "/api/health", "", nil)
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)
	assert.Equal(t, "nosniff", rec.Header().Get(echo.HeaderXContentTypeOptions))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentSecurityPolicy), "default-src 'self'")

	rec = app.do(http.MethodGet, "/api/health", "", map[string]string{"X-Request-ID": "abc-123"})
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	// Errors carry the id too.
	rec = app.do(http.MethodGet, "/nope", "", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
