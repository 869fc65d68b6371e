package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/npyskills/contact-api/internal/server"
)

const (
	HeaderRateLimitLimit     = "RateLimit-Limit"
	HeaderRateLimitRemaining = "RateLimit-Remaining"
	HeaderRateLimitReset     = "RateLimit-Reset"

	// MsgTooManyRequests is the body of a rejected request.
	MsgTooManyRequests = "Too many requests from this IP, please try again later."
)

// RateLimitMiddleware enforces rate_limit.requests per client IP per
// rate_limit.window using the server's rate limit store.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit returns a middleware counting requests under endpoint.
//
// Every response carries the RateLimit-* headers. Once the count passes the
// limit the request is answered with 429 and never reaches the handler.
// When the store fails the request is let through.
func (r *RateLimitMiddleware) Limit(endpoint string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := endpoint + ":" + c.RealIP()

			res, err := r.server.RateLimiter.Get(c.Request().Context(), key)
			if err != nil {
				GetLogger(c).Error().Err(err).Str("endpoint", endpoint).Msg("rate limit store unavailable, allowing request")
				return next(c)
			}

			// Reset is a unix timestamp; the headers carry seconds until it.
			resetIn := max(res.Reset-time.Now().Unix(), 0)

			h := c.Response().Header()
			h.Set(HeaderRateLimitLimit, strconv.FormatInt(res.Limit, 10))
			h.Set(HeaderRateLimitRemaining, strconv.FormatInt(res.Remaining, 10))
			h.Set(HeaderRateLimitReset, strconv.FormatInt(resetIn, 10))

			if res.Reached {
				h.Set(echo.HeaderRetryAfter, strconv.FormatInt(resetIn, 10))
				r.RecordRateLimitHit(endpoint)

				GetLogger(c).Warn().
					Str("endpoint", endpoint).
					Int64("limit", res.Limit).
					Msg("rate limit exceeded")

				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": MsgTooManyRequests,
				})
			}

			return next(c)
		}
	}
}

// RecordRateLimitHit sends a RateLimitHit custom event to New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}
