package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/npyskills/contact-api/internal/errs"
	"github.com/npyskills/contact-api/internal/server"
)

// GlobalMiddlewares groups "global" middleware and the global error handler.
//
// It holds *server.Server so every middleware can read config values
// (allowed origins, body limit, env).
type GlobalMiddlewares struct {
	server  *server.Server
	origins map[string]struct{}
}

// NewGlobalMiddlewares constructs the middleware bundle and resolves the
// CORS allow-list once.
func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	allowed := s.Config.Server.AllowedOrigins()
	origins := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		origins[o] = struct{}{}
	}

	return &GlobalMiddlewares{
		server:  s,
		origins: origins,
	}
}

// CORS returns Echo's CORS middleware restricted to the allow-list.
//
// Requests without an Origin header (curl, server to server) pass through.
// Any other origin outside the list fails the request with a 403 before a
// handler runs.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOriginFunc: global.allowOrigin,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders: []string{
			echo.HeaderContentType,
			echo.HeaderAuthorization,
			echo.HeaderXRequestedWith,
		},
		ExposeHeaders: []string{
			RequestIDHeader,
			HeaderRateLimitLimit,
			HeaderRateLimitRemaining,
			HeaderRateLimitReset,
		},
		AllowCredentials: true,
	})
}

func (global *GlobalMiddlewares) allowOrigin(origin string) (bool, error) {
	if _, ok := global.origins[origin]; ok {
		return true, nil
	}
	return false, errs.NewForbiddenError(errs.MsgCORS, true)
}

// BodyLimit rejects bodies larger than server.body_limit with a 413.
func (global *GlobalMiddlewares) BodyLimit() echo.MiddlewareFunc {
	return middleware.BodyLimit(global.server.Config.Server.BodyLimit)
}

// RequestLogger returns Echo's request logger middleware with a zerolog
// LogValuesFunc: one "API" line per request, level chosen by status.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			// When a handler returns an error the response is written later by
			// GlobalErrorHandler, so v.Status is not final yet.
			// See https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			statusCode := v.Status
			if v.Error != nil {
				statusCode, _ = resolve(v.Error)
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover turns handler panics into errors for GlobalErrorHandler.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisablePrintStack: true,
	})
}

// Secure returns Echo's secure headers middleware.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "0",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		HSTSMaxAge:            15552000,
		ContentSecurityPolicy: "default-src 'self'; base-uri 'self'; frame-ancestors 'self'; object-src 'none'",
		ReferrerPolicy:        "no-referrer",
	})
}

// resolve maps any error onto the status and client message of the response.
//
//   - *errs.HTTPError keeps its status. A 5xx message is only shown when the
//     error was marked Override.
//   - *echo.HTTPError comes from routing and echo middleware. Unknown routes
//     and methods become a 404.
//   - everything else is a 500 with the generic message.
func resolve(err error) (int, *errs.HTTPError) {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Status >= http.StatusInternalServerError && !httpErr.Override {
			return httpErr.Status, httpErr.WithMessage(errs.MsgInternal)
		}
		return httpErr.Status, httpErr
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		switch echoErr.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			return http.StatusNotFound, errs.NewNotFoundError(errs.MsgNotFound, true)
		case http.StatusRequestEntityTooLarge:
			return http.StatusRequestEntityTooLarge, errs.NewRequestEntityTooLargeError()
		}

		if echoErr.Code >= http.StatusInternalServerError {
			return echoErr.Code, errs.NewInternalServerError()
		}

		message := http.StatusText(echoErr.Code)
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		}
		return echoErr.Code, &errs.HTTPError{
			Message: message,
			Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
			Status:  echoErr.Code,
		}
	}

	return http.StatusInternalServerError, errs.NewInternalServerError()
}

// GlobalErrorHandler is the final error funnel for the entire HTTP server.
//
// Every error ends up here. It logs the original error with the request
// logger and writes the {success:false,error} envelope.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	status, body := resolve(err)

	logger := GetLogger(c)

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error().Stack()
	}
	event.
		Err(err).
		Int("status", status).
		Str("error_code", body.Code).
		Msg(body.Message)

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, body)
}
