// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/npyskills/contact-api/internal/handler"
	"github.com/npyskills/contact-api/internal/middleware"
	"github.com/npyskills/contact-api/internal/server"
)

// NewRouter builds the Echo instance with the global middleware chain and
// every route.
//
// Middleware order matters:
//   - RequestID first, so even CORS rejections carry X-Request-ID
//   - tracing and the context logger before anything that logs
//   - Recover inside RequestLogger, so panics are logged with their 500
//   - CORS and BodyLimit last, right before routing to handlers
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	if s.Config.Server.TrustProxy {
		router.IPExtractor = echo.ExtractIPFromXFFHeader()
	} else {
		router.IPExtractor = echo.ExtractIPDirect()
	}

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
		middlewares.Global.BodyLimit(),
	)

	api := router.Group("/api")

	registerSystemRoutes(api, h)
	registerContactRoutes(api, h, middlewares)

	return router
}
