package router

import (
	"github.com/labstack/echo/v4"

	"github.com/npyskills/contact-api/internal/handler"
)

// registerSystemRoutes registers endpoints that are not part of the
// business logic: health and API docs.
func registerSystemRoutes(r *echo.Group, h *handler.Handlers) {
	r.GET("/health", h.Health.CheckHealth)
	r.GET("/docs/openapi.json", h.OpenAPI.ServeOpenAPISpec)
}
