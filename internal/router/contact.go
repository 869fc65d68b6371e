package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/npyskills/contact-api/internal/contact"
	"github.com/npyskills/contact-api/internal/handler"
	"github.com/npyskills/contact-api/internal/middleware"
)

// registerContactRoutes registers the form submission endpoint behind the
// per-IP rate limiter.
func registerContactRoutes(r *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	r.POST(
		"/contact",
		handler.Handle(h.Contact.Handler, h.Contact.Submit, http.StatusOK, contact.NewRequest),
		m.RateLimit.Limit("contact"),
	)
}
