package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/npyskills/contact-api/internal/config"
	"github.com/npyskills/contact-api/internal/middleware"
	"github.com/npyskills/contact-api/internal/server"
)

// HealthHandler serves the liveness endpoint used by uptime monitors and
// load balancers.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
}

// CheckHealth always answers 200 while the process serves requests. It has
// no dependency checks: notification providers failing never makes the
// service unhealthy.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	middleware.GetLogger(c).Debug().
		Str("operation", "health_check").
		Msg("health check passed")

	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   config.ServiceName,
	})
}
