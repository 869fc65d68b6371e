// Package handler is the first entry point for business logic after the
// router.
//
// It parses requests, validates input through the validation package and
// calls the service layer. It is the interface between the HTTP request and
// the core business logic.
package handler

import (
	"github.com/npyskills/contact-api/internal/server"
	"github.com/npyskills/contact-api/internal/service"
)

// Handlers is a container that groups all HTTP handlers so router setup
// passes one object around instead of many.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Contact *ContactHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Contact: NewContactHandler(s, services.Contact),
	}
}
