package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/npyskills/contact-api/internal/contact"
	"github.com/npyskills/contact-api/internal/server"
	"github.com/npyskills/contact-api/internal/service"
)

// ContactHandler serves POST /api/contact.
type ContactHandler struct {
	Handler
	contactService *service.ContactService
}

func NewContactHandler(s *server.Server, contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{
		Handler:        NewHandler(s),
		contactService: contactService,
	}
}

// Submit runs after binding and validation; req is a valid request.
func (h *ContactHandler) Submit(c echo.Context, req *contact.Request) (*service.SubmitResponse, error) {
	return h.contactService.Submit(c.Request().Context(), req)
}
