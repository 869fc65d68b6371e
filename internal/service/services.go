package service

import (
	"github.com/npyskills/contact-api/internal/server"
)

type Services struct {
	Contact *ContactService
}

func NewServices(s *server.Server) *Services {
	return &Services{
		Contact: NewContactService(s),
	}
}
