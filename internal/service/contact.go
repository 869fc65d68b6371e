package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/npyskills/contact-api/internal/contact"
	"github.com/npyskills/contact-api/internal/errs"
	"github.com/npyskills/contact-api/internal/notify"
	"github.com/npyskills/contact-api/internal/server"
)

const (
	// MsgSubmitted is returned for every accepted submission.
	MsgSubmitted = "Thank you! Your message has been sent successfully. We'll respond within 24 hours."

	// MsgUnexpected is returned when a valid submission cannot be processed.
	MsgUnexpected = "An unexpected error occurred. Please try again later."
)

// SubmitResponse is the body of a successful POST /api/contact.
type SubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Dispatcher is implemented by *notify.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, n contact.Notification) notify.Result
}

type ContactService struct {
	dispatcher Dispatcher
}

func NewContactService(s *server.Server) *ContactService {
	return &ContactService{dispatcher: s.Dispatcher}
}

// Submit sanitizes a validated request, renders it and dispatches it.
//
// Delivery outcomes never reach the client: once the primary channel has
// been attempted the submission is reported as accepted.
func (s *ContactService) Submit(ctx context.Context, req *contact.Request) (*SubmitResponse, error) {
	logger := zerolog.Ctx(ctx)
	submission := req.Submission()

	n, err := contact.Compose(submission)
	if err != nil {
		logger.Error().Stack().Err(err).Msg("failed to compose notification")
		return nil, errs.NewUnexpectedError(MsgUnexpected)
	}

	res := s.dispatcher.Dispatch(ctx, n)
	if !res.Success {
		logger.Warn().
			Str("channel", string(res.Channel)).
			Str("error", res.Error).
			Msg("primary notification failed, submission accepted anyway")
	}

	logger.Info().
		Str("program", submission.Program).
		Bool("has_phone", submission.Phone != "").
		Bool("primary_delivered", res.Success).
		Msg("contact submission accepted")

	return &SubmitResponse{
		Success: true,
		Message: MsgSubmitted,
	}, nil
}
