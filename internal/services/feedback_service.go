package services

import (
	"context"
	"log/slog"

	"github.com/bpariverside/skillswap-service/internal/events"
	"github.com/bpariverside/skillswap-service/internal/validator"
)

type feedbackService struct {
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewFeedbackService(eventPublisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) FeedbackService {
	return &feedbackService{
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      v,
	}
}

// Submit logs the feedback and hands it to the event pipeline; nothing is
// persisted locally.
func (s *feedbackService) Submit(ctx context.Context, req *FeedbackRequest) error {
	if errs := s.validator.Validate(req); errs != nil {
		return errs
	}

	name := validator.Sanitize(req.Name)
	message := validator.Sanitize(req.Message)

	s.logger.Info("feedback received", "name", name, "email", req.Email)

	event := events.NewEvent(events.EventFeedbackReceived, events.FeedbackReceivedEvent{
		Name:    name,
		Email:   req.Email,
		Message: message,
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish feedback event", "error", err)
	}
	return nil
}
