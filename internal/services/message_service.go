package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bpariverside/skillswap-service/internal/models"
	"github.com/bpariverside/skillswap-service/internal/repositories"
	"github.com/bpariverside/skillswap-service/internal/validator"
)

type messageService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewMessageService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) MessageService {
	return &messageService{repo: repo, logger: logger, validator: v}
}

// ContactHost stores a message for a session host, resolved through the
// session id or the host's handle.
func (s *messageService) ContactHost(ctx context.Context, actor *Actor, req *ContactHostRequest) (*models.Message, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	var recipientID string
	var sessionName *string

	switch {
	case req.SessionID != "":
		session, err := s.repo.Session().GetByID(ctx, req.SessionID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrSessionNotFound
			}
			return nil, fmt.Errorf("failed to get session: %w", err)
		}
		recipientID = session.UserID
		sessionName = &session.Name
	default:
		host, err := s.repo.User().Find(ctx, repositories.UserLookup{Handle: req.HostHandle})
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to get host: %w", err)
		}
		recipientID = host.ID
	}

	if recipientID == actor.UserID {
		return nil, ErrSelfAction
	}

	message := &models.Message{
		ID:          uuid.New().String(),
		Content:     validator.Sanitize(req.Message),
		SenderID:    actor.UserID,
		RecipientID: recipientID,
		SessionName: sessionName,
	}

	if err := s.repo.Message().Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	s.logger.Info("message stored", "message_id", message.ID, "sender_id", actor.UserID)
	return message, nil
}

func (s *messageService) List(ctx context.Context, userID string, filters repositories.MessageFilters) (*MessageListResponse, error) {
	messages, total, err := s.repo.Message().ListForUser(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return &MessageListResponse{Messages: messages, Total: total}, nil
}

// Delete removes a stored message; only the sender or the recipient may.
func (s *messageService) Delete(ctx context.Context, actor *Actor, messageID string) error {
	message, err := s.repo.Message().GetByID(ctx, messageID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrMessageNotFound
		}
		return fmt.Errorf("failed to get message: %w", err)
	}

	if !actor.Owns(message.SenderID) && !actor.Owns(message.RecipientID) && !actor.IsAdmin() {
		return NewPermissionError("message", "delete", "neither sender nor recipient")
	}

	if err := s.repo.Message().Delete(ctx, messageID); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	s.logger.Info("message deleted", "message_id", messageID, "by", actor.UserID)
	return nil
}
