package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/bpariverside/skillswap-service/internal/events"
	"github.com/bpariverside/skillswap-service/internal/models"
	"github.com/bpariverside/skillswap-service/internal/repositories"
	"github.com/bpariverside/skillswap-service/internal/validator"
)

// DefaultSessionDuration applies when a create request omits duration.
const DefaultSessionDuration = 60

type sessionService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewSessionService(repo repositories.Repository, eventPublisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) SessionService {
	return &sessionService{
		repo:           repo,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      v,
	}
}

func (s *sessionService) Get(ctx context.Context, id string, viewer *Actor) (*SessionResponse, error) {
	session, err := s.repo.Session().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s.respond(ctx, session, viewer)
}

func (s *sessionService) Create(ctx context.Context, actor *Actor, req *SessionCreateRequest) (*SessionResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	categories, err := json.Marshal(validator.SanitizeAll(req.Categories))
	if err != nil {
		return nil, fmt.Errorf("failed to encode categories: %w", err)
	}

	duration := req.Duration
	if duration == 0 {
		duration = DefaultSessionDuration
	}

	session := &models.Session{
		ID:          uuid.New().String(),
		UserID:      actor.UserID,
		Name:        validator.Sanitize(req.Name),
		Categories:  datatypes.JSON(categories),
		Prereqs:     validator.Sanitize(req.Prereqs),
		Difficulty:  models.DifficultyLevel(req.Difficulty),
		Description: validator.Sanitize(req.Description),
		Duration:    duration,
		MeetingURL:  strings.TrimSpace(req.MeetingURL),
		EventDate:   req.EventDate,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Session().Create(ctx, session); err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		if err := txRepo.Profile().AdjustCounts(ctx, actor.UserID, 1, 0); err != nil {
			return fmt.Errorf("failed to bump session count: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("session created", "session_id", session.ID, "user_id", actor.UserID)
	return s.respond(ctx, session, actor)
}

func (s *sessionService) Update(ctx context.Context, actor *Actor, req *SessionUpdateRequest) (*SessionResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	session, err := s.repo.Session().GetByID(ctx, req.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if !actor.Owns(session.UserID) && !actor.IsAdmin() {
		return nil, NewPermissionError("session", "update", "not the session host")
	}

	if req.Name != nil {
		session.Name = validator.Sanitize(*req.Name)
	}
	if req.Categories != nil {
		data, err := json.Marshal(validator.SanitizeAll(req.Categories))
		if err != nil {
			return nil, fmt.Errorf("failed to encode categories: %w", err)
		}
		session.Categories = datatypes.JSON(data)
	}
	if req.Prereqs != nil {
		session.Prereqs = validator.Sanitize(*req.Prereqs)
	}
	if req.Difficulty != nil {
		session.Difficulty = models.DifficultyLevel(*req.Difficulty)
	}
	if req.Description != nil {
		session.Description = validator.Sanitize(*req.Description)
	}
	if req.Duration != nil {
		session.Duration = *req.Duration
	}
	if req.MeetingURL != nil {
		session.MeetingURL = strings.TrimSpace(*req.MeetingURL)
	}
	if req.EventDate != nil {
		session.EventDate = *req.EventDate
	}

	if err := s.repo.Session().Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	s.logger.Info("session updated", "session_id", session.ID, "user_id", actor.UserID)
	return s.respond(ctx, session, actor)
}

func (s *sessionService) Delete(ctx context.Context, actor *Actor, id string) error {
	session, err := s.repo.Session().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to get session: %w", err)
	}

	if !actor.Owns(session.UserID) && !actor.IsAdmin() {
		return NewPermissionError("session", "delete", "not the session host")
	}

	reason := "owner"
	if !actor.Owns(session.UserID) {
		reason = "admin"
	}

	if err := s.deleteWithCounts(ctx, session); err != nil {
		return err
	}

	event := events.NewEvent(events.EventSessionDeleted, events.SessionDeletedEvent{
		SessionID: session.ID,
		OwnerID:   session.UserID,
		Name:      session.Name,
		Reason:    reason,
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish session deletion", "session_id", session.ID, "error", err)
	}

	s.logger.Info("session deleted", "session_id", id, "reason", reason)
	return nil
}

// deleteWithCounts removes the session and rolls the owner's derived
// counters back in the same transaction. Shared with the cleanup sweep.
func (s *sessionService) deleteWithCounts(ctx context.Context, session *models.Session) error {
	return s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		attendees, err := txRepo.Registration().CountBySession(ctx, session.ID)
		if err != nil {
			return fmt.Errorf("failed to count registrations: %w", err)
		}
		if err := txRepo.Session().Delete(ctx, session.ID); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		if err := txRepo.Profile().AdjustCounts(ctx, session.UserID, -1, -int(attendees)); err != nil {
			return fmt.Errorf("failed to adjust counts: %w", err)
		}
		return nil
	})
}

func (s *sessionService) Search(ctx context.Context, query string, filters repositories.SessionFilters, viewer *Actor) (*SessionListResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, NewValidationError("q", "search query is required", query)
	}

	sessions, total, err := s.repo.Session().Search(ctx, query, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search sessions: %w", err)
	}

	out := make([]*SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		resp, err := s.respond(ctx, session, viewer)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return &SessionListResponse{Sessions: out, Total: total}, nil
}

// RegisterAttendee signs the actor up for a session they do not host.
func (s *sessionService) RegisterAttendee(ctx context.Context, actor *Actor, sessionID string) error {
	session, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to get session: %w", err)
	}

	if session.UserID == actor.UserID {
		return ErrSelfAction
	}

	return s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		reg := &models.SessionRegistration{
			SessionID: sessionID,
			UserID:    actor.UserID,
		}
		if err := txRepo.Registration().Create(ctx, reg); err != nil {
			if repositories.IsDuplicateError(err) {
				return ErrDuplicateRegistration
			}
			return fmt.Errorf("failed to create registration: %w", err)
		}
		if err := txRepo.Profile().AdjustCounts(ctx, session.UserID, 0, 1); err != nil {
			return fmt.Errorf("failed to bump student count: %w", err)
		}
		return nil
	})
}

func (s *sessionService) UnregisterAttendee(ctx context.Context, actor *Actor, sessionID string) error {
	session, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to get session: %w", err)
	}

	return s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Registration().Delete(ctx, sessionID, actor.UserID); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("failed to delete registration: %w", err)
		}
		if err := txRepo.Profile().AdjustCounts(ctx, session.UserID, 0, -1); err != nil {
			return fmt.Errorf("failed to drop student count: %w", err)
		}
		return nil
	})
}

func (s *sessionService) respond(ctx context.Context, session *models.Session, viewer *Actor) (*SessionResponse, error) {
	count, err := s.repo.Registration().CountBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count registrations: %w", err)
	}

	resp := &SessionResponse{
		Session:           session,
		RegistrationCount: count,
	}
	if session.User != nil {
		resp.HostHandle = session.User.Handle
	}
	if viewer != nil {
		resp.CanEdit = viewer.Owns(session.UserID) || viewer.IsAdmin()
		registered, err := s.repo.Registration().Exists(ctx, session.ID, viewer.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to check registration: %w", err)
		}
		resp.Registered = registered
	}
	return resp, nil
}
