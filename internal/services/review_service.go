package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bpariverside/skillswap-service/internal/events"
	"github.com/bpariverside/skillswap-service/internal/models"
	"github.com/bpariverside/skillswap-service/internal/repositories"
	"github.com/bpariverside/skillswap-service/internal/validator"
)

type reviewService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewReviewService(repo repositories.Repository, eventPublisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) ReviewService {
	return &reviewService{
		repo:           repo,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      v,
	}
}

// AverageRating computes the arithmetic mean of the given ratings. An
// empty slice yields 0.
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}

// Rate records or replaces the actor's review of a session's host and
// recomputes the host's average inside the same transaction.
func (s *reviewService) Rate(ctx context.Context, actor *Actor, req *RateSessionRequest) (*models.Review, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	session, err := s.repo.Session().GetByID(ctx, req.SessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.UserID == actor.UserID {
		return nil, ErrSelfAction
	}

	review := &models.Review{
		ID:          uuid.New().String(),
		SessionID:   session.ID,
		AuthorID:    actor.UserID,
		RecipientID: session.UserID,
		Rating:      req.Rating,
		Comment:     validator.Sanitize(req.Comment),
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Review().Upsert(ctx, review); err != nil {
			return fmt.Errorf("failed to upsert review: %w", err)
		}
		return s.recompute(ctx, txRepo, session.UserID)
	})
	if err != nil {
		return nil, err
	}

	event := events.NewEvent(events.EventReviewChanged, events.ReviewChangedEvent{
		SessionID:   session.ID,
		AuthorID:    actor.UserID,
		RecipientID: session.UserID,
		Rating:      req.Rating,
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish review event", "session_id", session.ID, "error", err)
	}

	s.logger.Info("session rated", "session_id", session.ID, "author_id", actor.UserID, "rating", req.Rating)
	return review, nil
}

// Remove takes a review out of circulation. The author hard-deletes their
// own review; the recipient may only hide it; anyone else is refused.
// Either way the recipient's average is recomputed in the same transaction.
func (s *reviewService) Remove(ctx context.Context, actor *Actor, sessionID, authorID string) error {
	review, err := s.repo.Review().GetBySessionAndAuthor(ctx, sessionID, authorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to get review: %w", err)
	}

	var mutate func(repositories.Repository) error
	switch {
	case actor.Owns(review.AuthorID) || actor.IsAdmin():
		mutate = func(txRepo repositories.Repository) error {
			return txRepo.Review().Delete(ctx, review.ID)
		}
	case actor.Owns(review.RecipientID):
		mutate = func(txRepo repositories.Repository) error {
			return txRepo.Review().SetHidden(ctx, review.ID, true)
		}
	default:
		return NewPermissionError("review", "remove", "neither author nor recipient")
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := mutate(txRepo); err != nil {
			return fmt.Errorf("failed to remove review: %w", err)
		}
		return s.recompute(ctx, txRepo, review.RecipientID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("review removed", "review_id", review.ID, "by", actor.UserID)
	return nil
}

func (s *reviewService) recompute(ctx context.Context, repo repositories.Repository, recipientID string) error {
	ratings, err := repo.Review().VisibleRatings(ctx, recipientID)
	if err != nil {
		return fmt.Errorf("failed to load ratings: %w", err)
	}
	if err := repo.Profile().SetRating(ctx, recipientID, AverageRating(ratings)); err != nil {
		return fmt.Errorf("failed to store rating: %w", err)
	}
	return nil
}
