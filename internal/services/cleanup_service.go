package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bpariverside/skillswap-service/internal/events"
	"github.com/bpariverside/skillswap-service/internal/models"
	"github.com/bpariverside/skillswap-service/internal/repositories"
)

// sweepInterval is how often expired sessions are collected.
const sweepInterval = time.Hour

type cleanupService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger

	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewCleanupService(repo repositories.Repository, eventPublisher events.EventPublisher, logger *slog.Logger) CleanupService {
	return &cleanupService{
		repo:           repo,
		eventPublisher: eventPublisher,
		logger:         logger,
		interval:       sweepInterval,
		stop:           make(chan struct{}),
	}
}

// Start launches the sweep loop: an immediate pass, then one per interval.
// The loop being a single goroutine guarantees one in-flight sweep.
func (s *cleanupService) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.sweep(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep(ctx)
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (s *cleanupService) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
}

// sweep runs one pass; errors are logged, never fatal to the loop.
func (s *cleanupService) sweep(ctx context.Context) {
	deleted, err := s.SweepOnce(ctx)
	if err != nil {
		s.logger.Error("session sweep failed", "error", err)
		return
	}
	if deleted > 0 {
		s.logger.Info("expired sessions removed", "count", deleted)
	}
}

// SweepOnce deletes sessions whose event date lies more than the retention
// window in the past, rolling the owners' counters back with each one.
func (s *cleanupService) SweepOnce(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-ExpiredSessionRetention)

	expired, err := s.repo.Session().FindExpired(ctx, cutoff, 0)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, session := range expired {
		if err := s.deleteExpired(ctx, session); err != nil {
			s.logger.Error("failed to delete expired session", "session_id", session.ID, "error", err)
			continue
		}
		deleted++

		event := events.NewEvent(events.EventSessionDeleted, events.SessionDeletedEvent{
			SessionID: session.ID,
			OwnerID:   session.UserID,
			Name:      session.Name,
			Reason:    "expired",
		})
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish session expiry", "session_id", session.ID, "error", err)
		}
	}
	return deleted, nil
}

func (s *cleanupService) deleteExpired(ctx context.Context, session *models.Session) error {
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
