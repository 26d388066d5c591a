package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bpariverside/skillswap-service/internal/repositories"
)

type profileService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewProfileService(repo repositories.Repository, logger *slog.Logger) ProfileService {
	return &profileService{repo: repo, logger: logger}
}

// Get returns the public profile view for a handle, with the handle's
// upcoming sessions attached.
func (s *profileService) Get(ctx context.Context, handle string) (*ProfileResponse, error) {
	profile, err := s.repo.Profile().GetByHandle(ctx, handle)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	sessions, err := s.repo.Session().ListByOwner(ctx, profile.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profile sessions: %w", err)
	}

	return &ProfileResponse{
		Handle:   handle,
		Profile:  profile,
		Sessions: sessions,
	}, nil
}

// Search runs a plain substring containment search; no ranking.
func (s *profileService) Search(ctx context.Context, query string, filters repositories.ProfileFilters) (*ProfileSearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, NewValidationError("q", "search query is required", query)
	}

	hits, total, err := s.repo.Profile().Search(ctx, query, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}

	return &ProfileSearchResponse{Results: hits, Total: total}, nil
}
