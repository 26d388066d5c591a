package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/bpariverside/skillswap-service/internal/cache"
	"github.com/bpariverside/skillswap-service/internal/models"
	"github.com/bpariverside/skillswap-service/internal/repositories"
)

type ProfilePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewProfilePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ProfileRepository {
	return &ProfilePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (p *ProfilePostgreSQL) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := p.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translateError(err, "get profile")
	}
	return &profile, nil
}

// GetByHandle resolves the profile through the owning user's handle, with
// caching; this is the public profile page query.
func (p *ProfilePostgreSQL) GetByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	cacheKey := fmt.Sprintf("handle:%s", handle)
	var profile models.Profile

	err := p.cacheManager.Profile.CacheOrExecute(ctx, cacheKey, &profile, cache.ProfileCacheConfig.TTL, func() (interface{}, error) {
		var dbProfile models.Profile
		err := p.db.WithContext(ctx).
			Joins("JOIN users ON users.id = profiles.user_id").
			Where("users.handle = ?", handle).
			First(&dbProfile).Error
		if err != nil {
			return nil, translateError(err, "get profile by handle")
		}
		return &dbProfile, nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (p *ProfilePostgreSQL) Update(ctx context.Context, profile *models.Profile) error {
	err := p.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", profile.ID).
		Updates(map[string]interface{}{
			"display_name": profile.DisplayName,
			"avatar_url":   profile.AvatarURL,
			"bio":          profile.Bio,
			"tags":         profile.Tags,
			"skills":       profile.Skills,
		}).Error
	if err != nil {
		return translateError(err, "update profile")
	}

	p.invalidateFor(ctx, profile.UserID)
	return nil
}

// Search matches query as a case-insensitive substring over display name,
// bio and handle. No ranking; event-date-agnostic insertion order.
func (p *ProfilePostgreSQL) Search(ctx context.Context, query string, filters repositories.ProfileFilters) ([]*repositories.ProfileHit, int64, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	base := p.db.WithContext(ctx).
		Model(&models.Profile{}).
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("LOWER(profiles.display_name) LIKE ? OR LOWER(profiles.bio) LIKE ? OR LOWER(users.handle) LIKE ?",
			pattern, pattern, pattern)

	for _, tag := range filters.Tags {
		// jsonb containment sidesteps the ? operator clashing with
		// placeholders.
		base = base.Where("profiles.tags::jsonb @> ?", fmt.Sprintf(`["%s"]`, tag))
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "count profile search")
	}

	type row struct {
		models.Profile
		Handle string
	}
	var rows []row
	err := applyPagination(base.Select("profiles.*, users.handle AS handle"), filters.Limit, filters.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, translateError(err, "search profiles")
	}

	hits := make([]*repositories.ProfileHit, len(rows))
	for i, r := range rows {
		hits[i] = &repositories.ProfileHit{Handle: r.Handle, Profile: r.Profile}
	}
	return hits, total, nil
}

// AdjustCounts shifts the derived session/student counters, clamping at
// zero via GREATEST so concurrent unregisters cannot go negative.
func (p *ProfilePostgreSQL) AdjustCounts(ctx context.Context, userID string, sessionDelta, studentDelta int) error {
	updates := map[string]interface{}{}
	if sessionDelta != 0 {
		updates["session_count"] = gorm.Expr("GREATEST(session_count + ?, 0)", sessionDelta)
	}
	if studentDelta != 0 {
		updates["student_count"] = gorm.Expr("GREATEST(student_count + ?, 0)", studentDelta)
	}
	if len(updates) == 0 {
		return nil
	}

	err := p.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
	if err != nil {
		return translateError(err, "adjust profile counts")
	}

	p.invalidateFor(ctx, userID)
	return nil
}

func (p *ProfilePostgreSQL) SetRating(ctx context.Context, userID string, rating float64) error {
	err := p.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Update("rating", rating).Error
	if err != nil {
		return translateError(err, "set profile rating")
	}

	p.invalidateFor(ctx, userID)
	return nil
}

func (p *ProfilePostgreSQL) invalidateFor(ctx context.Context, userID string) {
	var handle string
	if err := p.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Pluck("handle", &handle).Error; err == nil && handle != "" {
		cache.InvalidateProfileCache(ctx, p.cacheManager, handle)
	}
}
