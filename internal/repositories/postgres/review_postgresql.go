package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bpariverside/skillswap-service/internal/cache"
	"github.com/bpariverside/skillswap-service/internal/models"
	"github.com/bpariverside/skillswap-service/internal/repositories"
)

type ReviewPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewReviewPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ReviewRepository {
	return &ReviewPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *ReviewPostgreSQL) GetBySessionAndAuthor(ctx context.Context, sessionID, authorID string) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND author_id = ?", sessionID, authorID).
		First(&review).Error
	if err != nil {
		return nil, translateError(err, "get review")
	}
	return &review, nil
}

// Upsert inserts the review or, when the (session, author) pair already
// rated, replaces rating and comment in place and clears the hidden flag.
func (r *ReviewPostgreSQL) Upsert(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}, {Name: "author_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"rating":     review.Rating,
				"comment":    review.Comment,
				"hidden":     false,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).
		Create(review).Error
	if err != nil {
		return translateError(err, "upsert review")
	}

	r.invalidate(ctx, review.RecipientID)
	return nil
}

func (r *ReviewPostgreSQL) SetHidden(ctx context.Context, id string, hidden bool) error {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return translateError(err, "hide review")
	}

	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", id).
		Update("hidden", hidden).Error
	if err != nil {
		return translateError(err, "hide review")
	}

	r.invalidate(ctx, review.RecipientID)
	return nil
}

func (r *ReviewPostgreSQL) Delete(ctx context.Context, id string) error {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return translateError(err, "delete review")
	}

	if err := r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id).Error; err != nil {
		return translateError(err, "delete review")
	}

	r.invalidate(ctx, review.RecipientID)
	return nil
}

// VisibleRatings returns the ratings counting towards the recipient's
// average: not hidden and strictly positive.
func (r *ReviewPostgreSQL) VisibleRatings(ctx context.Context, recipientID string) ([]int, error) {
	var ratings []int
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("recipient_id = ? AND hidden = ? AND rating > 0", recipientID, false).
		Pluck("rating", &ratings).Error
	if err != nil {
		return nil, translateError(err, "list visible ratings")
	}
	return ratings, nil
}

func (r *ReviewPostgreSQL) invalidate(ctx context.Context, recipientID string) {
	cache.SafeInvalidatePattern(ctx, r.cacheManager.Stats, fmt.Sprintf("rating:%s*", recipientID))

	var handle string
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", recipientID).
		Pluck("handle", &handle).Error; err == nil && handle != "" {
		cache.InvalidateProfileCache(ctx, r.cacheManager, handle)
	}
}
