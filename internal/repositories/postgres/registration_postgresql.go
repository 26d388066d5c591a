package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/bpariverside/skillswap-service/internal/cache"
	"github.com/bpariverside/skillswap-service/internal/models"
	"github.com/bpariverside/skillswap-service/internal/repositories"
)

type RegistrationPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewRegistrationPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.RegistrationRepository {
	return &RegistrationPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// Create inserts a registration; the composite primary key turns a repeat
// signup into ErrDuplicate.
func (r *RegistrationPostgreSQL) Create(ctx context.Context, reg *models.SessionRegistration) error {
	if err := r.db.WithContext(ctx).Create(reg).Error; err != nil {
		return translateError(err, "create registration")
	}

	cache.SafeDelete(ctx, r.cacheManager.Session, fmt.Sprintf("id:%s", reg.SessionID))
	return nil
}

func (r *RegistrationPostgreSQL) Delete(ctx context.Context, sessionID, userID string) error {
	result := r.db.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Delete(&models.SessionRegistration{})
	if result.Error != nil {
		return translateError(result.Error, "delete registration")
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete registration: %w", repositories.ErrNotFound)
	}

	cache.SafeDelete(ctx, r.cacheManager.Session, fmt.Sprintf("id:%s", sessionID))
	return nil
}

func (r *RegistrationPostgreSQL) Exists(ctx context.Context, sessionID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SessionRegistration{}).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Count(&count).Error
	if err != nil {
		return false, translateError(err, "check registration")
	}
	return count > 0, nil
}

func (r *RegistrationPostgreSQL) CountBySession(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SessionRegistration{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	if err != nil {
		return 0, translateError(err, "count registrations")
	}
	return count, nil
}

func (r *RegistrationPostgreSQL) ListBySession(ctx context.Context, sessionID string) ([]*models.SessionRegistration, error) {
	var regs []*models.SessionRegistration
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&regs).Error
	if err != nil {
		return nil, translateError(err, "list registrations")
	}
	return regs, nil
}
