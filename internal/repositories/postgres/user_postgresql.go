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

type UserPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewUserPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.UserRepository {
	return &UserPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// Create persists the user and any attached profile in one insert chain.
func (u *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	if err := u.db.WithContext(ctx).Create(user).Error; err != nil {
		return translateError(err, "create user")
	}
	return nil
}

// Find resolves a user by whichever predicate the lookup names. The ID
// path is cached; the auth middleware hits it on every request.
func (u *UserPostgreSQL) Find(ctx context.Context, lookup repositories.UserLookup) (*models.User, error) {
	switch {
	case lookup.ID != "":
		return u.findByID(ctx, lookup.ID)
	case lookup.Email != "":
		return u.findWhere(ctx, "email = ?", lookup.Email)
	case lookup.Handle != "":
		return u.findWhere(ctx, "handle = ?", lookup.Handle)
	case lookup.Identifier != "":
		return u.findWhere(ctx, "email = ? OR handle = ?", lookup.Identifier, lookup.Identifier)
	default:
		return nil, fmt.Errorf("find user: empty lookup: %w", repositories.ErrNotFound)
	}
}

func (u *UserPostgreSQL) findByID(ctx context.Context, id string) (*models.User, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	var user models.User

	err := u.cacheManager.User.CacheOrExecute(ctx, cacheKey, &user, cache.UserCacheConfig.TTL, func() (interface{}, error) {
		var dbUser models.User
		if err := u.db.WithContext(ctx).First(&dbUser, "id = ?", id).Error; err != nil {
			return nil, translateError(err, "get user")
		}
		return &dbUser, nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) findWhere(ctx context.Context, cond string, args ...interface{}) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).Where(cond, args...).First(&user).Error; err != nil {
		return nil, translateError(err, "get user")
	}
	return &user, nil
}

func (u *UserPostgreSQL) ExistsByEmailOrHandle(ctx context.Context, email, handle string) (bool, error) {
	var count int64
	err := u.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ? OR handle = ?", email, handle).
		Count(&count).Error
	if err != nil {
		return false, translateError(err, "check user exists")
	}
	return count > 0, nil
}

func (u *UserPostgreSQL) Update(ctx context.Context, user *models.User) error {
	err := u.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"email":         user.Email,
			"first_name":    user.FirstName,
			"last_name":     user.LastName,
			"dob":           user.DOB,
			"password_hash": user.PasswordHash,
			"password_salt": user.PasswordSalt,
		}).Error
	if err != nil {
		return translateError(err, "update user")
	}

	cache.InvalidateUserCache(ctx, u.cacheManager, user.ID, user.Handle)
	return nil
}

func (u *UserPostgreSQL) MarkEmailVerified(ctx context.Context, id string) error {
	result := u.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("email_verified", true)
	if result.Error != nil {
		return translateError(result.Error, "mark email verified")
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("mark email verified: %w", repositories.ErrNotFound)
	}

	cache.SafeDelete(ctx, u.cacheManager.User, fmt.Sprintf("id:%s", id))
	return nil
}

// Delete removes the user row; profile, sessions and registrations fall
// with it through the FK constraints.
func (u *UserPostgreSQL) Delete(ctx context.Context, id string) error {
	var user models.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return translateError(err, "delete user")
	}

	if err := u.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error; err != nil {
		return translateError(err, "delete user")
	}

	cache.InvalidateUserCache(ctx, u.cacheManager, id, user.Handle)
	cache.InvalidateProfileCache(ctx, u.cacheManager, user.Handle)
	return nil
}
