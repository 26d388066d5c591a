package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/bpariverside/skillswap-service/internal/cache"
	"github.com/bpariverside/skillswap-service/internal/models"
	"github.com/bpariverside/skillswap-service/internal/repositories"
)

var sessionSortColumns = map[string]bool{
	"event_date": true,
	"created_at": true,
	"name":       true,
}

type SessionPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewSessionPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.SessionRepository {
	return &SessionPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (s *SessionPostgreSQL) Create(ctx context.Context, session *models.Session) error {
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return translateError(err, "create session")
	}

	s.invalidate(ctx, session.ID, session.UserID)
	return nil
}

// GetByID retrieves a session with its host preloaded, through the cache.
func (s *SessionPostgreSQL) GetByID(ctx context.Context, id string) (*models.Session, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	var session models.Session

	err := s.cacheManager.Session.CacheOrExecute(ctx, cacheKey, &session, cache.SessionCacheConfig.TTL, func() (interface{}, error) {
		var dbSession models.Session
		err := s.db.WithContext(ctx).
			Preload("User").
			Preload("User.Profile").
			First(&dbSession, "id = ?", id).Error
		if err != nil {
			return nil, translateError(err, "get session")
		}
		return &dbSession, nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) Update(ctx context.Context, session *models.Session) error {
	err := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", session.ID).
		Updates(map[string]interface{}{
			"name":        session.Name,
			"categories":  session.Categories,
			"prereqs":     session.Prereqs,
			"difficulty":  session.Difficulty,
			"description": session.Description,
			"duration":    session.Duration,
			"meeting_url": session.MeetingURL,
			"event_date":  session.EventDate,
		}).Error
	if err != nil {
		return translateError(err, "update session")
	}

	s.invalidate(ctx, session.ID, session.UserID)
	return nil
}

func (s *SessionPostgreSQL) Delete(ctx context.Context, id string) error {
	var session models.Session
	if err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return translateError(err, "delete session")
	}

	if err := s.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", id).Error; err != nil {
		return translateError(err, "delete session")
	}

	s.invalidate(ctx, id, session.UserID)
	return nil
}

// Search matches query against session name, categories text, host handle
// and host display name. Results come host-preloaded, soonest first.
func (s *SessionPostgreSQL) Search(ctx context.Context, query string, filters repositories.SessionFilters) ([]*models.Session, int64, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	base := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Joins("JOIN users ON users.id = sessions.user_id").
		Joins("LEFT JOIN profiles ON profiles.user_id = users.id").
		Where(`LOWER(sessions.name) LIKE ?
			OR LOWER(sessions.categories::text) LIKE ?
			OR LOWER(users.handle) LIKE ?
			OR LOWER(profiles.display_name) LIKE ?`,
			pattern, pattern, pattern, pattern)

	if filters.OwnerID != nil {
		base = base.Where("sessions.user_id = ?", *filters.OwnerID)
	}
	if filters.Difficulty != nil {
		base = base.Where("sessions.difficulty = ?", *filters.Difficulty)
	}
	if filters.From != nil {
		base = base.Where("sessions.event_date >= ?", *filters.From)
	}
	if filters.To != nil {
		base = base.Where("sessions.event_date <= ?", *filters.To)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "count session search")
	}

	sortBy := filters.SortBy
	if !sessionSortColumns[sortBy] {
		sortBy = "event_date"
	}

	var sessions []*models.Session
	err := applySort(
		applyPagination(base.Preload("User").Preload("User.Profile"), filters.Limit, filters.Offset),
		"sessions."+sortBy, filters.SortOrder,
		map[string]bool{"sessions." + sortBy: true}, "sessions.event_date").
		Find(&sessions).Error
	if err != nil {
		return nil, 0, translateError(err, "search sessions")
	}
	return sessions, total, nil
}

func (s *SessionPostgreSQL) ListByOwner(ctx context.Context, ownerID string) ([]*models.Session, error) {
	var sessions []*models.Session
	err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("event_date ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, translateError(err, "list sessions by owner")
	}
	return sessions, nil
}

// FindExpired returns sessions whose event date lies before the cutoff,
// oldest first, for the cleanup sweep.
func (s *SessionPostgreSQL) FindExpired(ctx context.Context, before time.Time, limit int) ([]*models.Session, error) {
	if limit <= 0 {
		limit = 500
	}
	var sessions []*models.Session
	err := s.db.WithContext(ctx).
		Where("event_date < ?", before).
		Order("event_date ASC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, translateError(err, "find expired sessions")
	}
	return sessions, nil
}

// Report joins every session with its host handle and registration count
// for the admin export.
func (s *SessionPostgreSQL) Report(ctx context.Context) ([]*repositories.SessionReportRow, error) {
	type row struct {
		models.Session
		HostHandle        string
		RegistrationCount int64
	}

	var rows []row
	err := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Select(`sessions.*, users.handle AS host_handle,
			COUNT(session_registrations.user_id) AS registration_count`).
		Joins("JOIN users ON users.id = sessions.user_id").
		Joins("LEFT JOIN session_registrations ON session_registrations.session_id = sessions.id").
		Group("sessions.id, users.handle").
		Order("sessions.event_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err, "session report")
	}

	out := make([]*repositories.SessionReportRow, len(rows))
	for i, r := range rows {
		out[i] = &repositories.SessionReportRow{
			Session:           r.Session,
			HostHandle:        r.HostHandle,
			RegistrationCount: r.RegistrationCount,
		}
	}
	return out, nil
}

func (s *SessionPostgreSQL) invalidate(ctx context.Context, sessionID, ownerID string) {
	var handle string
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", ownerID).
		Pluck("handle", &handle).Error; err == nil && handle != "" {
		cache.InvalidateSessionCache(ctx, s.cacheManager, sessionID, handle)
		return
	}
	cache.SafeDelete(ctx, s.cacheManager.Session, fmt.Sprintf("id:%s", sessionID))
	cache.SafeInvalidatePattern(ctx, s.cacheManager.Session, "search:*")
}
