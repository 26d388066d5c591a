package repositories

import (
	"context"
	"time"

	"github.com/bpariverside/skillswap-service/internal/models"
)

// ===== LOOKUPS AND FILTERS =====

// UserLookup names the predicate a user fetch matches on. Exactly one
// field should be set; Identifier matches email or handle, whichever hits.
type UserLookup struct {
	ID         string
	Email      string
	Handle     string
	Identifier string
}

type ProfileFilters struct {
	Tags   []string `json:"tags"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}

type SessionFilters struct {
	OwnerID    *string                 `json:"owner_id"`
	Difficulty *models.DifficultyLevel `json:"difficulty"`
	From       *time.Time              `json:"from"`
	To         *time.Time              `json:"to"`
	Limit      int                     `json:"limit"`
	Offset     int                     `json:"offset"`
	SortBy     string                  `json:"sort_by"`    // "event_date", "created_at", "name"
	SortOrder  string                  `json:"sort_order"` // "asc", "desc"
}

type MessageFilters struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ===== RESULT SHAPES =====

// ProfileHit is a profile search result carrying the owning handle.
type ProfileHit struct {
	Handle  string         `json:"handle"`
	Profile models.Profile `json:"profile"`
}

// SessionReportRow feeds the admin export: one session with its host and
// headcount.
type SessionReportRow struct {
	Session           models.Session `json:"session"`
	HostHandle        string         `json:"host_handle"`
	RegistrationCount int64          `json:"registration_count"`
}

// ===== REPOSITORY INTERFACES =====

type UserRepository interface {
	// Create persists a user together with any attached profile.
	Create(ctx context.Context, user *models.User) error
	Find(ctx context.Context, lookup UserLookup) (*models.User, error)
	ExistsByEmailOrHandle(ctx context.Context, email, handle string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	MarkEmailVerified(ctx context.Context, id string) error
	// Delete removes the user and, via constraints, the profile and
	// registrations hanging off it.
	Delete(ctx context.Context, id string) error
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	GetByHandle(ctx context.Context, handle string) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	// Search matches query as a case-insensitive substring of display
	// name, bio or handle.
	Search(ctx context.Context, query string, filters ProfileFilters) ([]*ProfileHit, int64, error)
	AdjustCounts(ctx context.Context, userID string, sessionDelta, studentDelta int) error
	SetRating(ctx context.Context, userID string, rating float64) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	Update(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
	// Search matches query against name, categories text, host handle
	// and host display name.
	Search(ctx context.Context, query string, filters SessionFilters) ([]*models.Session, int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Session, error)
	// FindExpired returns sessions whose event date lies before the cutoff.
	FindExpired(ctx context.Context, before time.Time, limit int) ([]*models.Session, error)
	// Report joins every session with host handle and registration count.
	Report(ctx context.Context) ([]*SessionReportRow, error)
}

type RegistrationRepository interface {
	Create(ctx context.Context, reg *models.SessionRegistration) error
	Delete(ctx context.Context, sessionID, userID string) error
	Exists(ctx context.Context, sessionID, userID string) (bool, error)
	CountBySession(ctx context.Context, sessionID string) (int64, error)
	ListBySession(ctx context.Context, sessionID string) ([]*models.SessionRegistration, error)
}

type ReviewRepository interface {
	GetBySessionAndAuthor(ctx context.Context, sessionID, authorID string) (*models.Review, error)
	// Upsert inserts or, when the (session, author) pair already has a
	// review, replaces rating and comment in place.
	Upsert(ctx context.Context, review *models.Review) error
	SetHidden(ctx context.Context, id string, hidden bool) error
	Delete(ctx context.Context, id string) error
	// VisibleRatings returns the ratings that count towards the
	// recipient's average: not hidden and strictly positive.
	VisibleRatings(ctx context.Context, recipientID string) ([]int, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	ListForUser(ctx context.Context, userID string, filters MessageFilters) ([]*models.Message, int64, error)
	Delete(ctx context.Context, id string) error
}
