package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/bpariverside/skillswap-service/internal/models"
	"github.com/bpariverside/skillswap-service/internal/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockRepository is an in-memory Repository for service tests.
type mockRepository struct {
	users         map[string]*models.User    // by id
	profiles      map[string]*models.Profile // by user id
	sessions      map[string]*models.Session // by id
	registrations map[string]map[string]bool // session id -> user ids
	reviews       map[string]*models.Review  // by id
	messages      map[string]*models.Message // by id
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:         make(map[string]*models.User),
		profiles:      make(map[string]*models.Profile),
		sessions:      make(map[string]*models.Session),
		registrations: make(map[string]map[string]bool),
		reviews:       make(map[string]*models.Review),
		messages:      make(map[string]*models.Message),
	}
}

// addUser seeds a user with an attached default profile.
func (m *mockRepository) addUser(id, handle, email string, role models.UserRole) *models.User {
	user := &models.User{
		ID:     id,
		Email:  email,
		Handle: handle,
		Role:   role,
	}
	m.users[id] = user
	m.profiles[id] = &models.Profile{
		ID:          uuid.New().String(),
		UserID:      id,
		DisplayName: handle,
		AvatarURL:   models.DefaultAvatarURL,
		Tags:        datatypes.JSON([]byte(`[]`)),
		Skills:      datatypes.JSON([]byte(`[]`)),
	}
	return user
}

func (m *mockRepository) addSession(id, ownerID, name string) *models.Session {
	session := &models.Session{
		ID:         id,
		UserID:     ownerID,
		Name:       name,
		Difficulty: models.DifficultyBeginner,
		Duration:   60,
		EventDate:  time.Now().Add(24 * time.Hour),
	}
	m.sessions[id] = session
	return session
}

func (m *mockRepository) User() repositories.UserRepository { return &mockUserRepo{m} }
func (m *mockRepository) Profile() repositories.ProfileRepository {
	return &mockProfileRepo{m}
}
func (m *mockRepository) Session() repositories.SessionRepository { return &mockSessionRepo{m} }
func (m *mockRepository) Registration() repositories.RegistrationRepository {
	return &mockRegistrationRepo{m}
}
func (m *mockRepository) Review() repositories.ReviewRepository   { return &mockReviewRepo{m} }
func (m *mockRepository) Message() repositories.MessageRepository { return &mockMessageRepo{m} }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// ===== USER =====

type mockUserRepo struct{ m *mockRepository }

func (r *mockUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range r.m.users {
		if existing.Email == user.Email || existing.Handle == user.Handle {
			return repositories.ErrDuplicate
		}
	}
	r.m.users[user.ID] = user
	if user.Profile != nil {
		r.m.profiles[user.ID] = user.Profile
	}
	return nil
}

func (r *mockUserRepo) Find(_ context.Context, lookup repositories.UserLookup) (*models.User, error) {
	for _, user := range r.m.users {
		switch {
		case lookup.ID != "" && user.ID == lookup.ID:
			return user, nil
		case lookup.Email != "" && user.Email == lookup.Email:
			return user, nil
		case lookup.Handle != "" && user.Handle == lookup.Handle:
			return user, nil
		case lookup.Identifier != "" &&
			(strings.EqualFold(user.Email, lookup.Identifier) || user.Handle == lookup.Identifier):
			return user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockUserRepo) ExistsByEmailOrHandle(_ context.Context, email, handle string) (bool, error) {
	for _, user := range r.m.users {
		if user.Email == email || user.Handle == handle {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.m.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.users[user.ID] = user
	return nil
}

func (r *mockUserRepo) MarkEmailVerified(_ context.Context, id string) error {
	user, ok := r.m.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.EmailVerified = true
	return nil
}

func (r *mockUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.m.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.m.users, id)
	delete(r.m.profiles, id)
	for sid, session := range r.m.sessions {
		if session.UserID == id {
			delete(r.m.sessions, sid)
		}
	}
	return nil
}

// ===== PROFILE =====

type mockProfileRepo struct{ m *mockRepository }

func (r *mockProfileRepo) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	profile, ok := r.m.profiles[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return profile, nil
}

func (r *mockProfileRepo) GetByHandle(_ context.Context, handle string) (*models.Profile, error) {
	for _, user := range r.m.users {
		if user.Handle == handle {
			return r.GetByUserID(nil, user.ID)
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockProfileRepo) Update(_ context.Context, profile *models.Profile) error {
	if _, ok := r.m.profiles[profile.UserID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.profiles[profile.UserID] = profile
	return nil
}

func (r *mockProfileRepo) Search(_ context.Context, query string, _ repositories.ProfileFilters) ([]*repositories.ProfileHit, int64, error) {
	needle := strings.ToLower(query)
	var hits []*repositories.ProfileHit
	for _, user := range r.m.users {
		profile := r.m.profiles[user.ID]
		if profile == nil {
			continue
		}
		haystack := strings.ToLower(profile.DisplayName + " " + profile.Bio + " " + user.Handle)
		if strings.Contains(haystack, needle) {
			hits = append(hits, &repositories.ProfileHit{Handle: user.Handle, Profile: *profile})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Handle < hits[j].Handle })
	return hits, int64(len(hits)), nil
}

func (r *mockProfileRepo) AdjustCounts(_ context.Context, userID string, sessionDelta, studentDelta int) error {
	profile, ok := r.m.profiles[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	profile.SessionCount += sessionDelta
	if profile.SessionCount < 0 {
		profile.SessionCount = 0
	}
	profile.StudentCount += studentDelta
	if profile.StudentCount < 0 {
		profile.StudentCount = 0
	}
	return nil
}

func (r *mockProfileRepo) SetRating(_ context.Context, userID string, rating float64) error {
	profile, ok := r.m.profiles[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	profile.Rating = rating
	return nil
}

// ===== SESSION =====

type mockSessionRepo struct{ m *mockRepository }

func (r *mockSessionRepo) Create(_ context.Context, session *models.Session) error {
	r.m.sessions[session.ID] = session
	return nil
}

func (r *mockSessionRepo) GetByID(_ context.Context, id string) (*models.Session, error) {
	session, ok := r.m.sessions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return session, nil
}

func (r *mockSessionRepo) Update(_ context.Context, session *models.Session) error {
	if _, ok := r.m.sessions[session.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.sessions[session.ID] = session
	return nil
}

func (r *mockSessionRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.m.sessions[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.m.sessions, id)
	delete(r.m.registrations, id)
	return nil
}

func (r *mockSessionRepo) Search(_ context.Context, query string, _ repositories.SessionFilters) ([]*models.Session, int64, error) {
	needle := strings.ToLower(query)
	var out []*models.Session
	for _, session := range r.m.sessions {
		if strings.Contains(strings.ToLower(session.Name), needle) {
			out = append(out, session)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *mockSessionRepo) ListByOwner(_ context.Context, ownerID string) ([]*models.Session, error) {
	var out []*models.Session
	for _, session := range r.m.sessions {
		if session.UserID == ownerID {
			out = append(out, session)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockSessionRepo) FindExpired(_ context.Context, before time.Time, _ int) ([]*models.Session, error) {
	var out []*models.Session
	for _, session := range r.m.sessions {
		if session.EventDate.Before(before) {
			out = append(out, session)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockSessionRepo) Report(_ context.Context) ([]*repositories.SessionReportRow, error) {
	var out []*repositories.SessionReportRow
	for _, session := range r.m.sessions {
		row := &repositories.SessionReportRow{Session: *session}
		if owner, ok := r.m.users[session.UserID]; ok {
			row.HostHandle = owner.Handle
		}
		row.RegistrationCount = int64(len(r.m.registrations[session.ID]))
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Session.ID < out[j].Session.ID })
	return out, nil
}

// ===== REGISTRATION =====

type mockRegistrationRepo struct{ m *mockRepository }

func (r *mockRegistrationRepo) Create(_ context.Context, reg *models.SessionRegistration) error {
	if r.m.registrations[reg.SessionID] == nil {
		r.m.registrations[reg.SessionID] = make(map[string]bool)
	}
	if r.m.registrations[reg.SessionID][reg.UserID] {
		return repositories.ErrDuplicate
	}
	r.m.registrations[reg.SessionID][reg.UserID] = true
	return nil
}

func (r *mockRegistrationRepo) Delete(_ context.Context, sessionID, userID string) error {
	if !r.m.registrations[sessionID][userID] {
		return repositories.ErrNotFound
	}
	delete(r.m.registrations[sessionID], userID)
	return nil
}

func (r *mockRegistrationRepo) Exists(_ context.Context, sessionID, userID string) (bool, error) {
	return r.m.registrations[sessionID][userID], nil
}

func (r *mockRegistrationRepo) CountBySession(_ context.Context, sessionID string) (int64, error) {
	return int64(len(r.m.registrations[sessionID])), nil
}

func (r *mockRegistrationRepo) ListBySession(_ context.Context, sessionID string) ([]*models.SessionRegistration, error) {
	var out []*models.SessionRegistration
	for userID := range r.m.registrations[sessionID] {
		out = append(out, &models.SessionRegistration{SessionID: sessionID, UserID: userID})
	}
	return out, nil
}

// ===== REVIEW =====

type mockReviewRepo struct{ m *mockRepository }

func (r *mockReviewRepo) GetBySessionAndAuthor(_ context.Context, sessionID, authorID string) (*models.Review, error) {
	for _, review := range r.m.reviews {
		if review.SessionID == sessionID && review.AuthorID == authorID {
			return review, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockReviewRepo) Upsert(_ context.Context, review *models.Review) error {
	for _, existing := range r.m.reviews {
		if existing.SessionID == review.SessionID && existing.AuthorID == review.AuthorID {
			existing.Rating = review.Rating
			existing.Comment = review.Comment
			existing.Hidden = false
			*review = *existing
			return nil
		}
	}
	r.m.reviews[review.ID] = review
	return nil
}

func (r *mockReviewRepo) SetHidden(_ context.Context, id string, hidden bool) error {
	review, ok := r.m.reviews[id]
	if !ok {
		return repositories.ErrNotFound
	}
	review.Hidden = hidden
	return nil
}

func (r *mockReviewRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.m.reviews[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.m.reviews, id)
	return nil
}

func (r *mockReviewRepo) VisibleRatings(_ context.Context, recipientID string) ([]int, error) {
	var ratings []int
	for _, review := range r.m.reviews {
		if review.RecipientID == recipientID && !review.Hidden && review.Rating > 0 {
			ratings = append(ratings, review.Rating)
		}
	}
	return ratings, nil
}

// ===== MESSAGE =====

type mockMessageRepo struct{ m *mockRepository }

func (r *mockMessageRepo) Create(_ context.Context, message *models.Message) error {
	r.m.messages[message.ID] = message
	return nil
}

func (r *mockMessageRepo) GetByID(_ context.Context, id string) (*models.Message, error) {
	message, ok := r.m.messages[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return message, nil
}

func (r *mockMessageRepo) ListForUser(_ context.Context, userID string, _ repositories.MessageFilters) ([]*models.Message, int64, error) {
	var out []*models.Message
	for _, message := range r.m.messages {
		if message.SenderID == userID || message.RecipientID == userID {
			out = append(out, message)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *mockMessageRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.m.messages[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.m.messages, id)
	return nil
}
