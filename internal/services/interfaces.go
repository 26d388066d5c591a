package services

import (
	"context"
	"io"
	"time"

	"github.com/bpariverside/skillswap-service/internal/models"
	"github.com/bpariverside/skillswap-service/internal/repositories"
	"github.com/bpariverside/skillswap-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Request shapes live with the validator so the tags sit next to the rules.
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type UpdateSettingsRequest = validator.UpdateSettingsRequest
type SessionCreateRequest = validator.SessionCreateRequest
type SessionUpdateRequest = validator.SessionUpdateRequest
type RateSessionRequest = validator.RateSessionRequest
type ContactHostRequest = validator.ContactHostRequest
type FeedbackRequest = validator.FeedbackRequest

// AuthResult is what a successful register/login/verify yields: the user
// and the signed token the handler turns into a cookie.
type AuthResult struct {
	User     *models.User `json:"user"`
	Token    string       `json:"-"`
	Remember bool         `json:"-"`
}

type ProfileResponse struct {
	Handle   string            `json:"handle"`
	Profile  *models.Profile   `json:"profile"`
	Sessions []*models.Session `json:"sessions,omitempty"`
}

type ProfileSearchResponse struct {
	Results []*repositories.ProfileHit `json:"results"`
	Total   int64                      `json:"total"`
}

type SessionResponse struct {
	*models.Session
	HostHandle        string `json:"host_handle,omitempty"`
	RegistrationCount int64  `json:"registration_count"`
	Registered        bool   `json:"registered"`
	CanEdit           bool   `json:"can_edit"`
}

type SessionListResponse struct {
	Sessions []*SessionResponse `json:"sessions"`
	Total    int64              `json:"total"`
}

type MessageListResponse struct {
	Messages []*models.Message `json:"messages"`
	Total    int64             `json:"total"`
}

// AvatarUpload carries one decoded multipart avatar file.
type AvatarUpload struct {
	Content     io.Reader
	Size        int64
	ContentType string
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResult, error)
	VerifyEmail(ctx context.Context, token string) (*AuthResult, error)
}

type UserService interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	UpdateSettings(ctx context.Context, actor *Actor, req *UpdateSettingsRequest) (*models.Profile, error)
	Delete(ctx context.Context, actor *Actor, handle string) error
	UploadAvatar(ctx context.Context, userID string, upload *AvatarUpload) (string, error)
}

type ProfileService interface {
	Get(ctx context.Context, handle string) (*ProfileResponse, error)
	Search(ctx context.Context, query string, filters repositories.ProfileFilters) (*ProfileSearchResponse, error)
}

type SessionService interface {
	Get(ctx context.Context, id string, viewer *Actor) (*SessionResponse, error)
	Create(ctx context.Context, actor *Actor, req *SessionCreateRequest) (*SessionResponse, error)
	Update(ctx context.Context, actor *Actor, req *SessionUpdateRequest) (*SessionResponse, error)
	Delete(ctx context.Context, actor *Actor, id string) error
	Search(ctx context.Context, query string, filters repositories.SessionFilters, viewer *Actor) (*SessionListResponse, error)
	RegisterAttendee(ctx context.Context, actor *Actor, sessionID string) error
	UnregisterAttendee(ctx context.Context, actor *Actor, sessionID string) error
}

type ReviewService interface {
	Rate(ctx context.Context, actor *Actor, req *RateSessionRequest) (*models.Review, error)
	Remove(ctx context.Context, actor *Actor, sessionID, authorID string) error
}

type MessageService interface {
	ContactHost(ctx context.Context, actor *Actor, req *ContactHostRequest) (*models.Message, error)
	List(ctx context.Context, userID string, filters repositories.MessageFilters) (*MessageListResponse, error)
	Delete(ctx context.Context, actor *Actor, messageID string) error
}

type FeedbackService interface {
	Submit(ctx context.Context, req *FeedbackRequest) error
}

type ReportService interface {
	// ExportSessions renders the admin sessions report as an xlsx
	// workbook into w.
	ExportSessions(ctx context.Context, w io.Writer) error
}

type CleanupService interface {
	Start(ctx context.Context)
	Stop()
	// SweepOnce runs one sweep pass: sessions whose event date is older
	// than the retention window are deleted.
	SweepOnce(ctx context.Context) (int, error)
}

// Actor identifies who is performing an operation.
type Actor struct {
	UserID string
	Handle string
	Role   models.UserRole
}

// IsAdmin reports whether the actor holds the admin role.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == models.RoleAdmin
}

// Owns reports whether the actor owns the resource belonging to ownerID.
func (a *Actor) Owns(ownerID string) bool {
	return a != nil && a.UserID == ownerID
}

// ExpiredSessionRetention is how long past its event date a session
// survives before the sweep removes it.
const ExpiredSessionRetention = 24 * time.Hour

// ServiceManager aggregates every service the handlers consume.
type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Profile() ProfileService
	Session() SessionService
	Review() ReviewService
	Message() MessageService
	Feedback() FeedbackService
	Report() ReportService
	Cleanup() CleanupService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
