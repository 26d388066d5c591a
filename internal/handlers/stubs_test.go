package handlers

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/bpariverside/skillswap-service/internal/auth"
	"github.com/bpariverside/skillswap-service/internal/models"
	"github.com/bpariverside/skillswap-service/internal/realtime"
	"github.com/bpariverside/skillswap-service/internal/repositories"
	"github.com/bpariverside/skillswap-service/internal/services"
	"github.com/bpariverside/skillswap-service/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Function-field stubs so each test can script one service call.

type stubAuthService struct {
	register    func(ctx context.Context, req *services.RegisterRequest) (*services.AuthResult, error)
	login       func(ctx context.Context, req *services.LoginRequest) (*services.AuthResult, error)
	verifyEmail func(ctx context.Context, token string) (*services.AuthResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, req *services.RegisterRequest) (*services.AuthResult, error) {
	return s.register(ctx, req)
}
func (s *stubAuthService) Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResult, error) {
	return s.login(ctx, req)
}
func (s *stubAuthService) VerifyEmail(ctx context.Context, token string) (*services.AuthResult, error) {
	return s.verifyEmail(ctx, token)
}

type stubUserService struct {
	get            func(ctx context.Context, userID string) (*models.User, error)
	updateSettings func(ctx context.Context, actor *services.Actor, req *services.UpdateSettingsRequest) (*models.Profile, error)
	delete         func(ctx context.Context, actor *services.Actor, handle string) error
	uploadAvatar   func(ctx context.Context, userID string, upload *services.AvatarUpload) (string, error)
}

func (s *stubUserService) Get(ctx context.Context, userID string) (*models.User, error) {
	return s.get(ctx, userID)
}
func (s *stubUserService) UpdateSettings(ctx context.Context, actor *services.Actor, req *services.UpdateSettingsRequest) (*models.Profile, error) {
	return s.updateSettings(ctx, actor, req)
}
func (s *stubUserService) Delete(ctx context.Context, actor *services.Actor, handle string) error {
	return s.delete(ctx, actor, handle)
}
func (s *stubUserService) UploadAvatar(ctx context.Context, userID string, upload *services.AvatarUpload) (string, error) {
	return s.uploadAvatar(ctx, userID, upload)
}

type stubProfileService struct {
	get    func(ctx context.Context, handle string) (*services.ProfileResponse, error)
	search func(ctx context.Context, query string, filters repositories.ProfileFilters) (*services.ProfileSearchResponse, error)
}

func (s *stubProfileService) Get(ctx context.Context, handle string) (*services.ProfileResponse, error) {
	return s.get(ctx, handle)
}
func (s *stubProfileService) Search(ctx context.Context, query string, filters repositories.ProfileFilters) (*services.ProfileSearchResponse, error) {
	return s.search(ctx, query, filters)
}

type stubSessionService struct {
	get        func(ctx context.Context, id string, viewer *services.Actor) (*services.SessionResponse, error)
	create     func(ctx context.Context, actor *services.Actor, req *services.SessionCreateRequest) (*services.SessionResponse, error)
	update     func(ctx context.Context, actor *services.Actor, req *services.SessionUpdateRequest) (*services.SessionResponse, error)
	delete     func(ctx context.Context, actor *services.Actor, id string) error
	search     func(ctx context.Context, query string, filters repositories.SessionFilters, viewer *services.Actor) (*services.SessionListResponse, error)
	register   func(ctx context.Context, actor *services.Actor, sessionID string) error
	unregister func(ctx context.Context, actor *services.Actor, sessionID string) error
}

func (s *stubSessionService) Get(ctx context.Context, id string, viewer *services.Actor) (*services.SessionResponse, error) {
	return s.get(ctx, id, viewer)
}
func (s *stubSessionService) Create(ctx context.Context, actor *services.Actor, req *services.SessionCreateRequest) (*services.SessionResponse, error) {
	return s.create(ctx, actor, req)
}
func (s *stubSessionService) Update(ctx context.Context, actor *services.Actor, req *services.SessionUpdateRequest) (*services.SessionResponse, error) {
	return s.update(ctx, actor, req)
}
func (s *stubSessionService) Delete(ctx context.Context, actor *services.Actor, id string) error {
	return s.delete(ctx, actor, id)
}
func (s *stubSessionService) Search(ctx context.Context, query string, filters repositories.SessionFilters, viewer *services.Actor) (*services.SessionListResponse, error) {
	return s.search(ctx, query, filters, viewer)
}
func (s *stubSessionService) RegisterAttendee(ctx context.Context, actor *services.Actor, sessionID string) error {
	return s.register(ctx, actor, sessionID)
}
func (s *stubSessionService) UnregisterAttendee(ctx context.Context, actor *services.Actor, sessionID string) error {
	return s.unregister(ctx, actor, sessionID)
}

type stubReviewService struct {
	rate   func(ctx context.Context, actor *services.Actor, req *services.RateSessionRequest) (*models.Review, error)
	remove func(ctx context.Context, actor *services.Actor, sessionID, authorID string) error
}

func (s *stubReviewService) Rate(ctx context.Context, actor *services.Actor, req *services.RateSessionRequest) (*models.Review, error) {
	return s.rate(ctx, actor, req)
}
func (s *stubReviewService) Remove(ctx context.Context, actor *services.Actor, sessionID, authorID string) error {
	return s.remove(ctx, actor, sessionID, authorID)
}

type stubMessageService struct {
	contactHost func(ctx context.Context, actor *services.Actor, req *services.ContactHostRequest) (*models.Message, error)
	list        func(ctx context.Context, userID string, filters repositories.MessageFilters) (*services.MessageListResponse, error)
	delete      func(ctx context.Context, actor *services.Actor, messageID string) error
}

func (s *stubMessageService) ContactHost(ctx context.Context, actor *services.Actor, req *services.ContactHostRequest) (*models.Message, error) {
	return s.contactHost(ctx, actor, req)
}
func (s *stubMessageService) List(ctx context.Context, userID string, filters repositories.MessageFilters) (*services.MessageListResponse, error) {
	return s.list(ctx, userID, filters)
}
func (s *stubMessageService) Delete(ctx context.Context, actor *services.Actor, messageID string) error {
	return s.delete(ctx, actor, messageID)
}

type stubFeedbackService struct {
	submit func(ctx context.Context, req *services.FeedbackRequest) error
}

func (s *stubFeedbackService) Submit(ctx context.Context, req *services.FeedbackRequest) error {
	return s.submit(ctx, req)
}

type stubReportService struct {
	export func(ctx context.Context, w io.Writer) error
}

func (s *stubReportService) ExportSessions(ctx context.Context, w io.Writer) error {
	return s.export(ctx, w)
}

type stubCleanupService struct{}

func (s *stubCleanupService) Start(ctx context.Context)                  {}
func (s *stubCleanupService) Stop()                                      {}
func (s *stubCleanupService) SweepOnce(ctx context.Context) (int, error) { return 0, nil }

// stubServiceManager satisfies services.ServiceManager with whatever stubs
// a test installs. Unused services may stay nil.
type stubServiceManager struct {
	auth     *stubAuthService
	user     *stubUserService
	profile  *stubProfileService
	session  *stubSessionService
	review   *stubReviewService
	message  *stubMessageService
	feedback *stubFeedbackService
	report   *stubReportService
}

func (m *stubServiceManager) Auth() services.AuthService         { return m.auth }
func (m *stubServiceManager) User() services.UserService         { return m.user }
func (m *stubServiceManager) Profile() services.ProfileService   { return m.profile }
func (m *stubServiceManager) Session() services.SessionService   { return m.session }
func (m *stubServiceManager) Review() services.ReviewService     { return m.review }
func (m *stubServiceManager) Message() services.MessageService   { return m.message }
func (m *stubServiceManager) Feedback() services.FeedbackService { return m.feedback }
func (m *stubServiceManager) Report() services.ReportService     { return m.report }
func (m *stubServiceManager) Cleanup() services.CleanupService   { return &stubCleanupService{} }

func (m *stubServiceManager) Initialize(ctx context.Context) error  { return nil }
func (m *stubServiceManager) HealthCheck(ctx context.Context) error { return nil }
func (m *stubServiceManager) Shutdown(ctx context.Context) error    { return nil }

// stubUserRepo backs the auth middleware with a fixed set of accounts.
type stubUserRepo struct {
	users map[string]*models.User // by id
}

func (r *stubUserRepo) Create(_ context.Context, _ *models.User) error { return nil }
func (r *stubUserRepo) Find(_ context.Context, lookup repositories.UserLookup) (*models.User, error) {
	if user, ok := r.users[lookup.ID]; ok {
		return user, nil
	}
	return nil, repositories.ErrNotFound
}
func (r *stubUserRepo) ExistsByEmailOrHandle(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}
func (r *stubUserRepo) Update(_ context.Context, _ *models.User) error      { return nil }
func (r *stubUserRepo) MarkEmailVerified(_ context.Context, _ string) error { return nil }
func (r *stubUserRepo) Delete(_ context.Context, _ string) error            { return nil }

// testRouter wires a full router around the given stub manager.
func testRouter(t *testing.T, manager *stubServiceManager, users map[string]*models.User) (*gin.Engine, *auth.TokenService) {
	t.Helper()

	tokens, err := auth.NewTokenService(base64.StdEncoding.EncodeToString([]byte("handler-test-secret")))
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	slogLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger := utils.NewSlogLogger(slogLogger)

	hm := NewHandlerManager(manager, logger, HandlerConfig{
		Tokens:     tokens,
		UserRepo:   &stubUserRepo{users: users},
		Hub:        realtime.NewHub(),
		SlogLogger: slogLogger,
	})

	router := gin.New()
	hm.SetupRoutes(router)
	return router, tokens
}

func sessionCookie(tokens *auth.TokenService, userID string) string {
	return auth.CookieName + "=" + tokens.Issue(userID, false)
}
