package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bpariverside/skillswap-service/internal/auth"
	"github.com/bpariverside/skillswap-service/internal/events"
	"github.com/bpariverside/skillswap-service/internal/repositories"
	"github.com/bpariverside/skillswap-service/internal/storage"
	"github.com/bpariverside/skillswap-service/internal/validator"
)

// ServiceManagerConfig carries everything the services need beyond the
// repository: crypto components, event pipeline, file store, secrets.
type ServiceManagerConfig struct {
	Credentials     *auth.Credentials
	Tokens          *auth.TokenService
	EventPublisher  events.EventPublisher
	AvatarStore     *storage.AvatarStore
	RegistrationKey string
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	config    ServiceManagerConfig

	// Service instances
	authService     AuthService
	userService     UserService
	profileService  ProfileService
	sessionService  SessionService
	reviewService   ReviewService
	messageService  MessageService
	feedbackService FeedbackService
	reportService   ReportService
	cleanupService  CleanupService

	// Lifecycle management
	initialized bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies
func NewServiceManager(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		repo:      repo,
		logger:    logger,
		validator: v,
		config:    config,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if sm.config.Credentials == nil || sm.config.Tokens == nil {
		return fmt.Errorf("service manager: credentials and tokens are required")
	}
	if sm.config.EventPublisher == nil {
		return fmt.Errorf("service manager: event publisher is required")
	}
	if sm.config.AvatarStore == nil {
		return fmt.Errorf("service manager: avatar store is required")
	}

	sm.logger.Info("initializing service manager")

	sm.authService = NewAuthService(sm.repo, sm.config.Credentials, sm.config.Tokens,
		sm.config.EventPublisher, sm.logger, sm.validator, sm.config.RegistrationKey)
	sm.userService = NewUserService(sm.repo, sm.config.AvatarStore, sm.logger, sm.validator)
	sm.profileService = NewProfileService(sm.repo, sm.logger)
	sm.sessionService = NewSessionService(sm.repo, sm.config.EventPublisher, sm.logger, sm.validator)
	sm.reviewService = NewReviewService(sm.repo, sm.config.EventPublisher, sm.logger, sm.validator)
	sm.messageService = NewMessageService(sm.repo, sm.logger, sm.validator)
	sm.feedbackService = NewFeedbackService(sm.config.EventPublisher, sm.logger, sm.validator)
	sm.reportService = NewReportService(sm.repo, sm.logger)
	sm.cleanupService = NewCleanupService(sm.repo, sm.config.EventPublisher, sm.logger)

	sm.initialized = true
	sm.logger.Info("service manager initialized")
	return nil
}

func (sm *serviceManager) get() {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

func (sm *serviceManager) Auth() AuthService {
	sm.get()
	return sm.authService
}

func (sm *serviceManager) User() UserService {
	sm.get()
	return sm.userService
}

func (sm *serviceManager) Profile() ProfileService {
	sm.get()
	return sm.profileService
}

func (sm *serviceManager) Session() SessionService {
	sm.get()
	return sm.sessionService
}

func (sm *serviceManager) Review() ReviewService {
	sm.get()
	return sm.reviewService
}

func (sm *serviceManager) Message() MessageService {
	sm.get()
	return sm.messageService
}

func (sm *serviceManager) Feedback() FeedbackService {
	sm.get()
	return sm.feedbackService
}

func (sm *serviceManager) Report() ReportService {
	sm.get()
	return sm.reportService
}

func (sm *serviceManager) Cleanup() CleanupService {
	sm.get()
	return sm.cleanupService
}

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	return sm.repo.Ping(ctx)
}

// Shutdown stops the sweep loop and the event pipeline.
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return nil
	}

	sm.logger.Info("shutting down service manager")
	sm.cleanupService.Stop()

	if err := sm.config.EventPublisher.Close(); err != nil {
		sm.logger.Error("failed to close event publisher", "error", err)
	}

	sm.initialized = false
	return nil
}
