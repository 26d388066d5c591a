package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/bpariverside/skillswap-service/internal/auth"
	"github.com/bpariverside/skillswap-service/internal/events"
	"github.com/bpariverside/skillswap-service/internal/models"
	"github.com/bpariverside/skillswap-service/internal/repositories"
	"github.com/bpariverside/skillswap-service/internal/validator"
)

type authService struct {
	repo            repositories.Repository
	credentials     *auth.Credentials
	tokens          *auth.TokenService
	eventPublisher  events.EventPublisher
	logger          *slog.Logger
	validator       *validator.Validator
	registrationKey string
}

func NewAuthService(
	repo repositories.Repository,
	credentials *auth.Credentials,
	tokens *auth.TokenService,
	eventPublisher events.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
	registrationKey string,
) AuthService {
	return &authService{
		repo:            repo,
		credentials:     credentials,
		tokens:          tokens,
		eventPublisher:  eventPublisher,
		logger:          logger,
		validator:       v,
		registrationKey: registrationKey,
	}
}

// Register creates the user together with its default profile in one
// transaction and publishes the verification event.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	if subtle.ConstantTimeCompare([]byte(req.RegistrationKey), []byte(s.registrationKey)) != 1 {
		return nil, ErrRegistrationKeyInvalid
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	handle := strings.TrimSpace(req.Handle)

	exists, err := s.repo.User().ExistsByEmailOrHandle(ctx, email, handle)
	if err != nil {
		return nil, fmt.Errorf("failed to check user uniqueness: %w", err)
	}
	if exists {
		return nil, ErrDuplicateUser
	}

	salt, hash, err := s.credentials.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	firstName := validator.Sanitize(req.FirstName)
	lastName := validator.Sanitize(req.LastName)

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Handle:       handle,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         models.RoleUser,
		DOB:          req.DOB,
		PasswordHash: hash,
		PasswordSalt: salt,
		Profile: &models.Profile{
			ID:          uuid.New().String(),
			DisplayName: firstName + " " + lastName,
			AvatarURL:   models.DefaultAvatarURL,
			Tags:        datatypes.JSON([]byte(`[]`)),
			Skills:      datatypes.JSON([]byte(`[]`)),
		},
	}
	user.Profile.UserID = user.ID

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.User().Create(ctx, user); err != nil {
			if repositories.IsDuplicateError(err) {
				return ErrDuplicateUser
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "handle", user.Handle)

	verificationToken := s.tokens.IssueEmailToken(user.ID, user.Email)
	if verificationToken != "" {
		event := events.NewEvent(events.EventUserRegistered, events.UserRegisteredEvent{
			UserID:            user.ID,
			Email:             user.Email,
			Handle:            user.Handle,
			VerificationToken: verificationToken,
		})
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish registration event", "user_id", user.ID, "error", err)
		}
	}

	token := s.tokens.Issue(user.ID, false)
	if token == "" {
		return nil, fmt.Errorf("failed to issue token")
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login resolves the identifier as email or handle and verifies the
// password. Both failure modes collapse into ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	identifier := strings.ToLower(strings.TrimSpace(req.Identifier))
	user, err := s.repo.User().Find(ctx, repositories.UserLookup{Identifier: identifier})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.credentials.VerifyPassword(req.Password, user.PasswordHash, user.PasswordSalt) {
		return nil, ErrInvalidCredentials
	}

	token := s.tokens.Issue(user.ID, req.Remember)
	if token == "" {
		return nil, fmt.Errorf("failed to issue token")
	}

	s.logger.Info("user logged in", "user_id", user.ID, "remember", req.Remember)
	return &AuthResult{User: user, Token: token, Remember: req.Remember}, nil
}

// VerifyEmail validates the emailed token, marks the account verified and
// signs the user straight in.
func (s *authService) VerifyEmail(ctx context.Context, token string) (*AuthResult, error) {
	claims := s.tokens.VerifyEmailToken(token)
	if claims == nil {
		return nil, ErrUnauthorized
	}

	user, err := s.repo.User().Find(ctx, repositories.UserLookup{ID: claims.Subject})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	// Token issued for an address the user has since changed.
	if !strings.EqualFold(user.Email, claims.Email) {
		return nil, ErrUnauthorized
	}

	if !user.EmailVerified {
		if err := s.repo.User().MarkEmailVerified(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("failed to mark email verified: %w", err)
		}
		user.EmailVerified = true
	}

	authToken := s.tokens.Issue(user.ID, false)
	if authToken == "" {
		return nil, fmt.Errorf("failed to issue token")
	}

	s.logger.Info("email verified", "user_id", user.ID)
	return &AuthResult{User: user, Token: authToken}, nil
}
