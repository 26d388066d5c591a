package services

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/bpariverside/skillswap-service/internal/auth"
	"github.com/bpariverside/skillswap-service/internal/events"
	"github.com/bpariverside/skillswap-service/internal/models"
	"github.com/bpariverside/skillswap-service/internal/validator"
)

const testRegistrationKey = "invite-only-2024"

type authFixture struct {
	repo      *mockRepository
	service   AuthService
	tokens    *auth.TokenService
	publisher *events.MockEventPublisher
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	credentials, err := auth.NewCredentials(base64.StdEncoding.EncodeToString([]byte("test-pepper")))
	if err != nil {
		t.Fatalf("NewCredentials: %v", err)
	}
	tokens, err := auth.NewTokenService(base64.StdEncoding.EncodeToString([]byte("test-secret")))
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := NewAuthService(repo, credentials, tokens, publisher, testLogger(), validator.New(), testRegistrationKey)

	return &authFixture{repo: repo, service: service, tokens: tokens, publisher: publisher}
}

func validRegisterRequest() *RegisterRequest {
	return &RegisterRequest{
		Email:           "jamie@example.com",
		Password:        "correct horse battery",
		FirstName:       "Jamie",
		LastName:        "Rivera",
		Handle:          "jamie_r",
		DOB:             time.Date(1995, 4, 12, 0, 0, 0, 0, time.UTC),
		RegistrationKey: testRegistrationKey,
	}
}

func TestRegisterCreatesUserWithDefaultProfile(t *testing.T) {
	fx := newAuthFixture(t)

	result, err := fx.service.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if result.Token == "" {
		t.Error("expected a session token")
	}
	if result.User.Role != models.RoleUser {
		t.Errorf("role = %q, want %q", result.User.Role, models.RoleUser)
	}

	stored := fx.repo.users[result.User.ID]
	if stored == nil {
		t.Fatal("user not persisted")
	}
	if stored.Profile == nil {
		t.Fatal("profile not created alongside the user")
	}
	if stored.Profile.DisplayName != "Jamie Rivera" {
		t.Errorf("display name = %q, want %q", stored.Profile.DisplayName, "Jamie Rivera")
	}
	if stored.Profile.AvatarURL != models.DefaultAvatarURL {
		t.Errorf("avatar url = %q, want default", stored.Profile.AvatarURL)
	}
	if stored.PasswordHash == "" || stored.PasswordSalt == "" {
		t.Error("credentials not stored")
	}

	published := fx.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventUserRegistered {
		t.Fatalf("expected one %s event, got %v", events.EventUserRegistered, published)
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	fx := newAuthFixture(t)

	req := validRegisterRequest()
	req.Email = "Jamie@Example.COM"

	result, err := fx.service.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if result.User.Email != "jamie@example.com" {
		t.Errorf("email = %q, want lowercased", result.User.Email)
	}
}

func TestRegisterRejectsBadRegistrationKey(t *testing.T) {
	fx := newAuthFixture(t)

	req := validRegisterRequest()
	req.RegistrationKey = "wrong"

	_, err := fx.service.Register(context.Background(), req)
	if !errors.Is(err, ErrRegistrationKeyInvalid) {
		t.Errorf("err = %v, want ErrRegistrationKeyInvalid", err)
	}
	if len(fx.repo.users) != 0 {
		t.Error("no user should have been created")
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	fx := newAuthFixture(t)
	fx.repo.addUser("u1", "jamie_r", "other@example.com", models.RoleUser)

	_, err := fx.service.Register(context.Background(), validRegisterRequest())
	if !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("err = %v, want ErrDuplicateUser", err)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	fx := newAuthFixture(t)

	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"short password", func(r *RegisterRequest) { r.Password = "short" }},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }},
		{"bad handle", func(r *RegisterRequest) { r.Handle = "No Spaces!" }},
		{"missing key", func(r *RegisterRequest) { r.RegistrationKey = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegisterRequest()
			tt.mutate(req)

			_, err := fx.service.Register(context.Background(), req)
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Errorf("err = %v, want validation errors", err)
			}
		})
	}
}

func TestLoginByEmailAndHandle(t *testing.T) {
	fx := newAuthFixture(t)
	if _, err := fx.service.Register(context.Background(), validRegisterRequest()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	for _, identifier := range []string{"jamie@example.com", "jamie_r"} {
		result, err := fx.service.Login(context.Background(), &LoginRequest{
			Identifier: identifier,
			Password:   "correct horse battery",
		})
		if err != nil {
			t.Fatalf("Login(%q): %v", identifier, err)
		}
		claims := fx.tokens.Verify(result.Token)
		if claims == nil || claims.Subject != result.User.ID {
			t.Errorf("Login(%q): token does not verify for the user", identifier)
		}
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	fx := newAuthFixture(t)
	if _, err := fx.service.Register(context.Background(), validRegisterRequest()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name       string
		identifier string
		password   string
	}{
		{"wrong password", "jamie_r", "nope"},
		{"unknown identifier", "nobody", "correct horse battery"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.service.Login(context.Background(), &LoginRequest{
				Identifier: tt.identifier,
				Password:   tt.password,
			})
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestVerifyEmailMarksAccountVerified(t *testing.T) {
	fx := newAuthFixture(t)

	result, err := fx.service.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	token := fx.tokens.IssueEmailToken(result.User.ID, result.User.Email)
	verified, err := fx.service.VerifyEmail(context.Background(), token)
	if err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	if !verified.User.EmailVerified {
		t.Error("user should be marked verified")
	}
	if verified.Token == "" {
		t.Error("expected a fresh session token")
	}
}

func TestVerifyEmailRejectsStaleAddress(t *testing.T) {
	fx := newAuthFixture(t)

	result, err := fx.service.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Token was issued for an address the user no longer has.
	token := fx.tokens.IssueEmailToken(result.User.ID, "old@example.com")
	if _, err := fx.service.VerifyEmail(context.Background(), token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestVerifyEmailRejectsSessionToken(t *testing.T) {
	fx := newAuthFixture(t)

	result, err := fx.service.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := fx.service.VerifyEmail(context.Background(), result.Token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}
