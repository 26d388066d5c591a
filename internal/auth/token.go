package auth

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the auth cookie the signed token travels in.
const CookieName = "__sstk"

// RememberMeTTL is the token lifetime when "remember me" is requested.
// Tokens issued without it carry no expiry at all.
const RememberMeTTL = 7 * 24 * time.Hour

// TokenClaims is the auth token payload: subject id, issued-at and an
// optional expiry. Nothing else — every request re-resolves the user
// record from the subject rather than trusting embedded profile data.
type TokenClaims struct {
	jwt.RegisteredClaims
}

// EmailTokenClaims is the email-verification token payload.
type EmailTokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies compact session tokens with a single
// server-wide HS256 secret.
type TokenService struct {
	secret []byte
}

// NewTokenService builds a token service from the base64-encoded secret.
func NewTokenService(secretB64 string) (*TokenService, error) {
	secret, err := base64.StdEncoding.DecodeString(secretB64)
	if err != nil {
		return nil, fmt.Errorf("invalid token secret: %w", err)
	}
	return &TokenService{secret: secret}, nil
}

// Issue mints a token for the given subject. With remember set the token
// expires after RememberMeTTL; without it the token never expires and the
// cookie's session lifetime is the only client-side bound. Returns ""
// when signing fails.
func (t *TokenService) Issue(subjectID string, remember bool) string {
	now := time.Now()
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subjectID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if remember {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(RememberMeTTL))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return ""
	}
	return signed
}

// Verify checks signature and expiry in one step. Every failure mode —
// bad signature, malformed token, elapsed expiry — collapses to nil so
// callers cannot branch on the reason.
func (t *TokenService) Verify(token string) *TokenClaims {
	parsed, err := jwt.ParseWithClaims(token, &TokenClaims{}, t.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil
	}
	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || claims.Subject == "" {
		return nil
	}
	return claims
}

// IssueEmailToken mints a verification token binding a user id to an
// email address. Returns "" when signing fails.
func (t *TokenService) IssueEmailToken(subjectID, email string) string {
	claims := EmailTokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subjectID,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return ""
	}
	return signed
}

// VerifyEmailToken validates a verification token and yields its claims,
// nil on any failure.
func (t *TokenService) VerifyEmailToken(token string) *EmailTokenClaims {
	parsed, err := jwt.ParseWithClaims(token, &EmailTokenClaims{}, t.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil
	}
	claims, ok := parsed.Claims.(*EmailTokenClaims)
	if !ok || claims.Email == "" {
		return nil
	}
	return claims
}

func (t *TokenService) keyFunc(_ *jwt.Token) (interface{}, error) {
	return t.secret, nil
}
