package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	saltBytes  = 24
	bcryptCost = 10
)

// Credentials derives and verifies password hashes. The derivation is
// HMAC-SHA256 keyed with a server-wide pepper over salt||password, fed
// through bcrypt. Storing both salt and bcrypt hash lets verification
// recompute the exact same chain.
type Credentials struct {
	pepper []byte
}

// NewCredentials builds a credential engine from the base64-encoded pepper.
func NewCredentials(pepperB64 string) (*Credentials, error) {
	pepper, err := base64.StdEncoding.DecodeString(pepperB64)
	if err != nil {
		return nil, fmt.Errorf("invalid password pepper: %w", err)
	}
	return &Credentials{pepper: pepper}, nil
}

// HashPassword generates a fresh random salt and returns (salt, hash),
// both encoded for storage.
func (c *Credentials) HashPassword(password string) (salt string, hash string, err error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("salt generation failed: %w", err)
	}

	digest := c.hmacPassword(password, raw)
	hashed, err := bcrypt.GenerateFromPassword([]byte(digest), bcryptCost)
	if err != nil {
		return "", "", fmt.Errorf("password hashing failed: %w", err)
	}

	return base64.StdEncoding.EncodeToString(raw), string(hashed), nil
}

// VerifyPassword recomputes the derivation and compares through bcrypt.
// Any decode or derivation failure counts as a mismatch, never as a
// distinct error the caller could branch on.
func (c *Credentials) VerifyPassword(password, hash, salt string) bool {
	raw, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return false
	}
	digest := c.hmacPassword(password, raw)
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(digest)) == nil
}

func (c *Credentials) hmacPassword(password string, salt []byte) string {
	mac := hmac.New(sha256.New, c.pepper)
	mac.Write(salt)
	mac.Write([]byte(password))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// RandomString returns the hex encoding of n random bytes.
func RandomString(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
