package validator

import "time"

// RegisterRequest carries a new account signup. The registration key must
// match the server's configured key.
type RegisterRequest struct {
	Email           string    `json:"email" validate:"required,email,max=255"`
	Password        string    `json:"password" validate:"required,min=8,max=128"`
	FirstName       string    `json:"first_name" validate:"required,max=100"`
	LastName        string    `json:"last_name" validate:"required,max=100"`
	Handle          string    `json:"handle" validate:"required,handle"`
	DOB             time.Time `json:"dob" validate:"required"`
	RegistrationKey string    `json:"registration_key" validate:"required"`
}

// LoginRequest accepts either the email address or the handle as identifier.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=255"`
	Password   string `json:"password" validate:"required"`
	Remember   bool   `json:"remember"`
}

// UpdateSettingsRequest updates account profile settings. Absent fields are
// left untouched. Handle names the target account; only admins may target
// an account other than their own.
type UpdateSettingsRequest struct {
	Handle      *string  `json:"handle" validate:"omitempty,handle"`
	DisplayName *string  `json:"display_name" validate:"omitempty,min=1,max=200"`
	Bio         *string  `json:"bio" validate:"omitempty,max=2000"`
	Tags        []string `json:"tags" validate:"omitempty,dive,profile_tag"`
	Skills      []string `json:"skills" validate:"omitempty,max=30,dive,min=1,max=60"`
	AvatarURL   *string  `json:"avatar_url" validate:"omitempty,max=500"`
}

// SessionCreateRequest creates a session hosted by the current user.
type SessionCreateRequest struct {
	Name        string    `json:"name" validate:"required,min=1,max=200"`
	Categories  []string  `json:"categories" validate:"omitempty,max=10,dive,min=1,max=60"`
	Prereqs     string    `json:"prereqs" validate:"omitempty,max=2000"`
	Difficulty  string    `json:"difficulty" validate:"required,difficulty"`
	Description string    `json:"description" validate:"omitempty,max=5000"`
	Duration    int       `json:"duration" validate:"omitempty,min=15,max=480"`
	MeetingURL  string    `json:"meeting_url" validate:"required,meeting_url"`
	EventDate   time.Time `json:"event_date" validate:"required"`
}

// SessionUpdateRequest patches a session. ID names the target; the rest
// only applies when present.
type SessionUpdateRequest struct {
	ID          string     `json:"id" validate:"required"`
	Name        *string    `json:"name" validate:"omitempty,min=1,max=200"`
	Categories  []string   `json:"categories" validate:"omitempty,max=10,dive,min=1,max=60"`
	Prereqs     *string    `json:"prereqs" validate:"omitempty,max=2000"`
	Difficulty  *string    `json:"difficulty" validate:"omitempty,difficulty"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Duration    *int       `json:"duration" validate:"omitempty,min=15,max=480"`
	MeetingURL  *string    `json:"meeting_url" validate:"omitempty,meeting_url"`
	EventDate   *time.Time `json:"event_date"`
}

// RateSessionRequest records or replaces the caller's review of a session.
type RateSessionRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"omitempty,max=2000"`
}

// ContactHostRequest sends a stored message to a session host. Exactly one
// of SessionID and HostHandle resolves the recipient.
type ContactHostRequest struct {
	SessionID  string `json:"session_id" validate:"required_without=HostHandle"`
	HostHandle string `json:"host_handle" validate:"required_without=SessionID"`
	Message    string `json:"message" validate:"required,min=1,max=5000"`
}

// FeedbackRequest is the public feedback form payload.
type FeedbackRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Message string `json:"message" validate:"required,min=1,max=5000"`
}
