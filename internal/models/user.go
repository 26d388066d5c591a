package models

import (
	"time"

	"gorm.io/datatypes"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// DefaultAvatarURL is the placeholder every new profile starts with.
// The file it points at is never deleted.
const DefaultAvatarURL = "/images/avatar/default.png"

// AvatarURLPrefix is the public path prefix all uploaded avatars live under.
const AvatarURLPrefix = "/images/avatar/"

type User struct {
	ID        string   `json:"id" gorm:"primaryKey;size:36"`
	Email     string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Handle    string   `json:"handle" gorm:"uniqueIndex;not null;size:100"`
	FirstName string   `json:"first_name" gorm:"not null;size:100"`
	LastName  string   `json:"last_name" gorm:"not null;size:100"`
	Role      UserRole `json:"role" gorm:"not null;default:user;size:16"`
	DOB       time.Time `json:"dob" gorm:"not null"`

	// Credentials. The salt feeds the peppered HMAC step, the hash is the
	// bcrypt output over that derivation.
	PasswordHash string `json:"-" gorm:"not null;size:255"`
	PasswordSalt string `json:"-" gorm:"not null;size:64"`

	EmailVerified bool      `json:"email_verified" gorm:"default:false"`
	CreatedAt     time.Time `json:"created_at"`

	Profile *Profile `json:"profile,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}

// ProfileTags is the fixed vocabulary profile tags are drawn from.
var ProfileTags = map[string]bool{
	"founder": true,
	"mentor":  true,
	"student": true,
}

type Profile struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	UserID      string `json:"user_id" gorm:"uniqueIndex;not null;size:36"`
	DisplayName string `json:"display_name" gorm:"not null;size:200"`
	AvatarURL   string `json:"avatar_url" gorm:"not null;size:500"`
	Bio         string `json:"bio" gorm:"type:text"`

	Tags   datatypes.JSON `json:"tags" gorm:"type:jsonb"`
	Skills datatypes.JSON `json:"skills" gorm:"type:jsonb"`

	// Derived statistics, recomputed on the writes that affect them.
	SessionCount int     `json:"session_count" gorm:"default:0"`
	StudentCount int     `json:"student_count" gorm:"default:0"`
	Rating       float64 `json:"rating" gorm:"default:0"`
}

func (Profile) TableName() string {
	return "profiles"
}
