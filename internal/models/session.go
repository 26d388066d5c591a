package models

import (
	"time"

	"gorm.io/datatypes"
)

type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "beginner"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
)

// DifficultyLevels is the fixed vocabulary session difficulty is drawn from.
var DifficultyLevels = map[DifficultyLevel]bool{
	DifficultyBeginner:     true,
	DifficultyIntermediate: true,
	DifficultyAdvanced:     true,
}

// Session is a scheduled teaching/learning event, not an auth session.
type Session struct {
	ID          string          `json:"id" gorm:"primaryKey;size:36"`
	UserID      string          `json:"user_id" gorm:"not null;index;size:36"`
	Name        string          `json:"name" gorm:"not null;size:200"`
	Categories  datatypes.JSON  `json:"categories" gorm:"type:jsonb"`
	Prereqs     string          `json:"prereqs" gorm:"type:text"`
	Difficulty  DifficultyLevel `json:"difficulty" gorm:"not null;size:16"`
	Description string          `json:"description" gorm:"type:text"`
	Duration    int             `json:"duration" gorm:"not null;default:60"` // minutes
	MeetingURL  string          `json:"meeting_url" gorm:"not null;size:500"`
	EventDate   time.Time       `json:"event_date" gorm:"not null;index"`
	CreatedAt   time.Time       `json:"created_at"`

	User          *User                 `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Registrations []SessionRegistration `json:"-" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

func (Session) TableName() string {
	return "sessions"
}

// SessionRegistration joins an attendee to a session. A user may hold at
// most one registration per session and never registers for their own.
type SessionRegistration struct {
	SessionID string    `json:"session_id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"user_id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at"`
}

func (SessionRegistration) TableName() string {
	return "session_registrations"
}
