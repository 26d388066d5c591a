package models

import "time"

// Review rates a session's host. One review per (session, author) pair;
// repeat ratings update in place. Hidden reviews stay stored but are
// excluded from the recipient's average.
type Review struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	SessionID   string `json:"session_id" gorm:"not null;uniqueIndex:idx_review_session_author;size:36"`
	AuthorID    string `json:"author_id" gorm:"not null;uniqueIndex:idx_review_session_author;size:36"`
	RecipientID string `json:"recipient_id" gorm:"not null;index;size:36"`
	Rating      int    `json:"rating" gorm:"not null"`
	Comment     string `json:"comment" gorm:"type:text"`
	Hidden      bool   `json:"hidden" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}
