package models

import "time"

// Message is a stored direct message (distinct from live chat, which is
// never persisted). Either party may delete it.
type Message struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Content     string    `json:"content" gorm:"not null;type:text"`
	SenderID    string    `json:"sender_id" gorm:"not null;index;size:36"`
	RecipientID string    `json:"recipient_id" gorm:"not null;index;size:36"`
	SessionName *string   `json:"session_name,omitempty" gorm:"size:200"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}
