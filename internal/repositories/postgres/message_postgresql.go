package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/bpariverside/skillswap-service/internal/models"
	"github.com/bpariverside/skillswap-service/internal/repositories"
)

// MessagePostgreSQL is uncached: message lists are per-user and cheap.
type MessagePostgreSQL struct {
	db *gorm.DB
}

func NewMessagePostgreSQL(db *gorm.DB) repositories.MessageRepository {
	return &MessagePostgreSQL{db: db}
}

func (m *MessagePostgreSQL) Create(ctx context.Context, message *models.Message) error {
	if err := m.db.WithContext(ctx).Create(message).Error; err != nil {
		return translateError(err, "create message")
	}
	return nil
}

func (m *MessagePostgreSQL) GetByID(ctx context.Context, id string) (*models.Message, error) {
	var message models.Message
	if err := m.db.WithContext(ctx).First(&message, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "get message")
	}
	return &message, nil
}

// ListForUser returns messages the user sent or received, newest first.
func (m *MessagePostgreSQL) ListForUser(ctx context.Context, userID string, filters repositories.MessageFilters) ([]*models.Message, int64, error) {
	base := m.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("sender_id = ? OR recipient_id = ?", userID, userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "count messages")
	}

	var messages []*models.Message
	err := applyPagination(base.Order("created_at DESC"), filters.Limit, filters.Offset).
		Find(&messages).Error
	if err != nil {
		return nil, 0, translateError(err, "list messages")
	}
	return messages, total, nil
}

func (m *MessagePostgreSQL) Delete(ctx context.Context, id string) error {
	result := m.db.WithContext(ctx).Delete(&models.Message{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "delete message")
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "delete message")
	}
	return nil
}
