package dao

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asaithebest/Nova/models"
)

// MessageDAO handles message-related database operations.
type MessageDAO struct {
	db *gorm.DB
}

func NewMessageDAO(db *gorm.DB) *MessageDAO {
	return &MessageDAO{db: db}
}

// CreateMessage appends a message to a conversation. Messages are immutable
// once written.
func (d *MessageDAO) CreateMessage(conversationID uuid.UUID, role, content string, attachments []string) (*models.Message, error) {
	msg := &models.Message{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Attachments:    attachments,
	}
	if err := d.db.Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// GetMessagesByConversationID retrieves all messages in a conversation in
// chronological order, insertion order breaking timestamp ties.
func (d *MessageDAO) GetMessagesByConversationID(conversationID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	if err := d.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
