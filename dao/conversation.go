package dao

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asaithebest/Nova/models"
)

// ConversationDAO handles conversation-related database operations.
type ConversationDAO struct {
	db *gorm.DB
}

func NewConversationDAO(db *gorm.DB) *ConversationDAO {
	return &ConversationDAO{db: db}
}

// CreateConversation creates a new conversation for an owner.
func (d *ConversationDAO) CreateConversation(ownerID, title string) (*models.Conversation, error) {
	if title == "" {
		title = "New chat"
	}
	convo := &models.Conversation{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Title:   title,
	}
	if err := d.db.Create(convo).Error; err != nil {
		return nil, err
	}
	return convo, nil
}

// GetConversationByID retrieves a single conversation.
func (d *ConversationDAO) GetConversationByID(id uuid.UUID) (*models.Conversation, error) {
	var convo models.Conversation
	if err := d.db.First(&convo, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &convo, nil
}

// GetConversationsByOwner retrieves an owner's conversations, most recently
// active first.
func (d *ConversationDAO) GetConversationsByOwner(ownerID string) ([]models.Conversation, error) {
	var convos []models.Conversation
	if err := d.db.Where("owner_id = ?", ownerID).Order("updated_at DESC").Find(&convos).Error; err != nil {
		return nil, err
	}
	return convos, nil
}

// Touch advances a conversation's updated_at to the given instant. The guard
// makes the update monotonic: concurrent appends to the same conversation may
// commit in any order and the final value still reflects the newest message.
func (d *ConversationDAO) Touch(id uuid.UUID, at time.Time) error {
	return d.db.Model(&models.Conversation{}).
		Where("id = ? AND updated_at < ?", id, at).
		Update("updated_at", at).Error
}

// RenameConversation updates a conversation's title.
func (d *ConversationDAO) RenameConversation(id uuid.UUID, title string) (*models.Conversation, error) {
	if err := d.db.Model(&models.Conversation{}).Where("id = ?", id).Update("title", title).Error; err != nil {
		return nil, err
	}
	return d.GetConversationByID(id)
}

// DeleteConversation removes a conversation and all its messages.
func (d *ConversationDAO) DeleteConversation(id uuid.UUID) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Conversation{}, "id = ?", id).Error
	})
}
