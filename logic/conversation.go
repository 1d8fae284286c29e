package logic

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asaithebest/Nova/dao"
	"github.com/asaithebest/Nova/models"
)

// ConversationLogic handles conversation-level CRUD. The relay in
// MessageLogic creates conversations lazily; this covers the explicit
// sidebar operations (list, create, rename, delete).
type ConversationLogic struct {
	convoDAO *dao.ConversationDAO
}

func NewConversationLogic(convoDAO *dao.ConversationDAO) *ConversationLogic {
	return &ConversationLogic{convoDAO: convoDAO}
}

// CreateConversation creates an empty conversation for an owner.
func (l *ConversationLogic) CreateConversation(ownerID, title string) (*models.Conversation, error) {
	return l.convoDAO.CreateConversation(ownerID, title)
}

// GetConversations retrieves all conversations for an owner, most recently
// active first.
func (l *ConversationLogic) GetConversations(ownerID string) ([]models.Conversation, error) {
	return l.convoDAO.GetConversationsByOwner(ownerID)
}

// RenameConversation updates the title of a conversation the owner holds.
func (l *ConversationLogic) RenameConversation(ownerID string, id uuid.UUID, title string) (*models.Conversation, error) {
	if _, err := l.owned(ownerID, id); err != nil {
		return nil, err
	}
	return l.convoDAO.RenameConversation(id, title)
}

// DeleteConversation removes a conversation the owner holds, along with its
// messages.
func (l *ConversationLogic) DeleteConversation(ownerID string, id uuid.UUID) error {
	if _, err := l.owned(ownerID, id); err != nil {
		return err
	}
	return l.convoDAO.DeleteConversation(id)
}

func (l *ConversationLogic) owned(ownerID string, id uuid.UUID) (*models.Conversation, error) {
	convo, err := l.convoDAO.GetConversationByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	if convo.OwnerID != ownerID {
		return nil, ErrConversationNotFound
	}
	return convo, nil
}
