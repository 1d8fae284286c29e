package models

import (
	"time"

	"github.com/google/uuid"
)

// Message roles. Rows with RoleSystem are never fed back as prompt context.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single immutable turn in a conversation.
// Within a conversation messages are ordered by CreatedAt, with the
// auto-increment ID breaking ties in insertion order.
type Message struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index" json:"conversation_id"`
	Role           string    `gorm:"not null" json:"role"`
	Content        string    `json:"content"`
	Attachments    []string  `gorm:"serializer:json" json:"attachments,omitempty"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}
