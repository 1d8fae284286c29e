package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation represents one chat thread owned by a user.
// UpdatedAt always equals the CreatedAt of the newest message in the thread.
type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   string    `gorm:"not null;index" json:"owner_id"`
	Title     string    `gorm:"not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
