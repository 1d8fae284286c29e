package models

import (
	"time"

	"github.com/google/uuid"
)

// Attachment records uploaded file metadata. Content extraction is handled
// elsewhere; messages reference attachments by ID only.
type Attachment struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Filename     string    `gorm:"not null" json:"filename"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	Path         string    `gorm:"not null" json:"path"`
	CreatedAt    time.Time `json:"created_at"`
}
