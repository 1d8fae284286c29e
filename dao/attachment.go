package dao

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asaithebest/Nova/models"
)

// AttachmentDAO handles attachment metadata persistence.
type AttachmentDAO struct {
	db *gorm.DB
}

func NewAttachmentDAO(db *gorm.DB) *AttachmentDAO {
	return &AttachmentDAO{db: db}
}

// CreateAttachment records metadata for an uploaded file.
func (d *AttachmentDAO) CreateAttachment(att *models.Attachment) (*models.Attachment, error) {
	if att.ID == uuid.Nil {
		att.ID = uuid.New()
	}
	if err := d.db.Create(att).Error; err != nil {
		return nil, err
	}
	return att, nil
}

// GetAttachmentByID retrieves attachment metadata.
func (d *AttachmentDAO) GetAttachmentByID(id uuid.UUID) (*models.Attachment, error) {
	var att models.Attachment
	if err := d.db.First(&att, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &att, nil
}
