package controller

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/asaithebest/Nova/dao"
	"github.com/asaithebest/Nova/models"
)

// AttachmentController stores uploaded files and their metadata. Content
// extraction (images, PDFs) is not done here; messages reference attachments
// by ID only.
type AttachmentController struct {
	attachmentDAO *dao.AttachmentDAO
	uploadDir     string
	maxSize       int64
}

func NewAttachmentController(attachmentDAO *dao.AttachmentDAO, uploadDir string, maxSizeMB int64) *AttachmentController {
	return &AttachmentController{
		attachmentDAO: attachmentDAO,
		uploadDir:     uploadDir,
		maxSize:       maxSizeMB << 20,
	}
}

// Upload handles POST /api/upload (multipart, field "file").
func (c *AttachmentController) Upload(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxSize)

	file, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded (field file)"})
		return
	}

	id := uuid.New()
	filename := fmt.Sprintf("%s%s", id, filepath.Ext(file.Filename))
	dst := filepath.Join(c.uploadDir, filename)
	if err := ctx.SaveUploadedFile(file, dst); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	att, err := c.attachmentDAO.CreateAttachment(&models.Attachment{
		ID:           id,
		Filename:     filename,
		OriginalName: file.Filename,
		MimeType:     file.Header.Get("Content-Type"),
		Size:         file.Size,
		Path:         dst,
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true, "file": att})
}
