package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/asaithebest/Nova/logic"
	"github.com/asaithebest/Nova/middleware"
)

// ConversationController handles conversation CRUD.
type ConversationController struct {
	logic *logic.ConversationLogic
}

func NewConversationController(logic *logic.ConversationLogic) *ConversationController {
	return &ConversationController{logic: logic}
}

// CreateConversation handles POST /api/conversations.
func (c *ConversationController) CreateConversation(ctx *gin.Context) {
	type Request struct {
		Title string `json:"title"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	convo, err := c.logic.CreateConversation(middleware.OwnerID(ctx), req.Title)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, convo)
}

// GetConversations handles GET /api/conversations.
func (c *ConversationController) GetConversations(ctx *gin.Context) {
	convos, err := c.logic.GetConversations(middleware.OwnerID(ctx))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, convos)
}

// RenameConversation handles PUT /api/conversations/:id.
func (c *ConversationController) RenameConversation(ctx *gin.Context) {
	type Request struct {
		Title string `json:"title" binding:"required"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	convoID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	convo, err := c.logic.RenameConversation(middleware.OwnerID(ctx), convoID, req.Title)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, convo)
}

// DeleteConversation handles DELETE /api/conversations/:id.
func (c *ConversationController) DeleteConversation(ctx *gin.Context) {
	convoID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	if err := c.logic.DeleteConversation(middleware.OwnerID(ctx), convoID); err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (c *ConversationController) writeError(ctx *gin.Context, err error) {
	if errors.Is(err, logic.ErrConversationNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
