package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/asaithebest/Nova/logic"
	"github.com/asaithebest/Nova/middleware"
	"github.com/asaithebest/Nova/pkg"
)

// MessageController handles the chat relay and message history endpoints.
type MessageController struct {
	messageLogic *logic.MessageLogic
}

func NewMessageController(messageLogic *logic.MessageLogic) *MessageController {
	return &MessageController{messageLogic: messageLogic}
}

type chatRequest struct {
	ConversationID string   `json:"conversation_id"`
	Message        string   `json:"message"`
	Attachments    []string `json:"attachments"`
	Streaming      *bool    `json:"streaming"`
	Model          string   `json:"model"`
	SystemPrompt   string   `json:"system_prompt"`
}

// Chat handles POST /api/chat. With streaming enabled (the default) the
// reply is relayed token by token as SSE frames: zero or more "token"
// events, then exactly one terminal "done" or "error" event. With
// streaming:false the full reply is returned as a single JSON object.
func (c *MessageController) Chat(ctx *gin.Context) {
	var req chatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var convoID *uuid.UUID
	if req.ConversationID != "" {
		id, err := uuid.Parse(req.ConversationID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
			return
		}
		convoID = &id
	}

	chatReq := logic.ChatRequest{
		ConversationID: convoID,
		OwnerID:        middleware.OwnerID(ctx),
		Message:        req.Message,
		Attachments:    req.Attachments,
		Model:          req.Model,
		SystemPrompt:   req.SystemPrompt,
	}

	if req.Streaming != nil && !*req.Streaming {
		c.complete(ctx, chatReq)
		return
	}
	c.stream(ctx, chatReq)
}

// stream relays the turn over SSE. Before the first token has been flushed,
// request-level failures are still reported as plain JSON; afterwards every
// outcome terminates the stream with a "done" or "error" event.
func (c *MessageController) stream(ctx *gin.Context, req logic.ChatRequest) {
	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")

	streamed := false
	result, err := c.messageLogic.StreamChat(ctx.Request.Context(), req, func(token string) error {
		streamed = true
		ctx.SSEvent("token", gin.H{"text": token})
		ctx.Writer.Flush()
		return nil
	})
	if err != nil {
		c.streamError(ctx, streamed, err)
		return
	}

	ctx.SSEvent("done", gin.H{
		"conversation_id": result.Conversation.ID,
		"message":         result.AssistantMessage,
	})
	ctx.Writer.Flush()
}

func (c *MessageController) streamError(ctx *gin.Context, streamed bool, err error) {
	status, detail := http.StatusInternalServerError, err.Error()

	var ue *pkg.UpstreamError
	switch {
	case errors.Is(err, logic.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, logic.ErrConversationNotFound):
		status = http.StatusNotFound
	case errors.As(err, &ue):
		status, detail = ue.StatusCode, ue.Body
	case errors.Is(err, logic.ErrUpstreamTimeout):
		status = http.StatusGatewayTimeout
	}

	// Nothing streamed yet and nothing persisted: a plain JSON error is
	// kinder to non-SSE clients.
	if !streamed && (errors.Is(err, logic.ErrInvalidRequest) || errors.Is(err, logic.ErrConversationNotFound)) {
		ctx.JSON(status, gin.H{"error": detail})
		return
	}

	ctx.SSEvent("error", gin.H{"status": status, "detail": detail})
	ctx.Writer.Flush()
}

// complete handles the non-streaming fallback.
func (c *MessageController) complete(ctx *gin.Context, req logic.ChatRequest) {
	result, err := c.messageLogic.CompleteChat(ctx.Request.Context(), req)
	if err != nil {
		var ue *pkg.UpstreamError
		switch {
		case errors.Is(err, logic.ErrInvalidRequest):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, logic.ErrConversationNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.As(err, &ue):
			ctx.JSON(ue.StatusCode, gin.H{"error": ue.Body})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"conversation_id": result.Conversation.ID,
		"reply":           result.AssistantMessage.Content,
		"message":         result.AssistantMessage,
	})
}

// GetMessages handles GET /api/conversations/:id/messages.
func (c *MessageController) GetMessages(ctx *gin.Context) {
	convoID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	messages, err := c.messageLogic.GetConversationMessages(middleware.OwnerID(ctx), convoID)
	if err != nil {
		if errors.Is(err, logic.ErrConversationNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, messages)
}
