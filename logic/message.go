package logic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asaithebest/Nova/models"
	"github.com/asaithebest/Nova/pkg"
)

// ConversationStore is the slice of conversation persistence the relay needs.
// *dao.ConversationDAO satisfies it.
type ConversationStore interface {
	CreateConversation(ownerID, title string) (*models.Conversation, error)
	GetConversationByID(id uuid.UUID) (*models.Conversation, error)
	Touch(id uuid.UUID, at time.Time) error
}

// MessageStore is the slice of message persistence the relay needs.
// *dao.MessageDAO satisfies it.
type MessageStore interface {
	CreateMessage(conversationID uuid.UUID, role, content string, attachments []string) (*models.Message, error)
	GetMessagesByConversationID(conversationID uuid.UUID) ([]models.Message, error)
}

// CompletionClient is the upstream provider contract. *pkg.ChatClient
// satisfies it.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, request pkg.ChatCompletionRequest) (*pkg.ChatCompletionResponse, error)
	OpenStream(ctx context.Context, request pkg.ChatCompletionRequest) (io.ReadCloser, error)
}

// ChatOptions carries the relay's configuration knobs.
type ChatOptions struct {
	Model         string
	Temperature   float32
	MaxTokens     uint32
	HistoryWindow int
	SystemPrompt  string
	IdleTimeout   time.Duration
}

// ChatRequest is one validated inbound chat turn.
type ChatRequest struct {
	ConversationID *uuid.UUID
	OwnerID        string
	Message        string
	Attachments    []string
	Model          string
	SystemPrompt   string
}

// ChatResult reports what one completed turn persisted.
type ChatResult struct {
	Conversation     *models.Conversation `json:"conversation"`
	UserMessage      *models.Message      `json:"user_message"`
	AssistantMessage *models.Message      `json:"assistant_message"`
}

// MessageLogic runs one chat turn end to end: persist the user's message,
// build the bounded prompt, call the provider, and persist the reply exactly
// once. One instance is shared across requests; all per-turn state is local.
type MessageLogic struct {
	convos   ConversationStore
	messages MessageStore
	chat     CompletionClient
	opts     ChatOptions
}

func NewMessageLogic(convos ConversationStore, messages MessageStore, chat CompletionClient, opts ChatOptions) *MessageLogic {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 30 * time.Second
	}
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = 12
	}
	return &MessageLogic{convos: convos, messages: messages, chat: chat, opts: opts}
}

// GetConversationMessages retrieves the ordered history of a conversation the
// owner can see.
func (l *MessageLogic) GetConversationMessages(ownerID string, conversationID uuid.UUID) ([]models.Message, error) {
	convo, err := l.convos.GetConversationByID(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	if convo.OwnerID != ownerID {
		return nil, ErrConversationNotFound
	}
	return l.messages.GetMessagesByConversationID(conversationID)
}

// StreamChat runs one streaming turn. Every token decoded from the provider
// is handed to send as soon as it arrives; send returning an error means the
// downstream client is gone, in which case upstream reading stops and the
// partial reply is still persisted. The user's message is committed before
// any upstream byte is requested, so a provider failure leaves the
// conversation resumable.
func (l *MessageLogic) StreamChat(ctx context.Context, req ChatRequest, send func(token string) error) (*ChatResult, error) {
	convo, userMsg, prompt, err := l.beginTurn(req)
	if err != nil {
		return nil, err
	}

	upCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	body, err := l.chat.OpenStream(upCtx, l.upstreamRequest(req, prompt))
	if err != nil {
		return nil, err
	}
	defer body.Close()

	text, err := l.pump(ctx, cancel, body, send)
	if err != nil {
		return nil, err
	}

	assistant, err := l.appendAssistant(convo.ID, text)
	if err != nil {
		return nil, err
	}
	return &ChatResult{Conversation: convo, UserMessage: userMsg, AssistantMessage: assistant}, nil
}

// CompleteChat runs one non-streaming turn: the provider's whole reply is
// read as a single document and persisted as one assistant message.
func (l *MessageLogic) CompleteChat(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	convo, userMsg, prompt, err := l.beginTurn(req)
	if err != nil {
		return nil, err
	}

	resp, err := l.chat.CreateChatCompletion(ctx, l.upstreamRequest(req, prompt))
	if err != nil {
		return nil, err
	}

	var text string
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}

	assistant, err := l.appendAssistant(convo.ID, text)
	if err != nil {
		return nil, err
	}
	return &ChatResult{Conversation: convo, UserMessage: userMsg, AssistantMessage: assistant}, nil
}

// beginTurn validates the request, resolves or lazily creates the
// conversation, commits the user's message, and builds the outbound prompt.
func (l *MessageLogic) beginTurn(req ChatRequest) (*models.Conversation, *models.Message, []pkg.RequestMessage, error) {
	if strings.TrimSpace(req.Message) == "" && len(req.Attachments) == 0 {
		return nil, nil, nil, ErrInvalidRequest
	}

	var convo *models.Conversation
	var err error
	if req.ConversationID == nil {
		convo, err = l.convos.CreateConversation(req.OwnerID, seedTitle(req.Message))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create conversation: %w", err)
		}
	} else {
		convo, err = l.convos.GetConversationByID(*req.ConversationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, nil, ErrConversationNotFound
			}
			return nil, nil, nil, err
		}
		if convo.OwnerID != req.OwnerID {
			return nil, nil, nil, ErrConversationNotFound
		}
	}

	userMsg, err := l.messages.CreateMessage(convo.ID, models.RoleUser, req.Message, req.Attachments)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to persist user message: %w", err)
	}
	if err := l.convos.Touch(convo.ID, userMsg.CreatedAt); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to touch conversation: %w", err)
	}

	history, err := l.messages.GetMessagesByConversationID(convo.ID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load history: %w", err)
	}

	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = l.opts.SystemPrompt
	}
	prompt := BuildWindow(systemPrompt, history, l.opts.HistoryWindow)
	return convo, userMsg, prompt, nil
}

func (l *MessageLogic) upstreamRequest(req ChatRequest, prompt []pkg.RequestMessage) pkg.ChatCompletionRequest {
	model := req.Model
	if model == "" {
		model = l.opts.Model
	}
	temp := l.opts.Temperature
	return pkg.ChatCompletionRequest{
		Model:       model,
		Messages:    prompt,
		Temperature: &temp,
		MaxTokens:   l.opts.MaxTokens,
	}
}

// pump drains the upstream body through the stream decoder until the done
// sentinel, stream closure, downstream disconnect, or idle timeout. It
// returns the accumulated reply text. Only the idle timeout is an error:
// closure without a sentinel and a vanished client both finalize with
// whatever accumulated.
func (l *MessageLogic) pump(ctx context.Context, cancelUpstream context.CancelFunc, body io.Reader, send func(token string) error) (string, error) {
	type readResult struct {
		data []byte
		err  error
	}
	reads := make(chan readResult)
	readerCtx, stopReader := context.WithCancel(context.Background())
	defer stopReader()

	go func() {
		defer close(reads)
		buf := make([]byte, 4096)
		for {
			n, err := body.Read(buf)
			var r readResult
			if n > 0 {
				r.data = append([]byte(nil), buf[:n]...)
			}
			r.err = err
			select {
			case reads <- r:
			case <-readerCtx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	decoder := pkg.NewStreamDecoder()
	var acc strings.Builder
	idle := time.NewTimer(l.opts.IdleTimeout)
	defer idle.Stop()

	for {
		select {
		case r, ok := <-reads:
			if !ok {
				return acc.String(), nil
			}
			if !idle.Stop() {
				<-idle.C
			}
			idle.Reset(l.opts.IdleTimeout)

			for _, ev := range decoder.Feed(r.data) {
				switch ev.Type {
				case pkg.EventToken:
					acc.WriteString(ev.Text)
					if send != nil {
						if err := send(ev.Text); err != nil {
							// Client is gone; the generation is already paid
							// for, so keep what arrived.
							cancelUpstream()
							return acc.String(), nil
						}
					}
				case pkg.EventDone:
					cancelUpstream()
					return acc.String(), nil
				}
			}

			if r.err != nil {
				// EOF without a sentinel, or the body died mid-stream.
				// Finalize with the accumulation either way.
				return acc.String(), nil
			}

		case <-ctx.Done():
			cancelUpstream()
			return acc.String(), nil

		case <-idle.C:
			cancelUpstream()
			return "", ErrUpstreamTimeout
		}
	}
}

// appendAssistant persists the reply exactly once and advances the
// conversation clock. An empty reply is stored as-is so history matches what
// the client observed.
func (l *MessageLogic) appendAssistant(conversationID uuid.UUID, text string) (*models.Message, error) {
	msg, err := l.messages.CreateMessage(conversationID, models.RoleAssistant, text, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to persist assistant message: %w", err)
	}
	if err := l.convos.Touch(conversationID, msg.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to touch conversation: %w", err)
	}
	return msg, nil
}

// seedTitle derives a conversation title from the first user message.
func seedTitle(message string) string {
	const maxTitleRunes = 48

	title := strings.TrimSpace(message)
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = title[:i]
	}
	runes := []rune(title)
	if len(runes) > maxTitleRunes {
		title = string(runes[:maxTitleRunes]) + "…"
	}
	return title
}
