package logic

import "errors"

// Errors surfaced to controllers. Upstream rejections are reported separately
// as *pkg.UpstreamError so the provider's status and body survive verbatim.
var (
	// ErrInvalidRequest means the client sent neither message text nor
	// attachments. Nothing is persisted.
	ErrInvalidRequest = errors.New("message or attachments required")

	// ErrConversationNotFound covers both a missing conversation and one
	// owned by someone else.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrUpstreamTimeout means the provider went silent past the configured
	// idle interval. No assistant message is persisted.
	ErrUpstreamTimeout = errors.New("upstream idle timeout")
)
