package pkg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// RequestMessage is one prompt entry sent upstream.
type RequestMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the body posted to the provider's
// chat/completions endpoint.
type ChatCompletionRequest struct {
	Model       string           `json:"model"`
	Messages    []RequestMessage `json:"messages"`
	Temperature *float32         `json:"temperature,omitempty"`
	MaxTokens   uint32           `json:"max_tokens,omitempty"`
	Stream      *bool            `json:"stream,omitempty"`
	Stop        []string         `json:"stop,omitempty"`
	User        *string          `json:"user,omitempty"`
}

// ResponseMessage is the assistant message in a non-streaming response.
type ResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
}

// ChatChoice is one completion alternative.
type ChatChoice struct {
	Index        uint32          `json:"index"`
	Message      ResponseMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

// Usage reports token accounting from the provider.
type Usage struct {
	PromptTokens     uint32 `json:"prompt_tokens"`
	CompletionTokens uint32 `json:"completion_tokens"`
	TotalTokens      uint32 `json:"total_tokens"`
}

// ChatCompletionResponse is a full non-streaming completion document.
type ChatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created uint64       `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   *Usage       `json:"usage,omitempty"`
}

// UpstreamError reports a non-success status from the provider. Status and
// the raw body are preserved so callers can surface them verbatim.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// ChatClient talks to an OpenAI-compatible completion provider.
type ChatClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewChatClient creates a client for the given provider base URL. No overall
// request timeout is set; streaming responses are open-ended and the relay
// enforces its own idle timeout.
func NewChatClient(baseURL, apiKey string) *ChatClient {
	return &ChatClient{
		client:  &http.Client{},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// post sends the request and returns the response on any HTTP success. A
// non-2xx status is converted into an *UpstreamError carrying the raw body.
func (c *ChatClient) post(ctx context.Context, endpoint string, body interface{}) (*http.Response, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, endpoint)

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	return resp, nil
}

// CreateChatCompletion performs a blocking, non-streaming completion.
func (c *ChatClient) CreateChatCompletion(ctx context.Context, request ChatCompletionRequest) (*ChatCompletionResponse, error) {
	streamOff := false
	request.Stream = &streamOff

	resp, err := c.post(ctx, "chat/completions", request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var response ChatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &response, nil
}

// OpenStream starts a streaming completion and returns the raw response body.
// The caller owns the body and pumps it through a StreamDecoder; closing it
// stops the upstream generation.
func (c *ChatClient) OpenStream(ctx context.Context, request ChatCompletionRequest) (io.ReadCloser, error) {
	streamOn := true
	request.Stream = &streamOn

	resp, err := c.post(ctx, "chat/completions", request)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
