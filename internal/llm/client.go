// Package llm wraps the chat-completion endpoint behind a single client so
// that every pipeline stage issues its request the same way: credential
// check first, one call, first choice returned verbatim.
package llm

import (
	"context"
	"errors"
	"math"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = openai.GPT3Dot5Turbo

// Message roles accepted by the completion endpoint.
const (
	RoleSystem = openai.ChatMessageRoleSystem
	RoleUser   = openai.ChatMessageRoleUser
)

// Message is one role-tagged entry in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest describes a single completion call. Temperature zero
// requests deterministic sampling.
type CompletionRequest struct {
	Messages    []Message
	MaxTokens   int
	Temperature float32
}

// CompletionClient is the capability the pipeline stages depend on.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Config configures the OpenAI-backed client. BaseURL may point at any
// OpenAI-compatible endpoint; empty uses the official API.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	api    *openai.Client
	apiKey string
	model  string
}

// New creates a Client. The API key is not verified here; Complete rejects
// an empty key before any network I/O.
func New(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:    openai.NewClientWithConfig(apiCfg),
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Complete issues one chat-completion request and returns the first choice
// unmodified. It fails with ErrAPIKeyMissing before any network attempt when
// no key is configured, and wraps every endpoint failure in *TransportError.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if c.apiKey == "" {
		return "", ErrAPIKeyMissing
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	// The client library drops a zero temperature from the wire request,
	// which would fall back to the server default. Send the smallest
	// representable value instead so "deterministic" actually reaches the API.
	temperature := req.Temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", &TransportError{Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &TransportError{Err: errors.New("empty response from API")}
	}

	return resp.Choices[0].Message.Content, nil
}
