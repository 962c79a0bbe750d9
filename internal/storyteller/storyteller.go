// Package storyteller generates the first draft of a bedtime story from an
// assembled storyteller prompt.
package storyteller

import (
	"context"
	"fmt"

	"github.com/valpere/bedtale/internal/llm"
)

// Generation defaults: enough budget for a short story, with moderate
// creative variance.
const (
	defaultMaxTokens   = 3000
	defaultTemperature = 0.5
)

// Storyteller produces story text from a storyteller prompt.
type Storyteller interface {
	Tell(ctx context.Context, prompt string) (string, error)
}

// LLMStoryteller generates stories through a completion client.
type LLMStoryteller struct {
	client      llm.CompletionClient
	maxTokens   int
	temperature float32
}

// NewLLMStoryteller creates a storyteller with the default generation settings.
func NewLLMStoryteller(client llm.CompletionClient) *LLMStoryteller {
	return &LLMStoryteller{
		client:      client,
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
	}
}

// Tell issues one completion request with the prompt as the sole user
// message and returns the generated text verbatim: no truncation, no
// sanitizing, no post-processing.
func (s *LLMStoryteller) Tell(ctx context.Context, prompt string) (string, error) {
	text, err := s.client.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("story generation request failed: %w", err)
	}
	return text, nil
}
