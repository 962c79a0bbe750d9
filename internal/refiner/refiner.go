// Package refiner implements the final stage of the pipeline: it rewrites
// the draft story using the judge's feedback while preserving the original
// storyteller instructions.
package refiner

import (
	"context"
	"fmt"
	"strings"

	"github.com/valpere/bedtale/internal/judge"
	"github.com/valpere/bedtale/internal/llm"
)

// Revision uses the same sampling defaults as generation.
const (
	defaultMaxTokens   = 3000
	defaultTemperature = 0.5
)

// fixedDirectives apply to every revision, whatever the assessment says.
var fixedDirectives = []string{
	"Rewrite the story to address the judge feedback while keeping it for ages 5-10.",
	"Keep it gentle and positive; avoid violence, fear, or upsetting themes.",
	"Preserve the user's intent and main character/setting.",
	"Use clear, simple language with a beginning, middle, and warm resolution.",
}

// Refiner rewrites a draft story using the judge's assessment.
type Refiner interface {
	Refine(ctx context.Context, story string, assessment *judge.Assessment, storytellerPrompt string) (string, error)
}

// LLMRefiner revises stories through a completion client.
type LLMRefiner struct {
	client      llm.CompletionClient
	maxTokens   int
	temperature float32
}

// NewLLMRefiner creates a refiner with the default revision settings.
func NewLLMRefiner(client llm.CompletionClient) *LLMRefiner {
	return &LLMRefiner{
		client:      client,
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
	}
}

// Refine issues one completion request built from the assessment and the
// original story, and returns the revised text verbatim. A degraded
// assessment is valid input: the revision then carries only the fixed
// directives plus the original story.
func (r *LLMRefiner) Refine(ctx context.Context, story string, assessment *judge.Assessment, storytellerPrompt string) (string, error) {
	p := buildRevisionPrompt(story, assessment, storytellerPrompt)

	text, err := r.client.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: p},
		},
		MaxTokens:   r.maxTokens,
		Temperature: r.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("story revision request failed: %w", err)
	}
	return text, nil
}

// buildRevisionPrompt restates the storyteller prompt as context, lists the
// fixed directives, then appends the conditional safety-issue, suggestion,
// and target-score directives only when the assessment is structured and
// carries them.
func buildRevisionPrompt(story string, assessment *judge.Assessment, storytellerPrompt string) string {
	instructions := make([]string, 0, len(fixedDirectives)+6)
	instructions = append(instructions, fixedDirectives...)

	if assessment.Structured() {
		if len(assessment.SafetyIssues) > 0 {
			instructions = append(instructions,
				fmt.Sprintf("Fix these safety issues: %s.", strings.Join(assessment.SafetyIssues, ", ")))
		}
		if len(assessment.Suggestions) > 0 {
			instructions = append(instructions, "Apply these suggestions:")
			for _, s := range assessment.Suggestions {
				instructions = append(instructions, fmt.Sprintf("- %s", s))
			}
		}
		if assessment.QualityScore != nil {
			instructions = append(instructions,
				fmt.Sprintf("Target a higher quality score than %d.", *assessment.QualityScore))
		}
	}

	var sb strings.Builder
	sb.WriteString("You are revising a bedtime story using feedback from a judge.\n")
	sb.WriteString(storytellerPrompt)
	sb.WriteString("\n\nJudge assessment and instructions:\n")
	sb.WriteString(strings.Join(instructions, "\n"))
	sb.WriteString("\n\nOriginal story:\n")
	sb.WriteString(story)
	sb.WriteString("\n\nReturn only the revised story text.")
	return sb.String()
}
