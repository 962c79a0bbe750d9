// Package judge evaluates a generated story for safety and quality with a
// second model call and parses the reply into an Assessment.
package judge

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/valpere/bedtale/internal/llm"
)

// judgeMaxTokens caps the structured reply; a short JSON verdict fits well
// within this budget.
const judgeMaxTokens = 400

const judgeSystemPrompt = `You are a careful safety and quality judge for children's bedtime stories (ages 5-10).
Evaluate safety (no violence, fear, or inappropriate content) and quality (clarity, warmth, coherence).
Respond in JSON with keys:
  safety_ok: boolean
  safety_issues: array of strings (empty if none)
  quality_score: integer 1-10 (10 is best)
  justification: the reasoning behind the quality score
  suggestions: an array of up to 3 short, actionable improvement notes`

// Judge evaluates a story against the request that produced it.
type Judge interface {
	Evaluate(ctx context.Context, story, requestContext, storytellerPrompt string) (*Assessment, error)
}

// LLMJudge evaluates stories through a completion client. Evaluation uses
// deterministic sampling so repeated runs score the same story the same way.
type LLMJudge struct {
	client llm.CompletionClient
	debug  io.Writer
}

// NewLLMJudge creates a judge. debug may be nil; when set, the full user
// payload is written to it before each request.
func NewLLMJudge(client llm.CompletionClient, debug io.Writer) *LLMJudge {
	return &LLMJudge{client: client, debug: debug}
}

// Evaluate issues one completion request and parses the reply. A transport
// failure is returned as an error; a malformed reply is not (it degrades to
// a raw-text Assessment).
func (j *LLMJudge) Evaluate(ctx context.Context, story, requestContext, storytellerPrompt string) (*Assessment, error) {
	payload := buildJudgePayload(story, requestContext, storytellerPrompt)

	if j.debug != nil {
		fmt.Fprintf(j.debug, "[debug] Judge input payload:\n%s\n\n", payload)
	}

	raw, err := j.client.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: judgeSystemPrompt},
			{Role: llm.RoleUser, Content: payload},
		},
		MaxTokens:   judgeMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("judge request failed: %w", err)
	}

	return ParseAssessment(raw), nil
}

// buildJudgePayload concatenates the three labeled sections in their fixed
// order: request context, storyteller prompt, story.
func buildJudgePayload(story, requestContext, storytellerPrompt string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Story request/context: %s\n\n", requestContext)
	fmt.Fprintf(&sb, "Storyteller prompt that produced the story:\n%s\n\n", storytellerPrompt)
	fmt.Fprintf(&sb, "Story:\n%s", story)
	return sb.String()
}
