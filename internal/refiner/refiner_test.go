package refiner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/valpere/bedtale/internal/judge"
	"github.com/valpere/bedtale/internal/llm"
)

type mockClient struct {
	completeFunc func(ctx context.Context, req llm.CompletionRequest) (string, error)
	lastReq      llm.CompletionRequest
	calls        int
}

func (m *mockClient) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	m.calls++
	m.lastReq = req
	if m.completeFunc != nil {
		return m.completeFunc(ctx, req)
	}
	return "A revised story.", nil
}

func structuredAssessment() *judge.Assessment {
	score := 7
	return &judge.Assessment{
		SafetyOK:      false,
		SafetyIssues:  []string{"a loud storm scene", "a growling wolf"},
		QualityScore:  &score,
		Justification: "clear and warm",
		Suggestions:   []string{"add more sensory detail", "soften the ending"},
	}
}

func TestBuildRevisionPrompt_StructuredAssessment(t *testing.T) {
	p := buildRevisionPrompt("ORIGINAL STORY", structuredAssessment(), "STORYTELLER PROMPT")

	if !strings.Contains(p, "STORYTELLER PROMPT") {
		t.Error("expected storyteller prompt restated as context")
	}
	if !strings.Contains(p, "Fix these safety issues: a loud storm scene, a growling wolf.") {
		t.Errorf("expected safety-issues directive:\n%s", p)
	}
	if !strings.Contains(p, "Apply these suggestions:") {
		t.Error("expected suggestions header")
	}
	if !strings.Contains(p, "- add more sensory detail") || !strings.Contains(p, "- soften the ending") {
		t.Error("expected one line per suggestion")
	}
	if !strings.Contains(p, "Target a higher quality score than 7.") {
		t.Error("expected target-score directive")
	}
	if !strings.Contains(p, "Original story:\nORIGINAL STORY") {
		t.Error("expected original story appended verbatim")
	}
	if !strings.HasSuffix(p, "Return only the revised story text.") {
		t.Error("expected output directive as the suffix")
	}
}

func TestBuildRevisionPrompt_FixedDirectivesAlwaysPresent(t *testing.T) {
	for _, a := range []*judge.Assessment{
		structuredAssessment(),
		{RawText: "Looks fine overall."},
	} {
		p := buildRevisionPrompt("STORY", a, "PROMPT")

		for _, directive := range fixedDirectives {
			if !strings.Contains(p, directive) {
				t.Errorf("expected fixed directive %q in prompt:\n%s", directive, p)
			}
		}
	}
}

func TestBuildRevisionPrompt_DegradedAssessment(t *testing.T) {
	p := buildRevisionPrompt("ORIGINAL STORY", &judge.Assessment{RawText: "Looks fine overall."}, "STORYTELLER PROMPT")

	if strings.Contains(p, "Fix these safety issues") {
		t.Error("unexpected safety-issues directive for degraded assessment")
	}
	if strings.Contains(p, "Apply these suggestions") {
		t.Error("unexpected suggestions directive for degraded assessment")
	}
	if strings.Contains(p, "Target a higher quality score") {
		t.Error("unexpected target-score directive for degraded assessment")
	}
	if !strings.Contains(p, "Original story:\nORIGINAL STORY") {
		t.Error("expected original story even for degraded assessment")
	}
}

func TestBuildRevisionPrompt_EmptyStructuredFields(t *testing.T) {
	// Structured but empty: no conditional directives either.
	p := buildRevisionPrompt("STORY", &judge.Assessment{}, "PROMPT")

	if strings.Contains(p, "Fix these safety issues") ||
		strings.Contains(p, "Apply these suggestions") ||
		strings.Contains(p, "Target a higher quality score") {
		t.Errorf("unexpected conditional directive for empty assessment:\n%s", p)
	}
}

func TestLLMRefiner_Refine_RequestShape(t *testing.T) {
	client := &mockClient{}
	r := NewLLMRefiner(client)

	got, err := r.Refine(context.Background(), "STORY", structuredAssessment(), "PROMPT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "A revised story." {
		t.Errorf("expected verbatim revision, got %q", got)
	}

	req := client.lastReq
	if len(req.Messages) != 1 || req.Messages[0].Role != llm.RoleUser {
		t.Fatalf("expected a single user message, got %+v", req.Messages)
	}
	if req.MaxTokens != 3000 {
		t.Errorf("expected max tokens 3000, got %d", req.MaxTokens)
	}
	if req.Temperature != 0.5 {
		t.Errorf("expected temperature 0.5, got %v", req.Temperature)
	}
	if client.calls != 1 {
		t.Errorf("expected exactly one request, got %d", client.calls)
	}
}

func TestLLMRefiner_Refine_DegradedAssessment(t *testing.T) {
	client := &mockClient{}
	r := NewLLMRefiner(client)

	_, err := r.Refine(context.Background(), "STORY", &judge.Assessment{RawText: "not json"}, "PROMPT")
	if err != nil {
		t.Errorf("expected degraded assessment to be tolerated, got %v", err)
	}
}

func TestLLMRefiner_Refine_Error(t *testing.T) {
	client := &mockClient{
		completeFunc: func(ctx context.Context, req llm.CompletionRequest) (string, error) {
			return "", &llm.TransportError{Err: errors.New("connection refused")}
		},
	}
	r := NewLLMRefiner(client)

	_, err := r.Refine(context.Background(), "STORY", structuredAssessment(), "PROMPT")

	var transportErr *llm.TransportError
	if !errors.As(err, &transportErr) {
		t.Errorf("expected transport error to propagate, got %v", err)
	}
}

func TestRefinerInterface(t *testing.T) {
	var _ Refiner = (*LLMRefiner)(nil)
}
