// Package pipeline drives one story run through its four stages in strict
// sequence: build the storyteller prompt, generate a draft, judge it, and
// refine it. There is no branching, no retry, and no second judging pass.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/valpere/bedtale/internal"
	"github.com/valpere/bedtale/internal/judge"
	"github.com/valpere/bedtale/internal/prompt"
	"github.com/valpere/bedtale/internal/refiner"
	"github.com/valpere/bedtale/internal/storyteller"
)

// Config carries pipeline options. Debug may be nil; when set, intermediate
// artifacts (assembled prompt, draft story, rendered assessment) are written
// to it as the run progresses.
type Config struct {
	Debug io.Writer
}

// Pipeline sequences the storyteller, judge, and refiner over one request.
type Pipeline struct {
	teller  storyteller.Storyteller
	judge   judge.Judge
	refiner refiner.Refiner
	debug   io.Writer
}

// Result holds every artifact of a completed run.
type Result struct {
	Request           internal.StoryRequest
	StorytellerPrompt string
	RequestContext    string
	DraftStory        string
	Assessment        *judge.Assessment
	RefinedStory      string
}

// New creates a Pipeline from its three stages.
func New(teller storyteller.Storyteller, j judge.Judge, r refiner.Refiner, cfg Config) *Pipeline {
	return &Pipeline{
		teller:  teller,
		judge:   j,
		refiner: r,
		debug:   cfg.Debug,
	}
}

// Run executes one full generate → judge → refine pass. Any stage error is
// fatal and returned as-is apart from a stage label; a judge reply that
// fails to parse is not an error and the run proceeds with the degraded
// assessment. On failure no partial result is returned.
func (p *Pipeline) Run(ctx context.Context, req internal.StoryRequest) (*Result, error) {
	storytellerPrompt := prompt.Build(req)
	requestContext := prompt.ContextSummary(req)
	p.debugf("[debug] Storyteller prompt:\n%s\n\n", storytellerPrompt)

	draft, err := p.teller.Tell(ctx, storytellerPrompt)
	if err != nil {
		return nil, fmt.Errorf("generate stage: %w", err)
	}
	p.debugf("--- Generated story ---\n%s\n\n", draft)

	assessment, err := p.judge.Evaluate(ctx, draft, requestContext, storytellerPrompt)
	if err != nil {
		return nil, fmt.Errorf("judge stage: %w", err)
	}
	p.debugf("--- Judge assessment ---\n%s\n\n", assessment.Render())

	refined, err := p.refiner.Refine(ctx, draft, assessment, storytellerPrompt)
	if err != nil {
		return nil, fmt.Errorf("refine stage: %w", err)
	}

	return &Result{
		Request:           req,
		StorytellerPrompt: storytellerPrompt,
		RequestContext:    requestContext,
		DraftStory:        draft,
		Assessment:        assessment,
		RefinedStory:      refined,
	}, nil
}

func (p *Pipeline) debugf(format string, args ...any) {
	if p.debug != nil {
		fmt.Fprintf(p.debug, format, args...)
	}
}
