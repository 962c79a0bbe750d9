package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/valpere/bedtale/internal"
	"github.com/valpere/bedtale/internal/judge"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRun(id string) internal.StoryRun {
	return internal.StoryRun{
		ID: id,
		Request: internal.StoryRequest{
			CharacterName: "Luna",
			Length:        "short",
			Setting:       "enchanted forest",
			Tone:          "calm and cozy",
			Additional:    "include a talking owl",
		},
		StorytellerPrompt: "You are a storyteller...",
		DraftStory:        "Once upon a time...",
		RefinedStory:      "Once upon a time, softly...",
		Model:             "gpt-3.5-turbo",
		Timestamp:         time.Now(),
	}
}

func structuredAssessment() *judge.Assessment {
	score := 7
	return &judge.Assessment{
		SafetyOK:      true,
		SafetyIssues:  []string{},
		QualityScore:  &score,
		Justification: "clear and warm",
		Suggestions:   []string{"add more sensory detail"},
	}
}

func TestStore_SaveAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveRun(ctx, testRun("run-1"), structuredAssessment()); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	rec, err := s.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}

	if rec.Request.CharacterName != "Luna" {
		t.Errorf("expected character 'Luna', got %q", rec.Request.CharacterName)
	}
	if rec.DraftStory != "Once upon a time..." {
		t.Errorf("unexpected draft story: %q", rec.DraftStory)
	}
	if rec.RefinedStory != "Once upon a time, softly..." {
		t.Errorf("unexpected refined story: %q", rec.RefinedStory)
	}
	if rec.SafetyOK == nil || !*rec.SafetyOK {
		t.Error("expected safety_ok true")
	}
	if rec.QualityScore == nil || *rec.QualityScore != 7 {
		t.Errorf("expected quality score 7, got %v", rec.QualityScore)
	}
	if rec.Justification != "clear and warm" {
		t.Errorf("unexpected justification: %q", rec.Justification)
	}
	if len(rec.Suggestions) != 1 || rec.Suggestions[0] != "add more sensory detail" {
		t.Errorf("unexpected suggestions: %v", rec.Suggestions)
	}
	if rec.AssessmentRaw != "" {
		t.Errorf("unexpected raw assessment: %q", rec.AssessmentRaw)
	}
}

func TestStore_SaveRun_DegradedAssessment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	degraded := &judge.Assessment{RawText: "Looks fine overall."}
	if err := s.SaveRun(ctx, testRun("run-2"), degraded); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	rec, err := s.GetRun(ctx, "run-2")
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}

	if rec.AssessmentRaw != "Looks fine overall." {
		t.Errorf("expected raw assessment preserved, got %q", rec.AssessmentRaw)
	}
	if rec.SafetyOK != nil || rec.QualityScore != nil {
		t.Error("expected typed assessment columns absent for degraded assessment")
	}
}

func TestStore_GetRun_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetRun(context.Background(), "missing"); err == nil {
		t.Error("expected error for unknown run ID")
	}
}

func TestStore_ListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older := testRun("run-old")
	older.Timestamp = time.Now().Add(-time.Hour)
	newer := testRun("run-new")

	if err := s.SaveRun(ctx, older, structuredAssessment()); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	if err := s.SaveRun(ctx, newer, structuredAssessment()); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	runs, err := s.ListRuns(ctx)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-new" || runs[1].ID != "run-old" {
		t.Errorf("expected most recent first, got %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStore_DeleteRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveRun(ctx, testRun("run-del"), nil); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	if err := s.DeleteRun(ctx, "run-del"); err != nil {
		t.Fatalf("failed to delete run: %v", err)
	}
	if _, err := s.GetRun(ctx, "run-del"); err == nil {
		t.Error("expected deleted run to be gone")
	}
}

func TestStore_ClearRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := s.SaveRun(ctx, testRun(id), nil); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
	}

	n, err := s.ClearRuns(ctx)
	if err != nil {
		t.Fatalf("failed to clear runs: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 cleared runs, got %d", n)
	}

	runs, err := s.ListRuns(ctx)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty history, got %d runs", len(runs))
	}
}

func TestStore_Stats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveRun(ctx, testRun("s1"), structuredAssessment()); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	score := 9
	high := &judge.Assessment{SafetyOK: true, QualityScore: &score}
	if err := s.SaveRun(ctx, testRun("s2"), high); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	if err := s.SaveRun(ctx, testRun("s3"), &judge.Assessment{RawText: "unparsed"}); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}

	if stats.TotalRuns != 3 {
		t.Errorf("expected 3 total runs, got %d", stats.TotalRuns)
	}
	if stats.StructuredRuns != 2 {
		t.Errorf("expected 2 structured runs, got %d", stats.StructuredRuns)
	}
	if stats.SafeRuns != 2 {
		t.Errorf("expected 2 safe runs, got %d", stats.SafeRuns)
	}
	if stats.AvgQualityScore != 8 {
		t.Errorf("expected average quality score 8, got %v", stats.AvgQualityScore)
	}
}
