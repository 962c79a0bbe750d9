package postprocess

import "testing"

func TestClean_PlainJSON(t *testing.T) {
	in := `{"safety_ok": true}`
	if got := Clean(in); got != in {
		t.Errorf("expected unchanged text, got %q", got)
	}
}

func TestClean_CodeFence(t *testing.T) {
	in := "```json\n{\"safety_ok\": true}\n```"
	want := `{"safety_ok": true}`
	if got := Clean(in); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestClean_CodeFenceNoLanguage(t *testing.T) {
	in := "```\n{\"quality_score\": 7}\n```"
	want := `{"quality_score": 7}`
	if got := Clean(in); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestClean_ThinkingBlock(t *testing.T) {
	in := "<think>the story is fine</think>\n{\"safety_ok\": true}"
	want := `{"safety_ok": true}`
	if got := Clean(in); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestClean_ThinkingBlockInsideFence(t *testing.T) {
	in := "<reasoning>checking</reasoning>\n```json\n{\"safety_ok\": false}\n```"
	want := `{"safety_ok": false}`
	if got := Clean(in); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestClean_SurroundingWhitespace(t *testing.T) {
	in := "  \n{\"safety_ok\": true}\n  "
	want := `{"safety_ok": true}`
	if got := Clean(in); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestClean_InternalFenceUntouched(t *testing.T) {
	// A fence in the middle of prose is not a wrapper and must stay.
	in := "The story contains ```magic``` words."
	if got := Clean(in); got != in {
		t.Errorf("expected unchanged text, got %q", got)
	}
}
