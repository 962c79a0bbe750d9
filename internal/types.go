package internal

import "time"

// StoryRequest carries the user-supplied story parameters. Every field is
// optional free text; an empty string means the field was not specified.
type StoryRequest struct {
	CharacterName string `json:"character_name"`
	Length        string `json:"length"`
	Setting       string `json:"setting"`
	Tone          string `json:"tone"`
	Additional    string `json:"additional"`
}

// StoryRun is one completed generate/judge/refine run, as recorded in the
// run-history store.
type StoryRun struct {
	ID                string       `json:"id"`
	Request           StoryRequest `json:"request"`
	StorytellerPrompt string       `json:"storyteller_prompt"`
	DraftStory        string       `json:"draft_story"`
	RefinedStory      string       `json:"refined_story"`
	Model             string       `json:"model"`
	Timestamp         time.Time    `json:"timestamp"`
}
