// Package prompt assembles the storyteller instruction from a story request.
// Assembly is pure string work; the directive wording and ordering are a
// contract that downstream stages and tests rely on.
package prompt

import (
	"fmt"
	"strings"

	"github.com/valpere/bedtale/internal"
)

// rolePreamble opens every storyteller prompt.
const rolePreamble = "You are a storyteller telling a story for a child about the age of 5 to 10 years old."

// outputDirective closes every storyteller prompt.
const outputDirective = "Return only the story text without commentary."

// baselineDirectives apply to every story regardless of request fields.
var baselineDirectives = []string{
	"Write a bedtime story for children aged 5-10.",
	"Use simple, kind language with a clear beginning, middle, and warm resolution.",
	"Keep it gentle: avoid violence, fear, or upsetting themes.",
}

// Build assembles the storyteller prompt. The three baseline directives come
// first, then one directive per non-empty request field in the fixed order
// length, character name, setting, tone, additional instructions. Empty
// fields contribute nothing.
func Build(req internal.StoryRequest) string {
	directives := make([]string, 0, len(baselineDirectives)+5)
	directives = append(directives, baselineDirectives...)

	if req.Length != "" {
		directives = append(directives, fmt.Sprintf("Target length: %s.", req.Length))
	}
	if req.CharacterName != "" {
		directives = append(directives, fmt.Sprintf("The main character is named %s.", req.CharacterName))
	}
	if req.Setting != "" {
		directives = append(directives, fmt.Sprintf("Set the story in %s.", req.Setting))
	}
	if req.Tone != "" {
		directives = append(directives, fmt.Sprintf("The tone should feel %s.", req.Tone))
	}
	if req.Additional != "" {
		directives = append(directives, fmt.Sprintf("Additional instructions: %s.", req.Additional))
	}

	directives = append(directives, outputDirective)

	var sb strings.Builder
	sb.WriteString(rolePreamble)
	for _, d := range directives {
		sb.WriteString("\n- ")
		sb.WriteString(d)
	}

	return sb.String()
}

// ContextSummary renders the request as a one-line human-readable summary
// for the judge. Absent fields read "unspecified".
func ContextSummary(req internal.StoryRequest) string {
	return fmt.Sprintf("Character: %s; Length: %s; Setting: %s; Tone: %s; Additional: %s",
		orUnspecified(req.CharacterName),
		orUnspecified(req.Length),
		orUnspecified(req.Setting),
		orUnspecified(req.Tone),
		orUnspecified(req.Additional),
	)
}

func orUnspecified(s string) string {
	if s == "" {
		return "unspecified"
	}
	return s
}
