// Package screen cross-references story request fields against a wordlist
// of terms that clash with a gentle bedtime story. Findings are advisory:
// the baseline prompt directives already exclude these themes and the judge
// is the enforcement stage, so a flagged request still runs.
package screen

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/valpere/bedtale/internal"
)

// flaggedTerms are matched as whole words, case-folded.
var flaggedTerms = []string{
	"scary", "fearful", "frightening", "terrifying", "creepy",
	"violent", "violence", "bloody", "gory", "horror",
	"nightmare", "kill", "death", "weapon", "monster",
}

// Finding names a flagged term and the request field it appeared in.
type Finding struct {
	Field string
	Term  string
}

// Screen checks request fields for flagged terms. The case folder is
// stateless; reuse the instance.
type Screen struct {
	folder cases.Caser
}

// New creates a Screen.
func New() *Screen {
	return &Screen{folder: cases.Fold()}
}

// Check returns one Finding per flagged term per field, in field order.
// An empty result means nothing was flagged.
func (s *Screen) Check(req internal.StoryRequest) []Finding {
	fields := []struct {
		name  string
		value string
	}{
		{"character name", req.CharacterName},
		{"length", req.Length},
		{"setting", req.Setting},
		{"tone", req.Tone},
		{"additional instructions", req.Additional},
	}

	var findings []Finding
	for _, f := range fields {
		for _, term := range s.flaggedIn(f.value) {
			findings = append(findings, Finding{Field: f.name, Term: term})
		}
	}
	return findings
}

func (s *Screen) flaggedIn(text string) []string {
	if text == "" {
		return nil
	}

	words := make(map[string]bool)
	folded := s.folder.String(norm.NFC.String(text))
	for _, w := range strings.FieldsFunc(folded, isWordSeparator) {
		words[w] = true
	}

	var hits []string
	for _, term := range flaggedTerms {
		if words[term] {
			hits = append(hits, term)
		}
	}
	return hits
}

func isWordSeparator(r rune) bool {
	return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9' || r > 127)
}
