package judge

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/valpere/bedtale/internal/postprocess"
)

// Assessment is the judge's verdict on a story. It is a union of two forms:
// a structured assessment parsed from the judge's JSON reply, or a degraded
// one carrying only RawText when the reply could not be parsed. Consumers
// must check Structured() before reading the typed fields.
type Assessment struct {
	SafetyOK      bool
	SafetyIssues  []string
	QualityScore  *int
	Justification string
	Suggestions   []string

	// RawText holds the judge's verbatim reply when it did not parse as the
	// expected JSON object. Non-empty RawText means every typed field above
	// is absent.
	RawText string
}

// Structured reports whether the typed fields carry the judge's verdict.
func (a *Assessment) Structured() bool {
	return a.RawText == ""
}

// ParseAssessment interprets a judge reply. Markdown fences and thinking
// blocks are stripped before decoding; any text that still fails to decode
// as the expected JSON object yields a degraded Assessment holding the
// reply verbatim. Parsing never fails.
func ParseAssessment(raw string) *Assessment {
	cleaned := postprocess.Clean(raw)

	var wire struct {
		SafetyOK      bool     `json:"safety_ok"`
		SafetyIssues  []string `json:"safety_issues"`
		QualityScore  *int     `json:"quality_score"`
		Justification string   `json:"justification"`
		Suggestions   []string `json:"suggestions"`
	}

	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return &Assessment{RawText: raw}
	}

	return &Assessment{
		SafetyOK:      wire.SafetyOK,
		SafetyIssues:  wire.SafetyIssues,
		QualityScore:  wire.QualityScore,
		Justification: wire.Justification,
		Suggestions:   wire.Suggestions,
	}
}

// Render formats the assessment for human inspection. The degraded form
// renders as the raw reply text.
func (a *Assessment) Render() string {
	if !a.Structured() {
		return a.RawText
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Safety OK: %v\n", a.SafetyOK)
	if len(a.SafetyIssues) > 0 {
		sb.WriteString("Safety issues:\n")
		for _, issue := range a.SafetyIssues {
			fmt.Fprintf(&sb, "- %s\n", issue)
		}
	}
	if a.QualityScore != nil {
		fmt.Fprintf(&sb, "Quality score: %d\n", *a.QualityScore)
	}
	if a.Justification != "" {
		fmt.Fprintf(&sb, "Justification: %s\n", a.Justification)
	}
	if len(a.Suggestions) > 0 {
		sb.WriteString("Suggestions:\n")
		for _, s := range a.Suggestions {
			fmt.Fprintf(&sb, "- %s\n", s)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
