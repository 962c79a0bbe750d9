// Package postprocess removes common LLM artifacts from the judge's
// structured reply before it is parsed as JSON.
//
// Only the judge path uses it: story text returned by the storyteller and
// refiner must reach the caller verbatim.
package postprocess

import (
	"regexp"
	"strings"
)

// Clean prepares a judge reply for JSON parsing in two phases and returns
// the trimmed result:
//  1. Thinking / reasoning block removal
//  2. Markdown code-fence unwrapping
func Clean(text string) string {
	text = removeThinkingBlocks(text)
	text = unwrapCodeFence(text)
	return strings.TrimSpace(text)
}

// --- Phase 1: thinking blocks ---

// thinkingBlockRe matches complete <thinking>…</thinking> style blocks.
// Each tag variant is listed explicitly because Go's RE2 engine does not
// support backreferences.
// Flags: i = case-insensitive, s = dot matches newline.
var thinkingBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>|<reflection>.*?</reflection>`,
)

func removeThinkingBlocks(text string) string {
	return strings.TrimSpace(thinkingBlockRe.ReplaceAllString(text, ""))
}

// --- Phase 2: code fences ---

// fencedRe matches a reply whose entire body is wrapped in a markdown code
// fence, with an optional language tag such as ```json.
var fencedRe = regexp.MustCompile("(?s)^```[a-zA-Z]*[ \\t]*\\n?(.*?)\\n?```$")

// unwrapCodeFence strips a surrounding markdown code fence when the whole
// text is wrapped in one (a common artifact of models asked for JSON).
func unwrapCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if m := fencedRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}
