package assistant

import (
	"regexp"
	"strings"
)

// Response cleanup. Models routinely wrap the requested content in planning
// preambles ("Okay, let me start...") and trailing commentary ("Let me know
// if..."). The heuristics here strip both so the chat shows the content and
// the apply flow inserts only the content.

var (
	reParagraphSplit = regexp.MustCompile(`\n{2,}`)
	reCodeFence      = regexp.MustCompile("```[\\w]*\n?")

	// Planning preambles stripped from apply content. Includes the
	// "here is"-style lead-ins the display keeps for conversational tone.
	rePrefixFiller = regexp.MustCompile(`(?i)^(okay[,\s]|let me |let me start|first\b|i will\b|i'll\b|in the body\b|the format should\b|let me begin\b|here is|here's|so here|let's)`)

	// Planning preambles stripped from display content.
	reAnalysisFiller = regexp.MustCompile(`(?i)^(okay[,\s]|let me |let me start|first\b|i will\b|i'll\b|in the body\b|the format should\b|let me begin\b)`)

	// Trailing commentary stripped from apply content.
	reSuffixFiller = regexp.MustCompile(`(?i)^(please|feel free to|let me know|additionally|also|i hope|you can|this should|does this|would you|hope this|cheers|regards)`)
)

// paragraphs splits text into trimmed, non-empty blank-line-separated blocks.
func paragraphs(text string) []string {
	var out []string
	for _, p := range reParagraphSplit.Split(strings.TrimSpace(text), -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ExtractApplyContent returns the document content of a response: planning
// paragraphs at the start and filler commentary at the end are dropped. If
// stripping would remove everything, the trimmed original is returned so the
// apply button never goes dark on an aggressive match.
func ExtractApplyContent(text string) string {
	if text == "" {
		return text
	}

	cleaned := strings.TrimSpace(text)
	paras := paragraphs(cleaned)

	start := 0
	for start < len(paras) && rePrefixFiller.MatchString(paras[start]) {
		start++
	}

	end := len(paras)
	for end > start && reSuffixFiller.MatchString(paras[end-1]) {
		end--
	}

	if start >= end {
		return cleaned
	}
	return strings.Join(paras[start:end], "\n\n")
}

// CleanDisplay prepares a response for the chat transcript: planning
// paragraphs are dropped from the start and code fence markers removed.
// Unlike ExtractApplyContent it keeps "here is..." lead-ins and trailing
// remarks; those read fine in a conversation.
func CleanDisplay(text string) string {
	if text == "" {
		return text
	}

	cleaned := strings.TrimSpace(text)
	paras := paragraphs(cleaned)

	i := 0
	for i < len(paras) && reAnalysisFiller.MatchString(paras[i]) {
		i++
	}

	result := cleaned
	if i > 0 && i < len(paras) {
		result = strings.Join(paras[i:], "\n\n")
	}

	return strings.TrimSpace(reCodeFence.ReplaceAllString(result, ""))
}
