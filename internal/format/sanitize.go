package format

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reScriptBlock  = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	reStyleBlock   = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	reEventHandler = regexp.MustCompile(`(?i)on\w+\s*=\s*["'][^"']*["']`)

	reHTMLTag     = regexp.MustCompile(`<[^>]+>`)
	reBoldMarker  = regexp.MustCompile(`\*\*`)
	reStarMarker  = regexp.MustCompile(`\*`)
	reListMarker  = regexp.MustCompile(`(?m)^[\s>•\-\d.]+`)
	reStructuralA = regexp.MustCompile(`(?i)<h[1-6]`)
	reStructuralB = regexp.MustCompile(`(?i)<table|<ul|<ol|<blockquote`)
	reLetterHead  = regexp.MustCompile(`(?m)^(Subject:|To:|Date:|Dear|Yours)`)
	reMDHeading   = regexp.MustCompile(`(?m)^#+\s`)
)

// SanitizeHTML strips executable content before HTML is applied to the
// document or rendered: <script> blocks, <style> blocks, and inline on*
// event handler attributes, case-insensitively.
//
// This is a regex pass, not a DOM sanitizer. The input is same-origin,
// AI-generated or editor-authored content, never third-party user HTML, so
// structural validation and tag balancing are out of scope. Sanitizing
// already-sanitized content returns it unchanged.
func SanitizeHTML(html string) string {
	if html == "" {
		return ""
	}

	sanitized := reScriptBlock.ReplaceAllString(html, "")
	sanitized = reStyleBlock.ReplaceAllString(sanitized, "")
	sanitized = reEventHandler.ReplaceAllString(sanitized, "")
	return sanitized
}

// IsHTMLContent reports whether the text contains HTML tags.
func IsHTMLContent(text string) bool {
	return reHTMLTag.MatchString(text)
}

// HasDocumentStructure reports whether the text looks like a structured
// document rather than a loose answer: HTML headings, tables, lists or
// blockquotes, letter-style header lines, or markdown headings.
func HasDocumentStructure(text string) bool {
	return reStructuralA.MatchString(text) ||
		reStructuralB.MatchString(text) ||
		reLetterHead.MatchString(text) ||
		reMDHeading.MatchString(text)
}

// ExtractPlainText produces a plain snippet for previews and summaries:
// readable-text conversion with the bold/italic/list markers removed,
// truncated to maxLength with an ellipsis.
func ExtractPlainText(text string, maxLength int) string {
	readable := ToReadableText(text)
	plain := reBoldMarker.ReplaceAllString(readable, "")
	plain = reStarMarker.ReplaceAllString(plain, "")
	plain = reListMarker.ReplaceAllString(plain, "")

	if len(plain) > maxLength {
		// Back up to a rune boundary so the cut never splits a multibyte
		// character.
		cut := maxLength
		for cut > 0 && !utf8.RuneStart(plain[cut]) {
			cut--
		}
		return strings.TrimSpace(plain[:cut]) + "..."
	}
	return plain
}
