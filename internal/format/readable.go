// Package format holds the pure text transformations between the rich HTML
// produced by the editor surface (or the AI backend) and the plain, readable
// representation used for chat display, previews, and exports.
//
// The transformations are deliberately line/regex based rather than built on
// a full HTML parser: input is same-origin editor or AI output, frequently
// malformed, and must never cause an error. Each rule is an independent pure
// function so the ordering contract between them stays auditable.
package format

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule order matters: later rules assume the tags handled by earlier rules
// are already gone (e.g. the generic tag strip must run last).
var (
	reHeading    = regexp.MustCompile(`(?i)<h[1-6][^>]*>([^<]+)</h[1-6]>`)
	reParagraph  = regexp.MustCompile(`(?i)<p(?:\s[^>]*)?>([^<]+)</p>`)
	reLineBreak  = regexp.MustCompile(`(?i)<br(?:\s[^>]*)?/?>`)
	reBold       = regexp.MustCompile(`(?i)<(?:strong|b)(?:\s[^>]*)?>([^<]+)</(?:strong|b)>`)
	reItalic     = regexp.MustCompile(`(?i)<(?:em|i)(?:\s[^>]*)?>([^<]+)</(?:em|i)>`)
	reOrderedBlk = regexp.MustCompile(`(?is)<ol[^>]*>.*?</ol>`)
	reListItem   = regexp.MustCompile(`(?i)<li[^>]*>([^<]+)</li>`)
	reListWrap   = regexp.MustCompile(`(?i)</?(?:ul|ol)[^>]*>`)
	reBlockquote = regexp.MustCompile(`(?i)<blockquote[^>]*>([^<]+)</blockquote>`)
	reTableOpen  = regexp.MustCompile(`(?i)<table[^>]*>`)
	reTableClose = regexp.MustCompile(`(?i)</table>`)
	reTheadOpen  = regexp.MustCompile(`(?i)<thead[^>]*>`)
	reTheadClose = regexp.MustCompile(`(?i)</thead>`)
	reTbodyOpen  = regexp.MustCompile(`(?i)<tbody[^>]*>`)
	reTbodyClose = regexp.MustCompile(`(?i)</tbody>`)
	reRowOpen    = regexp.MustCompile(`(?i)<tr[^>]*>`)
	reRowClose   = regexp.MustCompile(`(?i)</tr>`)
	reCell       = regexp.MustCompile(`(?i)<t[hd][^>]*>([^<]+)</t[hd]>`)
	reAnyTag     = regexp.MustCompile(`<[^>]+>`)

	reExtraNewlines = regexp.MustCompile(`\n\n\n+`)
	reDanglingPipe  = regexp.MustCompile(`\s+\|\s*\n`)
	reTrailingPipe  = regexp.MustCompile(`(?m)\|\s*$`)
)

// ToReadableText converts rich HTML into a compact, chat-friendly plain-text
// representation: headings become bold, lists become bullets or numbers,
// tables become pipe-delimited rows, paragraphs become blank-line separated
// blocks. The conversion is lossy and one-directional.
//
// Malformed HTML never fails; unmatched markup falls through to the generic
// tag strip. Empty input yields an empty string.
func ToReadableText(html string) string {
	if html == "" {
		return ""
	}

	text := html
	text = replaceHeadings(text)
	text = replaceParagraphs(text)
	text = replaceLineBreaks(text)
	text = replaceEmphasis(text)
	text = replaceLists(text)
	text = replaceBlockquotes(text)
	text = replaceTables(text)
	text = stripRemainingTags(text)
	return normalizeWhitespace(text)
}

// replaceHeadings renders every heading level as a bold line. The level
// distinction is dropped on purpose: chat bubbles have no typographic scale.
func replaceHeadings(text string) string {
	return reHeading.ReplaceAllString(text, "\n**$1**\n")
}

func replaceParagraphs(text string) string {
	return reParagraph.ReplaceAllString(text, "$1\n\n")
}

func replaceLineBreaks(text string) string {
	return reLineBreak.ReplaceAllString(text, "\n")
}

func replaceEmphasis(text string) string {
	text = reBold.ReplaceAllString(text, "**$1**")
	return reItalic.ReplaceAllString(text, "*$1*")
}

// replaceLists renders <li> items inside <ol> blocks as numbered lines and
// every remaining <li> as a bullet. The number counter is shared across all
// ordered lists in the input: a second <ol> continues where the first one
// stopped, and nesting is not tracked. Known limitation carried over from
// the editor's chat display; do not reset it per list without a product
// decision.
func replaceLists(text string) string {
	counter := 0
	text = reOrderedBlk.ReplaceAllStringFunc(text, func(block string) string {
		return reListItem.ReplaceAllStringFunc(block, func(item string) string {
			counter++
			m := reListItem.FindStringSubmatch(item)
			return fmt.Sprintf("%d. %s\n", counter, m[1])
		})
	})
	text = reListItem.ReplaceAllString(text, "• $1\n")
	return reListWrap.ReplaceAllString(text, "\n")
}

func replaceBlockquotes(text string) string {
	return reBlockquote.ReplaceAllString(text, "> $1\n")
}

// replaceTables flattens a table into pipe-joined rows with a --- divider
// after the header section. Each cell leaves a trailing " | " that the
// whitespace pass trims at end of row.
func replaceTables(text string) string {
	text = reTableOpen.ReplaceAllString(text, "\n")
	text = reTableClose.ReplaceAllString(text, "\n")
	text = reTheadOpen.ReplaceAllString(text, "")
	text = reTheadClose.ReplaceAllString(text, "\n---\n")
	text = reTbodyOpen.ReplaceAllString(text, "")
	text = reTbodyClose.ReplaceAllString(text, "\n")
	text = reRowOpen.ReplaceAllString(text, "")
	text = reRowClose.ReplaceAllString(text, "\n")
	return reCell.ReplaceAllString(text, "$1 | ")
}

func stripRemainingTags(text string) string {
	return reAnyTag.ReplaceAllString(text, "")
}

// normalizeWhitespace collapses runs of 3+ newlines to exactly 2, strips the
// dangling " | " each table row leaves behind, and trims the result.
func normalizeWhitespace(text string) string {
	text = reExtraNewlines.ReplaceAllString(text, "\n\n")
	text = reDanglingPipe.ReplaceAllString(text, "\n")
	text = reTrailingPipe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
