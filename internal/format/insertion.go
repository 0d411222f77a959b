package format

import (
	"regexp"
	"strings"
)

// Insertion formatting decorates externally produced HTML with explicit
// inline styles so it renders the same once pasted into a content-editable
// surface, regardless of the host stylesheet. Tags are never removed and
// content is never touched; the pass only adds style declarations.

var (
	// The optional-attribute group requires leading whitespace so short tag
	// names never match longer ones (<s> vs <strong>, <th> vs <thead>).
	reUnderlineTag = regexp.MustCompile(`(?i)<u(\s[^>]*)?>`)
	reStrikeTag    = regexp.MustCompile(`(?i)<s(\s[^>]*)?>`)
	reEmTag        = regexp.MustCompile(`(?i)<em(\s[^>]*)?>`)
	reStrongTag    = regexp.MustCompile(`(?i)<strong(\s[^>]*)?>`)
	rePTag         = regexp.MustCompile(`(?i)<p(\s[^>]*)?>`)
	reTableTag     = regexp.MustCompile(`(?i)<table(\s[^>]*)?>`)
	reTDTag        = regexp.MustCompile(`(?i)<td(\s[^>]*)?>`)
	reTHTag        = regexp.MustCompile(`(?i)<th(\s[^>]*)?>`)
	reDivTag       = regexp.MustCompile(`(?i)<div(\s[^>]*)?>`)
	reBRTag        = regexp.MustCompile(`(?i)<br(\s[^>]*)?/?>`)

	reStyleAttr = regexp.MustCompile(`style="([^"]*)"`)
)

// FormatForInsertion injects inline styles into the given HTML so that
// spacing, table borders, and text decorations survive insertion into the
// editor. Rules fall into two groups:
//
//   - single-purpose wrappers (<u>, <s>, <em>, <strong>, <br>) always get
//     their one defining declaration, replacing any existing attributes;
//   - container tags (<p>, <div>, <table>, <td>, <th>) only gain styles
//     they do not already carry, so an author's own spacing is preserved.
//
// The add-if-absent rules are idempotent: running the pass again over its
// own output changes nothing for those tags.
func FormatForInsertion(html string) string {
	if html == "" {
		return ""
	}

	formatted := html

	// Single-purpose wrappers: the tag has exactly one visual meaning, so
	// any pre-existing attributes are dropped in favor of the declaration.
	formatted = reUnderlineTag.ReplaceAllString(formatted, `<u style="text-decoration: underline;">`)
	formatted = reStrikeTag.ReplaceAllString(formatted, `<s style="text-decoration: line-through;">`)
	formatted = reEmTag.ReplaceAllString(formatted, `<em style="font-style: italic;">`)
	formatted = reStrongTag.ReplaceAllString(formatted, `<strong style="font-weight: bold;">`)

	// Paragraphs: guarantee spacing, merging into an existing style
	// attribute when it lacks margin and line-height.
	formatted = rePTag.ReplaceAllStringFunc(formatted, func(match string) string {
		attrs := rePTag.FindStringSubmatch(match)[1]
		return mergeBlockStyle("p", match, attrs, "margin: 1em 0; line-height: 1.6;")
	})

	// Tables: styled only when the author left them bare. An existing
	// style attribute is trusted as-is, no merging.
	formatted = reTableTag.ReplaceAllStringFunc(formatted, func(match string) string {
		attrs := reTableTag.FindStringSubmatch(match)[1]
		if strings.Contains(attrs, "style") {
			return match
		}
		return `<table` + attrs + ` style="border-collapse: collapse; width: 100%; margin: 1em 0; border: 1px solid #ccc;">`
	})

	formatted = reTDTag.ReplaceAllStringFunc(formatted, func(match string) string {
		attrs := reTDTag.FindStringSubmatch(match)[1]
		if strings.Contains(attrs, "style") {
			return match
		}
		return `<td` + attrs + ` style="border: 1px solid #ccc; padding: 8px; vertical-align: top;">`
	})

	formatted = reTHTag.ReplaceAllStringFunc(formatted, func(match string) string {
		attrs := reTHTag.FindStringSubmatch(match)[1]
		if strings.Contains(attrs, "style") {
			return match
		}
		return `<th` + attrs + ` style="border: 1px solid #ccc; padding: 8px; vertical-align: top; font-weight: bold; background-color: #f5f5f5;">`
	})

	// Divs: ensure vertical spacing, merging when a style attribute exists
	// without a margin declaration.
	formatted = reDivTag.ReplaceAllStringFunc(formatted, func(match string) string {
		attrs := reDivTag.FindStringSubmatch(match)[1]
		if strings.Contains(attrs, "style") {
			if !strings.Contains(attrs, "margin") {
				return `<div` + reStyleAttr.ReplaceAllString(attrs, `style="$1; margin: 0.5em 0;"`) + `>`
			}
			return match
		}
		return `<div` + attrs + ` style="margin: 0.5em 0;">`
	})

	// Line breaks collapse to nothing without an explicit line-height.
	formatted = reBRTag.ReplaceAllString(formatted, `<br style="line-height: 1.6;">`)

	return formatted
}

// mergeBlockStyle appends the wanted declarations to a block tag unless the
// existing style attribute already carries margin or line-height.
func mergeBlockStyle(tag, match, attrs, declarations string) string {
	if strings.Contains(attrs, "style") {
		m := reStyleAttr.FindStringSubmatch(attrs)
		if m != nil && !strings.Contains(m[1], "margin") && !strings.Contains(m[1], "line-height") {
			return "<" + tag + reStyleAttr.ReplaceAllString(attrs, `style="$1; `+declarations+`"`) + ">"
		}
		return match
	}
	return "<" + tag + attrs + ` style="` + declarations + `">`
}
