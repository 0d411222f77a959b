package export

import "regexp"

// The markdown conversion is intentionally shallow: heading prefixes for
// h1-h3, emphasis markers, newlines for breaks and paragraphs, and a
// catch-all strip for everything else (including the heading close tags,
// which need no markdown equivalent).
var (
	reMDH1          = regexp.MustCompile(`(?i)<h1[^>]*>`)
	reMDH2          = regexp.MustCompile(`(?i)<h2[^>]*>`)
	reMDH3          = regexp.MustCompile(`(?i)<h3[^>]*>`)
	reMDStrongOpen  = regexp.MustCompile(`(?i)<strong[^>]*>`)
	reMDStrongClose = regexp.MustCompile(`(?i)</strong>`)
	reMDEmOpen      = regexp.MustCompile(`(?i)<em(\s[^>]*)?>`)
	reMDEmClose     = regexp.MustCompile(`(?i)</em>`)
	reMDBreak       = regexp.MustCompile(`(?i)<br[^>]*>`)
	reMDParaOpen    = regexp.MustCompile(`(?i)<p(\s[^>]*)?>`)
	reMDParaClose   = regexp.MustCompile(`(?i)</p>`)
)

// MarkdownExporter renders a lightweight markdown rendition of the document.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Format() Format { return FormatMarkdown }

func (e *MarkdownExporter) Export(content string, opts Options) (*Result, error) {
	md := content
	md = reMDH1.ReplaceAllString(md, "# ")
	md = reMDH2.ReplaceAllString(md, "## ")
	md = reMDH3.ReplaceAllString(md, "### ")
	md = reMDStrongOpen.ReplaceAllString(md, "**")
	md = reMDStrongClose.ReplaceAllString(md, "**")
	md = reMDEmOpen.ReplaceAllString(md, "*")
	md = reMDEmClose.ReplaceAllString(md, "*")
	md = reMDBreak.ReplaceAllString(md, "\n")
	md = reMDParaOpen.ReplaceAllString(md, "\n")
	md = reMDParaClose.ReplaceAllString(md, "\n")
	md = stripTags(md)

	return &Result{
		Data:        []byte(md),
		ContentType: "text/markdown; charset=utf-8",
		Filename:    opts.DocumentName + ".md",
	}, nil
}
