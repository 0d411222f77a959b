package export

import (
	"fmt"
	"strings"

	"papermorph/internal/format"
)

// HTMLExporter wraps the document content in a standalone HTML page with
// optional header, footer, and a CSS watermark rendered via a fixed
// ::before pseudo-element.
type HTMLExporter struct{}

func (e *HTMLExporter) Format() Format { return FormatHTML }

func (e *HTMLExporter) Export(content string, opts Options) (*Result, error) {
	// The exported page is opened outside the editor, so executable content
	// must not survive into it.
	content = format.SanitizeHTML(content)

	var watermarkCSS string
	if opts.IncludeWatermark && opts.WatermarkText != "" {
		watermarkCSS = fmt.Sprintf(
			"body::before { content: '%s'; position: fixed; top: 50%%; left: 50%%; transform: translate(-50%%, -50%%) rotate(-45deg); font-size: 100px; opacity: %g; pointer-events: none; }",
			escapeCSSString(opts.WatermarkText), opts.WatermarkOpacity)
	}

	var header string
	if opts.IncludeHeaders && opts.HeaderText != "" {
		header = fmt.Sprintf(
			`  <header style="border-bottom: 1px solid #ccc; padding-bottom: 10px; margin-bottom: 20px;">%s</header>`+"\n",
			opts.HeaderText)
	}

	var footer string
	if opts.IncludeFooters && opts.FooterText != "" {
		footer = fmt.Sprintf(
			"\n"+`  <footer style="border-top: 1px solid #ccc; padding-top: 10px; margin-top: 20px;">%s</footer>`,
			opts.FooterText)
	}

	page := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>%s</title>
  <style>
    body { font-family: %s, sans-serif; font-size: %dpx; max-width: 800px; margin: 40px auto; padding: 20px; }
    %s
  </style>
</head>
<body>
%s  <main>%s</main>%s
</body>
</html>`,
		opts.DocumentName, opts.FontFamily, opts.FontSize, watermarkCSS,
		header, content, footer)

	return &Result{
		Data:        []byte(page),
		ContentType: "text/html; charset=utf-8",
		Filename:    opts.DocumentName + ".html",
	}, nil
}

// escapeCSSString keeps a user-supplied watermark from closing the CSS
// string literal.
func escapeCSSString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return s
}
