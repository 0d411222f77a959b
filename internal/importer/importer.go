// Package importer turns uploaded files into editor-ready documents.
// HTML goes through a two-stage pipeline: sanitize first to strip scripts,
// event handlers, and javascript: URLs, then convert the clean markup to
// markdown. Markdown and plain text uploads skip the conversion and are
// escaped into paragraph markup for the editor instead.
package importer

import (
	"fmt"
	"html"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/microcosm-cc/bluemonday"

	"papermorph/internal/config"
	"papermorph/internal/domain"
	"papermorph/internal/format"
)

// previewLength bounds the plain-text snippet returned with each import.
const previewLength = 200

var reParagraphBreak = regexp.MustCompile(`\n{2,}`)

// Document is the result of an import: the editor loads HTML, the markdown
// rendition feeds the assistant's document context.
type Document struct {
	Name         string `json:"name"`
	HTML         string `json:"html"`
	Markdown     string `json:"markdown"`
	PlainPreview string `json:"plain_preview"`
}

// Service imports uploaded files. Thread-safe for concurrent use.
type Service struct {
	policy    *bluemonday.Policy
	converter *md.Converter
	logger    *slog.Logger
}

// NewService creates an import service with a UGC sanitization policy:
// common formatting survives, scripts and event handlers do not. Data URI
// images are allowed so pasted documents keep their inline images.
func NewService(logger *slog.Logger) *Service {
	policy := bluemonday.UGCPolicy()
	policy.AllowDataURIImages()

	return &Service{
		policy:    policy,
		converter: md.NewConverter("", true, nil),
		logger:    logger,
	}
}

// Import converts an uploaded file into a Document. The format is chosen by
// file extension: .html/.htm are sanitized and converted, .md and .txt are
// taken as-is and escaped into paragraph markup. Anything else is rejected.
func (s *Service) Import(filename string, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, &domain.ValidationError{Message: "uploaded file is empty"}
	}
	if len(data) > config.MaxImportFileSize {
		return nil, &domain.PayloadTooLargeError{
			Message: fmt.Sprintf("file exceeds maximum size of %d bytes", config.MaxImportFileSize),
		}
	}
	if !utf8.Valid(data) {
		return nil, &domain.ValidationError{Message: "uploaded file is not valid UTF-8 text"}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if name == "" {
		name = "Imported Document"
	}

	var doc *Document
	var err error
	switch ext {
	case ".html", ".htm":
		doc, err = s.importHTML(name, string(data))
	case ".md", ".txt":
		doc, err = s.importPlain(name, string(data), ext)
	default:
		return nil, &domain.UnsupportedFormatError{Format: strings.TrimPrefix(ext, ".")}
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Imported document",
		"name", doc.Name,
		"extension", ext,
		"size", len(data),
	)
	return doc, nil
}

// importHTML runs the two-stage pipeline: sanitize, then convert to markdown.
func (s *Service) importHTML(name, raw string) (*Document, error) {
	sanitized := s.policy.Sanitize(raw)

	markdown, err := s.converter.ConvertString(sanitized)
	if err != nil {
		return nil, fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}

	return &Document{
		Name:         name,
		HTML:         sanitized,
		Markdown:     markdown,
		PlainPreview: format.ExtractPlainText(sanitized, previewLength),
	}, nil
}

// importPlain wraps text content in paragraph markup for the editor. The raw
// text doubles as the markdown rendition.
func (s *Service) importPlain(name, raw, ext string) (*Document, error) {
	html := plainToHTML(raw)
	markdown := raw
	if ext == ".txt" {
		markdown = strings.TrimSpace(raw)
	}

	return &Document{
		Name:         name,
		HTML:         html,
		Markdown:     markdown,
		PlainPreview: format.ExtractPlainText(html, previewLength),
	}, nil
}

// plainToHTML escapes text and turns blank-line-separated blocks into
// paragraphs, with single newlines kept as <br> inside a paragraph.
func plainToHTML(text string) string {
	var b strings.Builder
	for _, block := range reParagraphBreak.Split(strings.TrimSpace(text), -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		escaped := html.EscapeString(block)
		escaped = strings.ReplaceAll(escaped, "\n", "<br>")
		b.WriteString("<p>")
		b.WriteString(escaped)
		b.WriteString("</p>")
	}
	return b.String()
}
