// Package export renders editor documents to downloadable files. Each format
// is its own Exporter; the Manager validates options and dispatches.
package export

import (
	"fmt"
	"log/slog"
	"regexp"

	"papermorph/internal/config"
	"papermorph/internal/domain"
)

// Result is a rendered export ready to send to the client.
type Result struct {
	Data        []byte
	ContentType string
	Filename    string

	// PageCount is set by paginating exporters (PDF), zero otherwise.
	PageCount int
}

// Exporter renders document content in one format.
type Exporter interface {
	Format() Format
	Export(content string, opts Options) (*Result, error)
}

// Manager dispatches export requests to the registered exporters.
type Manager struct {
	exporters map[Format]Exporter
	logger    *slog.Logger
}

// NewManager creates a manager with all built-in exporters registered.
func NewManager(logger *slog.Logger) *Manager {
	m := &Manager{
		exporters: make(map[Format]Exporter),
		logger:    logger,
	}
	m.register(&TextExporter{})
	m.register(&MarkdownExporter{})
	m.register(&HTMLExporter{})
	m.register(&PDFExporter{})
	return m
}

func (m *Manager) register(e Exporter) {
	m.exporters[e.Format()] = e
}

// Export validates the options and renders the content in the requested
// format.
func (m *Manager) Export(content string, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}
	if len(content) > config.MaxExportContentLength {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("content exceeds maximum export size of %d bytes", config.MaxExportContentLength),
		}
	}

	exporter, ok := m.exporters[opts.Format]
	if !ok {
		return nil, &domain.UnsupportedFormatError{Format: string(opts.Format)}
	}

	result, err := exporter.Export(content, opts)
	if err != nil {
		return nil, fmt.Errorf("export as %s: %w", opts.Format, err)
	}

	m.logger.Info("document exported",
		"format", opts.Format,
		"document", opts.DocumentName,
		"bytes", len(result.Data),
		"pages", result.PageCount,
	)
	return result, nil
}

// reTag strips any HTML tag; the flat formats and the PDF body use it.
var reTag = regexp.MustCompile(`<[^>]*>`)

func stripTags(content string) string {
	return reTag.ReplaceAllString(content, "")
}
