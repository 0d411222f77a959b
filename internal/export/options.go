package export

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Format is an export target format.
type Format string

const (
	FormatTXT      Format = "txt"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
)

// Page number positions.
const (
	PageNumberBottomCenter = "bottom-center"
	PageNumberBottomRight  = "bottom-right"
	PageNumberTopRight     = "top-right"
)

// Options mirrors the export dialog: one struct for all formats, with the
// page-layout fields ignored by the flat text formats.
type Options struct {
	Format       Format `json:"format"`
	DocumentName string `json:"document_name"`

	IncludeHeaders bool   `json:"include_headers"`
	HeaderText     string `json:"header_text"`
	IncludeFooters bool   `json:"include_footers"`
	FooterText     string `json:"footer_text"`

	IncludeWatermark bool    `json:"include_watermark"`
	WatermarkText    string  `json:"watermark_text"`
	WatermarkOpacity float64 `json:"watermark_opacity"`

	PageSize    string `json:"page_size"`   // "a4", "letter", "legal"
	Orientation string `json:"orientation"` // "portrait", "landscape"
	Margins     string `json:"margins"`     // "normal", "narrow", "wide"

	FontSize   int    `json:"font_size"`
	FontFamily string `json:"font_family"` // "helvetica", "times", "courier"

	IncludePageNumbers bool   `json:"include_page_numbers"`
	PageNumberPosition string `json:"page_number_position"`
}

// DefaultOptions returns the options the export dialog opens with.
func DefaultOptions(documentName string) Options {
	return Options{
		Format:             FormatPDF,
		DocumentName:       documentName,
		HeaderText:         documentName,
		FooterText:         "Page {page} of {total}",
		WatermarkText:      "CONFIDENTIAL",
		WatermarkOpacity:   0.1,
		PageSize:           "a4",
		Orientation:        "portrait",
		Margins:            "normal",
		FontSize:           12,
		FontFamily:         "helvetica",
		IncludePageNumbers: true,
		PageNumberPosition: PageNumberBottomCenter,
	}
}

// Validate checks option values against the supported sets.
func (o Options) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Format, validation.Required,
			validation.In(FormatTXT, FormatMarkdown, FormatHTML, FormatPDF)),
		validation.Field(&o.DocumentName, validation.Required, validation.RuneLength(1, 255)),
		validation.Field(&o.PageSize, validation.In("a4", "letter", "legal")),
		validation.Field(&o.Orientation, validation.In("portrait", "landscape")),
		validation.Field(&o.Margins, validation.In("normal", "narrow", "wide")),
		validation.Field(&o.FontSize, validation.Min(6), validation.Max(72)),
		validation.Field(&o.FontFamily, validation.In("helvetica", "times", "courier")),
		validation.Field(&o.WatermarkOpacity, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&o.PageNumberPosition,
			validation.In(PageNumberBottomCenter, PageNumberBottomRight, PageNumberTopRight)),
	)
}

// Margin is a page margin set in millimeters.
type Margin struct {
	Left, Right, Top, Bottom float64
}

// marginPresets maps the dialog's margin choices to millimeter values.
var marginPresets = map[string]Margin{
	"normal": {Left: 25, Right: 25, Top: 25, Bottom: 25},
	"narrow": {Left: 12, Right: 12, Top: 12, Bottom: 12},
	"wide":   {Left: 40, Right: 40, Top: 40, Bottom: 40},
}

// MarginValues resolves the margin preset, defaulting to normal.
func (o Options) MarginValues() Margin {
	if m, ok := marginPresets[o.Margins]; ok {
		return m
	}
	return marginPresets["normal"]
}
