package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// nbAlias stands in for the total page count until gofpdf substitutes the
// real number at output time.
const nbAlias = "{nb}"

// PDFExporter renders a paginated PDF: manual line layout within the margin
// box, per-page watermark, header and footer rules, and page numbers with
// {page}/{total} substitution in the footer text.
type PDFExporter struct{}

func (e *PDFExporter) Format() Format { return FormatPDF }

// fontName maps the dialog's font choices to gofpdf core font names.
func fontName(family string) string {
	switch family {
	case "times":
		return "Times"
	case "courier":
		return "Courier"
	default:
		return "Helvetica"
	}
}

func pageSizeName(size string) string {
	switch size {
	case "letter":
		return "Letter"
	case "legal":
		return "Legal"
	default:
		return "A4"
	}
}

func orientationCode(orientation string) string {
	if orientation == "landscape" {
		return "L"
	}
	return "P"
}

func (e *PDFExporter) Export(content string, opts Options) (*Result, error) {
	pdf := gofpdf.New(orientationCode(opts.Orientation), "mm", pageSizeName(opts.PageSize), "")
	pdf.AliasNbPages(nbAlias)
	pdf.SetAutoPageBreak(false, 0)

	pageWidth, pageHeight := pdf.GetPageSize()
	margin := opts.MarginValues()
	font := fontName(opts.FontFamily)
	fontSize := float64(opts.FontSize)

	// Per-page decorations run on every AddPage. Body drawing restores its
	// own font and color afterwards.
	pdf.SetHeaderFunc(func() {
		if opts.IncludeWatermark && opts.WatermarkText != "" {
			pdf.SetFont(font, "", 60)
			pdf.SetTextColor(200, 200, 200)
			textWidth := pdf.GetStringWidth(opts.WatermarkText)
			pdf.TransformBegin()
			pdf.TransformRotate(45, pageWidth/2, pageHeight/2)
			pdf.Text(pageWidth/2-textWidth/2, pageHeight/2, opts.WatermarkText)
			pdf.TransformEnd()
		}

		pdf.SetFont(font, "", 10)
		pdf.SetTextColor(128, 128, 128)

		if opts.IncludeHeaders && opts.HeaderText != "" {
			pdf.Text(margin.Left, 15, opts.HeaderText)
			pdf.Line(margin.Left, 18, pageWidth-margin.Right, 18)
		}

		if opts.IncludePageNumbers && opts.PageNumberPosition == PageNumberTopRight {
			pageText := fmt.Sprintf("%d / %s", pdf.PageNo(), nbAlias)
			pdf.Text(pageWidth-margin.Right-pdf.GetStringWidth(pageText), 15, pageText)
		}

		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont(font, "", fontSize)
	})

	pdf.SetFooterFunc(func() {
		pdf.SetFont(font, "", 10)
		pdf.SetTextColor(128, 128, 128)

		if opts.IncludeFooters && opts.FooterText != "" {
			pdf.Line(margin.Left, pageHeight-18, pageWidth-margin.Right, pageHeight-18)
			footerText := strings.ReplaceAll(opts.FooterText, "{page}", strconv.Itoa(pdf.PageNo()))
			footerText = strings.ReplaceAll(footerText, "{total}", nbAlias)
			pdf.Text(margin.Left, pageHeight-10, footerText)
		}

		if opts.IncludePageNumbers {
			pageText := fmt.Sprintf("%d / %s", pdf.PageNo(), nbAlias)
			switch opts.PageNumberPosition {
			case PageNumberBottomRight:
				pdf.Text(pageWidth-margin.Right-pdf.GetStringWidth(pageText), pageHeight-10, pageText)
			case PageNumberBottomCenter:
				pdf.Text(pageWidth/2-pdf.GetStringWidth(pageText)/2, pageHeight-10, pageText)
			}
		}

		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont(font, "", fontSize)
	})

	pdf.SetFont(font, "", fontSize)
	pdf.AddPage()

	// Content box: leave room under the header rule and above the footer.
	contentWidth := pageWidth - margin.Left - margin.Right
	startY := margin.Top
	if opts.IncludeHeaders {
		startY += 10
	}
	endY := pageHeight - margin.Bottom
	if opts.IncludeFooters || opts.IncludePageNumbers {
		endY -= 15
	}

	lines := pdf.SplitText(stripTags(content), contentWidth)
	lineHeight := fontSize * 0.5

	currentY := startY
	for _, line := range lines {
		if currentY+lineHeight > endY {
			pdf.AddPage()
			currentY = startY
		}
		pdf.Text(margin.Left, currentY, line)
		currentY += lineHeight
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	return &Result{
		Data:        buf.Bytes(),
		ContentType: "application/pdf",
		Filename:    opts.DocumentName + ".pdf",
		PageCount:   pdf.PageCount(),
	}, nil
}
