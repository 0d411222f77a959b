package export

// TextExporter renders plain text: every HTML tag stripped, nothing else
// touched.
type TextExporter struct{}

func (e *TextExporter) Format() Format { return FormatTXT }

func (e *TextExporter) Export(content string, opts Options) (*Result, error) {
	return &Result{
		Data:        []byte(stripTags(content)),
		ContentType: "text/plain; charset=utf-8",
		Filename:    opts.DocumentName + ".txt",
	}, nil
}
