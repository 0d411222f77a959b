package config

const (
	// MaxMessageLength is the maximum length for a single chat message.
	// Long prompts past this point blow up completion-API token budgets
	// without improving answers.
	MaxMessageLength = 32_000

	// MaxDocumentContextLength is the maximum length of document content
	// attached to a chat turn as context. Requests carrying more are
	// rejected with a validation error.
	MaxDocumentContextLength = 100_000

	// MaxExportContentLength is the maximum content size accepted by the
	// export endpoints. Export rendering is synchronous CPU work; this
	// bounds a single request.
	MaxExportContentLength = 2_000_000

	// MaxImportFileSize is the maximum size of a single uploaded file on
	// the import endpoint.
	MaxImportFileSize = 10 << 20
)
