package handler

import (
	"io"
	"log/slog"
	"net/http"

	"papermorph/internal/config"
	"papermorph/internal/httputil"
	"papermorph/internal/importer"
)

// ImportHandler handles document import HTTP requests.
type ImportHandler struct {
	service *importer.Service
	logger  *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(service *importer.Service, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		service: service,
		logger:  logger,
	}
}

// Import accepts one uploaded file in the "file" multipart field and returns
// the converted document.
// POST /api/import
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	// Cap the whole form slightly above the single-file limit so the
	// importer's own size check produces the 413, with a useful message.
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxImportFileSize+(1<<20))

	if err := r.ParseMultipartForm(config.MaxImportFileSize); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	doc, err := h.service.Import(header.Filename, data)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}
