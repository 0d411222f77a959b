package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"papermorph/internal/export"
	"papermorph/internal/httputil"
)

// ExportHandler handles document export HTTP requests.
type ExportHandler struct {
	manager *export.Manager
	logger  *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(manager *export.Manager, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		manager: manager,
		logger:  logger,
	}
}

// exportRequest carries the document HTML and the rendering options.
type exportRequest struct {
	Content string         `json:"content"`
	Options export.Options `json:"options"`
}

// Export renders the document and returns the file bytes as an attachment.
// POST /api/export
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.manager.Export(req.Content, req.Options)
	if err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	if result.PageCount > 0 {
		w.Header().Set("X-Page-Count", strconv.Itoa(result.PageCount))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(result.Data)
}
