package handler

import (
	"log/slog"
	"net/http"

	"papermorph/internal/httputil"
	"papermorph/internal/template"
)

// TemplatesHandler serves the built-in template catalog.
type TemplatesHandler struct {
	registry *template.Registry
	logger   *slog.Logger
}

// NewTemplatesHandler creates a new templates handler
func NewTemplatesHandler(registry *template.Registry, logger *slog.Logger) *TemplatesHandler {
	return &TemplatesHandler{
		registry: registry,
		logger:   logger,
	}
}

// templatesResponse wraps a template listing with the available categories
// so the picker can build its filter bar from one request.
type templatesResponse struct {
	Templates  []template.Template `json:"templates"`
	Categories []string            `json:"categories"`
}

// List returns templates, optionally filtered.
// GET /api/templates?q=...&category=...
func (h *TemplatesHandler) List(w http.ResponseWriter, r *http.Request) {
	var templates []template.Template
	switch {
	case r.URL.Query().Get("category") != "":
		templates = h.registry.ByCategory(r.URL.Query().Get("category"))
	default:
		templates = h.registry.Search(r.URL.Query().Get("q"))
	}

	if templates == nil {
		templates = []template.Template{}
	}

	httputil.RespondJSON(w, http.StatusOK, templatesResponse{
		Templates:  templates,
		Categories: h.registry.Categories(),
	})
}

// Get returns one template by ID.
// GET /api/templates/{id}
func (h *TemplatesHandler) Get(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.registry.Get(r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, tpl)
}
