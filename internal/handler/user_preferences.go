package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"papermorph/internal/domain"
	"papermorph/internal/domain/models"
	"papermorph/internal/domain/services"
	"papermorph/internal/httputil"
)

// UserPreferencesHandler handles user preferences HTTP requests
type UserPreferencesHandler struct {
	service services.UserPreferencesService
	logger  *slog.Logger
}

// NewUserPreferencesHandler creates a new user preferences handler
func NewUserPreferencesHandler(service services.UserPreferencesService, logger *slog.Logger) *UserPreferencesHandler {
	return &UserPreferencesHandler{
		service: service,
		logger:  logger,
	}
}

// updatePreferencesBody is the wire shape of a preferences PATCH. The
// system_instructions field needs tri-state handling (absent / null /
// value), so it comes in as an OptionalString and is mapped onto the
// domain request.
type updatePreferencesBody struct {
	UI                 *models.UIPreferences        `json:"ui"`
	Editor             *models.EditorPreferences    `json:"editor"`
	Export             *models.ExportPreferences    `json:"export"`
	Assistant          *models.AssistantPreferences `json:"assistant"`
	SystemInstructions httputil.OptionalString      `json:"system_instructions"`
}

// GetPreferences retrieves the requesting user's preferences. Anonymous
// requests get the defaults.
// GET /api/users/me/preferences
func (h *UserPreferencesHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	prefs, err := h.service.GetPreferences(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, prefs)
}

// UpdatePreferences applies a partial preferences update. Saving requires a
// signed-in user; anonymous requests get 401.
// PATCH /api/users/me/preferences
func (h *UserPreferencesHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}
	if userID == uuid.Nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Sign in to save preferences")
		return
	}

	var body updatePreferencesBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req := &models.UpdatePreferencesRequest{
		UI:        body.UI,
		Editor:    body.Editor,
		Export:    body.Export,
		Assistant: body.Assistant,
		SystemInstructions: models.OptionalSystemInstructions{
			Present: body.SystemInstructions.Present,
			Value:   body.SystemInstructions.Value,
		},
	}

	prefs, err := h.service.UpdatePreferences(r.Context(), userID, req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, prefs)
}

// requestUserID resolves the authenticated user, uuid.Nil for anonymous.
func requestUserID(r *http.Request) (uuid.UUID, error) {
	raw := httputil.GetUserID(r)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &domain.ValidationError{Message: "invalid user ID format"}
	}
	return id, nil
}
