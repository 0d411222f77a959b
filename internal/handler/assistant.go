package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"papermorph/internal/assistant"
	"papermorph/internal/domain/models"
	"papermorph/internal/domain/services"
	"papermorph/internal/httputil"
)

// AssistantHandler handles conversation and message HTTP requests.
type AssistantHandler struct {
	service     *assistant.Service
	preferences services.UserPreferencesService
	logger      *slog.Logger
}

// NewAssistantHandler creates a new assistant handler. The preferences
// service is optional; without it no custom user instructions are resolved.
func NewAssistantHandler(service *assistant.Service, preferences services.UserPreferencesService, logger *slog.Logger) *AssistantHandler {
	return &AssistantHandler{
		service:     service,
		preferences: preferences,
		logger:      logger,
	}
}

// messagesResponse wraps a conversation's message list.
type messagesResponse struct {
	ConversationID uuid.UUID            `json:"conversation_id"`
	Messages       []models.ChatMessage `json:"messages"`
}

// CreateConversation starts a new conversation.
// POST /api/conversations
func (h *AssistantHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	conv := h.service.CreateConversation()
	httputil.RespondJSON(w, http.StatusCreated, conv)
}

// GetConversation returns a conversation with its full message history.
// GET /api/conversations/{id}
func (h *AssistantHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	conv, err := h.service.GetConversation(id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, conv)
}

// DeleteConversation removes a conversation.
// DELETE /api/conversations/{id}
func (h *AssistantHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	if err := h.service.DeleteConversation(id); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMessages returns the messages of a conversation.
// GET /api/conversations/{id}/messages
func (h *AssistantHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	conv, err := h.service.GetConversation(id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, messagesResponse{
		ConversationID: conv.ID,
		Messages:       conv.Messages,
	})
}

// SendMessage runs one assistant turn. The response carries both the user
// message and the assistant message; upstream failures come back as an
// in-transcript error message with is_error set, not as an HTTP error.
// POST /api/conversations/{id}/messages
func (h *AssistantHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	var req assistant.SendMessageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.SystemInstructions = h.resolveSystemInstructions(r)

	result, err := h.service.SendMessage(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}

// ClearMessages empties a conversation's history.
// DELETE /api/conversations/{id}/messages
func (h *AssistantHandler) ClearMessages(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	if err := h.service.ClearMessages(id); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolveSystemInstructions loads the requesting user's saved custom
// instructions. Anonymous users and lookup failures fall back to none; a
// preferences outage should not block the chat.
func (h *AssistantHandler) resolveSystemInstructions(r *http.Request) *string {
	if h.preferences == nil {
		return nil
	}
	userID, err := uuid.Parse(httputil.GetUserID(r))
	if err != nil || userID == uuid.Nil {
		return nil
	}

	prefs, err := h.preferences.GetPreferences(r.Context(), userID)
	if err != nil {
		h.logger.Warn("failed to load user preferences for chat", "user_id", userID, "error", err)
		return nil
	}
	if instructions := prefs.GetSystemInstructions(); instructions != nil && *instructions != "" {
		return instructions
	}
	return nil
}
