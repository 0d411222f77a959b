// Package assistant implements the document assistant: conversation state,
// request shaping, streamed completion assembly, and response cleanup.
//
// Responses are accumulated silently and revealed atomically: nothing is
// surfaced to the caller until the upstream stream has fully completed. The
// chat never shows a half-written document.
package assistant

import (
	"context"
	"log/slog"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"papermorph/internal/assistant/openrouter"
	"papermorph/internal/assistant/prompt"
	"papermorph/internal/config"
	"papermorph/internal/domain"
	"papermorph/internal/domain/models"
	"papermorph/internal/format"
)

// Completer streams chat completions. Satisfied by *openrouter.Client;
// tests substitute their own.
type Completer interface {
	StreamCompletion(ctx context.Context, req *openrouter.ChatRequest) (<-chan openrouter.StreamEvent, error)
}

// Service owns assistant conversations and the send-message flow.
type Service struct {
	client       Completer
	prompts      *prompt.Registry
	logger       *slog.Logger
	defaultModel string

	mu            sync.RWMutex
	conversations map[uuid.UUID]*models.Conversation
}

// NewService creates an assistant service.
func NewService(client Completer, prompts *prompt.Registry, defaultModel string, logger *slog.Logger) *Service {
	return &Service{
		client:        client,
		prompts:       prompts,
		logger:        logger,
		defaultModel:  defaultModel,
		conversations: make(map[uuid.UUID]*models.Conversation),
	}
}

// CreateConversation starts an empty conversation and returns it.
func (s *Service) CreateConversation() *models.Conversation {
	conv := models.NewConversation()

	s.mu.Lock()
	s.conversations[conv.ID] = conv
	s.mu.Unlock()

	s.logger.Debug("conversation created", "conversation_id", conv.ID)
	return conv.Snapshot()
}

// GetConversation returns a snapshot of the conversation with the given ID.
// The live conversation never leaves the service; callers get a copy they can
// read and marshal while later turns keep appending.
func (s *Service) GetConversation(id uuid.UUID) (*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "conversation not found"}
	}
	return conv.Snapshot(), nil
}

// DeleteConversation removes a conversation and its history.
func (s *Service) DeleteConversation(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return &domain.NotFoundError{Message: "conversation not found"}
	}
	delete(s.conversations, id)
	return nil
}

// ClearMessages empties a conversation's history but keeps the conversation.
func (s *Service) ClearMessages(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return &domain.NotFoundError{Message: "conversation not found"}
	}
	conv.Messages = conv.Messages[:0]
	return nil
}

// SendMessageRequest carries one user turn.
type SendMessageRequest struct {
	Message         string `json:"message"`
	DocumentContext string `json:"document_context"`
	Model           string `json:"model"`

	// SystemInstructions are the user's saved custom instructions,
	// resolved from preferences by the handler.
	SystemInstructions *string `json:"-"`
}

// Validate checks field presence and size limits.
func (r *SendMessageRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Message,
			validation.Required,
			validation.RuneLength(1, config.MaxMessageLength)),
		validation.Field(&r.DocumentContext,
			validation.RuneLength(0, config.MaxDocumentContextLength)),
	)
}

// SendMessageResult is the outcome of one turn. When the upstream request
// fails, IsError is set and AssistantMessage carries the user-facing error
// text; the HTTP layer still returns 200 because the turn itself succeeded.
type SendMessageResult struct {
	UserMessage      models.ChatMessage `json:"user_message"`
	AssistantMessage models.ChatMessage `json:"assistant_message"`
	IsError          bool               `json:"is_error"`

	// CanApply tells the client whether the response is document-shaped
	// content worth offering an apply action for, as opposed to a loose
	// conversational answer.
	CanApply bool `json:"can_apply"`
}

// SendMessage runs one assistant turn: build the system prompt, stream the
// completion to the end, clean the response, and record both messages.
func (s *Service) SendMessage(ctx context.Context, conversationID uuid.UUID, req *SendMessageRequest) (*SendMessageResult, error) {
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	// Snapshot history without holding the lock during the upstream call.
	s.mu.RLock()
	conv, ok := s.conversations[conversationID]
	if !ok {
		s.mu.RUnlock()
		return nil, &domain.NotFoundError{Message: "conversation not found"}
	}
	history := make([]openrouter.Message, 0, len(conv.Messages)+2)
	systemPrompt := s.prompts.BuildSystemPrompt(req.DocumentContext, req.Message, req.SystemInstructions)
	history = append(history, openrouter.Message{Role: models.RoleSystem, Content: systemPrompt})
	for _, msg := range conv.Messages {
		history = append(history, openrouter.Message{Role: msg.Role, Content: msg.Content})
	}
	history = append(history, openrouter.Message{Role: models.RoleUser, Content: req.Message})
	s.mu.RUnlock()

	model := req.Model
	if model == "" {
		model = s.defaultModel
	}

	events, err := s.client.StreamCompletion(ctx, &openrouter.ChatRequest{
		Model:    model,
		Messages: history,
	})
	if err != nil {
		s.logger.Error("completion request failed", "conversation_id", conversationID, "error", err)
		return s.recordFailure(conversationID, req.Message, err)
	}

	// Accumulate the full response before revealing anything.
	var full []byte
	for ev := range events {
		if ev.Err != nil {
			s.logger.Error("completion stream failed", "conversation_id", conversationID, "error", ev.Err)
			return s.recordFailure(conversationID, req.Message, ev.Err)
		}
		full = append(full, ev.Delta...)
	}

	raw := string(full)

	display := CleanDisplay(raw)
	if format.IsHTMLContent(display) {
		display = format.ToReadableText(display)
	}

	// Apply content is what lands in the document: sanitized, then decorated
	// with inline styles so it renders the same regardless of the host
	// stylesheet.
	apply := ExtractApplyContent(raw)
	canApply := format.IsHTMLContent(apply) || format.HasDocumentStructure(apply)
	if format.IsHTMLContent(apply) {
		apply = format.FormatForInsertion(format.SanitizeHTML(apply))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok = s.conversations[conversationID]
	if !ok {
		// Deleted while the request was in flight.
		return nil, &domain.NotFoundError{Message: "conversation not found"}
	}
	userMsg := conv.Append(models.RoleUser, req.Message)
	assistantMsg := conv.AppendMessage(models.ChatMessage{
		Role:         models.RoleAssistant,
		Content:      display,
		ApplyContent: apply,
	})

	s.logger.Info("assistant turn completed",
		"conversation_id", conversationID,
		"model", model,
		"response_chars", len(raw),
	)

	return &SendMessageResult{UserMessage: userMsg, AssistantMessage: assistantMsg, CanApply: canApply}, nil
}

// recordFailure appends the user turn and an error bubble to the
// conversation so the transcript reflects what happened.
func (s *Service) recordFailure(conversationID uuid.UUID, userContent string, cause error) (*SendMessageResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return nil, &domain.NotFoundError{Message: "conversation not found"}
	}

	userMsg := conv.Append(models.RoleUser, userContent)
	assistantMsg := conv.AppendMessage(models.ChatMessage{
		Role:    models.RoleAssistant,
		Content: userFacingMessage(cause),
		IsError: true,
	})

	return &SendMessageResult{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
		IsError:          true,
	}, nil
}
