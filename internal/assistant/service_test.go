package assistant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"papermorph/internal/assistant/openrouter"
	"papermorph/internal/assistant/prompt"
	"papermorph/internal/domain"
)

// fakeCompleter replays canned deltas or fails, recording the last request.
type fakeCompleter struct {
	deltas    []string
	setupErr  error
	streamErr error
	lastReq   *openrouter.ChatRequest
}

func (f *fakeCompleter) StreamCompletion(ctx context.Context, req *openrouter.ChatRequest) (<-chan openrouter.StreamEvent, error) {
	f.lastReq = req
	if f.setupErr != nil {
		return nil, f.setupErr
	}

	ch := make(chan openrouter.StreamEvent, len(f.deltas)+1)
	for _, d := range f.deltas {
		ch <- openrouter.StreamEvent{Delta: d}
	}
	if f.streamErr != nil {
		ch <- openrouter.StreamEvent{Err: f.streamErr}
	}
	close(ch)
	return ch, nil
}

func newTestService(t *testing.T, completer Completer) *Service {
	t.Helper()
	registry, err := prompt.NewRegistry()
	if err != nil {
		t.Fatalf("prompt.NewRegistry() error: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(completer, registry, "test/default-model", logger)
}

func TestConversationLifecycle(t *testing.T) {
	svc := newTestService(t, &fakeCompleter{})

	conv := svc.CreateConversation()
	if conv.ID == uuid.Nil {
		t.Fatal("conversation has no ID")
	}
	if len(conv.Messages) != 0 {
		t.Fatalf("new conversation has %d messages", len(conv.Messages))
	}

	got, err := svc.GetConversation(conv.ID)
	if err != nil {
		t.Fatalf("GetConversation() error: %v", err)
	}
	if got.ID != conv.ID {
		t.Errorf("got conversation %s, want %s", got.ID, conv.ID)
	}

	if err := svc.DeleteConversation(conv.ID); err != nil {
		t.Fatalf("DeleteConversation() error: %v", err)
	}

	if _, err := svc.GetConversation(conv.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetConversation(deleted) error = %v, want not found", err)
	}
	if err := svc.DeleteConversation(conv.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("DeleteConversation(deleted) error = %v, want not found", err)
	}
}

func TestSendMessageAccumulatesAndCleans(t *testing.T) {
	completer := &fakeCompleter{deltas: []string{
		"Okay, let me write that.\n\n",
		"<h1>Quarterly Report</h1>",
		"<p>Revenue grew.</p>",
	}}
	svc := newTestService(t, completer)
	conv := svc.CreateConversation()

	result, err := svc.SendMessage(context.Background(), conv.ID, &SendMessageRequest{
		Message: "write a report on revenue",
	})
	if err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %+v", result)
	}

	// Display content is readable text, not HTML.
	if strings.Contains(result.AssistantMessage.Content, "<h1>") {
		t.Errorf("display content contains HTML: %q", result.AssistantMessage.Content)
	}
	if !strings.Contains(result.AssistantMessage.Content, "**Quarterly Report**") {
		t.Errorf("heading not converted for display: %q", result.AssistantMessage.Content)
	}
	if strings.Contains(result.AssistantMessage.Content, "Okay, let me") {
		t.Errorf("planning preamble leaked into display: %q", result.AssistantMessage.Content)
	}

	// Apply content keeps HTML, decorated for insertion.
	if !strings.Contains(result.AssistantMessage.ApplyContent, "<h1>Quarterly Report</h1>") {
		t.Errorf("apply content lost HTML: %q", result.AssistantMessage.ApplyContent)
	}
	if !strings.Contains(result.AssistantMessage.ApplyContent, `<p style="margin: 1em 0; line-height: 1.6;">`) {
		t.Errorf("apply content paragraph not decorated: %q", result.AssistantMessage.ApplyContent)
	}
	if !result.CanApply {
		t.Error("CanApply = false for document-shaped response")
	}

	// Both turns recorded.
	stored, err := svc.GetConversation(conv.ID)
	if err != nil {
		t.Fatalf("GetConversation() error: %v", err)
	}
	if len(stored.Messages) != 2 {
		t.Fatalf("conversation has %d messages, want 2", len(stored.Messages))
	}
	if stored.Messages[0].Role != "user" || stored.Messages[1].Role != "assistant" {
		t.Errorf("unexpected roles %s/%s", stored.Messages[0].Role, stored.Messages[1].Role)
	}
}

func TestGetConversationSnapshot(t *testing.T) {
	completer := &fakeCompleter{deltas: []string{"reply"}}
	svc := newTestService(t, completer)
	conv := svc.CreateConversation()

	if _, err := svc.SendMessage(context.Background(), conv.ID, &SendMessageRequest{Message: "hi"}); err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}

	before, err := svc.GetConversation(conv.ID)
	if err != nil {
		t.Fatalf("GetConversation() error: %v", err)
	}
	if _, err := svc.SendMessage(context.Background(), conv.ID, &SendMessageRequest{Message: "again"}); err != nil {
		t.Fatalf("second SendMessage() error: %v", err)
	}
	if len(before.Messages) != 2 {
		t.Errorf("earlier snapshot grew to %d messages", len(before.Messages))
	}

	// Callers may not reach the stored history through the snapshot either.
	before.Messages[0].Content = "mutated"
	after, _ := svc.GetConversation(conv.ID)
	if after.Messages[0].Content != "hi" {
		t.Errorf("stored message changed through snapshot: %q", after.Messages[0].Content)
	}
}

func TestConcurrentReadsDuringSendMessage(t *testing.T) {
	completer := &fakeCompleter{deltas: []string{"reply"}}
	svc := newTestService(t, completer)
	conv := svc.CreateConversation()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			if _, err := svc.SendMessage(context.Background(), conv.ID, &SendMessageRequest{Message: "hi"}); err != nil {
				t.Errorf("SendMessage() error: %v", err)
				return
			}
		}
	}()

	// Read and walk the history while turns finalize; the race detector
	// flags any shared slice access.
	for reading := true; reading; {
		select {
		case <-done:
			reading = false
		default:
		}
		got, err := svc.GetConversation(conv.ID)
		if err != nil {
			t.Fatalf("GetConversation() error: %v", err)
		}
		for _, msg := range got.Messages {
			_ = len(msg.Content)
		}
	}

	stored, err := svc.GetConversation(conv.ID)
	if err != nil {
		t.Fatalf("GetConversation() error: %v", err)
	}
	if len(stored.Messages) != 200 {
		t.Errorf("conversation has %d messages, want 200", len(stored.Messages))
	}
}

func TestSendMessageBuildsWireRequest(t *testing.T) {
	completer := &fakeCompleter{deltas: []string{"done"}}
	svc := newTestService(t, completer)
	conv := svc.CreateConversation()

	_, err := svc.SendMessage(context.Background(), conv.ID, &SendMessageRequest{
		Message:         "write a letter to the bank",
		DocumentContext: "<p>Existing draft</p>",
	})
	if err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}

	req := completer.lastReq
	if req.Model != "test/default-model" {
		t.Errorf("model = %q, want default", req.Model)
	}
	if len(req.Messages) != 2 {
		t.Fatalf("wire messages = %d, want system + user", len(req.Messages))
	}
	if req.Messages[0].Role != "system" {
		t.Errorf("first message role = %q", req.Messages[0].Role)
	}
	if !strings.Contains(req.Messages[0].Content, "Existing draft") {
		t.Error("document context missing from system prompt")
	}
	if !strings.Contains(req.Messages[0].Content, "professional letter") {
		t.Error("letter use case instruction missing from system prompt")
	}
	if req.Messages[1].Role != "user" || req.Messages[1].Content != "write a letter to the bank" {
		t.Errorf("user message = %+v", req.Messages[1])
	}

	// Second turn includes history.
	_, err = svc.SendMessage(context.Background(), conv.ID, &SendMessageRequest{Message: "make it shorter"})
	if err != nil {
		t.Fatalf("second SendMessage() error: %v", err)
	}
	if len(completer.lastReq.Messages) != 4 {
		t.Errorf("second turn wire messages = %d, want system + 2 history + user", len(completer.lastReq.Messages))
	}
}

func TestSendMessageModelOverride(t *testing.T) {
	completer := &fakeCompleter{deltas: []string{"ok"}}
	svc := newTestService(t, completer)
	conv := svc.CreateConversation()

	_, err := svc.SendMessage(context.Background(), conv.ID, &SendMessageRequest{
		Message: "hello",
		Model:   "other/model",
	})
	if err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}
	if completer.lastReq.Model != "other/model" {
		t.Errorf("model = %q, want override", completer.lastReq.Model)
	}
}

func TestSendMessageUpstreamFailureBecomesErrorBubble(t *testing.T) {
	completer := &fakeCompleter{setupErr: &openrouter.StatusError{Code: http.StatusTooManyRequests}}
	svc := newTestService(t, completer)
	conv := svc.CreateConversation()

	result, err := svc.SendMessage(context.Background(), conv.ID, &SendMessageRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}
	if !result.IsError || !result.AssistantMessage.IsError {
		t.Fatal("expected error result")
	}
	if result.AssistantMessage.Content != msgRateLimited {
		t.Errorf("error bubble = %q, want %q", result.AssistantMessage.Content, msgRateLimited)
	}

	stored, _ := svc.GetConversation(conv.ID)
	if len(stored.Messages) != 2 {
		t.Fatalf("conversation has %d messages, want user + error bubble", len(stored.Messages))
	}
}

func TestSendMessageMidStreamFailure(t *testing.T) {
	completer := &fakeCompleter{
		deltas:    []string{"partial content"},
		streamErr: errors.New("stream broke"),
	}
	svc := newTestService(t, completer)
	conv := svc.CreateConversation()

	result, err := svc.SendMessage(context.Background(), conv.ID, &SendMessageRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}
	// Nothing partial leaks into the transcript.
	if strings.Contains(result.AssistantMessage.Content, "partial content") {
		t.Errorf("partial stream content revealed: %q", result.AssistantMessage.Content)
	}
}

func TestSendMessageValidation(t *testing.T) {
	svc := newTestService(t, &fakeCompleter{})
	conv := svc.CreateConversation()

	_, err := svc.SendMessage(context.Background(), conv.ID, &SendMessageRequest{Message: ""})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty message error = %v, want validation error", err)
	}

	_, err = svc.SendMessage(context.Background(), uuid.New(), &SendMessageRequest{Message: "hi"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown conversation error = %v, want not found", err)
	}
}

func TestClearMessages(t *testing.T) {
	completer := &fakeCompleter{deltas: []string{"reply"}}
	svc := newTestService(t, completer)
	conv := svc.CreateConversation()

	if _, err := svc.SendMessage(context.Background(), conv.ID, &SendMessageRequest{Message: "hi"}); err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}

	if err := svc.ClearMessages(conv.ID); err != nil {
		t.Fatalf("ClearMessages() error: %v", err)
	}

	stored, _ := svc.GetConversation(conv.ID)
	if len(stored.Messages) != 0 {
		t.Errorf("conversation has %d messages after clear", len(stored.Messages))
	}
}
