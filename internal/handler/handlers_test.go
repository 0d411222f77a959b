package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"papermorph/internal/assistant"
	"papermorph/internal/assistant/openrouter"
	"papermorph/internal/assistant/prompt"
	"papermorph/internal/domain"
	"papermorph/internal/domain/models"
	"papermorph/internal/export"
	"papermorph/internal/httputil"
	"papermorph/internal/importer"
	"papermorph/internal/template"
)

// fakeCompleter feeds canned deltas into the assistant service.
type fakeCompleter struct {
	deltas []string
}

func (f *fakeCompleter) StreamCompletion(ctx context.Context, req *openrouter.ChatRequest) (<-chan openrouter.StreamEvent, error) {
	ch := make(chan openrouter.StreamEvent, len(f.deltas))
	for _, d := range f.deltas {
		ch <- openrouter.StreamEvent{Delta: d}
	}
	close(ch)
	return ch, nil
}

// fakePreferencesService serves a fixed preferences record.
type fakePreferencesService struct {
	prefs map[uuid.UUID]*models.UserPreferences
}

func (f *fakePreferencesService) GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	if p, ok := f.prefs[userID]; ok {
		return p, nil
	}
	return &models.UserPreferences{UserID: userID, Preferences: models.JSONMap{}}, nil
}

func (f *fakePreferencesService) UpdatePreferences(ctx context.Context, userID uuid.UUID, req *models.UpdatePreferencesRequest) (*models.UserPreferences, error) {
	p := &models.UserPreferences{UserID: userID, Preferences: models.JSONMap{}}
	if req.UI != nil {
		if err := p.SetUI(req.UI); err != nil {
			return nil, err
		}
	}
	if req.SystemInstructions.Present {
		p.SetSystemInstructions(req.SystemInstructions.Value)
	}
	f.prefs[userID] = p
	return p, nil
}

func testMux(t *testing.T, deltas []string) *http.ServeMux {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	promptRegistry, err := prompt.NewRegistry()
	if err != nil {
		t.Fatalf("prompt registry: %v", err)
	}
	templateRegistry, err := template.NewRegistry()
	if err != nil {
		t.Fatalf("template registry: %v", err)
	}

	assistantService := assistant.NewService(&fakeCompleter{deltas: deltas}, promptRegistry, "test/model", logger)
	prefsService := &fakePreferencesService{prefs: map[uuid.UUID]*models.UserPreferences{}}

	assistantHandler := NewAssistantHandler(assistantService, prefsService, logger)
	exportHandler := NewExportHandler(export.NewManager(logger), logger)
	importHandler := NewImportHandler(importer.NewService(logger), logger)
	templatesHandler := NewTemplatesHandler(templateRegistry, logger)
	prefsHandler := NewUserPreferencesHandler(prefsService, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", HealthCheck)
	mux.HandleFunc("POST /api/conversations", assistantHandler.CreateConversation)
	mux.HandleFunc("GET /api/conversations/{id}", assistantHandler.GetConversation)
	mux.HandleFunc("DELETE /api/conversations/{id}", assistantHandler.DeleteConversation)
	mux.HandleFunc("GET /api/conversations/{id}/messages", assistantHandler.ListMessages)
	mux.HandleFunc("POST /api/conversations/{id}/messages", assistantHandler.SendMessage)
	mux.HandleFunc("DELETE /api/conversations/{id}/messages", assistantHandler.ClearMessages)
	mux.HandleFunc("POST /api/export", exportHandler.Export)
	mux.HandleFunc("POST /api/import", importHandler.Import)
	mux.HandleFunc("GET /api/templates", templatesHandler.List)
	mux.HandleFunc("GET /api/templates/{id}", templatesHandler.Get)
	mux.HandleFunc("GET /api/users/me/preferences", prefsHandler.GetPreferences)
	mux.HandleFunc("PATCH /api/users/me/preferences", prefsHandler.UpdatePreferences)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestHealthCheck(t *testing.T) {
	mux := testMux(t, nil)
	rec := doJSON(t, mux, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	decodeJSON(t, rec, &body)
	if body["status"] != "ok" {
		t.Errorf("status field = %q", body["status"])
	}
}

func TestConversationLifecycle(t *testing.T) {
	mux := testMux(t, []string{"Hello ", "there."})

	rec := doJSON(t, mux, http.MethodPost, "/api/conversations", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var conv models.Conversation
	decodeJSON(t, rec, &conv)
	if conv.ID == uuid.Nil {
		t.Fatal("conversation has nil ID")
	}

	base := "/api/conversations/" + conv.ID.String()

	rec = doJSON(t, mux, http.MethodPost, base+"/messages", map[string]string{
		"message": "Say hello",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("send status = %d: %s", rec.Code, rec.Body.String())
	}
	var result assistant.SendMessageResult
	decodeJSON(t, rec, &result)
	if result.IsError {
		t.Fatal("IsError set on successful turn")
	}
	if result.AssistantMessage.Content != "Hello there." {
		t.Errorf("assistant content = %q", result.AssistantMessage.Content)
	}

	rec = doJSON(t, mux, http.MethodGet, base+"/messages", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listing messagesResponse
	decodeJSON(t, rec, &listing)
	if len(listing.Messages) != 2 {
		t.Fatalf("message count = %d, want 2", len(listing.Messages))
	}
	if listing.Messages[0].Role != models.RoleUser || listing.Messages[1].Role != models.RoleAssistant {
		t.Errorf("roles = %q, %q", listing.Messages[0].Role, listing.Messages[1].Role)
	}

	rec = doJSON(t, mux, http.MethodDelete, base+"/messages", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodDelete, base, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodGet, base, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", rec.Code)
	}
}

func TestSendMessageInvalidID(t *testing.T) {
	mux := testMux(t, nil)

	rec := doJSON(t, mux, http.MethodPost, "/api/conversations/not-a-uuid/messages", map[string]string{
		"message": "hi",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/conversations/"+uuid.NewString()+"/messages", map[string]string{
		"message": "hi",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestExportEndpoint(t *testing.T) {
	mux := testMux(t, nil)

	opts := export.DefaultOptions("notes")
	opts.Format = export.FormatTXT
	rec := doJSON(t, mux, http.MethodPost, "/api/export", exportRequest{
		Content: "<p>Hello</p>",
		Options: opts,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != "Hello" {
		t.Errorf("body = %q", got)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, `filename="notes.txt"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}

	t.Run("validation failure", func(t *testing.T) {
		opts := export.DefaultOptions("")
		rec := doJSON(t, mux, http.MethodPost, "/api/export", exportRequest{Content: "x", Options: opts})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
			t.Errorf("Content-Type = %q", ct)
		}
	})
}

func TestImportEndpoint(t *testing.T) {
	mux := testMux(t, nil)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "memo.html")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte("<h2>Memo</h2><p>Ship it.</p>"))
	form.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var doc importer.Document
	decodeJSON(t, rec, &doc)
	if doc.Name != "memo" {
		t.Errorf("Name = %q", doc.Name)
	}
	if !strings.Contains(doc.Markdown, "Memo") {
		t.Errorf("Markdown = %q", doc.Markdown)
	}

	t.Run("missing file field", func(t *testing.T) {
		var buf bytes.Buffer
		form := multipart.NewWriter(&buf)
		form.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
		req.Header.Set("Content-Type", form.FormDataContentType())
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestTemplatesEndpoints(t *testing.T) {
	mux := testMux(t, nil)

	rec := doJSON(t, mux, http.MethodGet, "/api/templates", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listing templatesResponse
	decodeJSON(t, rec, &listing)
	if len(listing.Templates) != 13 {
		t.Errorf("template count = %d, want 13", len(listing.Templates))
	}
	if len(listing.Categories) != 4 {
		t.Errorf("category count = %d, want 4", len(listing.Categories))
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/templates?q=invoice", nil)
	decodeJSON(t, rec, &listing)
	if len(listing.Templates) != 1 || listing.Templates[0].ID != "invoice-template" {
		t.Errorf("search results = %+v", listing.Templates)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/templates?category=Legal", nil)
	decodeJSON(t, rec, &listing)
	if len(listing.Templates) != 3 {
		t.Errorf("Legal count = %d, want 3", len(listing.Templates))
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/templates?q=screenplay", nil)
	decodeJSON(t, rec, &listing)
	if listing.Templates == nil || len(listing.Templates) != 0 {
		t.Errorf("no-match results = %+v", listing.Templates)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/templates/cover-letter", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var tpl template.Template
	decodeJSON(t, rec, &tpl)
	if tpl.Name != "Cover Letter" {
		t.Errorf("Name = %q", tpl.Name)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/templates/no-such", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing template status = %d", rec.Code)
	}
}

func TestPreferencesEndpoints(t *testing.T) {
	mux := testMux(t, nil)
	userID := uuid.New()

	withUser := func(req *http.Request) *http.Request {
		return httputil.WithUserID(req, userID.String())
	}

	t.Run("anonymous get returns defaults", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/me/preferences", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("anonymous patch rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/api/users/me/preferences",
			strings.NewReader(`{"ui":{"theme":"dark"}}`))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("authenticated patch and get", func(t *testing.T) {
		req := withUser(httptest.NewRequest(http.MethodPatch, "/api/users/me/preferences",
			strings.NewReader(`{"ui":{"theme":"dark"},"system_instructions":"Be brief."}`)))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("patch status = %d: %s", rec.Code, rec.Body.String())
		}

		var prefs models.UserPreferences
		decodeJSON(t, rec, &prefs)
		ui, err := prefs.GetUI()
		if err != nil {
			t.Fatalf("GetUI: %v", err)
		}
		if ui.Theme != "dark" {
			t.Errorf("theme = %q", ui.Theme)
		}
		if got := prefs.GetSystemInstructions(); got == nil || *got != "Be brief." {
			t.Errorf("system instructions = %v", got)
		}
	})
}

func TestHandleErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", &domain.NotFoundError{Message: "gone"}, http.StatusNotFound},
		{"validation", &domain.ValidationError{Message: "bad"}, http.StatusBadRequest},
		{"too large", &domain.PayloadTooLargeError{Message: "big"}, http.StatusRequestEntityTooLarge},
		{"unsupported format", &domain.UnsupportedFormatError{Format: "docx"}, http.StatusBadRequest},
		{"unknown", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, tt.err)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}
