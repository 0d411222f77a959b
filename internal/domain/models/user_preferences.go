package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JSONMap is a type alias for JSONB columns
type JSONMap map[string]interface{}

// UserPreferences represents user-specific settings.
// All preferences live in a single JSONB column with namespaced structure:
// {ui, editor, export, assistant, system_instructions}.
type UserPreferences struct {
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Preferences JSONMap   `json:"preferences" db:"preferences"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// UIPreferences represents the ui namespace in preferences
type UIPreferences struct {
	Theme         string `json:"theme"`           // "light", "dark", "auto"
	FontSize      *int   `json:"font_size"`       // Pointer to allow null
	ShowWordCount *bool  `json:"show_word_count"` // Pointer to allow null
}

// EditorPreferences represents the editor namespace in preferences
type EditorPreferences struct {
	AutoSave   *bool `json:"auto_save"`
	WordWrap   *bool `json:"word_wrap"`
	Spellcheck *bool `json:"spellcheck"`
}

// ExportPreferences represents the export namespace: the defaults the export
// dialog is seeded with before the user touches anything.
type ExportPreferences struct {
	Format      string `json:"format"`       // "txt", "md", "html", "pdf"
	PageSize    string `json:"page_size"`    // "a4", "letter", "legal"
	Orientation string `json:"orientation"`  // "portrait", "landscape"
	MarginsMM   string `json:"margins"`      // "normal", "narrow", "wide"
	FontSize    *int   `json:"font_size"`    // Pointer to allow null
	PageNumbers *bool  `json:"page_numbers"` // Pointer to allow null
}

// AssistantPreferences represents the assistant namespace in preferences
type AssistantPreferences struct {
	Model           string `json:"model"`            // provider model slug, e.g. "tngtech/tng-r1t-chimera:free"
	IncludeDocument *bool  `json:"include_document"` // attach document context to requests
}

// GetUI extracts the ui namespace from preferences
func (up *UserPreferences) GetUI() (*UIPreferences, error) {
	ui := &UIPreferences{Theme: "light"}
	if err := up.getNamespace("ui", ui); err != nil {
		return nil, err
	}
	return ui, nil
}

// SetUI sets the ui namespace in preferences
func (up *UserPreferences) SetUI(ui *UIPreferences) error {
	return up.setNamespace("ui", ui)
}

// GetEditor extracts the editor namespace from preferences
func (up *UserPreferences) GetEditor() (*EditorPreferences, error) {
	editor := &EditorPreferences{}
	if err := up.getNamespace("editor", editor); err != nil {
		return nil, err
	}
	return editor, nil
}

// SetEditor sets the editor namespace in preferences
func (up *UserPreferences) SetEditor(editor *EditorPreferences) error {
	return up.setNamespace("editor", editor)
}

// GetExport extracts the export namespace from preferences
func (up *UserPreferences) GetExport() (*ExportPreferences, error) {
	export := &ExportPreferences{Format: "pdf", PageSize: "a4", Orientation: "portrait", MarginsMM: "normal"}
	if err := up.getNamespace("export", export); err != nil {
		return nil, err
	}
	return export, nil
}

// SetExport sets the export namespace in preferences
func (up *UserPreferences) SetExport(export *ExportPreferences) error {
	return up.setNamespace("export", export)
}

// GetAssistant extracts the assistant namespace from preferences
func (up *UserPreferences) GetAssistant() (*AssistantPreferences, error) {
	assistant := &AssistantPreferences{}
	if err := up.getNamespace("assistant", assistant); err != nil {
		return nil, err
	}
	return assistant, nil
}

// SetAssistant sets the assistant namespace in preferences
func (up *UserPreferences) SetAssistant(assistant *AssistantPreferences) error {
	return up.setNamespace("assistant", assistant)
}

// getNamespace re-marshals the stored map into the typed namespace struct.
// Missing namespaces leave the provided defaults untouched.
func (up *UserPreferences) getNamespace(key string, dest interface{}) error {
	if up.Preferences == nil {
		return nil
	}

	raw, ok := up.Preferences[key]
	if !ok {
		return nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// setNamespace stores the typed namespace struct as a plain map.
func (up *UserPreferences) setNamespace(key string, src interface{}) error {
	if up.Preferences == nil {
		up.Preferences = JSONMap{}
	}

	data, err := json.Marshal(src)
	if err != nil {
		return err
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	up.Preferences[key] = m
	return nil
}

// GetSystemInstructions extracts system_instructions from preferences
func (up *UserPreferences) GetSystemInstructions() *string {
	if up.Preferences == nil {
		return nil
	}

	instructions, ok := up.Preferences["system_instructions"]
	if !ok || instructions == nil {
		return nil
	}

	str, ok := instructions.(string)
	if !ok {
		return nil
	}

	return &str
}

// SetSystemInstructions sets system_instructions in preferences
func (up *UserPreferences) SetSystemInstructions(instructions *string) {
	if up.Preferences == nil {
		up.Preferences = JSONMap{}
	}

	if instructions == nil {
		up.Preferences["system_instructions"] = nil
	} else {
		up.Preferences["system_instructions"] = *instructions
	}
}

// OptionalSystemInstructions tracks tri-state semantics for system_instructions
// updates (RFC 7396 PATCH). Transport-agnostic; the handler maps from
// httputil.OptionalString.
//   - Present=false: field absent from request (don't change)
//   - Present=true, Value=nil: field is null (clear)
//   - Present=true, Value=&"text": field has value
type OptionalSystemInstructions struct {
	Present bool
	Value   *string
}

// UpdatePreferencesRequest represents the request to update user preferences.
// Supports partial updates via pointers: only provided namespaces are replaced.
type UpdatePreferencesRequest struct {
	UI                 *UIPreferences             `json:"ui"`
	Editor             *EditorPreferences         `json:"editor"`
	Export             *ExportPreferences         `json:"export"`
	Assistant          *AssistantPreferences      `json:"assistant"`
	SystemInstructions OptionalSystemInstructions // tri-state, mapped from handler DTO
}
