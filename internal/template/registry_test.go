package template

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"papermorph/internal/domain"
)

func TestRegistryCatalogOrder(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}

	want := []string{
		"business-letter",
		"meeting-notes",
		"project-proposal",
		"invoice-template",
		"academic-essay",
		"lab-report",
		"research-paper",
		"personal-resume",
		"cover-letter",
		"personal-budget",
		"legal-contract",
		"rental-agreement",
		"power-of-attorney",
	}

	var got []string
	for _, tpl := range r.List() {
		got = append(got, tpl.ID)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("catalog order = %v, want %v", got, want)
	}
}

func TestRegistryGet(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}

	tpl, err := r.Get("business-letter")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if tpl.Name != "Business Letter" {
		t.Errorf("Name = %q", tpl.Name)
	}
	if tpl.Category != "Business" {
		t.Errorf("Category = %q", tpl.Category)
	}
	if !tpl.BuiltIn {
		t.Error("BuiltIn = false")
	}
	if !strings.HasPrefix(tpl.Content, "Your Name\n") {
		t.Errorf("content starts with %q", tpl.Content[:20])
	}
	if !strings.Contains(tpl.Content, "Dear [Recipient Name],") {
		t.Error("content missing salutation placeholder")
	}
	if strings.HasSuffix(tpl.Content, "\n") {
		t.Error("content has trailing newline")
	}

	_, err = r.Get("no-such-template")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want not found", err)
	}
}

func TestRegistryCategories(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}

	want := []string{"Academic", "Business", "Legal", "Personal"}
	if got := r.Categories(); !reflect.DeepEqual(got, want) {
		t.Errorf("Categories() = %v, want %v", got, want)
	}

	business := r.ByCategory("Business")
	if len(business) != 4 {
		t.Errorf("ByCategory(Business) returned %d templates, want 4", len(business))
	}
	if len(r.ByCategory("Culinary")) != 0 {
		t.Error("ByCategory(Culinary) returned templates")
	}
}

func TestRegistrySearch(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"by name", "Invoice", []string{"invoice-template"}},
		{"case insensitive", "RESUME", []string{"personal-resume"}},
		{"by tag", "lease", []string{"rental-agreement"}},
		{"by category", "legal", []string{"legal-contract", "rental-agreement", "power-of-attorney"}},
		{"no match", "screenplay", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, tpl := range r.Search(tt.query) {
				got = append(got, tpl.ID)
			}
			if !reflect.DeepEqual(got, tt.wantIDs) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.wantIDs)
			}
		})
	}

	if len(r.Search("")) != len(r.List()) {
		t.Error("empty query did not return full catalog")
	}
}
