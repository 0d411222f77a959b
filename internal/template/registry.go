// Package template serves the built-in document templates. The catalog is
// an embedded YAML file; lookups never touch the database, so the registry
// is read-only after construction.
package template

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"papermorph/internal/domain"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry holds the ordered template catalog loaded from the embedded config.
type Registry struct {
	templates []Template
	byID      map[string]*Template
	mu        sync.RWMutex
}

// NewRegistry creates a registry and loads the embedded template file.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/templates.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read template config: %w", err)
	}

	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal template config: %w", err)
	}

	if len(file.Templates) == 0 {
		return nil, fmt.Errorf("template config is empty")
	}

	byID := make(map[string]*Template, len(file.Templates))
	for i := range file.Templates {
		byID[file.Templates[i].ID] = &file.Templates[i]
	}

	return &Registry{templates: file.Templates, byID: byID}, nil
}

// Get returns the template with the given ID.
func (r *Registry) Get(id string) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tpl, ok := r.byID[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("template %q not found", id)}
	}
	return tpl, nil
}

// List returns all templates in catalog order.
func (r *Registry) List() []Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.templates
}

// Categories returns the distinct template categories, sorted.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var categories []string
	for i := range r.templates {
		category := r.templates[i].Category
		if _, ok := seen[category]; ok {
			continue
		}
		seen[category] = struct{}{}
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// ByCategory returns the templates in the given category, in catalog order.
func (r *Registry) ByCategory(category string) []Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []Template
	for i := range r.templates {
		if r.templates[i].Category == category {
			matched = append(matched, r.templates[i])
		}
	}
	return matched
}

// Search returns templates whose name, description, category, or tags
// contain the query, case-insensitively. An empty query returns the full
// catalog.
func (r *Registry) Search(query string) []Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if query == "" {
		return r.templates
	}

	lower := strings.ToLower(query)
	var matched []Template
	for i := range r.templates {
		if templateMatches(&r.templates[i], lower) {
			matched = append(matched, r.templates[i])
		}
	}
	return matched
}

func templateMatches(tpl *Template, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(tpl.Name), lowerQuery) ||
		strings.Contains(strings.ToLower(tpl.Description), lowerQuery) ||
		strings.Contains(strings.ToLower(tpl.Category), lowerQuery) {
		return true
	}
	for _, tag := range tpl.Tags {
		if strings.Contains(strings.ToLower(tag), lowerQuery) {
			return true
		}
	}
	return false
}
