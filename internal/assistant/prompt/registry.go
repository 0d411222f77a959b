// Package prompt builds system prompts for the document assistant. Use cases
// live in an embedded YAML table; the user query is matched against their
// trigger phrases to pick the instruction block for the request.
package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry holds the ordered use case table loaded from the embedded config.
type Registry struct {
	useCases []UseCase
	mu       sync.RWMutex
}

// NewRegistry creates a registry and loads the embedded use case file.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/usecases.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read use case config: %w", err)
	}

	var file useCaseFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal use case config: %w", err)
	}

	if len(file.UseCases) == 0 {
		return nil, fmt.Errorf("use case config is empty")
	}

	return &Registry{useCases: file.UseCases}, nil
}

// Match returns the first use case with a trigger phrase contained in the
// query, or nil when nothing matches. Matching is case-insensitive substring
// search in file order.
func (r *Registry) Match(query string) *UseCase {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lower := strings.ToLower(query)
	for i := range r.useCases {
		for _, trigger := range r.useCases[i].Triggers {
			if strings.Contains(lower, trigger) {
				return &r.useCases[i]
			}
		}
	}
	return nil
}

// List returns all use cases in file order.
func (r *Registry) List() []UseCase {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.useCases
}
