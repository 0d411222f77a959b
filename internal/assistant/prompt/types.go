package prompt

import "gopkg.in/yaml.v3"

// ContentType classifies what shape of content a use case asks the model for.
// Cleanup and the frontend apply flow treat the types differently.
type ContentType string

const (
	// ContentTypeFullDocument is a complete document (letter, report, essay).
	ContentTypeFullDocument ContentType = "full_document"
	// ContentTypeTransformedText is an edited version of text the user supplied.
	ContentTypeTransformedText ContentType = "transformed_text"
	// ContentTypeHTMLElement is a single HTML fragment such as a table.
	ContentTypeHTMLElement ContentType = "html_element"
	// ContentTypeSectionContent is prose for one section of a document.
	ContentTypeSectionContent ContentType = "section_content"
)

// UseCase describes one recognized request type: the phrases that trigger it
// and the instruction block injected into the system prompt when it matches.
type UseCase struct {
	// ID is the YAML key (set during unmarshaling)
	ID string `yaml:"-" json:"id"`

	ContentType ContentType `yaml:"content_type" json:"content_type"`
	Triggers    []string    `yaml:"triggers" json:"triggers"`
	Instruction string      `yaml:"instruction" json:"instruction"`
}

// useCaseFile is the on-disk shape of the embedded use case config.
type useCaseFile struct {
	Version  string    `yaml:"version"`
	UseCases []UseCase `yaml:"-"` // Ordered slice, populated by custom unmarshaler
}

// UnmarshalYAML preserves the YAML mapping order of use cases. Matching is
// first-trigger-wins, so the file order is part of the contract.
func (f *useCaseFile) UnmarshalYAML(node *yaml.Node) error {
	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Value == "version" {
			f.Version = node.Content[i+1].Value
			break
		}
	}

	// Decode into a map first to get the full data
	type casesOnly struct {
		UseCases map[string]UseCase `yaml:"use_cases"`
	}
	var m casesOnly
	if err := node.Decode(&m); err != nil {
		return err
	}

	// Extract keys in YAML order and build the slice
	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Value == "use_cases" {
			casesNode := node.Content[i+1]
			// casesNode.Content alternates: key, value, key, value...
			for j := 0; j < len(casesNode.Content); j += 2 {
				id := casesNode.Content[j].Value
				if uc, ok := m.UseCases[id]; ok {
					uc.ID = id
					f.UseCases = append(f.UseCases, uc)
				}
			}
			break
		}
	}

	return nil
}
