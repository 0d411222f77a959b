package template

import "gopkg.in/yaml.v3"

// Template is a built-in document starting point: plain text content with
// bracketed placeholders the user fills in after inserting it.
type Template struct {
	// ID is the YAML key (set during unmarshaling)
	ID string `yaml:"-" json:"id"`

	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Category    string   `yaml:"category" json:"category"`
	Tags        []string `yaml:"tags" json:"tags,omitempty"`
	Content     string   `yaml:"content" json:"content"`
	BuiltIn     bool     `yaml:"-" json:"is_built_in"`
}

// templateFile is the on-disk shape of the embedded template config.
type templateFile struct {
	Version   string     `yaml:"version"`
	Templates []Template `yaml:"-"` // Ordered slice, populated by custom unmarshaler
}

// UnmarshalYAML preserves the YAML mapping order so listings come back in
// the curated file order rather than map iteration order.
func (f *templateFile) UnmarshalYAML(node *yaml.Node) error {
	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Value == "version" {
			f.Version = node.Content[i+1].Value
			break
		}
	}

	type templatesOnly struct {
		Templates map[string]Template `yaml:"templates"`
	}
	var m templatesOnly
	if err := node.Decode(&m); err != nil {
		return err
	}

	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Value == "templates" {
			templatesNode := node.Content[i+1]
			// templatesNode.Content alternates: key, value, key, value...
			for j := 0; j < len(templatesNode.Content); j += 2 {
				id := templatesNode.Content[j].Value
				if tpl, ok := m.Templates[id]; ok {
					tpl.ID = id
					tpl.BuiltIn = true
					f.Templates = append(f.Templates, tpl)
				}
			}
			break
		}
	}

	return nil
}
