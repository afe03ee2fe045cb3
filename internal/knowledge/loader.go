package knowledge

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed templates/billcut.yaml
var defaultTemplateYAML []byte

// Default returns the built-in BillCut template.
func Default() (*Template, error) {
	return parse(defaultTemplateYAML)
}

// LoadFile reads and validates a template from a YAML file. An empty path
// falls back to the embedded default.
func LoadFile(path string) (*Template, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("knowledge: failed to read template file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("knowledge: failed to decode template: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}
