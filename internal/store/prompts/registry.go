// Package prompts loads externally managed prompt templates. Templates live
// in a YAML registry file so prompt wording can change without a rebuild.
package prompts

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"relocation-advisor/internal/common/errors"
	"relocation-advisor/internal/models"
)

// Registry resolves prompt templates by name.
type Registry interface {
	Lookup(name string) (*models.PromptTemplate, error)
}

type registryFile struct {
	Templates []models.PromptTemplate `yaml:"templates"`
}

// FileRegistry holds the templates parsed from a registry file. The file is
// read once at startup; a reload requires a restart.
type FileRegistry struct {
	templates map[string]models.PromptTemplate
}

// LoadFile parses the YAML registry at path.
func LoadFile(path string) (*FileRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt registry %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a registry from raw YAML.
func Parse(data []byte) (*FileRegistry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse prompt registry: %w", err)
	}

	templates := make(map[string]models.PromptTemplate, len(file.Templates))
	for _, tmpl := range file.Templates {
		if tmpl.Name == "" {
			return nil, fmt.Errorf("prompt registry contains a template without a name")
		}
		if _, exists := templates[tmpl.Name]; exists {
			return nil, fmt.Errorf("duplicate prompt template %q", tmpl.Name)
		}
		templates[tmpl.Name] = tmpl
	}
	return &FileRegistry{templates: templates}, nil
}

func (r *FileRegistry) Lookup(name string) (*models.PromptTemplate, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return nil, errors.NewPromptTemplateNotFoundError(name)
	}
	return &tmpl, nil
}

// Names lists the registered template names, for startup logging.
func (r *FileRegistry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	return names
}
