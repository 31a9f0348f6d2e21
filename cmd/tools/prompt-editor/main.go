// prompt-editor maintains the prompt template registry without hand-editing
// YAML: add or update a template, validate the file, list what is registered.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"relocation-advisor/internal/models"
	"relocation-advisor/internal/store/prompts"
)

var registryPath string

type registryFile struct {
	Templates []models.PromptTemplate `yaml:"templates"`
}

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)

	// Add command flags
	nameAdd := addCmd.String("name", "", "Template name (e.g., categorize-intake)")
	system := addCmd.String("system", "", "System prompt")
	user := addCmd.String("user", "", "User prompt header")
	temperature := addCmd.Float64("temperature", 0.1, "Sampling temperature")
	maxTokens := addCmd.Int("maxTokens", 1024, "Response token cap")
	addCmd.StringVar(&registryPath, "path", "configs/prompts.yaml", "Path to registry file")

	// Update command flags
	nameUpdate := updateCmd.String("name", "", "Template name to update")
	field := updateCmd.String("field", "", "Field to update (system, user, temperature, maxTokens)")
	value := updateCmd.String("value", "", "New value for the field")
	updateCmd.StringVar(&registryPath, "path", "configs/prompts.yaml", "Path to registry file")

	validateCmd.StringVar(&registryPath, "path", "configs/prompts.yaml", "Path to registry file")
	listCmd.StringVar(&registryPath, "path", "configs/prompts.yaml", "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *nameAdd == "" || *user == "" {
			fmt.Println("Error: name and user are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		tmpl := models.PromptTemplate{
			Name:        *nameAdd,
			System:      *system,
			User:        *user,
			Temperature: *temperature,
			MaxTokens:   *maxTokens,
		}
		if err := addTemplate(tmpl); err != nil {
			fmt.Printf("Error adding template: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added template: %s\n", *nameAdd)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *nameUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: name, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateTemplate(*nameUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating template: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated template %s, field %s\n", *nameUpdate, *field)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		if err := validateRegistry(); err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Registry validation passed.")

	case "list":
		listCmd.Parse(os.Args[2:])
		if err := listTemplates(); err != nil {
			fmt.Printf("Error listing templates: %v\n", err)
			os.Exit(1)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

func addTemplate(tmpl models.PromptTemplate) error {
	reg, err := loadFile()
	if err != nil {
		if os.IsNotExist(err) {
			reg = &registryFile{}
		} else {
			return fmt.Errorf("failed to load registry: %w", err)
		}
	}

	for _, existing := range reg.Templates {
		if existing.Name == tmpl.Name {
			return fmt.Errorf("template %s already exists", tmpl.Name)
		}
	}

	reg.Templates = append(reg.Templates, tmpl)
	return saveFile(reg)
}

func updateTemplate(name, field, value string) error {
	reg, err := loadFile()
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	found := false
	for i := range reg.Templates {
		if reg.Templates[i].Name != name {
			continue
		}
		found = true
		switch field {
		case "system":
			reg.Templates[i].System = value
		case "user":
			reg.Templates[i].User = value
		case "temperature":
			var temp float64
			if _, err := fmt.Sscanf(value, "%f", &temp); err != nil {
				return fmt.Errorf("invalid temperature value: %w", err)
			}
			reg.Templates[i].Temperature = temp
		case "maxTokens":
			var tokens int
			if _, err := fmt.Sscanf(value, "%d", &tokens); err != nil {
				return fmt.Errorf("invalid maxTokens value: %w", err)
			}
			reg.Templates[i].MaxTokens = tokens
		default:
			return fmt.Errorf("unknown field: %s", field)
		}
		break
	}

	if !found {
		return fmt.Errorf("template %s not found", name)
	}
	return saveFile(reg)
}

// validateRegistry runs the same parser the server uses at startup.
func validateRegistry() error {
	data, err := os.ReadFile(registryPath)
	if err != nil {
		return fmt.Errorf("failed to read registry: %w", err)
	}
	reg, err := prompts.Parse(data)
	if err != nil {
		return err
	}
	fmt.Printf("Registry validation passed. Found %d templates.\n", len(reg.Names()))
	return nil
}

func listTemplates() error {
	reg, err := loadFile()
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	for _, tmpl := range reg.Templates {
		fmt.Printf("%-24s temp=%.2f maxTokens=%d\n", tmpl.Name, tmpl.Temperature, tmpl.MaxTokens)
	}
	return nil
}

func loadFile() (*registryFile, error) {
	data, err := os.ReadFile(registryPath)
	if err != nil {
		return nil, err
	}
	var reg registryFile
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

func saveFile(reg *registryFile) error {
	data, err := yaml.Marshal(reg)
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(registryPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(registryPath, data, 0644)
}

func help() {
	fmt.Print(`
Usage: prompt-editor <command> [flags]

Commands:
  add      Add a new prompt template to the registry
  update   Update a field on an existing template
  validate Validate the registry file
  list     List registered templates
  help     Show this help message

Examples:
  prompt-editor add -name categorize-intake -user "Categorize the intake below." -temperature 0.1
  prompt-editor update -name categorize-intake -field maxTokens -value 2048
  prompt-editor validate -path configs/prompts.yaml
`)
}
