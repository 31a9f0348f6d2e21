package models

// PromptTemplate is an externally supplied prompt configuration, looked up by
// name from the registry and passed explicitly into the categorization
// engine so tests can pin a fixed template.
type PromptTemplate struct {
	Name        string  `json:"name" yaml:"name"`
	System      string  `json:"system" yaml:"system"`
	User        string  `json:"user" yaml:"user"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
	MaxTokens   int     `json:"maxTokens" yaml:"max_tokens"`
}
