package gateway

// GenerateRequest carries one text-completion call: prompt texts plus the
// sampling parameters taken from the active prompt template.
type GenerateRequest struct {
	System      string  `json:"system"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// generateResponse is the wire shape returned by the GenAI service.
type generateResponse struct {
	Text string `json:"text"`
}
