package gateway

import (
	"time"

	"relocation-advisor/internal/common/config"
)

type Config struct {
	BaseURL          string
	APIKey           string
	Timeout          time.Duration
	MaxResponseBytes int64
}

const (
	defaultTimeout          = 30 * time.Second
	defaultMaxResponseBytes = 1 << 20
)

// FromAppConfig maps the genai section onto the gateway config, filling in
// defaults for unset limits.
func FromAppConfig(cfg config.GenAIConfig) *Config {
	c := &Config{
		BaseURL:          cfg.BaseURL,
		APIKey:           cfg.APIKey,
		Timeout:          time.Duration(cfg.Timeout) * time.Millisecond,
		MaxResponseBytes: cfg.MaxResponseBytes,
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxResponseBytes <= 0 {
		c.MaxResponseBytes = defaultMaxResponseBytes
	}
	return c
}
