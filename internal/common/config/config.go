package config

import (
	"fmt"
	"math"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	GenAI         GenAIConfig        `mapstructure:"genai"`
	Assessment    AssessmentConfig   `mapstructure:"assessment"`
	Matching      MatchingConfig     `mapstructure:"matching"`
	Prompts       PromptsConfig      `mapstructure:"prompts"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Domain Configuration Sections ---

// GenAIConfig holds settings for the language-model gateway.
type GenAIConfig struct {
	BaseURL          string `mapstructure:"base_url"`
	APIKey           string `mapstructure:"api_key"`
	Timeout          int    `mapstructure:"timeout"` // milliseconds
	MaxResponseBytes int64  `mapstructure:"max_response_bytes"`
}

// AssessmentConfig bounds the clarification loop.
type AssessmentConfig struct {
	MaxRounds    int `mapstructure:"max_rounds"`
	RoundTimeout int `mapstructure:"round_timeout"` // milliseconds, per categorization round
}

// MatchingConfig holds the scoring weights and penalties. Weights must sum
// to 1.0 across the four dimensions.
type MatchingConfig struct {
	Weights               MatchingWeights `mapstructure:"weights"`
	MissingServicePenalty float64         `mapstructure:"missing_service_penalty"`
}

type MatchingWeights struct {
	Income     float64 `mapstructure:"income"`
	Complexity float64 `mapstructure:"complexity"`
	Family     float64 `mapstructure:"family"`
	Urgency    float64 `mapstructure:"urgency"`
}

// Sum returns the total weight across all four dimensions.
func (w MatchingWeights) Sum() float64 {
	return w.Income + w.Complexity + w.Family + w.Urgency
}

// PromptsConfig locates the prompt template registry.
type PromptsConfig struct {
	RegistryPath           string `mapstructure:"registry_path"`
	CategorizationTemplate string `mapstructure:"categorization_template"`
}

// NotificationConfig holds settings for the result e-mail.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// weightEpsilon tolerates float drift when validating the weight sum.
const weightEpsilon = 1e-9

func validateConfig(cfg *Config) error {
	if cfg.GenAI.BaseURL == "" {
		return fmt.Errorf("genai.base_url is required")
	}
	if cfg.Assessment.MaxRounds < 1 {
		return fmt.Errorf("assessment.max_rounds must be >= 1, got %d", cfg.Assessment.MaxRounds)
	}
	if sum := cfg.Matching.Weights.Sum(); math.Abs(sum-1.0) > weightEpsilon {
		return fmt.Errorf("matching.weights must sum to 1.0, got %v", sum)
	}
	if cfg.Matching.MissingServicePenalty < 0 || cfg.Matching.MissingServicePenalty > 1 {
		return fmt.Errorf("matching.missing_service_penalty must be in [0,1], got %v", cfg.Matching.MissingServicePenalty)
	}
	if cfg.Prompts.CategorizationTemplate == "" {
		return fmt.Errorf("prompts.categorization_template is required")
	}
	return nil
}
