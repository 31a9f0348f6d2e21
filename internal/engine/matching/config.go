package matching

import "relocation-advisor/internal/common/config"

// Weights splits the score across the four matching dimensions. Must sum
// to 1.0; the config loader validates this.
type Weights struct {
	Income     float64
	Complexity float64
	Family     float64
	Urgency    float64
}

type Config struct {
	Weights Weights
	// MissingServicePenalty is deducted when a package includes none of the
	// services the profile explicitly needs. A deduction rather than an
	// exclusion: users still see a full ranked list.
	MissingServicePenalty float64
}

// DefaultConfig mirrors the loader defaults for direct construction in tests.
func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			Income:     0.30,
			Complexity: 0.30,
			Family:     0.20,
			Urgency:    0.20,
		},
		MissingServicePenalty: 0.15,
	}
}

// FromAppConfig maps the matching section onto the engine config.
func FromAppConfig(cfg config.MatchingConfig) *Config {
	return &Config{
		Weights: Weights{
			Income:     cfg.Weights.Income,
			Complexity: cfg.Weights.Complexity,
			Family:     cfg.Weights.Family,
			Urgency:    cfg.Weights.Urgency,
		},
		MissingServicePenalty: cfg.MissingServicePenalty,
	}
}
