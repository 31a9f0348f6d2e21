// Package matching scores completed profiles against the package catalog.
// Ranking is a pure function: the same assessment and catalog snapshot
// always produce the same ordered result.
package matching

import (
	"sort"
	"time"

	"relocation-advisor/internal/common/logger"
	"relocation-advisor/internal/common/metrics"
	"relocation-advisor/internal/models"
)

const (
	exactMatchScore = 1.0
	wildcardScore   = 0.5
)

type Engine struct {
	config *Config
	logger logger.Logger
}

func NewEngine(config *Config, log logger.Logger) *Engine {
	return &Engine{
		config: config,
		logger: log.WithFields(map[string]interface{}{"component": "matching"}),
	}
}

// Rank scores every package in the catalog snapshot against the assessment
// and returns them ordered by score descending, ties broken by ascending
// price, then by package identifier.
func (e *Engine) Rank(a *models.Assessment, catalog []models.PricingPackage) *models.MatchResult {
	start := time.Now()

	derived := Derive(a)

	ranked := make([]models.RankedPackage, 0, len(catalog))
	for _, pkg := range catalog {
		ranked = append(ranked, e.scorePackage(derived, pkg))
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].Package.Price != ranked[j].Package.Price {
			return ranked[i].Package.Price < ranked[j].Package.Price
		}
		return ranked[i].Package.ID < ranked[j].Package.ID
	})

	metrics.MatchComputations.Inc()
	metrics.MatchDuration.Observe(time.Since(start).Seconds())

	e.logger.Info("catalog ranked", map[string]interface{}{
		"assessmentId": a.ID,
		"packages":     len(ranked),
		"durationMs":   time.Since(start).Milliseconds(),
	})

	return &models.MatchResult{
		AssessmentID: a.ID,
		Derived:      derived,
		Ranked:       ranked,
	}
}

func (e *Engine) scorePackage(derived models.DerivedProfile, pkg models.PricingPackage) models.RankedPackage {
	factors := models.DimensionScores{
		Income:     dimensionScore(string(pkg.IncomeLevel), string(derived.IncomeLevel)),
		Complexity: dimensionScore(string(pkg.Complexity), string(derived.Complexity)),
		Family:     dimensionScore(string(pkg.FamilyTier), string(derived.FamilyTier)),
		Urgency:    dimensionScore(string(pkg.UrgencyTier), string(derived.UrgencyTier)),
	}

	w := e.config.Weights
	score := factors.Income*w.Income +
		factors.Complexity*w.Complexity +
		factors.Family*w.Family +
		factors.Urgency*w.Urgency

	penalized := false
	if missesEveryNeededService(derived.Needs, pkg.Services) {
		score -= e.config.MissingServicePenalty
		if score < 0 {
			score = 0
		}
		penalized = true
	}

	return models.RankedPackage{
		Package:   pkg,
		Score:     score,
		Factors:   factors,
		Penalized: penalized,
	}
}

// dimensionScore: exact match 1.0, package wildcard "any" 0.5, otherwise 0.
func dimensionScore(pkgValue, derivedValue string) float64 {
	switch pkgValue {
	case derivedValue:
		return exactMatchScore
	case "any":
		return wildcardScore
	default:
		return 0
	}
}

// missesEveryNeededService reports whether the profile needs at least one
// service and the package covers none of the needed ones.
func missesEveryNeededService(needs, offered models.ServiceFlags) bool {
	type pair struct{ needed, has bool }
	pairs := []pair{
		{needs.VisaSupport, offered.VisaSupport},
		{needs.HousingSearch, offered.HousingSearch},
		{needs.TaxAdvice, offered.TaxAdvice},
		{needs.EducationPlanning, offered.EducationPlanning},
		{needs.HealthcareGuidance, offered.HealthcareGuidance},
		{needs.WorkPermitHelp, offered.WorkPermitHelp},
	}

	anyNeeded := false
	for _, p := range pairs {
		if !p.needed {
			continue
		}
		anyNeeded = true
		if p.has {
			return false
		}
	}
	return anyNeeded
}
