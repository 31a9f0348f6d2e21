package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relocation-advisor/internal/common/logger"
	"relocation-advisor/internal/models"
)

func completedAssessment() *models.Assessment {
	return &models.Assessment{
		ID: "a-1",
		Answers: models.RawAnswers{
			Destination: "Canada",
			Companions:  "spouse",
			Income:      "salaried $80k",
			Housing:     "renting",
			Timing:      "within 6 months",
			Priority:    "schools",
		},
		Profile: &models.CategorizedProfile{
			Goal:        "family relocation",
			Finance:     "medium salaried income",
			Family:      "couple",
			Housing:     "rental wanted",
			Immigration: "work visa needed",
		},
		State:    models.StateComplete,
		Complete: true,
	}
}

// neutralPackage matches the completed assessment on income only; all other
// dimensions deliberately miss so single-dimension tests stay readable.
func neutralPackage(id string, price float64) models.PricingPackage {
	return models.PricingPackage{
		ID:          id,
		Name:        "pkg-" + id,
		Price:       price,
		Currency:    "EUR",
		IncomeLevel: models.IncomeMedium,
		Complexity:  models.ComplexityComplex,
		FamilyTier:  models.FamilySingle,
		UrgencyTier: models.UrgencyFlexible,
		Services:    models.ServiceFlags{VisaSupport: true, HousingSearch: true},
		Active:      true,
	}
}

func TestEngine_Rank_WeightedScore(t *testing.T) {
	engine := NewEngine(DefaultConfig(), logger.NewTestLogger(t))
	a := completedAssessment()

	// Exact match on all four dimensions.
	perfect := neutralPackage("perfect", 900)
	perfect.Complexity = models.ComplexitySimple
	perfect.FamilyTier = models.FamilyCouple
	perfect.UrgencyTier = models.UrgencyMonths

	result := engine.Rank(a, []models.PricingPackage{perfect})
	require.Len(t, result.Ranked, 1)
	assert.InDelta(t, 1.0, result.Ranked[0].Score, 1e-9)
	assert.False(t, result.Ranked[0].Penalized)
}

func TestEngine_Rank_WildcardScoresHalf(t *testing.T) {
	engine := NewEngine(DefaultConfig(), logger.NewTestLogger(t))
	a := completedAssessment()

	wildcard := neutralPackage("wild", 500)
	wildcard.IncomeLevel = models.IncomeAny
	wildcard.Complexity = models.ComplexityAny
	wildcard.FamilyTier = models.FamilyAny
	wildcard.UrgencyTier = models.UrgencyAny

	result := engine.Rank(a, []models.PricingPackage{wildcard})
	require.Len(t, result.Ranked, 1)
	assert.InDelta(t, 0.5, result.Ranked[0].Score, 1e-9)
}

func TestEngine_Rank_TieBrokenByPriceThenID(t *testing.T) {
	engine := NewEngine(DefaultConfig(), logger.NewTestLogger(t))
	a := completedAssessment()

	expensive := neutralPackage("expensive", 500)
	cheap := neutralPackage("cheap", 300)

	result := engine.Rank(a, []models.PricingPackage{expensive, cheap})
	require.Len(t, result.Ranked, 2)
	assert.Equal(t, "cheap", result.Ranked[0].Package.ID)
	assert.Equal(t, "expensive", result.Ranked[1].Package.ID)
	assert.Equal(t, result.Ranked[0].Score, result.Ranked[1].Score)

	samePrice1 := neutralPackage("bravo", 400)
	samePrice2 := neutralPackage("alpha", 400)
	result = engine.Rank(a, []models.PricingPackage{samePrice1, samePrice2})
	assert.Equal(t, "alpha", result.Ranked[0].Package.ID)
	assert.Equal(t, "bravo", result.Ranked[1].Package.ID)
}

func TestEngine_Rank_MissingServicePenalty(t *testing.T) {
	engine := NewEngine(DefaultConfig(), logger.NewTestLogger(t))
	a := completedAssessment() // needs visa support and housing search

	covered := neutralPackage("covered", 400)
	uncovered := neutralPackage("uncovered", 400)
	uncovered.Services = models.ServiceFlags{TaxAdvice: true}

	result := engine.Rank(a, []models.PricingPackage{uncovered, covered})
	require.Len(t, result.Ranked, 2)

	assert.Equal(t, "covered", result.Ranked[0].Package.ID)
	assert.False(t, result.Ranked[0].Penalized)
	assert.True(t, result.Ranked[1].Penalized)
	assert.InDelta(t, engine.config.MissingServicePenalty,
		result.Ranked[0].Score-result.Ranked[1].Score, 1e-9)

	// Penalized packages are still listed, never excluded.
	assert.Greater(t, result.Ranked[1].Score, 0.0)
}

func TestEngine_Rank_PenaltyFloorsAtZero(t *testing.T) {
	engine := NewEngine(DefaultConfig(), logger.NewTestLogger(t))
	a := completedAssessment()

	hopeless := neutralPackage("hopeless", 100)
	hopeless.IncomeLevel = models.IncomeHigh // misses every dimension now
	hopeless.Services = models.ServiceFlags{}

	result := engine.Rank(a, []models.PricingPackage{hopeless})
	require.Len(t, result.Ranked, 1)
	assert.Equal(t, 0.0, result.Ranked[0].Score)
}

func TestEngine_Rank_Deterministic(t *testing.T) {
	engine := NewEngine(DefaultConfig(), logger.NewTestLogger(t))
	a := completedAssessment()

	catalog := []models.PricingPackage{
		neutralPackage("a", 300),
		neutralPackage("b", 500),
		neutralPackage("c", 300),
	}

	first := engine.Rank(a, catalog)
	for i := 0; i < 5; i++ {
		again := engine.Rank(a, catalog)
		require.Equal(t, first.Ranked, again.Ranked)
	}
}

func TestEngine_Rank_ScoresStayInUnitInterval(t *testing.T) {
	engine := NewEngine(DefaultConfig(), logger.NewTestLogger(t))
	a := completedAssessment()

	catalog := []models.PricingPackage{
		neutralPackage("one", 100),
		neutralPackage("two", 200),
	}
	catalog[0].IncomeLevel = models.IncomeAny
	catalog[1].Services = models.ServiceFlags{}

	result := engine.Rank(a, catalog)
	for _, r := range result.Ranked {
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
	}
}
