package models

// DerivedProfile holds the matching dimensions derived from a completed
// assessment before scoring.
type DerivedProfile struct {
	IncomeLevel IncomeLevel     `json:"incomeLevel"`
	Complexity  ComplexityLevel `json:"complexity"`
	FamilyTier  FamilyTier      `json:"familyTier"`
	UrgencyTier UrgencyTier     `json:"urgencyTier"`
	Needs       ServiceFlags    `json:"needs"`
}

// DimensionScores breaks a package score down per matching dimension.
type DimensionScores struct {
	Income     float64 `json:"income"`
	Complexity float64 `json:"complexity"`
	Family     float64 `json:"family"`
	Urgency    float64 `json:"urgency"`
}

// RankedPackage pairs a catalog entry with its fitness score in [0,1].
type RankedPackage struct {
	Package   PricingPackage  `json:"package"`
	Score     float64         `json:"score"`
	Factors   DimensionScores `json:"factors"`
	Penalized bool            `json:"penalized"`
}

// MatchResult is the per-call ranking output. It is never persisted.
type MatchResult struct {
	AssessmentID string          `json:"assessmentId"`
	Derived      DerivedProfile  `json:"derived"`
	Ranked       []RankedPackage `json:"ranked"`
}
