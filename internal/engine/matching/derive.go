package matching

import (
	"regexp"
	"strconv"
	"strings"

	"relocation-advisor/internal/models"
)

// Heuristic thresholds for the income derivation, in thousands per year.
// The exact cutoffs are a product decision, kept in one place on purpose.
const (
	incomeLowCeiling  = 40
	incomeHighFloor   = 120
	longAnswerRunes   = 160
	complexTopicFloor = 2
)

var amountPattern = regexp.MustCompile(`(\d+(?:[.,]\d{3})*(?:\.\d+)?)\s*(k)?`)

// deriveIncomeLevel buckets the free-text income answer. A parseable amount
// wins; keyword fallbacks cover answers without figures.
func deriveIncomeLevel(income string) models.IncomeLevel {
	text := strings.ToLower(income)

	if amount, ok := parseAnnualThousands(text); ok {
		switch {
		case amount < incomeLowCeiling:
			return models.IncomeLow
		case amount > incomeHighFloor:
			return models.IncomeHigh
		default:
			return models.IncomeMedium
		}
	}

	switch {
	case containsAny(text, "unemployed", "student", "no income", "savings only"):
		return models.IncomeLow
	case containsAny(text, "executive", "director", "six figure", "wealthy", "investor"):
		return models.IncomeHigh
	default:
		return models.IncomeMedium
	}
}

// parseAnnualThousands extracts the first monetary figure and normalizes it
// to thousands: "80k" and "80,000" both yield 80.
func parseAnnualThousands(text string) (float64, bool) {
	match := amountPattern.FindStringSubmatch(text)
	if match == nil || match[1] == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}

	if match[2] == "k" {
		return value, true
	}
	if value >= 1000 {
		return value / 1000, true
	}
	return value, true
}

// deriveFamilyTier buckets the companions answer.
func deriveFamilyTier(companions string) models.FamilyTier {
	text := strings.ToLower(companions)
	switch {
	case containsAny(text, "child", "children", "kids", "family", "parents", "son", "daughter"):
		return models.FamilyFamily
	case containsAny(text, "spouse", "wife", "husband", "partner", "fiance", "girlfriend", "boyfriend", "couple"):
		return models.FamilyCouple
	default:
		return models.FamilySingle
	}
}

// deriveUrgencyTier buckets the timing answer.
func deriveUrgencyTier(timing string) models.UrgencyTier {
	text := strings.ToLower(timing)
	switch {
	case containsAny(text, "asap", "immediately", "urgent", "right away", "this month", "week"):
		return models.UrgencyImmediate
	case containsAny(text, "month"):
		return models.UrgencyMonths
	default:
		return models.UrgencyFlexible
	}
}

// deriveComplexity grades the case from the number of topics left unresolved
// at rounds exhaustion plus answer length/keyword signals.
func deriveComplexity(a *models.Assessment) models.ComplexityLevel {
	score := 0

	if a.State == models.StateRoundsExhausted {
		score += len(a.Outstanding)
	}

	for _, answer := range []string{
		a.Answers.Destination, a.Answers.Companions, a.Answers.Income,
		a.Answers.Housing, a.Answers.Timing, a.Answers.Priority,
	} {
		if len([]rune(answer)) > longAnswerRunes {
			score++
		}
		if containsAny(strings.ToLower(answer),
			"business", "property", "properties", "dual citizen", "custody",
			"medical", "disability", "visa refused", "criminal") {
			score++
		}
	}

	switch {
	case score >= 2*complexTopicFloor:
		return models.ComplexityComplex
	case score >= complexTopicFloor:
		return models.ComplexityModerate
	default:
		return models.ComplexitySimple
	}
}

// deriveNeeds marks the services the profile explicitly calls for: a topic
// with a resolved value signals need for the corresponding service.
func deriveNeeds(profile *models.CategorizedProfile, answers models.RawAnswers) models.ServiceFlags {
	needs := models.ServiceFlags{
		VisaSupport:        profile.Value(models.TopicImmigration) != "",
		TaxAdvice:          profile.Value(models.TopicTax) != "",
		EducationPlanning:  profile.Value(models.TopicEducation) != "",
		HealthcareGuidance: profile.Value(models.TopicHealthcare) != "",
		WorkPermitHelp:     profile.Value(models.TopicWork) != "",
	}

	housing := strings.ToLower(profile.Value(models.TopicHousing) + " " + answers.Housing)
	needs.HousingSearch = containsAny(housing, "rent", "buy", "purchase", "apartment", "house", "housing")

	return needs
}

// Derive computes all matching dimensions for a finished assessment.
func Derive(a *models.Assessment) models.DerivedProfile {
	profile := a.Profile
	if profile == nil {
		profile = &models.CategorizedProfile{}
	}
	return models.DerivedProfile{
		IncomeLevel: deriveIncomeLevel(a.Answers.Income),
		Complexity:  deriveComplexity(a),
		FamilyTier:  deriveFamilyTier(a.Answers.Companions),
		UrgencyTier: deriveUrgencyTier(a.Answers.Timing),
		Needs:       deriveNeeds(profile, a.Answers),
	}
}

func containsAny(text string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
