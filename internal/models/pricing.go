package models

// Matching dimension values. "any" is a wildcard: it matches every derived
// profile value at half weight.
type (
	IncomeLevel     string
	ComplexityLevel string
	FamilyTier      string
	UrgencyTier     string
)

const (
	IncomeLow    IncomeLevel = "low"
	IncomeMedium IncomeLevel = "medium"
	IncomeHigh   IncomeLevel = "high"
	IncomeAny    IncomeLevel = "any"

	ComplexitySimple   ComplexityLevel = "simple"
	ComplexityModerate ComplexityLevel = "moderate"
	ComplexityComplex  ComplexityLevel = "complex"
	ComplexityAny      ComplexityLevel = "any"

	FamilySingle FamilyTier = "single"
	FamilyCouple FamilyTier = "couple"
	FamilyFamily FamilyTier = "family"
	FamilyAny    FamilyTier = "any"

	UrgencyImmediate UrgencyTier = "immediate"
	UrgencyMonths    UrgencyTier = "months"
	UrgencyFlexible  UrgencyTier = "flexible"
	UrgencyAny       UrgencyTier = "any"
)

// ServiceFlags marks which services a package includes.
type ServiceFlags struct {
	VisaSupport        bool `json:"visaSupport"`
	HousingSearch      bool `json:"housingSearch"`
	TaxAdvice          bool `json:"taxAdvice"`
	EducationPlanning  bool `json:"educationPlanning"`
	HealthcareGuidance bool `json:"healthcareGuidance"`
	WorkPermitHelp     bool `json:"workPermitHelp"`
}

// ServiceLimits caps the included consulting volume.
type ServiceLimits struct {
	ConsultationHours int `json:"consultationHours"`
	FollowUpSessions  int `json:"followUpSessions"`
	DocumentReviews   int `json:"documentReviews"`
}

// PricingPackage is one catalog entry matched against completed profiles.
type PricingPackage struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       float64         `json:"price"`
	Currency    string          `json:"currency"`
	Complexity  ComplexityLevel `json:"complexity"`
	IncomeLevel IncomeLevel     `json:"incomeLevel"`
	FamilyTier  FamilyTier      `json:"familyTier"`
	UrgencyTier UrgencyTier     `json:"urgencyTier"`
	Services    ServiceFlags    `json:"services"`
	Limits      ServiceLimits   `json:"limits"`
	Active      bool            `json:"active"`
}
