package models

// TopicKey identifies one of the fixed profile topics. The set is closed:
// answers for anything outside it are rejected during validation instead of
// being silently ignored.
type TopicKey string

const (
	TopicGoal        TopicKey = "goal"
	TopicFinance     TopicKey = "finance"
	TopicFamily      TopicKey = "family"
	TopicHousing     TopicKey = "housing"
	TopicWork        TopicKey = "work"
	TopicImmigration TopicKey = "immigration"
	TopicEducation   TopicKey = "education"
	TopicTax         TopicKey = "tax"
	TopicHealthcare  TopicKey = "healthcare"
	TopicOther       TopicKey = "other"
)

// TopicOrder is the canonical declaration order. Clarification questions and
// outstanding-topic lists always follow it so output is reproducible.
var TopicOrder = []TopicKey{
	TopicGoal,
	TopicFinance,
	TopicFamily,
	TopicHousing,
	TopicWork,
	TopicImmigration,
	TopicEducation,
	TopicTax,
	TopicHealthcare,
	TopicOther,
}

// IsValidTopic reports whether key belongs to the closed topic set.
func IsValidTopic(key TopicKey) bool {
	for _, t := range TopicOrder {
		if t == key {
			return true
		}
	}
	return false
}

// CategorizedProfile maps each topic to its categorized value. A topic is
// represented by a dedicated field rather than a map entry so an unknown
// topic cannot slip in unnoticed.
type CategorizedProfile struct {
	Goal        string `json:"goal,omitempty"`
	Finance     string `json:"finance,omitempty"`
	Family      string `json:"family,omitempty"`
	Housing     string `json:"housing,omitempty"`
	Work        string `json:"work,omitempty"`
	Immigration string `json:"immigration,omitempty"`
	Education   string `json:"education,omitempty"`
	Tax         string `json:"tax,omitempty"`
	Healthcare  string `json:"healthcare,omitempty"`
	Other       string `json:"other,omitempty"`

	// NotApplicable records topics the model explicitly marked as not
	// relevant for this profile; they carry no value but are not outstanding.
	NotApplicable []TopicKey `json:"notApplicable,omitempty"`
}

// Value returns the categorized value for key, or "" when unset.
func (p *CategorizedProfile) Value(key TopicKey) string {
	switch key {
	case TopicGoal:
		return p.Goal
	case TopicFinance:
		return p.Finance
	case TopicFamily:
		return p.Family
	case TopicHousing:
		return p.Housing
	case TopicWork:
		return p.Work
	case TopicImmigration:
		return p.Immigration
	case TopicEducation:
		return p.Education
	case TopicTax:
		return p.Tax
	case TopicHealthcare:
		return p.Healthcare
	case TopicOther:
		return p.Other
	}
	return ""
}

// SetValue stores value for key. Unknown keys are a no-op; callers validate
// against the closed set before writing.
func (p *CategorizedProfile) SetValue(key TopicKey, value string) {
	switch key {
	case TopicGoal:
		p.Goal = value
	case TopicFinance:
		p.Finance = value
	case TopicFamily:
		p.Family = value
	case TopicHousing:
		p.Housing = value
	case TopicWork:
		p.Work = value
	case TopicImmigration:
		p.Immigration = value
	case TopicEducation:
		p.Education = value
	case TopicTax:
		p.Tax = value
	case TopicHealthcare:
		p.Healthcare = value
	case TopicOther:
		p.Other = value
	}
}

// MarkNotApplicable flags key as explicitly not relevant.
func (p *CategorizedProfile) MarkNotApplicable(key TopicKey) {
	if p.IsNotApplicable(key) {
		return
	}
	p.NotApplicable = append(p.NotApplicable, key)
}

// IsNotApplicable reports whether key was explicitly marked not relevant.
func (p *CategorizedProfile) IsNotApplicable(key TopicKey) bool {
	for _, t := range p.NotApplicable {
		if t == key {
			return true
		}
	}
	return false
}

// Resolved reports whether key has a non-empty value or an explicit
// not-applicable marker.
func (p *CategorizedProfile) Resolved(key TopicKey) bool {
	return p.Value(key) != "" || p.IsNotApplicable(key)
}

// Outstanding returns the topics still lacking a value, in canonical order.
func (p *CategorizedProfile) Outstanding() []TopicKey {
	var out []TopicKey
	for _, key := range TopicOrder {
		if !p.Resolved(key) {
			out = append(out, key)
		}
	}
	return out
}

// Clone returns a deep copy so merges never mutate the stored profile.
func (p *CategorizedProfile) Clone() *CategorizedProfile {
	if p == nil {
		return &CategorizedProfile{}
	}
	cp := *p
	cp.NotApplicable = append([]TopicKey(nil), p.NotApplicable...)
	return &cp
}
