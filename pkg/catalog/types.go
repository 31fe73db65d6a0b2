package catalog

// Jurisdiction identifies the level of government an obligation comes from.
type Jurisdiction string

const (
	// JurisdictionFederal marks a federal obligation.
	JurisdictionFederal Jurisdiction = "federal"

	// JurisdictionState marks a state obligation; Obligation.State qualifies it.
	JurisdictionState Jurisdiction = "state"

	// JurisdictionCity marks a city/local obligation; Obligation.City qualifies it.
	JurisdictionCity Jurisdiction = "city"
)

// Valid reports whether j is a known jurisdiction.
func (j Jurisdiction) Valid() bool {
	switch j {
	case JurisdictionFederal, JurisdictionState, JurisdictionCity:
		return true
	default:
		return false
	}
}

// Topic is a category tag on an obligation (labor, tax, safety, ...).
// Topics are free-form on the wire; these constants cover the seed catalog.
type Topic string

const (
	TopicLabor       Topic = "labor"
	TopicTax         Topic = "tax"
	TopicSafety      Topic = "safety"
	TopicPrivacy     Topic = "privacy"
	TopicEnvironment Topic = "environment"
	TopicLicensing   Topic = "licensing"
	TopicOther       Topic = "other"
)

// Operator is the comparison applied between a resolved fact value and a
// trigger's expected value. The vocabulary is closed for evaluation purposes:
// the engine treats anything outside it as a non-match, never as an error, so
// an unknown operator in a stored catalog cannot cause a false "applies".
type Operator string

const (
	// OperatorExists matches when the fact resolves to a non-null value.
	OperatorExists Operator = "exists"

	// OperatorNotExists matches when the fact is absent or null.
	OperatorNotExists Operator = "not_exists"

	// OperatorEquals matches on strict value equality, no type coercion.
	OperatorEquals Operator = "equals"

	// OperatorNotEquals is the negation of OperatorEquals.
	OperatorNotEquals Operator = "not_equals"

	// OperatorIn matches when the expected array contains the actual value.
	OperatorIn Operator = "in"

	// OperatorNotIn matches when the expected array does not contain the
	// actual value. A non-array expected value matches (permissive default).
	OperatorNotIn Operator = "not_in"

	// OperatorGTE matches when actual >= expected, both numeric.
	OperatorGTE Operator = "gte"

	// OperatorLTE matches when actual <= expected, both numeric.
	OperatorLTE Operator = "lte"

	// OperatorGT matches when actual > expected, both numeric.
	OperatorGT Operator = "gt"

	// OperatorLT matches when actual < expected, both numeric.
	OperatorLT Operator = "lt"
)

// Valid reports whether op is part of the known operator vocabulary.
func (op Operator) Valid() bool {
	switch op {
	case OperatorExists, OperatorNotExists,
		OperatorEquals, OperatorNotEquals,
		OperatorIn, OperatorNotIn,
		OperatorGTE, OperatorLTE, OperatorGT, OperatorLT:
		return true
	default:
		return false
	}
}

// TriggerPredicate is one applicability condition on a business profile.
// Fact is a dot-separated path into the profile's fact document
// (e.g. "activities.sellsAlcohol", "location.state", "employeeCount").
// Value is the expected value; it may be absent for existence operators.
type TriggerPredicate struct {
	Fact     string   `json:"fact"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value,omitempty"`
}

// Citation is a pointer to the legal source backing an obligation.
type Citation struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// Action is one human-readable remediation step for an obligation.
type Action struct {
	Summary string `json:"summary"`
	Details string `json:"details,omitempty"`
}

// Obligation is one catalog entry: a regulatory requirement, the triggers
// that decide whether it applies (implicitly AND-combined), and the guidance
// rendered on the checklist when it does.
type Obligation struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Summary  string `json:"summary,omitempty"`

	Jurisdiction Jurisdiction `json:"jurisdiction"`
	State        string       `json:"state,omitempty"`
	City         string       `json:"city,omitempty"`

	Topics   []Topic            `json:"topics"`
	Triggers []TriggerPredicate `json:"triggers"`
	Actions  []Action           `json:"actions"`

	Frequency string     `json:"frequency,omitempty"`
	Penalties string     `json:"penalties,omitempty"`
	Citations []Citation `json:"citations"`

	// Effective-date window and review metadata, ISO dates. Informational:
	// the evaluator does not gate on these.
	EffectiveFrom string `json:"effective_from,omitempty"`
	EffectiveTo   string `json:"effective_to,omitempty"`
	LastReviewed  string `json:"last_reviewed,omitempty"`
	Version       string `json:"version,omitempty"`
}
