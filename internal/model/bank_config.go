package model

// FieldRuleKind selects how a field value is extracted from a regex match.
type FieldRuleKind string

// Field rule kinds. Rules are declarative data so bank configurations can be
// stored, validated, and tested independently of code.
const (
	// FieldRuleGroup takes the value of a numbered capture group verbatim.
	FieldRuleGroup FieldRuleKind = "group"
	// FieldRuleNamedTransform takes a capture group and runs it through a
	// named transform registered with the detection engine (e.g. "amount"
	// strips thousands separators and parses a number).
	FieldRuleNamedTransform FieldRuleKind = "namedTransform"
)

// FieldRule describes how to extract one transaction field from a pattern
// match.
type FieldRule struct {
	Kind      FieldRuleKind `json:"kind"`
	Transform string        `json:"transform,omitempty"`
	Group     int           `json:"group"`
}

// BankPattern is one regex format a bank is known to send, with per-field
// extraction rules.
type BankPattern struct {
	FieldRules        map[string]FieldRule `json:"field_rules"`
	Name              string               `json:"name"`
	Regex             string               `json:"regex"`
	Intent            Intent               `json:"intent"`
	MinimumConfidence float64              `json:"minimum_confidence"`
	Active            bool                 `json:"active"`
}

// BankConfiguration is the declarative description of one bank's message
// formats: which senders it uses and which patterns its messages follow.
// Read-only reference data, externally supplied or updatable.
type BankConfiguration struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Currency          string        `json:"currency"`
	SenderIdentifiers []string      `json:"sender_identifiers"`
	Patterns          []BankPattern `json:"patterns"`
	Active            bool          `json:"active"`
}
