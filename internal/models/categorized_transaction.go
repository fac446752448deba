package models

// CategorizedTransaction is a RawTransaction with its content-derived id and
// the category assigned by the rule set identified by RuleVersion.
type CategorizedTransaction struct {
	RawTransaction
	ID          string   `json:"id"`
	Category    Category `json:"category"`
	RuleVersion string   `json:"rule_version,omitempty"`
}

// GetID implements Identified.
func (ct CategorizedTransaction) GetID() string {
	return ct.ID
}

// WithCategory returns a copy carrying the given category and rule version.
func (ct CategorizedTransaction) WithCategory(category Category, ruleVersion string) CategorizedTransaction {
	ct.Category = category
	ct.RuleVersion = ruleVersion
	return ct
}
