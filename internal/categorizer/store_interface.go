package categorizer

import "fjacquet/statement-ledger/internal/models"

// RuleSource supplies the keyword data behind the rule set.
// This allows for dependency injection and easier testing.
type RuleSource interface {
	LoadRules() (models.RuleConfig, error)
}
