// Package categorizer assigns exactly one business category to a statement
// record by evaluating an ordered list of keyword rules. The first rule that
// matches wins; records matching nothing are Unclassified.
//
// Categorization depends only on the description and the amount, so stored
// records can be recategorized at any time from their raw fields.
package categorizer

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fjacquet/statement-ledger/internal/identity"
	"fjacquet/statement-ledger/internal/logging"
	"fjacquet/statement-ledger/internal/models"
)

// Options controls how keyword data is turned into rules.
type Options struct {
	Grouping    InvestmentGrouping
	FoldAccents bool
}

// Categorizer evaluates a fixed, ordered rule list. It holds no mutable
// state and is safe for concurrent use.
type Categorizer struct {
	rules      []Rule
	version    string
	partners   []string
	normalizer normalizer
	logger     logging.Logger
}

// NewCategorizer builds a Categorizer from keyword data.
func NewCategorizer(cfg models.RuleConfig, opts Options, logger logging.Logger) (*Categorizer, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule configuration: %w", err)
	}
	grouping, err := ParseInvestmentGrouping(string(opts.Grouping))
	if err != nil {
		return nil, err
	}
	if grouping == GroupingLiteral {
		logger.Warn("Investment rules use literal grouping; negative amounts with a standalone product keyword are deposits regardless of direction keywords",
			logging.Field{Key: logging.FieldRule, Value: RuleInvestmentDeposit})
	}

	n := normalizer{foldAccents: opts.FoldAccents}
	c := &Categorizer{
		rules:      buildRules(cfg, grouping, n),
		version:    fmt.Sprintf("%s/%s", cfg.Version, grouping),
		partners:   cfg.PartnerNames(),
		normalizer: n,
		logger:     logger,
	}

	logger.Debug("Rule set loaded",
		logging.Field{Key: "rule_version", Value: c.version},
		logging.Field{Key: logging.FieldCount, Value: len(c.rules)})
	return c, nil
}

// NewCategorizerFromSource loads keyword data from source and builds a Categorizer.
func NewCategorizerFromSource(source RuleSource, opts Options, logger logging.Logger) (*Categorizer, error) {
	cfg, err := source.LoadRules()
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	return NewCategorizer(cfg, opts, logger)
}

// Version identifies the rule set, including the investment grouping in use.
func (c *Categorizer) Version() string {
	return c.version
}

// Partners returns the configured partner names in rule order.
func (c *Categorizer) Partners() []string {
	out := make([]string, len(c.partners))
	copy(out, c.partners)
	return out
}

// RuleNames returns the rule names in evaluation order.
func (c *Categorizer) RuleNames() []string {
	names := make([]string, 0, len(c.rules))
	for _, r := range c.rules {
		names = append(names, r.Name)
	}
	return names
}

// Categorize returns the category of the first matching rule, or Unclassified.
func (c *Categorizer) Categorize(description string, amount decimal.Decimal) models.Category {
	category, _ := c.match(description, amount)
	return category
}

func (c *Categorizer) match(description string, amount decimal.Decimal) (models.Category, string) {
	text := c.normalizer.normalize(description)
	for _, rule := range c.rules {
		if rule.Match(text, amount) {
			return rule.Category, rule.Name
		}
	}
	return models.Unclassified, ""
}

// Apply derives the identifier and category of a raw record.
func (c *Categorizer) Apply(raw models.RawTransaction) models.CategorizedTransaction {
	category, rule := c.match(raw.Description, raw.Amount)
	tx := models.CategorizedTransaction{
		RawTransaction: raw,
		ID:             identity.Derive(raw.Date, raw.Description, raw.Amount),
		Category:       category,
		RuleVersion:    c.version,
	}

	c.logger.WithFields(
		logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
		logging.Field{Key: logging.FieldRule, Value: rule},
		logging.Field{Key: logging.FieldCategory, Value: category.String()},
	).Debug("Transaction categorized")

	return tx
}

// ApplyAll categorizes a batch in order and returns classification statistics.
func (c *Categorizer) ApplyAll(raws []models.RawTransaction) ([]models.CategorizedTransaction, *models.CategorizationStats) {
	stats := models.NewCategorizationStats()
	out := make([]models.CategorizedTransaction, 0, len(raws))
	for _, raw := range raws {
		tx := c.Apply(raw)
		stats.Record(tx.Category)
		out = append(out, tx)
	}
	return out, stats
}

// Recategorize recomputes the category of stored records from their raw
// fields. It returns the updated records and how many changed category or
// rule version. Identifiers are never touched.
func (c *Categorizer) Recategorize(txs []models.CategorizedTransaction) ([]models.CategorizedTransaction, int) {
	out := make([]models.CategorizedTransaction, len(txs))
	changed := 0
	for i, tx := range txs {
		category := c.Categorize(tx.Description, tx.Amount)
		if category != tx.Category || tx.RuleVersion != c.version {
			changed++
			c.logger.WithFields(
				logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
				logging.Field{Key: "previous", Value: tx.Category.String()},
				logging.Field{Key: logging.FieldCategory, Value: category.String()},
			).Debug("Transaction recategorized")
		}
		out[i] = tx.WithCategory(category, c.version)
	}
	return out, changed
}
