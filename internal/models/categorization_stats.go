package models

import (
	"fjacquet/statement-ledger/internal/logging"
)

// CategorizationStats tracks how a batch was classified.
type CategorizationStats struct {
	Total        int
	Unclassified int
	ByCategory   map[string]int
}

// NewCategorizationStats creates an empty CategorizationStats.
func NewCategorizationStats() *CategorizationStats {
	return &CategorizationStats{ByCategory: make(map[string]int)}
}

// Record counts one categorized transaction.
func (cs *CategorizationStats) Record(category Category) {
	if cs.ByCategory == nil {
		cs.ByCategory = make(map[string]int)
	}
	cs.Total++
	if !category.IsClassified() {
		cs.Unclassified++
	}
	cs.ByCategory[category.String()]++
}

// GetClassifiedRate returns the share of classified records as a percentage.
func (cs CategorizationStats) GetClassifiedRate() float64 {
	if cs.Total == 0 {
		return 0.0
	}
	return float64(cs.Total-cs.Unclassified) / float64(cs.Total) * 100.0
}

// LogSummary logs a summary of categorization statistics.
func (cs CategorizationStats) LogSummary(logger logging.Logger, source string) {
	if logger == nil {
		return
	}

	logger.Info("Categorization summary",
		logging.Field{Key: logging.FieldSource, Value: source},
		logging.Field{Key: "total_transactions", Value: cs.Total},
		logging.Field{Key: "unclassified", Value: cs.Unclassified},
		logging.Field{Key: "classified_rate", Value: cs.GetClassifiedRate()},
	)
	for label, count := range cs.ByCategory {
		logger.Debug("Category count",
			logging.Field{Key: logging.FieldCategory, Value: label},
			logging.Field{Key: logging.FieldCount, Value: count})
	}
}
