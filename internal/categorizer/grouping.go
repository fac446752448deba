package categorizer

import (
	"fmt"
	"strings"
)

// InvestmentGrouping selects how the investment predicates combine their
// keyword checks.
type InvestmentGrouping string

const (
	// GroupingLiteral reproduces the historical predicate
	// "(direction AND product) OR (standalone AND sign)". A negative amount
	// containing a standalone keyword is a deposit even without a direction
	// keyword, and a direction plus product match ignores the sign.
	GroupingLiteral InvestmentGrouping = "literal"

	// GroupingExplicit requires "direction AND (product OR standalone) AND sign".
	GroupingExplicit InvestmentGrouping = "explicit"
)

// ParseInvestmentGrouping parses a configuration value. Empty means literal.
func ParseInvestmentGrouping(value string) (InvestmentGrouping, error) {
	switch InvestmentGrouping(strings.ToLower(strings.TrimSpace(value))) {
	case "", GroupingLiteral:
		return GroupingLiteral, nil
	case GroupingExplicit:
		return GroupingExplicit, nil
	default:
		return "", fmt.Errorf("unknown investment grouping %q (want %q or %q)", value, GroupingLiteral, GroupingExplicit)
	}
}
