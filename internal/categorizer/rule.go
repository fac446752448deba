package categorizer

import (
	"github.com/shopspring/decimal"

	"fjacquet/statement-ledger/internal/models"
)

// Rule pairs a predicate with the category it assigns. The predicate
// receives the normalized description.
type Rule struct {
	Name     string
	Category models.Category
	Match    func(text string, amount decimal.Decimal) bool
}

// Rule names, in evaluation order. Partner rules are named "partner:<name>".
const (
	RuleReversal             = "reversal"
	RuleInternalTransfer     = "internal_transfer"
	RuleRevenue              = "revenue"
	RulePartnerPrefix        = "partner:"
	RuleAccounting           = "accounting"
	RuleInvestmentDeposit    = "investment_deposit"
	RuleInvestmentWithdrawal = "investment_withdrawal"
	RuleOutbound             = "outbound"
	RuleOtherIncome          = "other_income"
)

func positive(amount decimal.Decimal) bool { return amount.IsPositive() }
func negative(amount decimal.Decimal) bool { return amount.IsNegative() }

// buildRules turns keyword data into the ordered rule list. The order is
// part of the categorization contract:
//
//	reversal, internal transfer, revenue, partners (config order),
//	accounting, investment deposit, investment withdrawal, outbound,
//	other income
//
// Outbound transfers come after partners, accounting and investments so that
// a generic outbound keyword does not swallow them.
func buildRules(cfg models.RuleConfig, grouping InvestmentGrouping, n normalizer) []Rule {
	var rules []Rule

	reversal := n.keywords(cfg.Reversal)
	rules = append(rules, Rule{
		Name:     RuleReversal,
		Category: models.Reversal,
		Match: func(text string, _ decimal.Decimal) bool {
			return containsAny(text, reversal)
		},
	})

	if internal := n.keywords(cfg.InternalTransfer); len(internal) > 0 {
		rules = append(rules, Rule{
			Name:     RuleInternalTransfer,
			Category: models.InternalTransfer,
			Match: func(text string, _ decimal.Decimal) bool {
				return containsAny(text, internal)
			},
		})
	}

	revenue := n.keywords(cfg.Revenue)
	rules = append(rules, Rule{
		Name:     RuleRevenue,
		Category: models.Revenue,
		Match: func(text string, amount decimal.Decimal) bool {
			return containsAny(text, revenue) && positive(amount)
		},
	})

	for _, p := range cfg.Partners {
		keywords := n.keywords(p.Keywords)
		rules = append(rules, Rule{
			Name:     RulePartnerPrefix + p.Name,
			Category: models.PartnerWithdrawal(p.Name),
			Match: func(text string, amount decimal.Decimal) bool {
				return containsAny(text, keywords) && negative(amount)
			},
		})
	}

	accounting := n.keywords(cfg.Accounting)
	rules = append(rules, Rule{
		Name:     RuleAccounting,
		Category: models.AccountingCost,
		Match: func(text string, amount decimal.Decimal) bool {
			return containsAny(text, accounting) && negative(amount)
		},
	})

	rules = append(rules, investmentRules(cfg.Investment, grouping, n)...)

	outbound := n.keywords(cfg.Outbound)
	rules = append(rules, Rule{
		Name:     RuleOutbound,
		Category: models.OperatingExpense,
		Match: func(text string, amount decimal.Decimal) bool {
			return containsAny(text, outbound) && negative(amount)
		},
	})

	rules = append(rules, Rule{
		Name:     RuleOtherIncome,
		Category: models.OtherIncome,
		Match: func(_ string, amount decimal.Decimal) bool {
			return positive(amount)
		},
	})

	return rules
}

func investmentRules(kw models.InvestmentKeywords, grouping InvestmentGrouping, n normalizer) []Rule {
	deposit := n.keywords(kw.Deposit)
	withdrawal := n.keywords(kw.Withdrawal)
	product := n.keywords(kw.Product)
	standalone := n.keywords(kw.Standalone)

	var depositMatch, withdrawalMatch func(string, decimal.Decimal) bool
	switch grouping {
	case GroupingExplicit:
		depositMatch = func(text string, amount decimal.Decimal) bool {
			return containsAny(text, deposit) &&
				(containsAny(text, product) || containsAny(text, standalone)) &&
				negative(amount)
		}
		withdrawalMatch = func(text string, amount decimal.Decimal) bool {
			return containsAny(text, withdrawal) &&
				(containsAny(text, product) || containsAny(text, standalone)) &&
				positive(amount)
		}
	default:
		depositMatch = func(text string, amount decimal.Decimal) bool {
			return (containsAny(text, deposit) && containsAny(text, product)) ||
				(containsAny(text, standalone) && negative(amount))
		}
		withdrawalMatch = func(text string, amount decimal.Decimal) bool {
			return (containsAny(text, withdrawal) && containsAny(text, product)) ||
				(containsAny(text, standalone) && positive(amount))
		}
	}

	return []Rule{
		{Name: RuleInvestmentDeposit, Category: models.InvestmentDeposit, Match: depositMatch},
		{Name: RuleInvestmentWithdrawal, Category: models.InvestmentWithdrawal, Match: withdrawalMatch},
	}
}
