package models

import (
	"fmt"
	"strings"
)

// CategoryKind is the closed set of business categories.
type CategoryKind string

const (
	KindRevenue              CategoryKind = "Revenue"
	KindPartnerWithdrawal    CategoryKind = "PartnerWithdrawal"
	KindAccountingCost       CategoryKind = "AccountingCost"
	KindOperatingExpense     CategoryKind = "OperatingExpense"
	KindInvestmentDeposit    CategoryKind = "InvestmentDeposit"
	KindInvestmentWithdrawal CategoryKind = "InvestmentWithdrawal"
	KindReversal             CategoryKind = "Reversal"
	KindInternalTransfer     CategoryKind = "InternalTransfer"
	KindOtherIncome          CategoryKind = "OtherIncome"
	KindUnclassified         CategoryKind = "Unclassified"
)

var knownKinds = map[CategoryKind]bool{
	KindRevenue:              true,
	KindPartnerWithdrawal:    true,
	KindAccountingCost:       true,
	KindOperatingExpense:     true,
	KindInvestmentDeposit:    true,
	KindInvestmentWithdrawal: true,
	KindReversal:             true,
	KindInternalTransfer:     true,
	KindOtherIncome:          true,
	KindUnclassified:         true,
}

// Category is a single label. Partner is set only for KindPartnerWithdrawal.
type Category struct {
	Kind    CategoryKind
	Partner string
}

// Convenience values for the partner-less kinds.
var (
	Revenue              = Category{Kind: KindRevenue}
	AccountingCost       = Category{Kind: KindAccountingCost}
	OperatingExpense     = Category{Kind: KindOperatingExpense}
	InvestmentDeposit    = Category{Kind: KindInvestmentDeposit}
	InvestmentWithdrawal = Category{Kind: KindInvestmentWithdrawal}
	Reversal             = Category{Kind: KindReversal}
	InternalTransfer     = Category{Kind: KindInternalTransfer}
	OtherIncome          = Category{Kind: KindOtherIncome}
	Unclassified         = Category{Kind: KindUnclassified}
)

// PartnerWithdrawal returns the withdrawal category for the named partner.
func PartnerWithdrawal(partner string) Category {
	return Category{Kind: KindPartnerWithdrawal, Partner: partner}
}

// String renders the stored label, e.g. "PartnerWithdrawal(Jhonatan)".
func (c Category) String() string {
	if c.Kind == KindPartnerWithdrawal {
		return fmt.Sprintf("%s(%s)", c.Kind, c.Partner)
	}
	if c.Kind == "" {
		return string(KindUnclassified)
	}
	return string(c.Kind)
}

// IsPerformance reports whether the category counts toward profit and loss.
// Reversals and internal transfers only affect the ledger balance.
func (c Category) IsPerformance() bool {
	return c.Kind != KindReversal && c.Kind != KindInternalTransfer
}

// IsClassified reports whether a rule matched. The zero Category counts as
// unclassified.
func (c Category) IsClassified() bool {
	return c.Kind != "" && c.Kind != KindUnclassified
}

// IsOperatingCost reports whether the category is part of operating costs.
func (c Category) IsOperatingCost() bool {
	return c.Kind == KindAccountingCost || c.Kind == KindOperatingExpense
}

// ParseCategory parses a label produced by Category.String.
func ParseCategory(label string) (Category, error) {
	label = strings.TrimSpace(label)
	if strings.HasPrefix(label, string(KindPartnerWithdrawal)+"(") && strings.HasSuffix(label, ")") {
		partner := strings.TrimSuffix(strings.TrimPrefix(label, string(KindPartnerWithdrawal)+"("), ")")
		if partner == "" {
			return Category{}, fmt.Errorf("partner withdrawal label without partner: %q", label)
		}
		return PartnerWithdrawal(partner), nil
	}
	kind := CategoryKind(label)
	if !knownKinds[kind] || kind == KindPartnerWithdrawal {
		return Category{}, fmt.Errorf("unknown category label: %q", label)
	}
	return Category{Kind: kind}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
