package report

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/statement-ledger/internal/currencyutils"
	"fjacquet/statement-ledger/internal/models"
)

// PartnerMetrics summarizes one partner's withdrawals.
type PartnerMetrics struct {
	Name            string          `json:"name"`
	WithdrawalTotal decimal.Decimal `json:"withdrawal_total"`
	WithdrawalCount int             `json:"withdrawal_count"`
	// PercentOfProfit is kept at full precision; it is rounded when rendered.
	PercentOfProfit decimal.Decimal `json:"percent_of_profit"`
}

// Metrics are the figures derived from the records of one period.
//
// The performance figures (revenue, costs, profit, partner shares) only
// count their own categories, so reversals and internal transfers never
// reach them. FinalBalance sums every record regardless of category.
type Metrics struct {
	NoData           bool   `json:"no_data"`
	Period           string `json:"period"`
	TransactionCount int    `json:"transaction_count"`

	GrossRevenue    decimal.Decimal `json:"gross_revenue"`
	OperatingCosts  decimal.Decimal `json:"operating_costs"`
	OperatingProfit decimal.Decimal `json:"operating_profit"`

	Partners []PartnerMetrics `json:"partners"`

	InvestmentDeposits    decimal.Decimal `json:"investment_deposits"`
	InvestmentWithdrawals decimal.Decimal `json:"investment_withdrawals"`
	NetInvestmentFlow     decimal.Decimal `json:"net_investment_flow"`

	// ProductBalance is the sign-flipped sum of records whose description
	// contains the configured balance keyword.
	ProductBalance decimal.Decimal `json:"product_balance"`

	// CategoryTotals is the signed sum per category label.
	CategoryTotals map[string]decimal.Decimal `json:"category_totals"`

	FinalBalance decimal.Decimal `json:"final_balance"`
}

// Aggregator computes Metrics from categorized records.
type Aggregator struct {
	partners       []string
	balanceKeyword string
}

// NewAggregator creates an Aggregator. Configured partners are always
// listed, in the given order, even without withdrawals in the period.
func NewAggregator(partners []string, balanceKeyword string) *Aggregator {
	return &Aggregator{
		partners:       append([]string(nil), partners...),
		balanceKeyword: strings.ToLower(strings.TrimSpace(balanceKeyword)),
	}
}

// InPeriod returns the records whose date lies inside period, in input order.
func InPeriod(records []models.CategorizedTransaction, period Period) []models.CategorizedTransaction {
	if period.Inverted() {
		return nil
	}
	out := make([]models.CategorizedTransaction, 0, len(records))
	for _, r := range records {
		if period.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out
}

// Aggregate filters records to period and computes the metrics. An empty
// selection, including one from an inverted period, yields NoData.
func (a *Aggregator) Aggregate(records []models.CategorizedTransaction, period Period) Metrics {
	filtered := InPeriod(records, period)
	if len(filtered) == 0 {
		return Metrics{NoData: true, Period: period.Label}
	}

	m := Metrics{
		Period:           period.Label,
		TransactionCount: len(filtered),
		CategoryTotals:   make(map[string]decimal.Decimal),
	}

	var costs, deposits decimal.Decimal
	partnerTotals := make(map[string]decimal.Decimal)
	partnerCounts := make(map[string]int)

	for _, r := range filtered {
		m.FinalBalance = m.FinalBalance.Add(r.Amount)
		label := r.Category.String()
		m.CategoryTotals[label] = m.CategoryTotals[label].Add(r.Amount)

		if a.balanceKeyword != "" && strings.Contains(strings.ToLower(r.Description), a.balanceKeyword) {
			m.ProductBalance = m.ProductBalance.Sub(r.Amount)
		}

		if !r.Category.IsPerformance() {
			continue
		}
		if r.Category.IsOperatingCost() {
			costs = costs.Add(r.Amount)
			continue
		}

		switch r.Category.Kind {
		case models.KindRevenue:
			m.GrossRevenue = m.GrossRevenue.Add(r.Amount)
		case models.KindPartnerWithdrawal:
			partnerTotals[r.Category.Partner] = partnerTotals[r.Category.Partner].Add(r.Amount)
			partnerCounts[r.Category.Partner]++
		case models.KindInvestmentDeposit:
			deposits = deposits.Add(r.Amount)
		case models.KindInvestmentWithdrawal:
			m.InvestmentWithdrawals = m.InvestmentWithdrawals.Add(r.Amount)
		}
	}

	m.OperatingCosts = costs.Abs()
	m.OperatingProfit = m.GrossRevenue.Sub(m.OperatingCosts)
	m.InvestmentDeposits = deposits.Abs()
	m.NetInvestmentFlow = m.InvestmentDeposits.Sub(m.InvestmentWithdrawals)

	for _, name := range a.partnerOrder(partnerTotals) {
		total := partnerTotals[name].Abs()
		m.Partners = append(m.Partners, PartnerMetrics{
			Name:            name,
			WithdrawalTotal: total,
			WithdrawalCount: partnerCounts[name],
			PercentOfProfit: currencyutils.Percent(total, m.OperatingProfit),
		})
	}

	return m
}

// partnerOrder lists configured partners first, then partners found only in
// stored categories, alphabetically.
func (a *Aggregator) partnerOrder(seen map[string]decimal.Decimal) []string {
	order := append([]string(nil), a.partners...)
	known := make(map[string]bool, len(order))
	for _, name := range order {
		known[name] = true
	}

	var extra []string
	for name := range seen {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(order, extra...)
}
