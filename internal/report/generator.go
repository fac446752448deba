// Package report computes the financial metrics of a period from stored
// records and renders them for the operator.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"fjacquet/statement-ledger/internal/currencyutils"
	"fjacquet/statement-ledger/internal/dateutils"
	"fjacquet/statement-ledger/internal/logging"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ReportGenerator renders reports in various formats.
type ReportGenerator struct {
	logger         logging.Logger
	currencySymbol string
}

// NewReportGenerator creates a ReportGenerator that prefixes money with currencySymbol.
func NewReportGenerator(logger logging.Logger, currencySymbol string) *ReportGenerator {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &ReportGenerator{
		logger:         logger.WithField("component", "ReportGenerator"),
		currencySymbol: currencySymbol,
	}
}

// GenerateReport renders report in the specified format (text or json).
func (g *ReportGenerator) GenerateReport(report *Report, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return g.generateJSONReport(report)
	case FormatText, "":
		return g.generateTextReport(report)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

type jsonRow struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
}

type jsonPartner struct {
	Name            string `json:"name"`
	WithdrawalTotal string `json:"withdrawal_total"`
	WithdrawalCount int    `json:"withdrawal_count"`
	PercentOfProfit string `json:"percent_of_profit"`
}

type jsonMetrics struct {
	NoData                bool              `json:"no_data"`
	Period                string            `json:"period"`
	TransactionCount      int               `json:"transaction_count"`
	GrossRevenue          string            `json:"gross_revenue"`
	OperatingCosts        string            `json:"operating_costs"`
	OperatingProfit       string            `json:"operating_profit"`
	Partners              []jsonPartner     `json:"partners"`
	InvestmentDeposits    string            `json:"investment_deposits"`
	InvestmentWithdrawals string            `json:"investment_withdrawals"`
	NetInvestmentFlow     string            `json:"net_investment_flow"`
	ProductBalance        string            `json:"product_balance"`
	CategoryTotals        map[string]string `json:"category_totals"`
	FinalBalance          string            `json:"final_balance"`
}

type jsonReport struct {
	Metrics jsonMetrics `json:"metrics"`
	Rows    []jsonRow   `json:"rows"`
}

// newJSONMetrics fixes money and percentages at two decimals.
func newJSONMetrics(m Metrics) jsonMetrics {
	out := jsonMetrics{
		NoData:                m.NoData,
		Period:                m.Period,
		TransactionCount:      m.TransactionCount,
		GrossRevenue:          m.GrossRevenue.StringFixed(2),
		OperatingCosts:        m.OperatingCosts.StringFixed(2),
		OperatingProfit:       m.OperatingProfit.StringFixed(2),
		Partners:              make([]jsonPartner, 0, len(m.Partners)),
		InvestmentDeposits:    m.InvestmentDeposits.StringFixed(2),
		InvestmentWithdrawals: m.InvestmentWithdrawals.StringFixed(2),
		NetInvestmentFlow:     m.NetInvestmentFlow.StringFixed(2),
		ProductBalance:        m.ProductBalance.StringFixed(2),
		CategoryTotals:        make(map[string]string, len(m.CategoryTotals)),
		FinalBalance:          m.FinalBalance.StringFixed(2),
	}
	for _, p := range m.Partners {
		out.Partners = append(out.Partners, jsonPartner{
			Name:            p.Name,
			WithdrawalTotal: p.WithdrawalTotal.StringFixed(2),
			WithdrawalCount: p.WithdrawalCount,
			PercentOfProfit: p.PercentOfProfit.StringFixed(2),
		})
	}
	for label, total := range m.CategoryTotals {
		out.CategoryTotals[label] = total.StringFixed(2)
	}
	return out
}

// generateJSONReport renders amounts as two-decimal strings and dates as YYYY-MM-DD.
func (g *ReportGenerator) generateJSONReport(report *Report) ([]byte, error) {
	out := jsonReport{Metrics: newJSONMetrics(report.Metrics), Rows: make([]jsonRow, 0, len(report.Rows))}
	for _, r := range report.Rows {
		out.Rows = append(out.Rows, jsonRow{
			Date:        dateutils.ToISODate(r.Date),
			Description: r.Description,
			Amount:      r.Amount.StringFixed(2),
			Category:    r.Category,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return data, nil
}

func (g *ReportGenerator) generateTextReport(report *Report) ([]byte, error) {
	m := report.Metrics
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Report: %s\n", m.Period)
	if m.NoData {
		buf.WriteString("No data for the selected period.\n")
		return buf.Bytes(), nil
	}
	fmt.Fprintf(&buf, "Transactions: %d\n\n", m.TransactionCount)

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Gross revenue\t%s\n", g.money(m.GrossRevenue))
	fmt.Fprintf(w, "Operating costs\t%s\n", g.money(m.OperatingCosts))
	fmt.Fprintf(w, "Operating profit\t%s\n", g.money(m.OperatingProfit))
	fmt.Fprintln(w)

	if len(m.Partners) > 0 {
		fmt.Fprintln(w, "Partner\tWithdrawals\tCount\tShare of profit")
		for _, p := range m.Partners {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", p.Name, g.money(p.WithdrawalTotal), p.WithdrawalCount,
				currencyutils.FormatPercent(p.PercentOfProfit))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Investment deposits\t%s\n", g.money(m.InvestmentDeposits))
	fmt.Fprintf(w, "Investment withdrawals\t%s\n", g.money(m.InvestmentWithdrawals))
	fmt.Fprintf(w, "Net investment flow\t%s\n", g.money(m.NetInvestmentFlow))
	fmt.Fprintf(w, "Product balance\t%s\n", g.money(m.ProductBalance))
	fmt.Fprintf(w, "Final balance\t%s\n", g.money(m.FinalBalance))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Date\tDescription\tAmount\tCategory")
	for _, r := range report.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Date.Format(dateutils.DateLayoutBrazilian), r.Description,
			g.money(r.Amount), r.Category)
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to render text report: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *ReportGenerator) money(d decimal.Decimal) string {
	return currencyutils.FormatMoney(d, g.currencySymbol)
}
