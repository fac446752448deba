package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/statement-ledger/internal/logging"
)

func sampleReport(t *testing.T) *Report {
	t.Helper()
	agg := NewAggregator([]string{"Fernando", "Jhonatan"}, "")
	records := januaryRecords()
	period := januaryPeriod(t)
	return &Report{Metrics: agg.Aggregate(records, period), Rows: rows(InPeriod(records, period))}
}

func TestReportGenerator_GenerateReport_Text(t *testing.T) {
	generator := NewReportGenerator(logging.NewMockLogger(), "R$")

	out, err := generator.GenerateReport(sampleReport(t), FormatText)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "Report: 01/2024")
	assert.Contains(t, text, "Transactions: 3")
	assert.Regexp(t, `Gross revenue\s+R\$ 1,000\.00`, text)
	assert.Regexp(t, `Operating profit\s+R\$ 900\.00`, text)
	assert.Regexp(t, `Jhonatan\s+R\$ 200\.00\s+1\s+22\.22%`, text)
	assert.Regexp(t, `Final balance\s+R\$ 700\.00`, text)
	assert.Regexp(t, `15/01/2024\s+PIX ENVIADO JHONATAN\s+R\$ -200\.00\s+PartnerWithdrawal\(Jhonatan\)`, text)
}

func TestReportGenerator_GenerateReport_NoData(t *testing.T) {
	generator := NewReportGenerator(nil, "R$")
	report := &Report{Metrics: Metrics{NoData: true, Period: "All period"}}

	out, err := generator.GenerateReport(report, FormatText)
	require.NoError(t, err)
	assert.Equal(t, "Report: All period\nNo data for the selected period.\n", string(out))
}

func TestReportGenerator_GenerateReport_JSON(t *testing.T) {
	generator := NewReportGenerator(logging.NewMockLogger(), "R$")

	out, err := generator.GenerateReport(sampleReport(t), FormatJSON)
	require.NoError(t, err)

	var decoded struct {
		Metrics struct {
			NoData          bool   `json:"no_data"`
			Period          string `json:"period"`
			GrossRevenue    string `json:"gross_revenue"`
			OperatingProfit string `json:"operating_profit"`
			FinalBalance    string `json:"final_balance"`
			Partners        []struct {
				Name            string `json:"name"`
				WithdrawalTotal string `json:"withdrawal_total"`
				PercentOfProfit string `json:"percent_of_profit"`
			} `json:"partners"`
		} `json:"metrics"`
		Rows []struct {
			Date     string `json:"date"`
			Amount   string `json:"amount"`
			Category string `json:"category"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))

	assert.False(t, decoded.Metrics.NoData)
	assert.Equal(t, "01/2024", decoded.Metrics.Period)
	assert.Equal(t, "1000.00", decoded.Metrics.GrossRevenue)
	assert.Equal(t, "900.00", decoded.Metrics.OperatingProfit)
	assert.Equal(t, "700.00", decoded.Metrics.FinalBalance)
	require.Len(t, decoded.Metrics.Partners, 2)
	assert.Equal(t, "Jhonatan", decoded.Metrics.Partners[1].Name)
	assert.Equal(t, "200.00", decoded.Metrics.Partners[1].WithdrawalTotal)
	assert.Equal(t, "22.22", decoded.Metrics.Partners[1].PercentOfProfit)
	assert.Equal(t, "0.00", decoded.Metrics.Partners[0].PercentOfProfit)
	assert.NotContains(t, string(out), "22.2222")
	require.Len(t, decoded.Rows, 3)
	assert.Equal(t, "2024-01-15", decoded.Rows[0].Date)
	assert.Equal(t, "-200.00", decoded.Rows[0].Amount)
}

func TestReportGenerator_UnsupportedFormat(t *testing.T) {
	generator := NewReportGenerator(nil, "R$")

	_, err := generator.GenerateReport(sampleReport(t), "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported report format: xml")
}
