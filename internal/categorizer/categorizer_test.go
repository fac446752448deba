package categorizer

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/statement-ledger/internal/identity"
	"fjacquet/statement-ledger/internal/logging"
	"fjacquet/statement-ledger/internal/models"
)

func newTestCategorizer(t *testing.T, grouping InvestmentGrouping) *Categorizer {
	t.Helper()
	c, err := NewCategorizer(models.DefaultRuleConfig(), Options{Grouping: grouping}, logging.NewMockLogger())
	require.NoError(t, err)
	return c
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCategorize_DefaultRules(t *testing.T) {
	c := newTestCategorizer(t, GroupingExplicit)

	tests := []struct {
		name        string
		description string
		amount      string
		expected    models.Category
	}{
		{"revenue", "PIX RECEBIDO LAUNCH PAD LTDA", "1000.00", models.Revenue},
		{"revenue keyword on debit is not revenue", "LAUNCH PAD TARIFA", "-5", models.Unclassified},
		{"partner fernando by spouse name", "PIX ENVIADO KAROLYNE ADRIELLY NORMANTON", "-300", models.PartnerWithdrawal("Fernando")},
		{"partner fernando by own name", "PIX ENVIADO Fernando Henrique Dias Moreira", "-300", models.PartnerWithdrawal("Fernando")},
		{"partner jhonatan", "PIX ENVIADO JHONATAN", "-200", models.PartnerWithdrawal("Jhonatan")},
		{"partner credit is other income", "PIX RECEBIDO JHONATAN", "200", models.OtherIncome},
		{"accounting", "BOLETO CONTABILIZEI", "-99.90", models.AccountingCost},
		{"outbound", "PIX ENVIADO FORNECEDOR", "-50", models.OperatingExpense},
		{"deposit", "APLICACAO CDB PORQUINHO", "-500", models.InvestmentDeposit},
		{"withdrawal", "RESGATE CDB PORQUINHO", "250", models.InvestmentWithdrawal},
		{"other income", "TED RECEBIDA", "10", models.OtherIncome},
		{"unclassified debit", "TARIFA BANCARIA", "-12", models.Unclassified},
		{"zero amount", "AJUSTE", "0", models.Unclassified},
		{"empty description", "", "-1", models.Unclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Categorize(tt.description, amt(tt.amount)))
		})
	}
}

func TestCategorize_ReversalBeatsEverything(t *testing.T) {
	c := newTestCategorizer(t, GroupingLiteral)

	for _, a := range []string{"1000", "-1000", "0"} {
		assert.Equal(t, models.Reversal, c.Categorize("ESTORNO LAUNCH PAD", amt(a)), a)
		assert.Equal(t, models.Reversal, c.Categorize("estorno pix enviado jhonatan", amt(a)), a)
	}
}

func TestCategorize_PartnerTieBreakUsesConfigOrder(t *testing.T) {
	c := newTestCategorizer(t, GroupingExplicit)
	desc := "PIX ENVIADO JHONATAN E FERNANDO HENRIQUE DIAS MOREIRA"

	for i := 0; i < 5; i++ {
		assert.Equal(t, models.PartnerWithdrawal("Fernando"), c.Categorize(desc, amt("-10")))
	}

	cfg := models.DefaultRuleConfig()
	cfg.Partners[0], cfg.Partners[1] = cfg.Partners[1], cfg.Partners[0]
	swapped, err := NewCategorizer(cfg, Options{Grouping: GroupingExplicit}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PartnerWithdrawal("Jhonatan"), swapped.Categorize(desc, amt("-10")))
}

func TestCategorize_OutboundDoesNotSwallowEarlierRules(t *testing.T) {
	c := newTestCategorizer(t, GroupingExplicit)

	assert.Equal(t, models.PartnerWithdrawal("Jhonatan"), c.Categorize("PIX ENVIADO JHONATAN", amt("-1")))
	assert.Equal(t, models.AccountingCost, c.Categorize("PIX ENVIADO CONTABILIZEI", amt("-1")))
	assert.Equal(t, models.InvestmentDeposit, c.Categorize("PIX ENVIADO APLICACAO CDB", amt("-1")))
}

func TestCategorize_InvestmentGrouping(t *testing.T) {
	literal := newTestCategorizer(t, GroupingLiteral)
	explicit := newTestCategorizer(t, GroupingExplicit)

	tests := []struct {
		name        string
		description string
		amount      string
		literal     models.Category
		explicit    models.Category
	}{
		{
			name:        "standalone product without direction on a debit",
			description: "COMPRA CDB BANCO X",
			amount:      "-100",
			literal:     models.InvestmentDeposit,
			explicit:    models.Unclassified,
		},
		{
			name:        "standalone product without direction on a credit",
			description: "RENDIMENTO CDB",
			amount:      "5",
			literal:     models.InvestmentWithdrawal,
			explicit:    models.OtherIncome,
		},
		{
			name:        "direction and product ignore sign in literal mode",
			description: "APLICACAO PORQUINHO",
			amount:      "100",
			literal:     models.InvestmentDeposit,
			explicit:    models.OtherIncome,
		},
		{
			name:        "resgate with negative standalone",
			description: "RESGATE CDB PORQUINHO",
			amount:      "-100",
			literal:     models.InvestmentDeposit,
			explicit:    models.Unclassified,
		},
		{
			name:        "both agree on the common case",
			description: "APLICACAO CDB PORQUINHO",
			amount:      "-100",
			literal:     models.InvestmentDeposit,
			explicit:    models.InvestmentDeposit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.literal, literal.Categorize(tt.description, amt(tt.amount)), "literal")
			assert.Equal(t, tt.explicit, explicit.Categorize(tt.description, amt(tt.amount)), "explicit")
		})
	}
}

func TestCategorize_LiteralGroupingWarns(t *testing.T) {
	logger := logging.NewMockLogger()
	_, err := NewCategorizer(models.DefaultRuleConfig(), Options{}, logger)
	require.NoError(t, err)
	assert.Len(t, logger.GetEntriesByLevel("WARN"), 1)

	logger.Clear()
	_, err = NewCategorizer(models.DefaultRuleConfig(), Options{Grouping: GroupingExplicit}, logger)
	require.NoError(t, err)
	assert.Empty(t, logger.GetEntriesByLevel("WARN"))
}

func TestCategorizer_RuleOrderIsContract(t *testing.T) {
	c := newTestCategorizer(t, GroupingExplicit)
	assert.Equal(t, []string{
		RuleReversal,
		RuleRevenue,
		RulePartnerPrefix + "Fernando",
		RulePartnerPrefix + "Jhonatan",
		RuleAccounting,
		RuleInvestmentDeposit,
		RuleInvestmentWithdrawal,
		RuleOutbound,
		RuleOtherIncome,
	}, c.RuleNames())
}

func TestCategorize_InternalTransfer(t *testing.T) {
	cfg := models.DefaultRuleConfig()
	cfg.InternalTransfer = []string{"mesma titularidade"}
	c, err := NewCategorizer(cfg, Options{Grouping: GroupingExplicit}, nil)
	require.NoError(t, err)

	assert.Equal(t, RuleInternalTransfer, c.RuleNames()[1])
	assert.Equal(t, models.InternalTransfer, c.Categorize("TED MESMA TITULARIDADE", amt("500")))
	assert.Equal(t, models.Reversal, c.Categorize("ESTORNO TED MESMA TITULARIDADE", amt("500")))
}

func TestCategorize_FoldAccents(t *testing.T) {
	plain := newTestCategorizer(t, GroupingExplicit)
	folded, err := NewCategorizer(models.DefaultRuleConfig(), Options{Grouping: GroupingExplicit, FoldAccents: true}, nil)
	require.NoError(t, err)

	assert.Equal(t, models.Unclassified, plain.Categorize("APLICAÇÃO CDB PORQUINHO", amt("-10")))
	assert.Equal(t, models.InvestmentDeposit, folded.Categorize("APLICAÇÃO CDB PORQUINHO", amt("-10")))
}

func TestCategorize_Totality(t *testing.T) {
	c := newTestCategorizer(t, GroupingLiteral)
	descriptions := []string{"", " ", "estorno", "LAUNCH PAD", "jhonatan", "cdb", "pix enviado", "???", "Ç"}
	amounts := []string{"-1000000", "-0.01", "0", "0.01", "1000000"}

	for _, d := range descriptions {
		for _, a := range amounts {
			first := c.Categorize(d, amt(a))
			assert.NotEmpty(t, first.Kind)
			assert.Equal(t, first, c.Categorize(d, amt(a)))
		}
	}
}

func TestApply_DerivesIDAndVersion(t *testing.T) {
	c := newTestCategorizer(t, GroupingExplicit)
	raw := models.RawTransaction{
		Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Description: "LAUNCH PAD",
		Amount:      amt("1000"),
	}

	tx := c.Apply(raw)
	assert.Equal(t, identity.Derive(raw.Date, raw.Description, raw.Amount), tx.ID)
	assert.Equal(t, models.Revenue, tx.Category)
	assert.Equal(t, "2/explicit", tx.RuleVersion)
	assert.Equal(t, raw, tx.RawTransaction)
}

func TestApplyAll_Stats(t *testing.T) {
	c := newTestCategorizer(t, GroupingExplicit)
	raws := []models.RawTransaction{
		{Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Description: "LAUNCH PAD", Amount: amt("1000")},
		{Date: time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), Description: "TARIFA", Amount: amt("-3")},
	}

	txs, stats := c.ApplyAll(raws)
	require.Len(t, txs, 2)
	assert.Equal(t, "LAUNCH PAD", txs[0].Description)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Unclassified)
}

func TestRecategorize(t *testing.T) {
	c := newTestCategorizer(t, GroupingExplicit)
	stale := models.CategorizedTransaction{
		RawTransaction: models.RawTransaction{Description: "ESTORNO LAUNCH PAD", Amount: amt("100")},
		ID:             "abc",
		Category:       models.Revenue,
		RuleVersion:    "1",
	}
	current := c.Apply(models.RawTransaction{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Description: "LAUNCH PAD", Amount: amt("1")})

	out, changed := c.Recategorize([]models.CategorizedTransaction{stale, current})
	require.Len(t, out, 2)
	assert.Equal(t, 1, changed)
	assert.Equal(t, models.Reversal, out[0].Category)
	assert.Equal(t, "abc", out[0].ID)
	assert.Equal(t, c.Version(), out[0].RuleVersion)
	assert.Equal(t, current, out[1])
}

type stubSource struct {
	cfg models.RuleConfig
	err error
}

func (s stubSource) LoadRules() (models.RuleConfig, error) { return s.cfg, s.err }

func TestNewCategorizerFromSource(t *testing.T) {
	c, err := NewCategorizerFromSource(stubSource{cfg: models.DefaultRuleConfig()}, Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fernando", "Jhonatan"}, c.Partners())

	_, err = NewCategorizerFromSource(stubSource{err: errors.New("boom")}, Options{}, nil)
	assert.Error(t, err)

	_, err = NewCategorizerFromSource(stubSource{cfg: models.RuleConfig{}}, Options{}, nil)
	assert.Error(t, err)

	_, err = NewCategorizer(models.DefaultRuleConfig(), Options{Grouping: "fuzzy"}, nil)
	assert.Error(t, err)
}

func TestParseInvestmentGrouping(t *testing.T) {
	g, err := ParseInvestmentGrouping("")
	require.NoError(t, err)
	assert.Equal(t, GroupingLiteral, g)

	g, err = ParseInvestmentGrouping(" Explicit ")
	require.NoError(t, err)
	assert.Equal(t, GroupingExplicit, g)

	_, err = ParseInvestmentGrouping("other")
	assert.Error(t, err)
}
