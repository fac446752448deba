package categorize_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/statement-ledger/cmd/categorize"
	"fjacquet/statement-ledger/cmd/root"
	"fjacquet/statement-ledger/internal/store"
)

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	root.Flags = root.GlobalFlags{
		LogLevel:  "error",
		StorePath: filepath.Join(dir, "ledger.db"),
		RulesFile: filepath.Join(dir, "rules.yaml"),
	}
	require.NoError(t, root.Initialize(root.Cmd))
	t.Cleanup(func() {
		root.AppContainer = nil
		root.Flags = root.GlobalFlags{}
		for _, name := range []string{"init-rules", "force", "list"} {
			_ = categorize.Cmd.Flags().Set(name, "false")
		}
	})
	return dir
}

func run(cmd *cobra.Command, args ...string) (string, error) {
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetContext(context.Background())
	err := cmd.RunE(cmd, args)
	return buf.String(), err
}

func TestCategorizeCommand_Metadata(t *testing.T) {
	assert.Equal(t, "categorize [description] [amount]", categorize.Cmd.Use)
	assert.Contains(t, categorize.Cmd.Short, "Categorize a transaction")
	assert.NotNil(t, categorize.Cmd.RunE)

	for _, name := range []string{"init-rules", "force", "list"} {
		flag := categorize.Cmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "false", flag.DefValue)
	}
}

func TestCategorizeCommand_Categorize(t *testing.T) {
	tests := []struct {
		name        string
		description string
		amount      string
		expected    string
	}{
		{"revenue", "PIX RECEBIDO LAUNCH PAD TECNOLOGIA", "1000,00", "Category: Revenue"},
		{"partner", "PIX ENVIADO JHONATAN", "-200,00", "Category: PartnerWithdrawal(Jhonatan)"},
		{"accounting", "BOLETO CONTABILIZEI", "-100,00", "Category: AccountingCost"},
		{"outbound", "PIX ENVIADO FORNECEDOR", "-50,00", "Category: OperatingExpense"},
		{"zero amount", "PIX ENVIADO FORNECEDOR", "0", "Category: Unclassified"},
	}

	setup(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(categorize.Cmd, tt.description, tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.expected+"\n", out)
		})
	}
}

func TestCategorizeCommand_Errors(t *testing.T) {
	setup(t)

	_, err := run(categorize.Cmd, "ONLY DESCRIPTION")
	assert.EqualError(t, err, "categorize needs a description and an amount")

	_, err = run(categorize.Cmd, "PIX", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid amount")
}

func TestCategorizeCommand_InitRules(t *testing.T) {
	dir := setup(t)
	rulesFile := filepath.Join(dir, "rules.yaml")
	require.NoError(t, categorize.Cmd.Flags().Set("init-rules", "true"))

	out, err := run(categorize.Cmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Rules written to "+rulesFile)

	rules, err := store.NewRuleStore(rulesFile, nil).LoadRules()
	require.NoError(t, err)
	assert.Equal(t, []string{"Fernando", "Jhonatan"}, rules.PartnerNames())

	_, err = run(categorize.Cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, categorize.Cmd.Flags().Set("force", "true"))
	_, err = run(categorize.Cmd)
	assert.NoError(t, err)
}

func TestCategorizeCommand_ListRules(t *testing.T) {
	setup(t)
	require.NoError(t, categorize.Cmd.Flags().Set("list", "true"))

	out, err := run(categorize.Cmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Rule version: 2/literal")
	assert.Contains(t, out, " 1. reversal")
	assert.Contains(t, out, "partner:Jhonatan")
}
