package statementparser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/statement-ledger/internal/apperror"
	"fjacquet/statement-ledger/internal/logging"
)

const header = "line 1\nline 2\nline 3\nline 4\nline 5\n"

func parse(t *testing.T, opts Options, content string) (Result, error) {
	t.Helper()
	return NewParser(opts, logging.NewMockLogger()).Parse(strings.NewReader(content), "test.csv")
}

func TestParseFile_BankExport(t *testing.T) {
	result, err := NewParser(DefaultOptions(), logging.NewMockLogger()).
		ParseFile(context.Background(), filepath.Join("testdata", "extrato.csv"))
	require.NoError(t, err)

	require.Len(t, result.Transactions, 3)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), result.Transactions[0].Date)
	assert.Equal(t, "LAUNCH PAD TECNOLOGIA", result.Transactions[0].Description)
	assert.True(t, result.Transactions[0].Amount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, result.Transactions[2].Amount.Equal(decimal.NewFromInt(-200)))
	assert.Equal(t, 1, result.Ignored)
	assert.Empty(t, result.Malformed)
}

func TestParseFile_NotFound(t *testing.T) {
	_, err := NewParser(DefaultOptions(), nil).ParseFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	var notFound *apperror.SourceNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseFile_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewParser(DefaultOptions(), nil).ParseFile(ctx, filepath.Join("testdata", "extrato.csv"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParse_MalformedRowSkipped(t *testing.T) {
	content := header +
		"Data Lançamento;Descrição;Valor\n" +
		"05/01/2024;OK;10,00\n" +
		"32/01/2024;BAD DATE;5,00\n" +
		"06/01/2024;BAD AMOUNT;abc\n" +
		"07/01/2024;OK AGAIN;-1,50\n"

	result, err := parse(t, DefaultOptions(), content)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "OK AGAIN", result.Transactions[1].Description)

	require.Len(t, result.Malformed, 2)
	assert.Equal(t, 8, result.Malformed[0].Line)
	assert.Equal(t, "32/01/2024;BAD DATE;5,00", result.Malformed[0].RawContent)
	assert.Equal(t, 9, result.Malformed[1].Line)
	assert.Contains(t, result.Malformed[1].Reason, "amount")
}

func TestParse_MalformedRowAborts(t *testing.T) {
	opts := DefaultOptions()
	opts.Malformed = PolicyAbort
	content := header +
		"Data Lançamento;Descrição;Valor\n" +
		"05/01/2024;OK;10,00\n" +
		"06/01/2024;BAD AMOUNT;1,2,3\n"

	_, err := parse(t, opts, content)
	var malformed *apperror.SourceMalformedError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 8, malformed.Line)
	assert.Contains(t, err.Error(), "06/01/2024;BAD AMOUNT;1,2,3")
}

func TestParse_MalformedRowKeepsSourceText(t *testing.T) {
	tests := []struct {
		name       string
		row        string
		terminator string
	}{
		{"quoted delimiter", `06/01/2024;"PIX ENVIADO; FORNECEDOR";abc`, "\n"},
		{"escaped quotes", `06/01/2024;"TARIFA ""PACOTE""";1,2,3`, "\n"},
		{"crlf terminated", `06/01/2024;"BOLETO; LUZ";x`, "\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Malformed = PolicyAbort
			content := header +
				"Data Lançamento;Descrição;Valor\n" +
				"\n" +
				"05/01/2024;OK;10,00\n" +
				tt.row + tt.terminator +
				"07/01/2024;NEVER READ;1,00\n"

			_, err := parse(t, opts, content)
			var malformed *apperror.SourceMalformedError
			require.True(t, errors.As(err, &malformed), "got %v", err)
			assert.Equal(t, tt.row, malformed.RawContent)
			assert.Equal(t, 9, malformed.Line)
		})
	}
}

func TestParse_LayoutErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		reason  string
	}{
		{"shorter than preamble", "only\ntwo lines\n", "preamble"},
		{"no header", header, "no header row"},
		{"missing column", header + "Data Lançamento;Descrição\n01/01/2024;x\n", "Valor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, DefaultOptions(), tt.content)
			var malformed *apperror.SourceMalformedError
			require.True(t, errors.As(err, &malformed), "got %v", err)
			assert.Contains(t, malformed.Error(), tt.reason)
		})
	}
}

func TestParse_CustomLayout(t *testing.T) {
	opts := Options{
		Delimiter:         ',',
		SkipRows:          0,
		DateFormat:        "2006-01-02",
		DateColumn:        "date",
		DescriptionColumn: "memo",
		AmountColumn:      "value",
		DecimalSeparator:  ".",
	}
	content := "\ufeffDate,Memo,Value\n2024-02-01,\"PIX ENVIADO, FORNECEDOR\",\"-1,234.50\"\n2024-02-02,,10\n"

	result, err := parse(t, opts, content)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "PIX ENVIADO, FORNECEDOR", result.Transactions[0].Description)
	assert.True(t, result.Transactions[0].Amount.Equal(decimal.RequireFromString("-1234.5")))
	assert.Equal(t, 1, result.Ignored)
}

func TestParse_ShortRowsArePadded(t *testing.T) {
	content := header + "Valor;Descrição;Data Lançamento\n5,00;SHORT\n1,00;FULL;02/01/2024\n"

	result, err := parse(t, DefaultOptions(), content)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "FULL", result.Transactions[0].Description)
	require.Len(t, result.Malformed, 1)
	assert.Equal(t, "5,00;SHORT", result.Malformed[0].RawContent)
	assert.Equal(t, 0, result.Ignored)
}
