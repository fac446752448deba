package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionBuilder_Build(t *testing.T) {
	tx, err := NewTransactionBuilder().
		WithDate("15/01/2025", "02/01/2006").
		WithDescription("  PIX RECEBIDO LAUNCH PAD  ").
		WithAmount(decimal.RequireFromString("1000.50")).
		Build()

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.Equal(t, "PIX RECEBIDO LAUNCH PAD", tx.Description)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("1000.5")))
}

func TestTransactionBuilder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		builder *TransactionBuilder
	}{
		{"empty date", NewTransactionBuilder().WithDate("", "2006-01-02").WithDescription("x")},
		{"bad date", NewTransactionBuilder().WithDate("31/02/2025", "02/01/2006").WithDescription("x")},
		{"empty description", NewTransactionBuilder().WithDate("2025-01-15", "2006-01-02").WithDescription("  ")},
		{"missing date", NewTransactionBuilder().WithDescription("x")},
		{"missing description", NewTransactionBuilder().WithDate("2025-01-15", "2006-01-02")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			assert.Error(t, err)
		})
	}
}

func TestTransactionBuilder_FirstErrorWins(t *testing.T) {
	b := NewTransactionBuilder().WithDate("bad", "2006-01-02").WithDescription("")
	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")
}

func TestNormalizeDate(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	in := time.Date(2025, 3, 10, 22, 15, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), NormalizeDate(in))
}

func TestCategorizationStats(t *testing.T) {
	stats := NewCategorizationStats()
	stats.Record(Revenue)
	stats.Record(Unclassified)
	stats.Record(PartnerWithdrawal("Jhonatan"))
	stats.Record(Revenue)
	stats.Record(Category{})

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Unclassified)
	assert.Equal(t, 2, stats.ByCategory["Revenue"])
	assert.InDelta(t, 60.0, stats.GetClassifiedRate(), 0.001)
	assert.Equal(t, 0.0, CategorizationStats{}.GetClassifiedRate())
}
