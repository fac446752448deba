package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionBuilder provides a fluent API for constructing raw transactions.
// The first error encountered is kept and returned by Build.
type TransactionBuilder struct {
	tx  RawTransaction
	err error
}

// NewTransactionBuilder creates a new TransactionBuilder.
func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{tx: RawTransaction{Amount: decimal.Zero}}
}

// WithDate sets the date from a string in the given layout.
func (b *TransactionBuilder) WithDate(dateStr, layout string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		b.err = errors.New("date cannot be empty")
		return b
	}
	date, err := time.Parse(layout, dateStr)
	if err != nil {
		b.err = fmt.Errorf("invalid date %q: %w", dateStr, err)
		return b
	}
	b.tx.Date = NormalizeDate(date)
	return b
}

// WithDescription sets the description.
func (b *TransactionBuilder) WithDescription(description string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	description = strings.TrimSpace(description)
	if description == "" {
		b.err = errors.New("description cannot be empty")
		return b
	}
	b.tx.Description = description
	return b
}

// WithAmount sets the signed amount.
func (b *TransactionBuilder) WithAmount(amount decimal.Decimal) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Amount = amount
	return b
}

// Build returns the transaction or the first error recorded.
func (b *TransactionBuilder) Build() (RawTransaction, error) {
	if b.err != nil {
		return RawTransaction{}, b.err
	}
	if b.tx.Date.IsZero() {
		return RawTransaction{}, errors.New("date is required")
	}
	if b.tx.Description == "" {
		return RawTransaction{}, errors.New("description is required")
	}
	return b.tx, nil
}
