// Package models provides the data structures used throughout the application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawTransaction is a statement line as produced by a parser, before
// categorization. The sign of Amount encodes debit (negative) or credit.
type RawTransaction struct {
	Date        time.Time       `json:"date" yaml:"date"`
	Description string          `json:"description" yaml:"description"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
}

// NormalizeDate truncates a timestamp to its calendar date in UTC.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Identified is implemented by every record merged by content identifier.
type Identified interface {
	GetID() string
}

// InvestmentTransaction is a movement read from an investment-account export.
// ID is the institution's transaction id when the export carries one.
type InvestmentTransaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
}

// GetID implements Identified.
func (t InvestmentTransaction) GetID() string {
	return t.ID
}
