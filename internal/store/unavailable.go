package store

import (
	"context"

	"fjacquet/statement-ledger/internal/apperror"
	"fjacquet/statement-ledger/internal/models"
)

// Reader is the read side shared by SQLiteStore and Unavailable.
type Reader interface {
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.CategorizedTransaction, error)
	ListInvestments(ctx context.Context, filter TransactionFilter) ([]models.InvestmentTransaction, error)
	ListImportRuns(ctx context.Context, limit int) ([]models.ImportRun, error)
}

var (
	_ Reader = (*SQLiteStore)(nil)
	_ Reader = (*Unavailable)(nil)
)

// Unavailable stands in for a store that could not be opened. Every read
// returns the open error, which readers treat as an empty store.
type Unavailable struct {
	Err error
}

// NewUnavailable wraps err as a StoreUnavailableError unless it already is one.
func NewUnavailable(err error) *Unavailable {
	if !IsUnavailable(err) {
		err = &apperror.StoreUnavailableError{Operation: "open", Err: err}
	}
	return &Unavailable{Err: err}
}

// ListTransactions always fails with the open error.
func (u *Unavailable) ListTransactions(context.Context, TransactionFilter) ([]models.CategorizedTransaction, error) {
	return nil, u.Err
}

// ListInvestments always fails with the open error.
func (u *Unavailable) ListInvestments(context.Context, TransactionFilter) ([]models.InvestmentTransaction, error) {
	return nil, u.Err
}

// ListImportRuns always fails with the open error.
func (u *Unavailable) ListImportRuns(context.Context, int) ([]models.ImportRun, error) {
	return nil, u.Err
}
