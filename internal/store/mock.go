package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fjacquet/statement-ledger/internal/apperror"
	"fjacquet/statement-ledger/internal/models"
)

// MockStore is an in-memory stand-in for SQLiteStore used in tests.
type MockStore struct {
	mu           sync.Mutex
	Transactions []models.CategorizedTransaction
	Investments  []models.InvestmentTransaction
	Runs         []models.ImportRun

	// Unavailable makes every id lookup and listing fail as an uninitialized store.
	Unavailable bool

	// Error flags for testing error conditions
	AppendError error
	ListError   error
	RecordError error
}

// NewMockStore creates an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) unavailable(op string) error {
	if m.Unavailable {
		return &apperror.StoreUnavailableError{Operation: op}
	}
	return nil
}

// ExistingTransactionIDs returns the stored transaction ids.
func (m *MockStore) ExistingTransactionIDs(_ context.Context) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.unavailable("list transaction ids"); err != nil {
		return nil, err
	}
	ids := make(map[string]struct{}, len(m.Transactions))
	for _, t := range m.Transactions {
		ids[t.ID] = struct{}{}
	}
	return ids, nil
}

// AppendTransactions appends records, rejecting duplicate ids like the primary key would.
func (m *MockStore) AppendTransactions(_ context.Context, txs []models.CategorizedTransaction) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendError != nil {
		return 0, m.AppendError
	}
	seen := make(map[string]bool, len(m.Transactions))
	for _, t := range m.Transactions {
		seen[t.ID] = true
	}
	for _, t := range txs {
		if seen[t.ID] {
			return 0, fmt.Errorf("duplicate transaction id %s", t.ID)
		}
		seen[t.ID] = true
	}
	m.Transactions = append(m.Transactions, txs...)
	return len(txs), nil
}

// ListTransactions returns records within the filter, oldest first.
func (m *MockStore) ListTransactions(_ context.Context, filter TransactionFilter) ([]models.CategorizedTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.unavailable("list transactions"); err != nil {
		return nil, err
	}
	if m.ListError != nil {
		return nil, m.ListError
	}
	var out []models.CategorizedTransaction
	for _, t := range m.Transactions {
		if !filter.From.IsZero() && t.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && t.Date.After(filter.To) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// UpdateCategories rewrites categories of matching ids.
func (m *MockStore) UpdateCategories(_ context.Context, txs []models.CategorizedTransaction) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byID := make(map[string]models.CategorizedTransaction, len(txs))
	for _, t := range txs {
		byID[t.ID] = t
	}
	updated := 0
	for i, t := range m.Transactions {
		if u, ok := byID[t.ID]; ok {
			m.Transactions[i] = t.WithCategory(u.Category, u.RuleVersion)
			updated++
		}
	}
	return updated, nil
}

// ExistingInvestmentIDs returns the stored investment ids.
func (m *MockStore) ExistingInvestmentIDs(_ context.Context) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.unavailable("list investment ids"); err != nil {
		return nil, err
	}
	ids := make(map[string]struct{}, len(m.Investments))
	for _, t := range m.Investments {
		ids[t.ID] = struct{}{}
	}
	return ids, nil
}

// AppendInvestments appends investment movements.
func (m *MockStore) AppendInvestments(_ context.Context, txs []models.InvestmentTransaction) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendError != nil {
		return 0, m.AppendError
	}
	m.Investments = append(m.Investments, txs...)
	return len(txs), nil
}

// RecordImportRun appends to the in-memory history.
func (m *MockStore) RecordImportRun(_ context.Context, run models.ImportRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecordError != nil {
		return m.RecordError
	}
	m.Runs = append(m.Runs, run)
	return nil
}

// ListImportRuns returns the history, most recent first.
func (m *MockStore) ListImportRuns(_ context.Context, limit int) ([]models.ImportRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ImportRun, 0, len(m.Runs))
	for i := len(m.Runs) - 1; i >= 0; i-- {
		out = append(out, m.Runs[i])
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
