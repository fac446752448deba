// Package store persists categorized transactions, investment movements and
// the import history in SQLite, and loads the categorization rule file.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"fjacquet/statement-ledger/internal/apperror"
	"fjacquet/statement-ledger/internal/fileutils"
	"fjacquet/statement-ledger/internal/logging"
	"fjacquet/statement-ledger/internal/models"
)

const dateLayout = "2006-01-02"

// TransactionFilter bounds a listing by date, inclusive. Zero values are unbounded.
type TransactionFilter struct {
	From time.Time
	To   time.Time
}

// SQLiteStore is the append-only record store. Rows are never deleted and
// only the derived category columns are ever rewritten.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger logging.Logger
}

// Open opens the database at path, creating it and applying migrations.
func Open(path string, logger logging.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(path); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Debug("Store opened", logging.Field{Key: logging.FieldFile, Value: path})
	return &SQLiteStore{db: db, path: path, logger: logger}, nil
}

// OpenExisting opens an existing database without creating or migrating it.
// Read paths use it so that reporting never creates an empty store.
func OpenExisting(path string, logger logging.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, &apperror.StoreUnavailableError{Operation: "open " + path, Err: err}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &apperror.StoreUnavailableError{Operation: "ping " + path, Err: err}
	}
	return &SQLiteStore{db: db, path: path, logger: logger}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// unavailable maps missing-schema failures to StoreUnavailableError.
func (s *SQLiteStore) unavailable(operation string, err error) error {
	if strings.Contains(err.Error(), "no such table") {
		return &apperror.StoreUnavailableError{Operation: operation, Err: err}
	}
	return fmt.Errorf("%s: %w", operation, err)
}

func (s *SQLiteStore) ready(operation string) error {
	if s == nil || s.db == nil {
		return &apperror.StoreUnavailableError{Operation: operation}
	}
	return nil
}

func (s *SQLiteStore) ids(ctx context.Context, operation, query string) (map[string]struct{}, error) {
	if err := s.ready(operation); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, s.unavailable(operation, err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", operation, err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// ExistingTransactionIDs returns every stored transaction id.
func (s *SQLiteStore) ExistingTransactionIDs(ctx context.Context) (map[string]struct{}, error) {
	return s.ids(ctx, "list transaction ids", `SELECT id FROM transactions`)
}

// AppendTransactions inserts all records in a single SQL transaction.
// A duplicate id aborts the whole batch.
func (s *SQLiteStore) AppendTransactions(ctx context.Context, txs []models.CategorizedTransaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}
	if err := s.ready("append transactions"); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transactions (id, date, description, amount, category, rule_version) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, s.unavailable("prepare append", err)
	}
	defer stmt.Close()

	for _, t := range txs {
		if _, err := stmt.ExecContext(ctx, t.ID, t.Date.Format(dateLayout), t.Description,
			t.Amount.String(), t.Category.String(), t.RuleVersion); err != nil {
			return 0, fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit append: %w", err)
	}

	s.logger.Debug("Transactions appended", logging.Field{Key: logging.FieldCount, Value: len(txs)})
	return len(txs), nil
}

// ListTransactions returns stored records within the filter, oldest first,
// ties in insertion order.
func (s *SQLiteStore) ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.CategorizedTransaction, error) {
	if err := s.ready("list transactions"); err != nil {
		return nil, err
	}

	query := `SELECT id, date, description, amount, category, rule_version FROM transactions`
	var conds []string
	var args []interface{}
	if !filter.From.IsZero() {
		conds = append(conds, "date >= ?")
		args = append(args, filter.From.Format(dateLayout))
	}
	if !filter.To.IsZero() {
		conds = append(conds, "date <= ?")
		args = append(args, filter.To.Format(dateLayout))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date, rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.unavailable("list transactions", err)
	}
	defer rows.Close()

	var out []models.CategorizedTransaction
	for rows.Next() {
		var (
			t                        models.CategorizedTransaction
			date, amount, categoryID string
		)
		if err := rows.Scan(&t.ID, &date, &t.Description, &amount, &categoryID, &t.RuleVersion); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if t.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("transaction %s has invalid date %q: %w", t.ID, date, err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("transaction %s has invalid amount %q: %w", t.ID, amount, err)
		}
		if t.Category, err = models.ParseCategory(categoryID); err != nil {
			return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateCategories rewrites the category and rule version of existing rows.
// Raw fields and ids are left untouched.
func (s *SQLiteStore) UpdateCategories(ctx context.Context, txs []models.CategorizedTransaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}
	if err := s.ready("update categories"); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `UPDATE transactions SET category = ?, rule_version = ? WHERE id = ?`)
	if err != nil {
		return 0, s.unavailable("prepare update", err)
	}
	defer stmt.Close()

	updated := 0
	for _, t := range txs {
		res, err := stmt.ExecContext(ctx, t.Category.String(), t.RuleVersion, t.ID)
		if err != nil {
			return 0, fmt.Errorf("update transaction %s: %w", t.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("update transaction %s: %w", t.ID, err)
		}
		updated += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit update: %w", err)
	}
	return updated, nil
}

// ExistingInvestmentIDs returns every stored investment movement id.
func (s *SQLiteStore) ExistingInvestmentIDs(ctx context.Context) (map[string]struct{}, error) {
	return s.ids(ctx, "list investment ids", `SELECT id FROM investment_transactions`)
}

// AppendInvestments inserts investment movements in a single SQL transaction.
func (s *SQLiteStore) AppendInvestments(ctx context.Context, txs []models.InvestmentTransaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}
	if err := s.ready("append investments"); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO investment_transactions (id, date, description, amount, type) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, s.unavailable("prepare append", err)
	}
	defer stmt.Close()

	for _, t := range txs {
		if _, err := stmt.ExecContext(ctx, t.ID, t.Date.Format(dateLayout), t.Description, t.Amount.String(), t.Type); err != nil {
			return 0, fmt.Errorf("insert investment %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit append: %w", err)
	}
	return len(txs), nil
}

// ListInvestments returns investment movements within the filter, oldest first.
func (s *SQLiteStore) ListInvestments(ctx context.Context, filter TransactionFilter) ([]models.InvestmentTransaction, error) {
	if err := s.ready("list investments"); err != nil {
		return nil, err
	}

	query := `SELECT id, date, description, amount, type FROM investment_transactions WHERE date >= ? AND date <= ? ORDER BY date, rowid`
	from, to := "0000-01-01", "9999-12-31"
	if !filter.From.IsZero() {
		from = filter.From.Format(dateLayout)
	}
	if !filter.To.IsZero() {
		to = filter.To.Format(dateLayout)
	}

	rows, err := s.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, s.unavailable("list investments", err)
	}
	defer rows.Close()

	var out []models.InvestmentTransaction
	for rows.Next() {
		var (
			t            models.InvestmentTransaction
			date, amount string
		)
		if err := rows.Scan(&t.ID, &date, &t.Description, &amount, &t.Type); err != nil {
			return nil, fmt.Errorf("scan investment: %w", err)
		}
		if t.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("investment %s has invalid date %q: %w", t.ID, date, err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("investment %s has invalid amount %q: %w", t.ID, amount, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// RecordImportRun appends one entry to the import history.
func (s *SQLiteStore) RecordImportRun(ctx context.Context, run models.ImportRun) error {
	if err := s.ready("record import run"); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO import_runs (id, source, kind, started_at, parsed, appended) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Kind, run.StartedAt.UTC().Format(time.RFC3339), run.Parsed, run.Appended)
	if err != nil {
		return s.unavailable("record import run", err)
	}
	return nil
}

// ListImportRuns returns the most recent import runs first. A limit of zero
// or less returns all of them.
func (s *SQLiteStore) ListImportRuns(ctx context.Context, limit int) ([]models.ImportRun, error) {
	if err := s.ready("list import runs"); err != nil {
		return nil, err
	}
	query := `SELECT id, source, kind, started_at, parsed, appended FROM import_runs ORDER BY started_at DESC, rowid DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.unavailable("list import runs", err)
	}
	defer rows.Close()

	var out []models.ImportRun
	for rows.Next() {
		var (
			run       models.ImportRun
			startedAt string
		)
		if err := rows.Scan(&run.ID, &run.Source, &run.Kind, &startedAt, &run.Parsed, &run.Appended); err != nil {
			return nil, fmt.Errorf("scan import run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
			return nil, fmt.Errorf("import run %s has invalid time %q: %w", run.ID, startedAt, err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// IsUnavailable reports whether err means the store has not been initialized.
func IsUnavailable(err error) bool {
	return errors.Is(err, apperror.ErrStoreUnavailable)
}
