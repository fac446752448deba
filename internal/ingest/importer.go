package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fjacquet/statement-ledger/internal/apperror"
	"fjacquet/statement-ledger/internal/logging"
	"fjacquet/statement-ledger/internal/models"
	"fjacquet/statement-ledger/internal/ofxparser"
	"fjacquet/statement-ledger/internal/statementparser"
)

// Store is the persistence the importer appends to.
type Store interface {
	ExistingTransactionIDs(ctx context.Context) (map[string]struct{}, error)
	AppendTransactions(ctx context.Context, txs []models.CategorizedTransaction) (int, error)
	ExistingInvestmentIDs(ctx context.Context) (map[string]struct{}, error)
	AppendInvestments(ctx context.Context, txs []models.InvestmentTransaction) (int, error)
	RecordImportRun(ctx context.Context, run models.ImportRun) error
}

// StatementParser reads delimited statement exports.
type StatementParser interface {
	ParseFile(ctx context.Context, path string) (statementparser.Result, error)
}

// InvestmentParser reads investment account exports.
type InvestmentParser interface {
	ParseFile(ctx context.Context, path string) (ofxparser.Statement, error)
}

// Classifier assigns categories and ids to raw records.
type Classifier interface {
	ApplyAll(raws []models.RawTransaction) ([]models.CategorizedTransaction, *models.CategorizationStats)
}

// Batch holds the records read from one source, identified and ready to merge.
type Batch struct {
	Source       string
	Kind         string
	Transactions []models.CategorizedTransaction
	Investments  []models.InvestmentTransaction
	// Malformed rows skipped while parsing.
	Malformed int
}

// Parsed is the number of records read from the source.
func (b Batch) Parsed() int {
	if b.Kind == models.ImportKindInvestment {
		return len(b.Investments)
	}
	return len(b.Transactions)
}

// DateRange returns the earliest and latest record dates of the batch.
// Both are zero for an empty batch.
func (b Batch) DateRange() (time.Time, time.Time) {
	var start, end time.Time
	visit := func(d time.Time) {
		if start.IsZero() || d.Before(start) {
			start = d
		}
		if end.IsZero() || d.After(end) {
			end = d
		}
	}
	for _, t := range b.Transactions {
		visit(t.Date)
	}
	for _, t := range b.Investments {
		visit(t.Date)
	}
	return start, end
}

// Result is the outcome of one import, reported to the operator.
type Result struct {
	RunID     string `json:"run_id,omitempty"`
	Source    string `json:"source"`
	Kind      string `json:"kind"`
	Parsed    int    `json:"parsed"`
	Appended  int    `json:"appended"`
	Skipped   int    `json:"skipped"`
	Malformed int    `json:"malformed"`
	Status    string `json:"status"`
	// Problem is the expected condition that stopped the import, if any.
	Problem error `json:"-"`
}

// OK reports whether the import ran to completion.
func (r Result) OK() bool {
	return r.Problem == nil
}

// StatusMessage renders the operator-facing status of an import that
// appended n records.
func StatusMessage(n int) string {
	if n == 0 {
		return "no new records"
	}
	return fmt.Sprintf("%d new records imported", n)
}

// Importer reads source files, categorizes and deduplicates their records,
// and appends the new ones to the store.
type Importer struct {
	store       Store
	statements  StatementParser
	investments InvestmentParser
	classifier  Classifier
	logger      logging.Logger
	now         func() time.Time
}

// NewImporter creates an Importer.
func NewImporter(store Store, statements StatementParser, investments InvestmentParser, classifier Classifier, logger logging.Logger) *Importer {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Importer{
		store:       store,
		statements:  statements,
		investments: investments,
		classifier:  classifier,
		logger:      logger,
		now:         time.Now,
	}
}

// ImportFile imports a delimited statement. Missing or malformed sources
// are reported through Result.Status; only unexpected failures are returned.
func (im *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	batch, err := im.LoadStatement(ctx, path)
	if err != nil {
		return im.failed(path, models.ImportKindStatement, err)
	}
	return im.Commit(ctx, batch)
}

// ImportInvestments imports an investment account export into the
// investment table, with the same merge contract as ImportFile.
func (im *Importer) ImportInvestments(ctx context.Context, path string) (Result, error) {
	batch, err := im.LoadInvestments(ctx, path)
	if err != nil {
		return im.failed(path, models.ImportKindInvestment, err)
	}
	return im.Commit(ctx, batch)
}

// LoadStatement parses and categorizes a statement without touching the store.
func (im *Importer) LoadStatement(ctx context.Context, path string) (Batch, error) {
	if im.statements == nil || im.classifier == nil {
		return Batch{}, errors.New("statement import is not configured")
	}
	parsed, err := im.statements.ParseFile(ctx, path)
	if err != nil {
		return Batch{}, err
	}

	categorized, stats := im.classifier.ApplyAll(parsed.Transactions)
	stats.LogSummary(im.logger, path)
	if dup := len(categorized) - len(IDs(categorized)); dup > 0 {
		im.logger.Warn("Identical lines share one identifier and are stored once",
			logging.Field{Key: logging.FieldFile, Value: path},
			logging.Field{Key: logging.FieldCount, Value: dup})
	}

	return Batch{
		Source:       path,
		Kind:         models.ImportKindStatement,
		Transactions: categorized,
		Malformed:    len(parsed.Malformed),
	}, nil
}

// LoadInvestments parses an investment export without touching the store.
func (im *Importer) LoadInvestments(ctx context.Context, path string) (Batch, error) {
	if im.investments == nil {
		return Batch{}, errors.New("investment import is not configured")
	}
	stmt, err := im.investments.ParseFile(ctx, path)
	if err != nil {
		return Batch{}, err
	}
	return Batch{
		Source:      path,
		Kind:        models.ImportKindInvestment,
		Investments: stmt.Transactions,
	}, nil
}

// Commit merges a loaded batch against the store and appends the new
// records. An uninitialized store counts as holding no records.
func (im *Importer) Commit(ctx context.Context, batch Batch) (Result, error) {
	result := Result{
		Source:    batch.Source,
		Kind:      batch.Kind,
		Parsed:    batch.Parsed(),
		Malformed: batch.Malformed,
	}

	var err error
	switch batch.Kind {
	case models.ImportKindInvestment:
		result.Appended, err = im.commitInvestments(ctx, batch.Investments)
	default:
		result.Appended, err = im.commitTransactions(ctx, batch.Transactions)
	}
	if err != nil {
		return result, err
	}

	result.Skipped = result.Parsed - result.Appended
	result.Status = StatusMessage(result.Appended)
	result.RunID = im.recordRun(ctx, result)

	im.logger.Info("Import finished",
		logging.Field{Key: logging.FieldFile, Value: batch.Source},
		logging.Field{Key: logging.FieldKind, Value: batch.Kind},
		logging.Field{Key: logging.FieldCount, Value: result.Parsed},
		logging.Field{Key: logging.FieldNewCount, Value: result.Appended},
		logging.Field{Key: logging.FieldStatus, Value: result.Status})
	return result, nil
}

func (im *Importer) commitTransactions(ctx context.Context, txs []models.CategorizedTransaction) (int, error) {
	existing, err := im.existing(ctx, im.store.ExistingTransactionIDs)
	if err != nil {
		return 0, err
	}
	fresh := Merge(txs, existing)
	if len(fresh) == 0 {
		return 0, nil
	}
	n, err := im.store.AppendTransactions(ctx, fresh)
	if err != nil {
		return 0, fmt.Errorf("failed to append transactions: %w", err)
	}
	return n, nil
}

func (im *Importer) commitInvestments(ctx context.Context, txs []models.InvestmentTransaction) (int, error) {
	existing, err := im.existing(ctx, im.store.ExistingInvestmentIDs)
	if err != nil {
		return 0, err
	}
	fresh := Merge(txs, existing)
	if len(fresh) == 0 {
		return 0, nil
	}
	n, err := im.store.AppendInvestments(ctx, fresh)
	if err != nil {
		return 0, fmt.Errorf("failed to append investment transactions: %w", err)
	}
	return n, nil
}

func (im *Importer) existing(ctx context.Context, lookup func(context.Context) (map[string]struct{}, error)) (map[string]struct{}, error) {
	ids, err := lookup(ctx)
	if err == nil {
		return ids, nil
	}
	if errors.Is(err, apperror.ErrStoreUnavailable) {
		im.logger.WithError(err).Warn("Store not initialized, treating existing records as empty")
		return nil, nil
	}
	return nil, fmt.Errorf("failed to read existing ids: %w", err)
}

// recordRun writes the import history entry. History is informational, so
// a failure is logged and the import still succeeds.
func (im *Importer) recordRun(ctx context.Context, result Result) string {
	run := models.ImportRun{
		ID:        uuid.NewString(),
		Source:    result.Source,
		Kind:      result.Kind,
		StartedAt: im.now().UTC(),
		Parsed:    result.Parsed,
		Appended:  result.Appended,
	}
	if err := im.store.RecordImportRun(ctx, run); err != nil {
		im.logger.WithError(err).Warn("Failed to record import run",
			logging.Field{Key: logging.FieldRunID, Value: run.ID})
		return ""
	}
	return run.ID
}

// failed converts expected source problems into a status result.
func (im *Importer) failed(path, kind string, err error) (Result, error) {
	if !apperror.IsExpected(err) {
		return Result{Source: path, Kind: kind}, err
	}
	im.logger.WithError(err).Warn("Import aborted",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldKind, Value: kind})
	return Result{
		Source:  path,
		Kind:    kind,
		Status:  err.Error(),
		Problem: err,
	}, nil
}
