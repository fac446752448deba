package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/statement-ledger/internal/apperror"
	"fjacquet/statement-ledger/internal/logging"
	"fjacquet/statement-ledger/internal/models"
	"fjacquet/statement-ledger/internal/store"
)

// TransactionReader lists stored records.
type TransactionReader interface {
	ListTransactions(ctx context.Context, filter store.TransactionFilter) ([]models.CategorizedTransaction, error)
}

// Recategorizer recomputes categories from raw fields.
type Recategorizer interface {
	Recategorize(txs []models.CategorizedTransaction) ([]models.CategorizedTransaction, int)
}

// Row is one line of the report's detail list.
type Row struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
}

// Report is the metrics of a period plus its records, newest first.
type Report struct {
	Metrics Metrics `json:"metrics"`
	Rows    []Row   `json:"rows"`
}

// Service answers report requests against the store.
type Service struct {
	reader        TransactionReader
	aggregator    *Aggregator
	recategorizer Recategorizer
	logger        logging.Logger
}

// NewService creates a Service. When recategorizer is non-nil, stored
// categories are recomputed under the current rules before aggregating.
func NewService(reader TransactionReader, aggregator *Aggregator, recategorizer Recategorizer, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Service{
		reader:        reader,
		aggregator:    aggregator,
		recategorizer: recategorizer,
		logger:        logger,
	}
}

// Build validates the filter, loads the period's records and aggregates
// them. An inverted range is rejected with ValidationError; a store that
// was never initialized reports no data.
func (s *Service) Build(ctx context.Context, filter Filter) (Report, error) {
	period, err := filter.Period()
	if err != nil {
		return Report{}, err
	}

	records, err := s.reader.ListTransactions(ctx, store.TransactionFilter{From: period.Start, To: period.End})
	if err != nil {
		if !errors.Is(err, apperror.ErrStoreUnavailable) {
			return Report{}, fmt.Errorf("failed to load transactions: %w", err)
		}
		s.logger.WithError(err).Warn("Store not initialized, reporting no data")
		records = nil
	}

	if s.recategorizer != nil && len(records) > 0 {
		var changed int
		records, changed = s.recategorizer.Recategorize(records)
		if changed > 0 {
			s.logger.Info("Recategorized stored records for report",
				logging.Field{Key: logging.FieldCount, Value: changed})
		}
	}

	metrics := s.aggregator.Aggregate(records, period)
	s.logger.Debug("Report built",
		logging.Field{Key: logging.FieldPeriod, Value: period.Label},
		logging.Field{Key: logging.FieldCount, Value: metrics.TransactionCount})

	return Report{Metrics: metrics, Rows: rows(InPeriod(records, period))}, nil
}

// rows renders records newest first; records of the same day keep their
// stored order.
func rows(records []models.CategorizedTransaction) []Row {
	out := make([]Row, 0, len(records))
	for _, r := range records {
		out = append(out, Row{
			Date:        r.Date,
			Description: r.Description,
			Amount:      r.Amount,
			Category:    r.Category.String(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}
