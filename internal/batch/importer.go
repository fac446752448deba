package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"fjacquet/statement-ledger/internal/apperror"
	"fjacquet/statement-ledger/internal/fileutils"
	"fjacquet/statement-ledger/internal/ingest"
	"fjacquet/statement-ledger/internal/logging"
	"fjacquet/statement-ledger/internal/models"
)

// Extensions the batch importer picks up, mapped to how they are read.
const (
	ExtStatement  = ".csv"
	ExtInvestment = ".ofx"
)

// Loader parses sources and commits them to the store.
type Loader interface {
	LoadStatement(ctx context.Context, path string) (ingest.Batch, error)
	LoadInvestments(ctx context.Context, path string) (ingest.Batch, error)
	Commit(ctx context.Context, batch ingest.Batch) (ingest.Result, error)
}

// FileResult is the outcome for one file of the directory.
type FileResult struct {
	ingest.Result
	DateRange DateRange `json:"date_range"`
}

// Summary is the outcome of a directory import.
type Summary struct {
	Files     []FileResult `json:"files"`
	DateRange DateRange    `json:"date_range"`
	Appended  int          `json:"appended"`
	Failed    int          `json:"failed"`
}

// BatchImporter imports every statement and investment export of a directory.
// Files are parsed concurrently and merged into the store one at a time, in
// path order, so a record present in several overlapping exports is
// appended once, from the first file that holds it.
type BatchImporter struct {
	loader  Loader
	logger  logging.Logger
	workers int
}

// NewBatchImporter creates a BatchImporter parsing up to workers files at
// once; workers <= 0 uses the number of CPUs.
func NewBatchImporter(loader Loader, logger logging.Logger, workers int) *BatchImporter {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchImporter{loader: loader, logger: logger, workers: workers}
}

// DiscoverFiles lists the importable files under dir, sorted by path.
func (bi *BatchImporter) DiscoverFiles(dir string) ([]string, error) {
	if !fileutils.DirectoryExists(dir) {
		return nil, &apperror.SourceNotFoundError{Path: dir}
	}
	return fileutils.ListFilesWithExtensions(dir, ExtStatement, ExtInvestment)
}

type parsed struct {
	batch ingest.Batch
	err   error
}

// ImportDirectory imports every file found by DiscoverFiles. A file that
// is missing or malformed is reported in its FileResult and does not stop
// the others; store failures abort the run.
func (bi *BatchImporter) ImportDirectory(ctx context.Context, dir string) (Summary, error) {
	files, err := bi.DiscoverFiles(dir)
	if err != nil {
		return Summary{}, err
	}
	bi.logger.Info("Starting batch import",
		logging.Field{Key: logging.FieldFile, Value: dir},
		logging.Field{Key: logging.FieldCount, Value: len(files)})

	slots := make([]parsed, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bi.workers)
	for i, file := range files {
		g.Go(func() error {
			batch, err := bi.load(gctx, file)
			if err != nil && !apperror.IsExpected(err) {
				return fmt.Errorf("failed to parse %s: %w", file, err)
			}
			slots[i] = parsed{batch: batch, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	var summary Summary
	for i, file := range files {
		fr, err := bi.commit(ctx, file, slots[i])
		if err != nil {
			return summary, err
		}
		summary.Files = append(summary.Files, fr)
		summary.DateRange = summary.DateRange.Merge(fr.DateRange)
		summary.Appended += fr.Appended
		if !fr.OK() {
			summary.Failed++
		}
	}

	bi.logger.Info("Batch import finished",
		logging.Field{Key: logging.FieldFile, Value: dir},
		logging.Field{Key: logging.FieldCount, Value: len(files)},
		logging.Field{Key: logging.FieldNewCount, Value: summary.Appended},
		logging.Field{Key: logging.FieldPeriod, Value: summary.DateRange.String()})
	return summary, nil
}

func kindOf(file string) string {
	if strings.EqualFold(filepath.Ext(file), ExtInvestment) {
		return models.ImportKindInvestment
	}
	return models.ImportKindStatement
}

func (bi *BatchImporter) load(ctx context.Context, file string) (ingest.Batch, error) {
	if kindOf(file) == models.ImportKindInvestment {
		return bi.loader.LoadInvestments(ctx, file)
	}
	return bi.loader.LoadStatement(ctx, file)
}

func (bi *BatchImporter) commit(ctx context.Context, file string, p parsed) (FileResult, error) {
	if p.err != nil {
		bi.logger.WithError(p.err).Warn("Skipping file",
			logging.Field{Key: logging.FieldFile, Value: file})
		return FileResult{Result: ingest.Result{
			Source:  file,
			Kind:    kindOf(file),
			Status:  p.err.Error(),
			Problem: p.err,
		}}, nil
	}

	result, err := bi.loader.Commit(ctx, p.batch)
	if err != nil {
		return FileResult{}, fmt.Errorf("failed to import %s: %w", file, err)
	}
	start, end := p.batch.DateRange()
	return FileResult{Result: result, DateRange: DateRange{Start: start, End: end}}, nil
}
