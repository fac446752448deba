// Package container provides dependency injection for the statement-ledger application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"
	"unicode/utf8"

	"fjacquet/statement-ledger/internal/batch"
	"fjacquet/statement-ledger/internal/categorizer"
	"fjacquet/statement-ledger/internal/config"
	"fjacquet/statement-ledger/internal/ingest"
	"fjacquet/statement-ledger/internal/logging"
	"fjacquet/statement-ledger/internal/ofxparser"
	"fjacquet/statement-ledger/internal/report"
	"fjacquet/statement-ledger/internal/server"
	"fjacquet/statement-ledger/internal/statementparser"
	"fjacquet/statement-ledger/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
// It acts as the central registry for dependency injection, ensuring that all
// components receive their required dependencies through constructors.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	ruleStore   *store.RuleStore
	categorizer *categorizer.Categorizer

	statementParser *statementparser.Parser
	ofxParser       *ofxparser.Parser
}

// NewContainerWithLogger creates and wires all application dependencies
// around an existing logger. A nil logger discards output.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	ruleStore := store.NewRuleStore(cfg.Rules.File, logger)

	grouping, err := categorizer.ParseInvestmentGrouping(cfg.Rules.InvestmentGrouping)
	if err != nil {
		return nil, err
	}

	cat, err := categorizer.NewCategorizerFromSource(ruleStore, categorizer.Options{
		Grouping:    grouping,
		FoldAccents: cfg.Rules.FoldAccents,
	}, logger)
	if err != nil {
		return nil, err
	}

	statementParser := statementparser.NewParser(StatementOptions(cfg), logger)
	ofxParser := ofxparser.NewParser(logger)

	logger.Debug("Container initialized successfully",
		logging.F("rule_version", cat.Version()),
		logging.F("partners", len(cat.Partners())))

	return &Container{
		logger:          logger,
		config:          cfg,
		ruleStore:       ruleStore,
		categorizer:     cat,
		statementParser: statementParser,
		ofxParser:       ofxParser,
	}, nil
}

// StatementOptions maps the csv and import sections onto parser options.
func StatementOptions(cfg *config.Config) statementparser.Options {
	opts := statementparser.DefaultOptions()
	if r, _ := utf8.DecodeRuneInString(cfg.CSV.Delimiter); r != utf8.RuneError {
		opts.Delimiter = r
	}
	opts.SkipRows = cfg.CSV.SkipRows
	if cfg.CSV.DateFormat != "" {
		opts.DateFormat = cfg.CSV.DateFormat
	}
	if cfg.CSV.DateColumn != "" {
		opts.DateColumn = cfg.CSV.DateColumn
	}
	if cfg.CSV.DescriptionColumn != "" {
		opts.DescriptionColumn = cfg.CSV.DescriptionColumn
	}
	if cfg.CSV.AmountColumn != "" {
		opts.AmountColumn = cfg.CSV.AmountColumn
	}
	if cfg.CSV.DecimalSeparator != "" {
		opts.DecimalSeparator = cfg.CSV.DecimalSeparator
	}
	if cfg.Import.MalformedRows == config.MalformedAbort {
		opts.Malformed = statementparser.PolicyAbort
	} else {
		opts.Malformed = statementparser.PolicySkip
	}
	return opts
}

// OpenStore opens the configured database, creating and migrating it when needed.
func (c *Container) OpenStore() (*store.SQLiteStore, error) {
	return store.Open(c.config.Store.Path, c.logger)
}

// OpenExistingStore opens the configured database for reading without
// creating it. A missing database yields StoreUnavailableError.
func (c *Container) OpenExistingStore() (*store.SQLiteStore, error) {
	return store.OpenExisting(c.config.Store.Path, c.logger)
}

// NewImporter creates an importer appending to st.
func (c *Container) NewImporter(st ingest.Store) *ingest.Importer {
	return ingest.NewImporter(st, c.statementParser, c.ofxParser, c.categorizer, c.logger)
}

// NewBatchImporter creates a directory importer appending to st.
func (c *Container) NewBatchImporter(st ingest.Store, workers int) *batch.BatchImporter {
	return batch.NewBatchImporter(c.NewImporter(st), c.logger, workers)
}

// NewReportService creates a report service reading from reader. Stored
// categories are recomputed first when report.recategorize is set.
func (c *Container) NewReportService(reader report.TransactionReader) *report.Service {
	var recat report.Recategorizer
	if c.config.Report.Recategorize {
		recat = c.categorizer
	}
	aggregator := report.NewAggregator(c.categorizer.Partners(), c.config.Report.BalanceKeyword)
	return report.NewService(reader, aggregator, recat, c.logger)
}

// NewReportGenerator creates a generator using the configured currency symbol.
func (c *Container) NewReportGenerator() *report.ReportGenerator {
	return report.NewReportGenerator(c.logger, c.config.Report.CurrencySymbol)
}

// NewServer creates the HTTP API over reader and history.
func (c *Container) NewServer(reader report.TransactionReader, history server.HistoryReader, version string) *server.Server {
	return server.New(c.NewReportService(reader), history, c.NewReportGenerator(), c.logger, version)
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetRuleStore returns the rule file store.
func (c *Container) GetRuleStore() *store.RuleStore {
	return c.ruleStore
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Info("Container closed")
	return nil
}
