// Package statementparser reads delimited bank statement exports into raw
// transactions. The export starts with a fixed number of preamble lines,
// followed by a header row naming the date, description and amount columns.
package statementparser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"fjacquet/statement-ledger/internal/apperror"
	"fjacquet/statement-ledger/internal/currencyutils"
	"fjacquet/statement-ledger/internal/logging"
	"fjacquet/statement-ledger/internal/models"
)

// MalformedPolicy decides what happens to a row whose date or amount cannot be parsed.
type MalformedPolicy string

const (
	PolicySkip  MalformedPolicy = "skip"
	PolicyAbort MalformedPolicy = "abort"
)

// Options describes the export layout.
type Options struct {
	Delimiter         rune
	SkipRows          int
	DateFormat        string
	DateColumn        string
	DescriptionColumn string
	AmountColumn      string
	DecimalSeparator  string
	Malformed         MalformedPolicy
}

// DefaultOptions matches the bank export the ledger was built around.
func DefaultOptions() Options {
	return Options{
		Delimiter:         ';',
		SkipRows:          5,
		DateFormat:        "02/01/2006",
		DateColumn:        "Data Lançamento",
		DescriptionColumn: "Descrição",
		AmountColumn:      "Valor",
		DecimalSeparator:  ",",
		Malformed:         PolicySkip,
	}
}

// statementRow is the canonical row shape after header mapping.
type statementRow struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
}

// Result is the outcome of parsing one export.
type Result struct {
	Transactions []models.RawTransaction
	// Malformed rows skipped under PolicySkip.
	Malformed []*apperror.SourceMalformedError
	// Rows ignored because they lack a description or an amount, such as
	// balance lines and footers.
	Ignored int
}

// Parser reads statement exports.
type Parser struct {
	opts   Options
	logger logging.Logger
}

// NewParser creates a Parser.
func NewParser(opts Options, logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ';'
	}
	if opts.Malformed == "" {
		opts.Malformed = PolicySkip
	}
	return &Parser{opts: opts, logger: logger}
}

// ParseFile parses the export at path. A missing file yields
// SourceNotFoundError; a broken layout, or a malformed row under
// PolicyAbort, yields SourceMalformedError.
func (p *Parser) ParseFile(ctx context.Context, path string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{}, &apperror.SourceNotFoundError{Path: path, Err: err}
		}
		return Result{}, fmt.Errorf("error opening statement file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			p.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	return p.Parse(file, path)
}

// Parse parses an export read from r; source names it in errors and logs.
func (p *Parser) Parse(r io.Reader, source string) (Result, error) {
	p.logger.Info("Parsing statement", logging.Field{Key: logging.FieldFile, Value: source})

	reader, err := newStatementReader(r, source, p.opts)
	if err != nil {
		return Result{}, err
	}

	var rows []statementRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		var malformed *apperror.SourceMalformedError
		if errors.As(err, &malformed) {
			return Result{}, malformed
		}
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return Result{}, &apperror.SourceMalformedError{Path: source, Reason: "no header row after preamble"}
		}
		return Result{}, &apperror.SourceMalformedError{Path: source, Reason: err.Error()}
	}

	var result Result
	for i, row := range rows {
		description := strings.TrimSpace(row.Description)
		amountText := strings.TrimSpace(row.Amount)
		if description == "" || amountText == "" {
			result.Ignored++
			continue
		}

		tx, err := p.convertRow(row.Date, description, amountText)
		if err != nil {
			malformed := &apperror.SourceMalformedError{
				Path:       source,
				Line:       reader.lines[i],
				RawContent: reader.raw[i],
				Reason:     err.Error(),
			}
			if p.opts.Malformed == PolicyAbort {
				p.logger.WithError(malformed).Error("Aborting import on malformed row")
				return Result{}, malformed
			}
			p.logger.Warn("Skipping malformed row",
				logging.Field{Key: logging.FieldFile, Value: source},
				logging.Field{Key: logging.FieldLine, Value: malformed.Line},
				logging.Field{Key: logging.FieldReason, Value: malformed.Reason})
			result.Malformed = append(result.Malformed, malformed)
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}

	p.logger.Info("Parsed statement",
		logging.Field{Key: logging.FieldFile, Value: source},
		logging.Field{Key: logging.FieldCount, Value: len(result.Transactions)},
		logging.Field{Key: "malformed", Value: len(result.Malformed)},
		logging.Field{Key: "ignored", Value: result.Ignored})
	return result, nil
}

func (p *Parser) convertRow(date, description, amountText string) (models.RawTransaction, error) {
	amount, err := currencyutils.ParseLocalizedAmount(amountText, p.opts.DecimalSeparator)
	if err != nil {
		return models.RawTransaction{}, &apperror.ParseError{Parser: "statement", Field: "amount", Value: amountText, Err: err}
	}
	tx, err := models.NewTransactionBuilder().
		WithDate(date, p.opts.DateFormat).
		WithDescription(description).
		WithAmount(amount).
		Build()
	if err != nil {
		return models.RawTransaction{}, &apperror.ParseError{Parser: "statement", Field: "date", Value: date, Err: err}
	}
	return tx, nil
}
