// Package ofxparser reads OFX investment statements (SGML 1.x or XML 2.x)
// into investment transactions.
package ofxparser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"gopkg.in/xmlpath.v2"

	"fjacquet/statement-ledger/internal/apperror"
	"fjacquet/statement-ledger/internal/currencyutils"
	"fjacquet/statement-ledger/internal/dateutils"
	"fjacquet/statement-ledger/internal/identity"
	"fjacquet/statement-ledger/internal/logging"
	"fjacquet/statement-ledger/internal/models"
	"fjacquet/statement-ledger/internal/xmlutils"
)

var charsetHeader = regexp.MustCompile(`(?im)^\s*CHARSET:\s*([A-Za-z0-9-]+)`)

// Statement is the parsed content of one OFX file.
type Statement struct {
	Currency     string
	AccountID    string
	Transactions []models.InvestmentTransaction
}

// Parser reads OFX files.
type Parser struct {
	paths  xmlutils.OFX
	logger logging.Logger
}

// NewParser creates a Parser using the default OFX element paths.
func NewParser(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Parser{paths: xmlutils.DefaultOFXPaths(), logger: logger}
}

// ParseFile parses the OFX file at path. A missing file yields
// SourceNotFoundError; any unreadable transaction fails the whole file
// with SourceMalformedError.
func (p *Parser) ParseFile(ctx context.Context, path string) (Statement, error) {
	if err := ctx.Err(); err != nil {
		return Statement{}, err
	}

	file, err := os.Open(path) // #nosec G304 -- user-provided statement path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Statement{}, &apperror.SourceNotFoundError{Path: path, Err: err}
		}
		return Statement{}, fmt.Errorf("error opening OFX file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			p.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	return p.Parse(file, path)
}

// Parse parses an OFX document read from r; source names it in errors and logs.
func (p *Parser) Parse(r io.Reader, source string) (Statement, error) {
	p.logger.Info("Parsing OFX statement", logging.Field{Key: logging.FieldFile, Value: source})

	data, err := io.ReadAll(r)
	if err != nil {
		return Statement{}, fmt.Errorf("error reading OFX file: %w", err)
	}

	text, err := decode(data)
	if err != nil {
		return Statement{}, &apperror.SourceMalformedError{Path: source, Reason: err.Error()}
	}

	doc, err := xmlutils.NormalizeSGML(text)
	if err != nil {
		return Statement{}, &apperror.SourceMalformedError{Path: source, Reason: err.Error()}
	}

	root, err := xmlutils.LoadXML(strings.NewReader(doc))
	if err != nil {
		return Statement{}, &apperror.SourceMalformedError{Path: source, Reason: err.Error()}
	}

	stmt := Statement{}
	stmt.Currency, _ = xmlutils.FirstValue(root, p.paths.Statement.Currency)
	stmt.AccountID, _ = xmlutils.FirstValue(root, p.paths.Statement.AccountID)

	nodes, err := xmlutils.Nodes(root, p.paths.Transaction)
	if err != nil {
		return Statement{}, err
	}

	for i, node := range nodes {
		tx, err := p.convert(node)
		if err != nil {
			malformed := &apperror.SourceMalformedError{
				Path:       source,
				RawContent: xmlutils.CleanText(node.String()),
				Reason:     fmt.Sprintf("transaction %d: %v", i+1, err),
			}
			p.logger.WithError(malformed).Error("Failed to parse OFX transaction")
			return Statement{}, malformed
		}
		stmt.Transactions = append(stmt.Transactions, tx)
	}

	p.logger.Info("Parsed OFX statement",
		logging.Field{Key: logging.FieldFile, Value: source},
		logging.Field{Key: logging.FieldCount, Value: len(stmt.Transactions)})
	return stmt, nil
}

func (p *Parser) convert(node *xmlpath.Node) (models.InvestmentTransaction, error) {
	fields := p.paths.Fields

	posted, _ := xmlutils.FirstValue(node, fields.Posted)
	if len(posted) < 8 {
		return models.InvestmentTransaction{}, &apperror.ParseError{Parser: "ofx", Field: "DTPOSTED", Value: posted, Err: errors.New("expected YYYYMMDD prefix")}
	}
	date, err := time.ParseInLocation(dateutils.DateLayoutOFX, posted[:8], time.UTC)
	if err != nil {
		return models.InvestmentTransaction{}, &apperror.ParseError{Parser: "ofx", Field: "DTPOSTED", Value: posted, Err: err}
	}

	amountText, _ := xmlutils.FirstValue(node, fields.Amount)
	if amountText == "" {
		return models.InvestmentTransaction{}, &apperror.ParseError{Parser: "ofx", Field: "TRNAMT", Value: amountText, Err: errors.New("missing amount")}
	}
	amount, err := currencyutils.ParseAmount(amountText)
	if err != nil {
		return models.InvestmentTransaction{}, &apperror.ParseError{Parser: "ofx", Field: "TRNAMT", Value: amountText, Err: err}
	}

	description, _ := xmlutils.FirstValue(node, fields.Memo)
	if description == "" {
		description, _ = xmlutils.FirstValue(node, fields.Name)
	}

	trnType, _ := xmlutils.FirstValue(node, fields.Type)
	trnType = strings.ToLower(trnType)
	if trnType == "" {
		trnType = models.InvestmentTypeOther
	}

	id, _ := xmlutils.FirstValue(node, fields.FITID)
	if id == "" {
		id = identity.Derive(date, description, amount)
	}

	return models.InvestmentTransaction{
		ID:          id,
		Date:        models.NormalizeDate(date),
		Description: description,
		Amount:      amount,
		Type:        trnType,
	}, nil
}

// decode returns the document as UTF-8. Documents that are not valid UTF-8
// are decoded with the single-byte charset from the SGML header, falling
// back to Windows-1252.
func decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data), nil
	}

	declared := "1252"
	if m := charsetHeader.FindSubmatch(data); m != nil {
		declared = strings.ToUpper(string(m[1]))
	}

	decoder := charmap.Windows1252.NewDecoder()
	if strings.Contains(declared, "8859") {
		decoder = charmap.ISO8859_1.NewDecoder()
	}
	out, err := decoder.Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding charset %s: %w", declared, err)
	}
	return string(out), nil
}
