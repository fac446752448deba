package statementparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"fjacquet/statement-ledger/internal/apperror"
)

const utf8BOM = "\ufeff"

// statementReader adapts the export to gocsv: it drops the preamble, renames
// the configured header cells to the canonical row tags, drops blank lines
// and pads short rows. lines and raw track each body row for error reports;
// raw holds the row exactly as it appears in the file.
type statementReader struct {
	csv      *csv.Reader
	input    *recordingReader
	offset   int64
	source   string
	opts     Options
	skipped  int
	consumed bool
	lines    []int
	raw      []string
}

func newStatementReader(r io.Reader, source string, opts Options) (*statementReader, error) {
	br := bufio.NewReader(r)
	skipped := 0
	for skipped < opts.SkipRows {
		_, err := br.ReadString('\n')
		if err == io.EOF {
			return nil, &apperror.SourceMalformedError{
				Path:   source,
				Reason: fmt.Sprintf("file ends inside the %d-line preamble", opts.SkipRows),
			}
		}
		if err != nil {
			return nil, fmt.Errorf("error reading preamble: %w", err)
		}
		skipped++
	}

	input := &recordingReader{r: br}
	cr := csv.NewReader(input)
	cr.Comma = opts.Delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	return &statementReader{csv: cr, input: input, source: source, opts: opts, skipped: skipped}, nil
}

// recordingReader keeps every byte handed to the csv reader so a row can be
// cut back out of the input by offset.
type recordingReader struct {
	r   io.Reader
	buf bytes.Buffer
}

func (rr *recordingReader) Read(p []byte) (int, error) {
	n, err := rr.r.Read(p)
	rr.buf.Write(p[:n])
	return n, err
}

// rawRow returns the source text of the record just read, without the
// blank lines before it or its line terminator.
func (s *statementReader) rawRow() string {
	end := s.csv.InputOffset()
	data := s.input.buf.Bytes()
	if end > int64(len(data)) {
		end = int64(len(data))
	}
	start := s.offset
	if start > end {
		start = end
	}
	s.offset = end
	return strings.TrimRight(strings.TrimLeft(string(data[start:end]), "\r\n"), "\r\n")
}

// Read is required by gocsv.CSVReader; rows are only consumed through ReadAll.
func (s *statementReader) Read() ([]string, error) {
	return nil, errors.New("statementReader supports ReadAll only")
}

// ReadAll returns the canonical header followed by the non-blank body rows.
func (s *statementReader) ReadAll() ([][]string, error) {
	if s.consumed {
		return nil, nil
	}
	s.consumed = true

	var header []string
	index := map[string]int{}
	var out [][]string

	for {
		record, err := s.csv.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := s.skipped
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				line += parseErr.Line
			}
			return nil, &apperror.SourceMalformedError{Path: s.source, Line: line, Reason: err.Error()}
		}
		line, _ := s.csv.FieldPos(0)
		line += s.skipped
		raw := s.rawRow()
		if isBlank(record) {
			continue
		}

		if header == nil {
			header, index, err = s.mapHeader(record, line, raw)
			if err != nil {
				return nil, err
			}
			out = append(out, []string{"date", "description", "amount"})
			continue
		}

		row := make([]string, 3)
		for i, col := range []string{"date", "description", "amount"} {
			if pos := index[col]; pos < len(record) {
				row[i] = record[pos]
			}
		}
		out = append(out, row)
		s.lines = append(s.lines, line)
		s.raw = append(s.raw, raw)
	}

	return out, nil
}

func (s *statementReader) mapHeader(record []string, line int, raw string) ([]string, map[string]int, error) {
	wanted := map[string]string{
		normalizeHeader(s.opts.DateColumn):        "date",
		normalizeHeader(s.opts.DescriptionColumn): "description",
		normalizeHeader(s.opts.AmountColumn):      "amount",
	}

	index := map[string]int{}
	for i, cell := range record {
		if canonical, ok := wanted[normalizeHeader(cell)]; ok {
			if _, dup := index[canonical]; !dup {
				index[canonical] = i
			}
		}
	}

	var missing []string
	for _, pair := range [][2]string{
		{"date", s.opts.DateColumn},
		{"description", s.opts.DescriptionColumn},
		{"amount", s.opts.AmountColumn},
	} {
		if _, ok := index[pair[0]]; !ok {
			missing = append(missing, pair[1])
		}
	}
	if len(missing) > 0 {
		return nil, nil, &apperror.SourceMalformedError{
			Path:       s.source,
			Line:       line,
			RawContent: raw,
			Reason:     "missing column(s) " + strings.Join(missing, ", "),
		}
	}
	return record, index, nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, utf8BOM)))
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
