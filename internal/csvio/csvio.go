// Package csvio reads and writes the spreadsheet-friendly CSV files used for
// bulk import and export: semicolon separated, UTF-8 with a byte order mark.
package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"pharmacy/m/domain"
)

const bom = "\ufeff"

// Record is one data row keyed by header name.
type Record map[string]string

// Get returns the trimmed value for key, matching header names without
// regard to case.
func (r Record) Get(key string) string {
	if v, ok := r[key]; ok {
		return strings.TrimSpace(v)
	}
	for k, v := range r {
		if strings.EqualFold(k, key) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Int parses key as an integer within ±domain.MaxQuantity; an empty value
// is zero.
func (r Record) Int(key string) (int64, error) {
	v := r.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		// spreadsheets like to write integers as 10.0
		f, ferr := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
		if ferr != nil || f != float64(int64(f)) {
			return 0, fmt.Errorf("%s: invalid integer %q", key, v)
		}
		n = int64(f)
	}
	if n < -domain.MaxQuantity || n > domain.MaxQuantity {
		return 0, fmt.Errorf("%s: %d is outside ±%d", key, n, domain.MaxQuantity)
	}
	return n, nil
}

// Decimal parses key as a decimal number, accepting a comma separator; an
// empty value is zero.
func (r Record) Decimal(key string) (decimal.Decimal, error) {
	v := r.Get(key)
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: invalid number %q", key, v)
	}
	return d, nil
}

// Write emits a byte order mark, the header and rows separated by ';'.
func Write(w io.Writer, header []string, rows [][]string) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// Read parses a CSV document with a header row. The delimiter is detected
// from the header (';' or ','), a leading byte order mark is dropped and
// rows with only empty cells are skipped.
func Read(r io.Reader) ([]Record, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimPrefix(raw, []byte(bom))

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = detectDelimiter(raw)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		if blank(row) {
			continue
		}
		rec := make(Record, len(header))
		for i, name := range header {
			if i < len(row) && name != "" {
				rec[name] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func detectDelimiter(raw []byte) rune {
	line := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}
	if bytes.Count(line, []byte(",")) > bytes.Count(line, []byte(";")) {
		return ','
	}
	return ';'
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
