package infrastructure

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// ErrMissingColumn is wrapped when a required header is absent.
var ErrMissingColumn = errors.New("missing required column")

// CSVTable is a header-indexed view over a delimited file.
// Extra columns are kept but ignored by callers.
type CSVTable struct {
	columns map[string]int
	rows    [][]string
}

// ReadCSVTable reads the whole input and indexes the header row.
func ReadCSVTable(r io.Reader) (*CSVTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file: no header row")
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV rows: %w", err)
	}

	return &CSVTable{columns: columns, rows: rows}, nil
}

// Require fails when any of the named columns is absent.
func (t *CSVTable) Require(names ...string) error {
	var missing []string
	for _, name := range names {
		if !t.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// Has reports whether the header contains name.
func (t *CSVTable) Has(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Len returns the number of data rows.
func (t *CSVTable) Len() int {
	return len(t.rows)
}

// Field returns the trimmed cell of row i for column name, "" when absent.
func (t *CSVTable) Field(i int, name string) string {
	idx, ok := t.columns[name]
	if !ok {
		return ""
	}
	row := t.rows[i]
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// dateLayouts are tried after cast's own list, which has no slash formats.
var dateLayouts = []string{
	"2006/01/02",
	"01/02/2006",
	"2006/01/02 15:04:05",
	"01/02/2006 15:04:05",
}

// ParseDate accepts ISO dates, ISO date-times, RFC 3339 and the slash layouts above.
// Values without a zone are read as UTC.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("empty date")
	}
	if t, err := cast.ToTimeInDefaultLocationE(raw, time.UTC); err == nil {
		return t, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

// ParseFloat parses a decimal cell.
func ParseFloat(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("empty number")
	}
	return cast.ToFloat64E(raw)
}

// ParseInt parses an integer cell. "100.0" is accepted; "100.5" is not.
func ParseInt(raw string) (int, error) {
	f, err := ParseFloat(raw)
	if err != nil {
		return 0, err
	}
	n := int(f)
	if float64(n) != f {
		return 0, fmt.Errorf("%q is not a whole number", raw)
	}
	return n, nil
}
