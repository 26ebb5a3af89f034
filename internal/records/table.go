// Package records reads the tabular reference and solution files.
package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// MissingColumnError is returned when none of the accepted aliases for a
// column are present in the header
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("none of these columns found: %s", strings.Join(e.Columns, ", "))
}

// ParseError reports a cell that could not be converted
type ParseError struct {
	Path   string
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: row %d column %s: cannot parse %q: %v", e.Path, e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Table is a header plus rows of string cells
type Table struct {
	Path   string
	Header []string
	Rows   [][]string
	index  map[string]int
}

// NewTable builds a table from a header and rows
func NewTable(path string, header []string, rows [][]string) *Table {
	t := &Table{Path: path, Header: header, Rows: rows, index: make(map[string]int, len(header))}
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.Header[i] = name
		if _, ok := t.index[name]; !ok {
			t.index[name] = i
		}
	}
	return t
}

// ReadTable reads a CSV file, or the first sheet of an .xlsx workbook
func ReadTable(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readXLSX(path)
	default:
		return readCSV(path)
	}
}

func readCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCSV(path, f)
}

// ParseCSV reads a table from CSV text
func ParseCSV(path string, r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("failed to parse CSV %s: %w", path, ErrEmptyTable)
	}
	return NewTable(path, all[0], dropBlankRows(all[1:])), nil
}

func readXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("failed to read workbook %s: %w", path, ErrEmptyTable)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s of %s: %w", sheets[0], path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to read workbook %s: %w", path, ErrEmptyTable)
	}
	return NewTable(path, rows[0], dropBlankRows(rows[1:])), nil
}

// ErrEmptyTable is returned for a file without a header row
var ErrEmptyTable = errors.New("table has no header row")

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		blank := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, row)
		}
	}
	return out
}

// Column returns the index of the first alias present in the header
func (t *Table) Column(aliases ...string) (int, error) {
	for _, name := range aliases {
		if i, ok := t.index[name]; ok {
			return i, nil
		}
	}
	return -1, &MissingColumnError{Columns: aliases}
}

// HasColumns reports whether every name is present in the header
func (t *Table) HasColumns(names ...string) bool {
	for _, name := range names {
		if _, ok := t.index[name]; !ok {
			return false
		}
	}
	return true
}

// Cell returns a trimmed cell, or "" when the row is short
func (t *Table) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
