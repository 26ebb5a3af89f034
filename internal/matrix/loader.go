package matrix

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"

	"route-verifier/internal/records"
)

// ErrFileNotFound is returned when the matrix path does not exist
var ErrFileNotFound = errors.New("distance matrix file not found")

// FormatError is returned for malformed matrix content
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid distance matrix %s: %s", e.Path, e.Reason)
}

func formatErr(path, format string, args ...interface{}) error {
	return &FormatError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// Load reads a distance matrix, selecting the decoder by extension:
// .json and .json5 for the nested encoding, .csv and .xlsx for tables
func Load(path string) (*Matrix, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat distance matrix: %w", err)
	}

	var (
		m   *Matrix
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		m, err = loadNested(path, json.Unmarshal)
	case ".json5":
		m, err = loadNested(path, json5.Unmarshal)
	case ".csv", ".xlsx":
		m, err = loadTabular(path)
	default:
		return nil, formatErr(path, "unsupported file format %q (expected .json, .json5, .csv or .xlsx)", ext)
	}
	if err != nil {
		return nil, err
	}

	log.Printf("[MATRIX] Loaded distance matrix from %s: origins=%d pairs=%d", path, len(m.distances), m.Len())
	if t := m.Type(); t != "" {
		log.Printf("[MATRIX] Matrix type: %s", t)
	}
	return m, nil
}

type unmarshalFunc func(data []byte, v interface{}) error

func loadNested(path string, unmarshal unmarshalFunc) (*Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read distance matrix: %w", err)
	}

	var doc map[string]interface{}
	if err := unmarshal(data, &doc); err != nil {
		return nil, formatErr(path, "cannot decode: %v", err)
	}
	return FromDocument(path, doc)
}

// FromDocument validates a decoded nested document
// {"metadata": {...}, "distances": {origin: {dest: number}}}
func FromDocument(path string, doc map[string]interface{}) (*Matrix, error) {
	m := New()

	if raw, ok := doc["metadata"]; ok && raw != nil {
		meta, ok := raw.(map[string]interface{})
		if !ok {
			return nil, formatErr(path, "'metadata' must be an object")
		}
		m.Metadata = meta
	}

	raw, ok := doc["distances"]
	if !ok {
		return nil, formatErr(path, "matrix must contain a 'distances' key")
	}
	distances, ok := raw.(map[string]interface{})
	if !ok {
		return nil, formatErr(path, "'distances' must be an object")
	}

	origins := make([]string, 0, len(distances))
	for origin := range distances {
		origins = append(origins, origin)
	}
	sort.Strings(origins)

	for _, origin := range origins {
		dests, ok := distances[origin].(map[string]interface{})
		if !ok {
			return nil, formatErr(path, "destinations for %s must be an object", origin)
		}
		m.distances[origin] = make(map[string]float64, len(dests))
		for dest, v := range dests {
			d, ok := toFloat(v)
			if !ok {
				return nil, formatErr(path, "distance %s→%s must be numeric, got %T", origin, dest, v)
			}
			if err := checkDistance(path, origin, dest, d); err != nil {
				return nil, err
			}
			m.distances[origin][dest] = d
		}
	}
	return m, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func checkDistance(path, origin, dest string, d float64) error {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return formatErr(path, "distance %s→%s must be finite, got %v", origin, dest, d)
	}
	if d < 0 {
		return formatErr(path, "distance %s→%s cannot be negative: %v", origin, dest, d)
	}
	return nil
}

func loadTabular(path string) (*Matrix, error) {
	t, err := records.ReadTable(path)
	if err != nil {
		return nil, formatErr(path, "%v", err)
	}
	return FromTable(t)
}

// FromTable builds a matrix from either a sparse Origin/Destination/Distance
// table or a dense table with row labels in the first column
func FromTable(t *records.Table) (*Matrix, error) {
	if t.HasColumns("Origin", "Destination", "Distance") {
		return fromSparse(t)
	}
	return fromDense(t)
}

func fromSparse(t *records.Table) (*Matrix, error) {
	oCol, _ := t.Column("Origin")
	dCol, _ := t.Column("Destination")
	vCol, _ := t.Column("Distance")

	m := New()
	for _, row := range t.Rows {
		origin := t.Cell(row, oCol)
		dest := t.Cell(row, dCol)
		raw := t.Cell(row, vCol)

		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, formatErr(t.Path, "Distance column must contain numeric values, got %q for %s→%s", raw, origin, dest)
		}
		if err := checkDistance(t.Path, origin, dest, d); err != nil {
			return nil, err
		}
		m.Set(origin, dest, d)
	}
	return m, nil
}

func fromDense(t *records.Table) (*Matrix, error) {
	if len(t.Header) < 2 {
		return nil, formatErr(t.Path, "dense matrix needs a label column and at least one destination column")
	}
	dests := t.Header[1:]

	m := New()
	for _, row := range t.Rows {
		origin := t.Cell(row, 0)
		if origin == "" {
			return nil, formatErr(t.Path, "dense matrix row without an origin label")
		}
		for j, dest := range dests {
			raw := t.Cell(row, j+1)
			d, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, formatErr(t.Path, "distance %s→%s must be numeric, got %q", origin, dest, raw)
			}
			if err := checkDistance(t.Path, origin, dest, d); err != nil {
				return nil, err
			}
			m.Set(origin, dest, d)
		}
	}
	return m, nil
}
