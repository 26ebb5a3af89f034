// Package matrix loads precomputed distance tables.
package matrix

import (
	"sort"
)

// Matrix maps origin id -> destination id -> distance. Storage does not
// need to be symmetric; Lookup falls back to the reverse pair.
type Matrix struct {
	distances map[string]map[string]float64
	Metadata  map[string]interface{}
}

// New returns an empty matrix
func New() *Matrix {
	return &Matrix{
		distances: make(map[string]map[string]float64),
		Metadata:  make(map[string]interface{}),
	}
}

// Set stores the distance for one ordered pair
func (m *Matrix) Set(origin, dest string, distance float64) {
	row, ok := m.distances[origin]
	if !ok {
		row = make(map[string]float64)
		m.distances[origin] = row
	}
	row[dest] = distance
}

// Get returns the distance stored for the ordered pair only
func (m *Matrix) Get(origin, dest string) (float64, bool) {
	row, ok := m.distances[origin]
	if !ok {
		return 0, false
	}
	d, ok := row[dest]
	return d, ok
}

// Lookup returns the distance for the pair, trying the reverse direction
// when only one triangle is stored
func (m *Matrix) Lookup(origin, dest string) (float64, bool) {
	if d, ok := m.Get(origin, dest); ok {
		return d, true
	}
	return m.Get(dest, origin)
}

// HasOrigin reports whether the origin has a row
func (m *Matrix) HasOrigin(origin string) bool {
	_, ok := m.distances[origin]
	return ok
}

// Origins returns origin ids, sorted
func (m *Matrix) Origins() []string {
	out := make([]string, 0, len(m.distances))
	for k := range m.distances {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Destinations returns the destination ids stored for an origin, sorted
func (m *Matrix) Destinations(origin string) []string {
	row := m.distances[origin]
	out := make([]string, 0, len(row))
	for k := range row {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of stored pairs
func (m *Matrix) Len() int {
	n := 0
	for _, row := range m.distances {
		n += len(row)
	}
	return n
}

// Type returns the matrix_type metadata tag, if any
func (m *Matrix) Type() string {
	if s, ok := m.Metadata["matrix_type"].(string); ok {
		return s
	}
	return ""
}
