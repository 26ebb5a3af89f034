// Package ids maps the accepted spellings of depot, client and vehicle
// identifiers onto a single canonical form.
package ids

import (
	"fmt"
	"strconv"
	"strings"
)

// legacyDepots maps bare depot indices and letter codes to canonical depot ids.
var legacyDepots = map[string]string{
	"1":   "CD01",
	"CDA": "CD01",
	"2":   "CD02",
	"CDB": "CD02",
	"3":   "CD03",
	"CDC": "CD03",
}

// Normalize returns the canonical form of a location id.
//
// Known legacy depot spellings map to CDnn, other purely numeric ids are
// client indices and become Cnnn, and everything else is returned as is.
// Normalize is idempotent.
func Normalize(id string) string {
	id = strings.TrimSpace(id)
	if canonical, ok := legacyDepots[id]; ok {
		return canonical
	}
	if isDigits(id) {
		n, err := strconv.Atoi(id)
		if err != nil {
			return id
		}
		return ClientID(n)
	}
	return id
}

// ClientID formats a client index as its canonical id (7 -> C007).
func ClientID(n int) string {
	return fmt.Sprintf("C%03d", n)
}

// CanonicalClientID returns the canonical id of a client record. Numeric
// ids are client indices even where the location table would read them
// as legacy depot spellings ("1" -> C001, not CD01).
func CanonicalClientID(id string) string {
	id = strings.TrimSpace(id)
	if isDigits(id) {
		if n, err := strconv.Atoi(id); err == nil {
			return ClientID(n)
		}
	}
	return Normalize(id)
}

// DepotID formats a depot index as its canonical id (1 -> CD01).
func DepotID(n int) string {
	return fmt.Sprintf("CD%02d", n)
}

// LegacyDepotAlias returns the letter code for a depot index, if one exists.
func LegacyDepotAlias(n int) (string, bool) {
	if n < 1 || n > 26 {
		return "", false
	}
	alias := "CD" + string(rune('A'+n-1))
	if _, ok := legacyDepots[alias]; !ok {
		return "", false
	}
	return alias, true
}

// LooksLikeClient reports whether a canonical id has the client shape (C followed by digits).
func LooksLikeClient(canonical string) bool {
	return len(canonical) > 1 && canonical[0] == 'C' && isDigits(canonical[1:])
}

// VehicleNumber extracts the numeric vehicle id from spellings such as
// "V001", "VEH1" or "7".
func VehicleNumber(id string) (int, error) {
	s := strings.ToUpper(strings.TrimSpace(id))
	s = strings.TrimPrefix(s, "VEH")
	s = strings.TrimPrefix(s, "V")
	if !isDigits(s) {
		return 0, fmt.Errorf("invalid vehicle id %q", id)
	}
	return strconv.Atoi(s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
