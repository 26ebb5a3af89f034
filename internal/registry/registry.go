// Package registry builds the canonical id -> location map that the
// distance providers and the route validator resolve stops against.
package registry

import (
	"fmt"
	"sort"
	"strconv"

	"route-verifier/internal/ids"
	"route-verifier/internal/models"
)

// UnknownLocationError is returned when an id does not resolve to any location
type UnknownLocationError struct {
	ID string
}

func (e *UnknownLocationError) Error() string {
	return fmt.Sprintf("unknown location: %s", e.ID)
}

// ConflictError is returned when two reference records would register
// different coordinates under the same id
type ConflictError struct {
	ID       string
	Existing models.Location
	Incoming models.Location
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting locations for id %s: (%.6f,%.6f) vs (%.6f,%.6f)",
		e.ID, e.Existing.Lat, e.Existing.Lng, e.Incoming.Lat, e.Incoming.Lng)
}

// Registry is a read-only snapshot of depot and client locations
type Registry struct {
	locations map[string]models.Location
	clients   []string
}

// New builds a registry from depot and client reference records.
//
// Each depot is registered under its numeric id and its canonical CDnn id;
// depot 1 also gets the legacy CDA alias. Each client is registered under
// its canonical zero-padded id, so client 1 is C001 even though a bare
// "1" in a route names depot 1.
func New(depots []models.DepotRecord, clients []models.ClientRecord) (*Registry, error) {
	r := &Registry{locations: make(map[string]models.Location)}

	for _, d := range depots {
		loc := models.Location{
			ID:   ids.DepotID(d.DepotID),
			Lat:  d.Latitude,
			Lng:  d.Longitude,
			Kind: models.KindDepot,
		}
		keys := []string{strconv.Itoa(d.DepotID), loc.ID}
		if d.DepotID == 1 {
			alias, _ := ids.LegacyDepotAlias(1)
			keys = append(keys, alias)
		}
		for _, key := range keys {
			if err := r.add(key, loc); err != nil {
				return nil, err
			}
		}
	}

	seen := make(map[string]bool)
	for _, c := range clients {
		id := ids.CanonicalClientID(c.ClientID)
		loc := models.Location{
			ID:     id,
			Lat:    c.Latitude,
			Lng:    c.Longitude,
			Kind:   models.KindClient,
			Demand: c.Demand,
		}
		if err := r.add(id, loc); err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			r.clients = append(r.clients, id)
		}
	}
	sort.Strings(r.clients)

	return r, nil
}

func (r *Registry) add(key string, loc models.Location) error {
	if existing, ok := r.locations[key]; ok {
		if !models.SamePoint(existing.Coords(), loc.Coords()) || existing.Kind != loc.Kind || existing.Demand != loc.Demand {
			return &ConflictError{ID: key, Existing: existing, Incoming: loc}
		}
		return nil
	}
	r.locations[key] = loc
	return nil
}

// Lookup resolves an id, trying the raw spelling first and then its
// normalized form
func (r *Registry) Lookup(id string) (models.Location, error) {
	if loc, ok := r.locations[id]; ok {
		return loc, nil
	}
	if loc, ok := r.locations[ids.Normalize(id)]; ok {
		return loc, nil
	}
	return models.Location{}, &UnknownLocationError{ID: id}
}

// Has reports whether the id resolves to a location
func (r *Registry) Has(id string) bool {
	_, err := r.Lookup(id)
	return err == nil
}

// Clients returns the canonical ids of all clients, sorted
func (r *Registry) Clients() []string {
	out := make([]string, len(r.clients))
	copy(out, r.clients)
	return out
}

// Demand returns the registered demand for a client
func (r *Registry) Demand(id string) (int, bool) {
	loc, err := r.Lookup(id)
	if err != nil || !loc.IsClient() {
		return 0, false
	}
	return loc.Demand, true
}

// Len returns the number of registered keys, aliases included
func (r *Registry) Len() int {
	return len(r.locations)
}
