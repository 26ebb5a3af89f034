package models

import "math"

// Coordinates represents a geographic point
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RoundCoordinate rounds a coordinate to 5 decimal places (~1m precision)
func RoundCoordinate(v float64) float64 {
	return math.Round(v*100000) / 100000
}

// SamePoint reports whether two coordinates are equal after rounding
func SamePoint(a, b Coordinates) bool {
	return RoundCoordinate(a.Lat) == RoundCoordinate(b.Lat) &&
		RoundCoordinate(a.Lng) == RoundCoordinate(b.Lng)
}

// LocationKind distinguishes depots from clients
type LocationKind string

const (
	KindDepot  LocationKind = "depot"
	KindClient LocationKind = "client"
)

// Location is an immutable registry entry for a depot or client
type Location struct {
	ID     string       `json:"id"`
	Lat    float64      `json:"latitude"`
	Lng    float64      `json:"longitude"`
	Kind   LocationKind `json:"kind"`
	Demand int          `json:"demand,omitempty"`
}

// Coords returns the coordinates of the location
func (l Location) Coords() Coordinates {
	return Coordinates{Lat: l.Lat, Lng: l.Lng}
}

// IsClient reports whether the location is a client stop
func (l Location) IsClient() bool {
	return l.Kind == KindClient
}

// VehicleSpec holds the limits of one vehicle
type VehicleSpec struct {
	Capacity int     `json:"capacity"`
	Range    float64 `json:"range"`
}

// Route is one row of a candidate solution
type Route struct {
	VehicleID        string   `json:"vehicle_id" validate:"required"`
	DepotID          string   `json:"depot_id" validate:"required"`
	InitialLoad      int      `json:"initial_load" validate:"gte=0"`
	Stops            []string `json:"stops"`
	ClientsServed    int      `json:"clients_served" validate:"gte=0"`
	DemandsSatisfied []int    `json:"demands_satisfied"`
}

// Start returns the first stop, or "" when the sequence is empty
func (r Route) Start() string {
	if len(r.Stops) == 0 {
		return ""
	}
	return r.Stops[0]
}

// End returns the last stop, or "" when the sequence is empty
func (r Route) End() string {
	if len(r.Stops) == 0 {
		return ""
	}
	return r.Stops[len(r.Stops)-1]
}
