// Package distance implements the pluggable pair-distance strategies used
// while walking a route: great-circle, geodesic, OSRM road network and
// precomputed matrix lookup.
package distance

import (
	"context"
	"fmt"
	"strings"

	"route-verifier/internal/models"
)

// Method names a distance strategy. The value doubles as the cache key tag.
type Method string

const (
	MethodHaversine Method = "haversine"
	MethodGeodesic  Method = "geodesic"
	MethodOSRM      Method = "osrm"
	MethodMatrix    Method = "matrix"
)

var methodAliases = map[string]Method{
	"haversine":    MethodHaversine,
	"great-circle": MethodHaversine,
	"greatcircle":  MethodHaversine,
	"geodesic":     MethodGeodesic,
	"geopy":        MethodGeodesic,
	"osrm":         MethodOSRM,
	"road-network": MethodOSRM,
	"road":         MethodOSRM,
	"matrix":       MethodMatrix,
}

// UnknownMethodError is returned for an unrecognized method name
type UnknownMethodError struct {
	Name string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("unknown distance method: %q (expected haversine, geodesic, osrm or matrix)", e.Name)
}

// ParseMethod resolves a method name or alias
func ParseMethod(name string) (Method, error) {
	if m, ok := methodAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return m, nil
	}
	return "", &UnknownMethodError{Name: name}
}

// Cached reports whether results of this method go through the distance cache
func (m Method) Cached() bool {
	return m != MethodMatrix
}

// Provider returns the distance between two stops identified by id
type Provider interface {
	Distance(ctx context.Context, from, to string) (float64, error)
	Method() Method
}

// Calculator returns the distance between two coordinates in kilometers
type Calculator interface {
	Between(ctx context.Context, origin, dest models.Coordinates) (float64, error)
}

// Locator resolves stop ids to locations
type Locator interface {
	Lookup(id string) (models.Location, error)
}
