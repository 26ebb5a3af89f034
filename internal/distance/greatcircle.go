package distance

import (
	"context"
	"math"

	"github.com/tidwall/geodesic"

	"route-verifier/internal/models"
)

// EarthRadiusKm is the sphere radius used by the great-circle method
const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers
func Haversine(a, b models.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// rounding can push h a hair above 1 for antipodal points
	h = math.Min(1, h)
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// GreatCircle computes haversine distances
type GreatCircle struct{}

func (GreatCircle) Between(ctx context.Context, origin, dest models.Coordinates) (float64, error) {
	return Haversine(origin, dest), nil
}

// Geodesic computes distances on the WGS84 ellipsoid
type Geodesic struct{}

func (Geodesic) Between(ctx context.Context, origin, dest models.Coordinates) (float64, error) {
	return GeodesicKm(origin, dest), nil
}

// GeodesicKm solves the inverse geodesic problem on WGS84, in kilometers
func GeodesicKm(a, b models.Coordinates) float64 {
	var meters float64
	geodesic.WGS84.Inverse(a.Lat, a.Lng, b.Lat, b.Lng, &meters, nil, nil)
	return meters / 1000
}
