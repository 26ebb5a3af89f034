package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"route-verifier/internal/models"
)

func TestHaversine_ZeroOnIdenticalPoints(t *testing.T) {
	assert.Equal(t, 0.0, Haversine(bogota, bogota))
}

func TestHaversine_Symmetric(t *testing.T) {
	points := []models.Coordinates{
		bogota,
		medellin,
		{Lat: 0, Lng: 0},
		{Lat: -33.8688, Lng: 151.2093},
		{Lat: 51.5074, Lng: -0.1278},
	}
	for _, a := range points {
		for _, b := range points {
			assert.InDelta(t, Haversine(a, b), Haversine(b, a), 1e-9)
		}
	}
}

func TestHaversine_OneDegreeOnEquator(t *testing.T) {
	d := Haversine(models.Coordinates{Lat: 0, Lng: 0}, models.Coordinates{Lat: 0, Lng: 1})
	assert.InDelta(t, 111.19493, d, 1e-4)
}

func TestHaversine_Antipodal(t *testing.T) {
	d := Haversine(models.Coordinates{Lat: 0, Lng: 0}, models.Coordinates{Lat: 0, Lng: 180})
	assert.InDelta(t, 6371*3.141592653589793, d, 1e-6)
}

func TestGeodesicKm(t *testing.T) {
	// one degree of longitude along the WGS84 equator
	d := GeodesicKm(models.Coordinates{Lat: 0, Lng: 0}, models.Coordinates{Lat: 0, Lng: 1})
	assert.InDelta(t, 111.3195, d, 1e-3)

	assert.Equal(t, 0.0, GeodesicKm(bogota, bogota))
	assert.InDelta(t, GeodesicKm(bogota, medellin), GeodesicKm(medellin, bogota), 1e-9)

	// ellipsoid and sphere agree to well under one percent
	h := Haversine(bogota, medellin)
	assert.InDelta(t, h, GeodesicKm(bogota, medellin), h*0.01)
}
