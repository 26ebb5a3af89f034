package distance_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-verifier/internal/cache"
	"route-verifier/internal/distance"
	"route-verifier/internal/matrix"
	"route-verifier/internal/models"
	"route-verifier/internal/testutil"
)

func testLocator() testutil.StaticLocator {
	return testutil.StaticLocator{
		"CD01": {ID: "CD01", Lat: 4.6000, Lng: -74.0800, Kind: models.KindDepot},
		"C001": {ID: "C001", Lat: 4.6100, Lng: -74.0700, Kind: models.KindClient, Demand: 5},
	}
}

func TestParseMethod(t *testing.T) {
	testCases := []struct {
		input    string
		expected distance.Method
	}{
		{"haversine", distance.MethodHaversine},
		{"great-circle", distance.MethodHaversine},
		{"Geodesic", distance.MethodGeodesic},
		{"geopy", distance.MethodGeodesic},
		{"osrm", distance.MethodOSRM},
		{" road-network ", distance.MethodOSRM},
		{"matrix", distance.MethodMatrix},
	}
	for _, tc := range testCases {
		m, err := distance.ParseMethod(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.expected, m, tc.input)
	}

	_, err := distance.ParseMethod("teleport")
	var unknown *distance.UnknownMethodError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "teleport", unknown.Name)
}

func TestMethodCached(t *testing.T) {
	assert.True(t, distance.MethodHaversine.Cached())
	assert.True(t, distance.MethodGeodesic.Cached())
	assert.True(t, distance.MethodOSRM.Cached())
	assert.False(t, distance.MethodMatrix.Cached())
}

func TestLocationProvider_CachesByRawIDAndMethod(t *testing.T) {
	store := testutil.NewMockStore()
	calc := &testutil.CountingCalculator{}
	p := distance.NewLocationProvider(distance.MethodHaversine, testLocator(), calc, store)

	first, err := p.Distance(context.Background(), "CD01", "C001")
	require.NoError(t, err)
	second, err := p.Distance(context.Background(), "CD01", "C001")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calc.Count, "second call should be served from the cache")
	assert.Contains(t, store.Entries, "CD01_C001_haversine")
	assert.Greater(t, first, 0.0)
}

func TestLocationProvider_CacheHitShortCircuits(t *testing.T) {
	store := testutil.NewMockStore()
	store.Put(cache.Key{Origin: "CD01", Destination: "C001", Method: "geodesic"}, 42)
	calc := &testutil.CountingCalculator{}
	p := distance.NewLocationProvider(distance.MethodGeodesic, testLocator(), calc, store)

	d, err := p.Distance(context.Background(), "CD01", "C001")
	require.NoError(t, err)

	assert.Equal(t, 42.0, d)
	assert.Equal(t, 0, calc.Count)
}

func TestLocationProvider_NilCache(t *testing.T) {
	calc := &testutil.CountingCalculator{}
	p := distance.NewLocationProvider(distance.MethodHaversine, testLocator(), calc, nil)

	_, err := p.Distance(context.Background(), "CD01", "C001")
	require.NoError(t, err)
	_, err = p.Distance(context.Background(), "CD01", "C001")
	require.NoError(t, err)

	assert.Equal(t, 2, calc.Count)
}

func TestLocationProvider_UnknownLocation(t *testing.T) {
	store := testutil.NewMockStore()
	p := distance.NewLocationProvider(distance.MethodHaversine, testLocator(), distance.GreatCircle{}, store)

	_, err := p.Distance(context.Background(), "CD01", "C404")
	assert.Error(t, err)
	assert.Equal(t, 0, store.Len(), "failed lookups must not be cached")
}

func TestMatrixProvider_DirectAndReverse(t *testing.T) {
	m := matrix.New()
	m.Set("CD01", "C001", 5)
	m.Set("CD01", "C004", 7)
	p := distance.NewMatrixProvider(m)

	d, err := p.Distance(context.Background(), "CD01", "C001")
	require.NoError(t, err)
	assert.Equal(t, 5.0, d)

	d, err = p.Distance(context.Background(), "C001", "CD01")
	require.NoError(t, err)
	assert.Equal(t, 5.0, d)

	// legacy spellings normalize before lookup
	d, err = p.Distance(context.Background(), "1", "C001")
	require.NoError(t, err)
	assert.Equal(t, 5.0, d)

	d, err = p.Distance(context.Background(), "CDA", "4")
	require.NoError(t, err)
	assert.Equal(t, 7.0, d)

	// bare 1 names depot 1, so this is CD01 -> CD01
	_, err = p.Distance(context.Background(), "CDA", "1")
	assert.Error(t, err)
	assert.Equal(t, distance.MethodMatrix, p.Method())
}

func TestMatrixProvider_NotFoundDiagnostics(t *testing.T) {
	m := matrix.New()
	for i := 1; i <= 15; i++ {
		m.Set(fmt.Sprintf("C%03d", i), "CD01", float64(i))
	}
	p := distance.NewMatrixProvider(m)

	_, err := p.Distance(context.Background(), "99", "CDB")
	var nf *distance.NotFoundError
	require.True(t, errors.As(err, &nf))

	assert.True(t, nf.MissingOrigin)
	assert.Equal(t, "C099", nf.NormalizedFrom)
	assert.Equal(t, "CD02", nf.NormalizedTo)
	assert.Equal(t, "99", nf.From)
	assert.Len(t, nf.Available, 10)
	assert.Contains(t, err.Error(), "C099")
	assert.Contains(t, err.Error(), "original ids: 99 → CDB")

	_, err = p.Distance(context.Background(), "C001", "C002")
	require.True(t, errors.As(err, &nf))
	assert.False(t, nf.MissingOrigin)
	assert.Equal(t, []string{"CD01"}, nf.Available)
	assert.Contains(t, err.Error(), "destination 'C002' not available from 'C001'")
}

func TestNew(t *testing.T) {
	opts := distance.Options{Locator: testLocator()}

	for _, method := range []distance.Method{distance.MethodHaversine, distance.MethodGeodesic, distance.MethodOSRM} {
		p, err := distance.New(method, opts)
		require.NoError(t, err)
		assert.Equal(t, method, p.Method())
	}

	_, err := distance.New(distance.MethodMatrix, opts)
	assert.Error(t, err, "matrix method without a loaded matrix")

	opts.Matrix = matrix.New()
	p, err := distance.New(distance.MethodMatrix, opts)
	require.NoError(t, err)
	assert.Equal(t, distance.MethodMatrix, p.Method())

	_, err = distance.New(distance.MethodHaversine, distance.Options{})
	assert.Error(t, err, "location methods need a locator")

	_, err = distance.New("warp", opts)
	var unknown *distance.UnknownMethodError
	assert.ErrorAs(t, err, &unknown)
}
