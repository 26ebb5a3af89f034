package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-verifier/internal/distance"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse("verify", nil, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, distance.MethodHaversine, cfg.Method)
	assert.Equal(t, DefaultSolutionPath, cfg.SolutionPath)
	assert.Equal(t, DefaultCachePath, cfg.CachePath)
	assert.Equal(t, "vehicles.csv", cfg.VehiclesPath)
	assert.Equal(t, "clients.csv", cfg.ClientsPath)
	assert.Equal(t, "depots.csv", cfg.DepotsPath)
	assert.Equal(t, distance.DefaultOSRMURL, cfg.OSRMURL)
	assert.Equal(t, distance.DefaultOSRMTimeout, cfg.OSRMTimeout)
	assert.Equal(t, DefaultServerAddr, cfg.Addr)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.Warnings())
}

func TestParse_Flags(t *testing.T) {
	cfg, err := Parse("verify", []string{
		"-method", "geopy",
		"-solution", "mine.csv",
		"-cache", "cache.db",
		"-osrm-timeout", "2s",
		"-verbose",
	}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, distance.MethodGeodesic, cfg.Method)
	assert.Equal(t, "mine.csv", cfg.SolutionPath)
	assert.Equal(t, "cache.db", cfg.CachePath)
	assert.Equal(t, 2*time.Second, cfg.OSRMTimeout)
	assert.True(t, cfg.Verbose)
}

func TestParse_Environment(t *testing.T) {
	t.Setenv("VERIFY_METHOD", "road-network")
	t.Setenv("OSRM_URL", "http://localhost:5000")
	t.Setenv("OSRM_TIMEOUT", "bogus")
	t.Setenv("VERIFY_VERBOSE", "true")

	cfg, err := Parse("verify", nil, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, distance.MethodOSRM, cfg.Method)
	assert.Equal(t, "http://localhost:5000", cfg.OSRMURL)
	assert.Equal(t, distance.DefaultOSRMTimeout, cfg.OSRMTimeout)
	assert.True(t, cfg.Verbose)
}

func TestParse_MatrixRequired(t *testing.T) {
	_, err := Parse("verify", []string{"-method", "matrix"}, io.Discard)
	assert.True(t, errors.Is(err, ErrMatrixRequired))

	cfg, err := Parse("verify", []string{"-method", "matrix", "-matrix", "d.json"}, io.Discard)
	require.NoError(t, err)
	assert.Empty(t, cfg.Warnings())
	assert.Contains(t, cfg.Notes(), "Using distance matrix from: d.json")
}

func TestParse_UnusedMatrixWarns(t *testing.T) {
	cfg, err := Parse("verify", []string{"-matrix", "d.json"}, io.Discard)
	require.NoError(t, err)

	require.Len(t, cfg.Warnings(), 1)
	assert.Contains(t, cfg.Warnings()[0], "Matrix file will be ignored")
	assert.Contains(t, cfg.Notes(), "Note: TotalDistance, TotalTime, and FuelCost columns are ignored")
}

func TestParse_UnknownMethod(t *testing.T) {
	_, err := Parse("verify", []string{"-method", "teleport"}, io.Discard)
	var unknown *distance.UnknownMethodError
	assert.ErrorAs(t, err, &unknown)
}

func TestResolveSolutionPath(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "routes.csv")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0600))

	cfg := &Config{SolutionPath: existing}
	assert.Equal(t, existing, cfg.ResolveSolutionPath())

	cfg.SolutionPath = filepath.Join(dir, "missing.csv")
	assert.Equal(t, FallbackSolutionPath, cfg.ResolveSolutionPath())

	cfg.SolutionPath = FallbackSolutionPath
	assert.Equal(t, FallbackSolutionPath, cfg.ResolveSolutionPath())
}
