package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-verifier/internal/testutil"
)

func referenceArgs(t *testing.T) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	vehicles, depots, clients := testutil.ReferenceFiles(t, dir)
	return dir, []string{
		"-vehicles", vehicles,
		"-depots", depots,
		"-clients", clients,
		"-cache", filepath.Join(dir, "cache.json"),
	}
}

func TestRun_Feasible(t *testing.T) {
	dir, args := referenceArgs(t)
	solution := testutil.WriteFile(t, dir, "routes.csv",
		"VehicleId,DepotId,InitialLoad,RouteSequence,ClientsServed,DemandsSatisfied,TotalDistance\n"+
			"V001,CD01,15,CD01-C001-C002-C003-CD01,3,5-7-3,999\n")

	var out bytes.Buffer
	err := run(append(args, "-solution", solution, "-verbose"), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Starting solution validation with haversine distance calculation...")
	assert.Contains(t, out.String(), "Note: TotalDistance, TotalTime, and FuelCost columns are ignored")
	assert.Contains(t, out.String(), "Reading solution from: "+solution)
	assert.Contains(t, out.String(), "V001 (depot CD01)")
	assert.Contains(t, out.String(), "✓ SOLUTION IS FEASIBLE!")
	assert.Contains(t, out.String(), "Validation completed successfully!")
}

func TestRun_InfeasibleStillSucceeds(t *testing.T) {
	dir, args := referenceArgs(t)
	solution := testutil.WriteFile(t, dir, "routes.csv",
		"VehicleId,DepotId,InitialLoad,RouteSequence,ClientsServed,DemandsSatisfied\n"+
			"V001,CD01,5,CD01-C001-CD01,1,5\n")

	var out bytes.Buffer
	err := run(append(args, "-solution", solution), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "✗ SOLUTION IS INFEASIBLE!")
	assert.Contains(t, out.String(), "  - Client C002 was not visited")
	assert.Contains(t, out.String(), "  - Client C003 was not visited")
	assert.NotContains(t, out.String(), "Validation completed successfully!")
}

func TestRun_FatalErrors(t *testing.T) {
	dir, args := referenceArgs(t)

	var out bytes.Buffer
	assert.Error(t, run(append(args, "-method", "matrix"), &out))
	assert.Error(t, run(append(args, "-method", "teleport"), &out))
	assert.Error(t, run(append(args, "-solution", filepath.Join(dir, "solution.csv")), &out))
}
