package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Fixture file contents shared by package tests. Depot 1 and clients 1-3
// sit around Bogotá; all demands are small.
const (
	VehiclesCSV = "VehicleID,Capacity,Range\n1,100,500\n2,10,1\n"
	DepotsCSV   = "DepotID,Latitude,Longitude\n1,4.6000,-74.0800\n2,4.7000,-74.0500\n"
	ClientsCSV  = "ClientID,Demand,Latitude,Longitude\n1,5,4.6100,-74.0700\n2,7,4.6200,-74.0900\n3,3,4.6500,-74.1000\n"
)

// WriteFile writes content under dir and returns the path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

// ReferenceFiles writes the vehicle, depot and client fixtures into dir
func ReferenceFiles(t *testing.T, dir string) (vehicles, depots, clients string) {
	t.Helper()
	return WriteFile(t, dir, "vehicles.csv", VehiclesCSV),
		WriteFile(t, dir, "depots.csv", DepotsCSV),
		WriteFile(t, dir, "clients.csv", ClientsCSV)
}
