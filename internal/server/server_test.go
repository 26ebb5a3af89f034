package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-verifier/internal/models"
	"route-verifier/internal/registry"
	"route-verifier/internal/testutil"
	"route-verifier/internal/validation"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	reg, err := registry.New(
		[]models.DepotRecord{{DepotID: 1, Latitude: 4.60, Longitude: -74.08}},
		[]models.ClientRecord{
			{ClientID: "1", Demand: 5, Latitude: 4.61, Longitude: -74.07},
			{ClientID: "2", Demand: 7, Latitude: 4.62, Longitude: -74.09},
		},
	)
	require.NoError(t, err)
	vehicles := map[int]models.VehicleSpec{1: {Capacity: 100, Range: 500}}
	return New(Config{Addr: "127.0.0.1:0"}, validation.New(reg, vehicles, testutil.NewMockProvider(2)))
}

func doRequest(t *testing.T, s *Server, method, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/health", "/api/v1/health"} {
		status, body := doRequest(t, s, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `{"status":"ok"}`, string(body))
	}
}

func TestValidate_Feasible(t *testing.T) {
	s := newTestServer(t)

	status, body := doRequest(t, s, http.MethodPost, "/api/v1/validate", `{
		"routes": [{
			"vehicle_id": "V001",
			"depot_id": "CD01",
			"initial_load": 12,
			"stops": ["CD01", "C001", "C002", "CD01"],
			"clients_served": 2,
			"demands_satisfied": [5, 7]
		}]
	}`)
	require.Equal(t, http.StatusOK, status, string(body))

	var result validation.Result
	require.NoError(t, json.Unmarshal(body, &result))
	assert.True(t, result.Feasible)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Routes, 1)
	assert.Equal(t, 6.0, result.Routes[0].Distance)
}

func TestValidate_ReportsFindings(t *testing.T) {
	s := newTestServer(t)

	status, body := doRequest(t, s, http.MethodPost, "/api/v1/validate", `{
		"routes": [{
			"vehicle_id": "V001",
			"depot_id": "CD01",
			"initial_load": 5,
			"stops": ["CD01", "C001", "CD01"],
			"clients_served": 1,
			"demands_satisfied": [5]
		}]
	}`)
	require.Equal(t, http.StatusOK, status)

	var result validation.Result
	require.NoError(t, json.Unmarshal(body, &result))
	assert.False(t, result.Feasible)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, validation.CheckCoverage, result.Errors[0].Check)
	assert.Equal(t, "Client C002 was not visited", result.Errors[0].Message)
}

func TestValidate_BadRequests(t *testing.T) {
	s := newTestServer(t)

	testCases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"routes": [`},
		{"missing routes", `{}`},
		{"missing vehicle", `{"routes": [{"depot_id": "CD01", "stops": ["CD01", "CD01"]}]}`},
		{"negative load", `{"routes": [{"vehicle_id": "V001", "depot_id": "CD01", "initial_load": -1}]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := doRequest(t, s, http.MethodPost, "/api/v1/validate", tc.body)
			assert.Equal(t, http.StatusBadRequest, status)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(body, &resp))
			assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestStartAndShutdown(t *testing.T) {
	s := newTestServer(t)

	addr, err := s.Start()
	require.NoError(t, err)

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + addr + "/health")
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, s.Shutdown(ctx))
}
