package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"route-verifier/internal/models"
)

// DefaultOSRMURL is the public OSRM demo server
const DefaultOSRMURL = "http://router.project-osrm.org"

// DefaultOSRMTimeout bounds a single route request
const DefaultOSRMTimeout = 10 * time.Second

// RoadNetworkError is returned when the OSRM API fails
type RoadNetworkError struct {
	Origin models.Coordinates
	Dest   models.Coordinates
	Reason string
}

func (e *RoadNetworkError) Error() string {
	return fmt.Sprintf("road network distance failed: %s", e.Reason)
}

type osrmRouteResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

type osrmCalculator struct {
	baseURL    string
	httpClient *http.Client
	fallback   Calculator
}

// NewOSRMCalculator creates a road-network calculator. Any failure of the
// route service falls back to great-circle distance for that pair.
func NewOSRMCalculator(baseURL string, timeout time.Duration) Calculator {
	if baseURL == "" {
		baseURL = DefaultOSRMURL
	}
	if timeout <= 0 {
		timeout = DefaultOSRMTimeout
	}
	return &osrmCalculator{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		fallback: GreatCircle{},
	}
}

func (c *osrmCalculator) Between(ctx context.Context, origin, dest models.Coordinates) (float64, error) {
	if models.SamePoint(origin, dest) {
		return 0, nil
	}

	km, err := c.routeDistance(ctx, origin, dest)
	if err != nil {
		log.Printf("[WARN] OSRM failed for (%.6f,%.6f)->(%.6f,%.6f), falling back to haversine: %v",
			origin.Lat, origin.Lng, dest.Lat, dest.Lng, err)
		return c.fallback.Between(ctx, origin, dest)
	}
	return km, nil
}

// routeDistance asks OSRM for the driving distance, in kilometers
func (c *osrmCalculator) routeDistance(ctx context.Context, origin, dest models.Coordinates) (float64, error) {
	queryURL := fmt.Sprintf("%s/route/v1/driving/%.6f,%.6f;%.6f,%.6f?overview=false",
		c.baseURL, origin.Lng, origin.Lat, dest.Lng, dest.Lat)

	fail := func(reason string) error {
		return &RoadNetworkError{Origin: origin, Dest: dest, Reason: reason}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return 0, fail(err.Error())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fail(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fail(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var osrmResp osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&osrmResp); err != nil {
		return 0, fail(err.Error())
	}

	if osrmResp.Code != "" && osrmResp.Code != "Ok" {
		return 0, fail(fmt.Sprintf("OSRM error: %s", osrmResp.Code))
	}
	if len(osrmResp.Routes) == 0 {
		return 0, fail("no routes returned")
	}

	meters := osrmResp.Routes[0].Distance
	if meters < 0 {
		return 0, fail(fmt.Sprintf("negative distance %v", meters))
	}
	log.Printf("[OSRM] Distance calculated: origin=(%.6f,%.6f) dest=(%.6f,%.6f) distance=%.0fm",
		origin.Lat, origin.Lng, dest.Lat, dest.Lng, meters)
	return meters / 1000, nil
}
