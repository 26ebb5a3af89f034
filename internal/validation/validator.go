// Package validation runs the per-route feasibility checks and the global
// coverage check over a candidate solution.
package validation

import (
	"context"
	"fmt"

	"route-verifier/internal/distance"
	"route-verifier/internal/ids"
	"route-verifier/internal/models"
)

// Check names the rule a finding comes from
type Check string

const (
	CheckBoundary  Check = "boundary"
	CheckVehicle   Check = "vehicle"
	CheckCapacity  Check = "capacity"
	CheckLocation  Check = "location"
	CheckDistance  Check = "distance"
	CheckRange     Check = "range"
	CheckDemand    Check = "demand"
	CheckDuplicate Check = "duplicate"
	CheckCount     Check = "count"
	CheckCoverage  Check = "coverage"
)

// Finding is one validation error. Route is empty for coverage findings.
type Finding struct {
	Route   string `json:"route,omitempty"`
	Check   Check  `json:"check"`
	Message string `json:"message"`
}

func (f Finding) String() string {
	return f.Message
}

// RouteReport summarizes one evaluated route
type RouteReport struct {
	VehicleID   string  `json:"vehicle_id"`
	DepotID     string  `json:"depot_id"`
	Distance    float64 `json:"distance"`
	InitialLoad int     `json:"initial_load"`
	Clients     int     `json:"clients"`
	Feasible    bool    `json:"feasible"`
}

// Result is the verdict of one validation pass
type Result struct {
	Feasible bool          `json:"feasible"`
	Errors   []Finding     `json:"errors"`
	Routes   []RouteReport `json:"routes"`
}

// Messages returns the finding messages in order
func (r *Result) Messages() []string {
	out := make([]string, len(r.Errors))
	for i, f := range r.Errors {
		out[i] = f.Message
	}
	return out
}

// Locations is the view of the location registry the validator needs
type Locations interface {
	Lookup(id string) (models.Location, error)
	Clients() []string
}

// Validator checks routes against reference data
type Validator struct {
	locations Locations
	vehicles  map[int]models.VehicleSpec
	provider  distance.Provider
}

// New creates a validator over the given reference data and distance provider
func New(locations Locations, vehicles map[int]models.VehicleSpec, provider distance.Provider) *Validator {
	return &Validator{
		locations: locations,
		vehicles:  vehicles,
		provider:  provider,
	}
}

// Validate evaluates every route and then the client coverage. All checks
// run to completion; the result is feasible when no finding was produced.
func (v *Validator) Validate(ctx context.Context, routes []models.Route) *Result {
	result := &Result{
		Errors: []Finding{},
		Routes: make([]RouteReport, 0, len(routes)),
	}
	visited := make(map[string]bool)

	for _, route := range routes {
		rv := &routeCheck{v: v, route: route}
		report := rv.run(ctx, visited)
		result.Errors = append(result.Errors, rv.findings...)
		result.Routes = append(result.Routes, report)
	}

	for _, client := range v.locations.Clients() {
		if !visited[client] {
			result.Errors = append(result.Errors, Finding{
				Check:   CheckCoverage,
				Message: fmt.Sprintf("Client %s was not visited", client),
			})
		}
	}

	result.Feasible = len(result.Errors) == 0
	return result
}

// canonical resolves an id through the registry, falling back to the
// normalizer for ids the registry does not know
func (v *Validator) canonical(id string) string {
	if loc, err := v.locations.Lookup(id); err == nil {
		return loc.ID
	}
	return ids.Normalize(id)
}

// isClientStop reports whether a stop is a client visit
func (v *Validator) isClientStop(id string) bool {
	if loc, err := v.locations.Lookup(id); err == nil {
		return loc.IsClient()
	}
	return ids.LooksLikeClient(ids.Normalize(id))
}

type routeCheck struct {
	v        *Validator
	route    models.Route
	findings []Finding
}

func (c *routeCheck) add(check Check, format string, args ...interface{}) {
	c.findings = append(c.findings, Finding{
		Route:   c.route.VehicleID,
		Check:   check,
		Message: fmt.Sprintf("Route %s ", c.route.VehicleID) + fmt.Sprintf(format, args...),
	})
}

func (c *routeCheck) run(ctx context.Context, visited map[string]bool) RouteReport {
	route := c.route

	c.checkBoundary()

	spec, hasVehicle := c.vehicle()
	if hasVehicle && route.InitialLoad > spec.Capacity {
		c.add(CheckCapacity, "exceeds capacity: %d > %d", route.InitialLoad, spec.Capacity)
	}

	total := c.travelDistance(ctx)
	if hasVehicle && total > spec.Range {
		c.add(CheckRange, "exceeds range: %.1f > %v", total, spec.Range)
	}

	clients := c.checkDemands(visited)

	distinct := make(map[string]bool, len(clients))
	for _, id := range clients {
		distinct[id] = true
	}
	if len(distinct) != len(clients) {
		c.add(CheckDuplicate, "has duplicate client visits")
	}
	if len(distinct) != route.ClientsServed {
		c.add(CheckCount, "clients_served mismatch: %d != %d", len(distinct), route.ClientsServed)
	}

	return RouteReport{
		VehicleID:   route.VehicleID,
		DepotID:     route.DepotID,
		Distance:    total,
		InitialLoad: route.InitialLoad,
		Clients:     len(distinct),
		Feasible:    len(c.findings) == 0,
	}
}

// checkBoundary compares the first and last stops with the declared depot
// after canonicalizing all three
func (c *routeCheck) checkBoundary() {
	depot := c.v.canonical(c.route.DepotID)
	if len(c.route.Stops) == 0 ||
		c.v.canonical(c.route.Start()) != depot ||
		c.v.canonical(c.route.End()) != depot {
		c.add(CheckBoundary, "does not start and end at depot %s", c.route.DepotID)
	}
}

func (c *routeCheck) vehicle() (models.VehicleSpec, bool) {
	n, err := ids.VehicleNumber(c.route.VehicleID)
	if err == nil {
		if spec, ok := c.v.vehicles[n]; ok {
			return spec, true
		}
	}
	c.add(CheckVehicle, "references unknown vehicle %s", c.route.VehicleID)
	return models.VehicleSpec{}, false
}

// travelDistance sums consecutive-stop distances. Unknown stops are
// reported once each and every pair touching them is skipped.
func (c *routeCheck) travelDistance(ctx context.Context) float64 {
	stops := c.route.Stops
	known := make([]bool, len(stops))
	for i, stop := range stops {
		if _, err := c.v.locations.Lookup(stop); err != nil {
			c.add(CheckLocation, "has invalid location: %s", stop)
			continue
		}
		known[i] = true
	}

	var total float64
	for i := 0; i+1 < len(stops); i++ {
		if !known[i] || !known[i+1] {
			continue
		}
		d, err := c.v.provider.Distance(ctx, stops[i], stops[i+1])
		if err != nil {
			c.add(CheckDistance, "distance calculation error: %v", err)
			continue
		}
		total += d
	}
	return total
}

// checkDemands walks client stops in order, pairing each with the next
// declared demand, and returns the canonical ids of the client stops
func (c *routeCheck) checkDemands(visited map[string]bool) []string {
	var clients []string
	next := 0
	for _, stop := range c.route.Stops {
		if !c.v.isClientStop(stop) {
			continue
		}
		id := c.v.canonical(stop)
		clients = append(clients, id)
		visited[id] = true

		if next >= len(c.route.DemandsSatisfied) {
			c.add(CheckDemand, "has missing demand value for client %s", stop)
			continue
		}
		actual := c.route.DemandsSatisfied[next]
		next++

		loc, err := c.v.locations.Lookup(stop)
		if err != nil {
			continue
		}
		if actual != loc.Demand {
			c.add(CheckDemand, "has incorrect demand for %s: %d != %d", stop, actual, loc.Demand)
		}
	}
	return clients
}
