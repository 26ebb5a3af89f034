package records

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"route-verifier/internal/models"
)

var validate = validator.New()

// LoadVehicles reads the vehicle table keyed by numeric vehicle id
func LoadVehicles(path string) (map[int]models.VehicleSpec, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	return ParseVehicles(t)
}

// ParseVehicles converts a vehicle table into specs keyed by vehicle id
func ParseVehicles(t *Table) (map[int]models.VehicleSpec, error) {
	idCol, err := t.Column("VehicleID", "VehicleId")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Path, err)
	}
	capCol, err := t.Column("Capacity")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Path, err)
	}
	rangeCol, err := t.Column("Range")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Path, err)
	}

	specs := make(map[int]models.VehicleSpec, len(t.Rows))
	for i, row := range t.Rows {
		p := rowParser{t: t, row: row, line: i + 2}
		rec := models.VehicleRecord{
			VehicleID: p.integer(idCol, "VehicleID"),
			Capacity:  p.integer(capCol, "Capacity"),
			Range:     p.number(rangeCol, "Range"),
		}
		if p.err != nil {
			return nil, p.err
		}
		if err := validate.Struct(rec); err != nil {
			return nil, fmt.Errorf("%s: row %d: invalid vehicle: %w", t.Path, p.line, err)
		}
		if _, dup := specs[rec.VehicleID]; dup {
			return nil, fmt.Errorf("%s: row %d: duplicate vehicle id %d", t.Path, p.line, rec.VehicleID)
		}
		specs[rec.VehicleID] = rec.Spec()
	}
	return specs, nil
}

// LoadClients reads the client reference table
func LoadClients(path string) ([]models.ClientRecord, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	return ParseClients(t)
}

// ParseClients converts a client table into records
func ParseClients(t *Table) ([]models.ClientRecord, error) {
	cols, err := columns(t, []string{"ClientID", "ClientId"}, []string{"Demand"}, []string{"Latitude"}, []string{"Longitude"})
	if err != nil {
		return nil, err
	}

	out := make([]models.ClientRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		p := rowParser{t: t, row: row, line: i + 2}
		rec := models.ClientRecord{
			ClientID:  p.text(cols[0]),
			Demand:    p.integer(cols[1], "Demand"),
			Latitude:  p.number(cols[2], "Latitude"),
			Longitude: p.number(cols[3], "Longitude"),
		}
		if p.err != nil {
			return nil, p.err
		}
		// ClientID may be written as a float by spreadsheet exports
		if f, err := strconv.ParseFloat(rec.ClientID, 64); err == nil && f == float64(int(f)) {
			rec.ClientID = strconv.Itoa(int(f))
		}
		if err := validate.Struct(rec); err != nil {
			return nil, fmt.Errorf("%s: row %d: invalid client: %w", t.Path, p.line, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// LoadDepots reads the depot reference table
func LoadDepots(path string) ([]models.DepotRecord, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	return ParseDepots(t)
}

// ParseDepots converts a depot table into records
func ParseDepots(t *Table) ([]models.DepotRecord, error) {
	cols, err := columns(t, []string{"DepotID", "DepotId"}, []string{"Latitude"}, []string{"Longitude"})
	if err != nil {
		return nil, err
	}

	out := make([]models.DepotRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		p := rowParser{t: t, row: row, line: i + 2}
		rec := models.DepotRecord{
			DepotID:   p.integer(cols[0], "DepotID"),
			Latitude:  p.number(cols[1], "Latitude"),
			Longitude: p.number(cols[2], "Longitude"),
		}
		if p.err != nil {
			return nil, p.err
		}
		if err := validate.Struct(rec); err != nil {
			return nil, fmt.Errorf("%s: row %d: invalid depot: %w", t.Path, p.line, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// LoadSolution reads the candidate solution, one route per row
func LoadSolution(path string) ([]models.Route, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	return ParseSolution(t)
}

// ParseSolution converts a solution table into routes.
// TotalDistance, TotalTime and FuelCost columns are ignored.
func ParseSolution(t *Table) ([]models.Route, error) {
	cols, err := columns(t,
		[]string{"VehicleId", "VehicleID"},
		[]string{"DepotId", "DepotID"},
		[]string{"InitialLoad", "InitLoad"},
		[]string{"RouteSequence"},
		[]string{"ClientsServed", "Clients"},
		[]string{"DemandsSatisfied", "DemandSatisfied"},
	)
	if err != nil {
		return nil, err
	}

	routes := make([]models.Route, 0, len(t.Rows))
	for i, row := range t.Rows {
		p := rowParser{t: t, row: row, line: i + 2}
		route := models.Route{
			VehicleID:        p.text(cols[0]),
			DepotID:          p.text(cols[1]),
			InitialLoad:      p.integer(cols[2], "InitialLoad"),
			Stops:            SplitSequence(p.text(cols[3])),
			ClientsServed:    p.integer(cols[4], "ClientsServed"),
			DemandsSatisfied: p.integers(cols[5], "DemandsSatisfied"),
		}
		if p.err != nil {
			return nil, p.err
		}
		if route.VehicleID == "" {
			return nil, fmt.Errorf("%s: row %d: empty vehicle id", t.Path, p.line)
		}
		routes = append(routes, route)
	}
	return routes, nil
}

// SplitSequence splits a dash-separated sequence, dropping empty parts
func SplitSequence(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, "-")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func columns(t *Table, aliases ...[]string) ([]int, error) {
	out := make([]int, len(aliases))
	for i, names := range aliases {
		col, err := t.Column(names...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Path, err)
		}
		out[i] = col
	}
	return out, nil
}

// rowParser converts cells of one row, keeping the first failure
type rowParser struct {
	t    *Table
	row  []string
	line int
	err  error
}

func (p *rowParser) text(col int) string {
	return p.t.Cell(p.row, col)
}

func (p *rowParser) fail(name, value string, err error) {
	if p.err == nil {
		p.err = &ParseError{Path: p.t.Path, Row: p.line, Column: name, Value: value, Err: err}
	}
}

func (p *rowParser) integer(col int, name string) int {
	v := p.text(col)
	n, err := strconv.Atoi(v)
	if err == nil {
		return n
	}
	// spreadsheet exports write integers as 12.0
	f, ferr := strconv.ParseFloat(v, 64)
	if ferr == nil && f == float64(int(f)) {
		return int(f)
	}
	p.fail(name, v, err)
	return 0
}

func (p *rowParser) number(col int, name string) float64 {
	v := p.text(col)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(name, v, err)
		return 0
	}
	return f
}

func (p *rowParser) integers(col int, name string) []int {
	parts := SplitSequence(p.text(col))
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			p.fail(name, part, err)
			return nil
		}
		out = append(out, n)
	}
	return out
}
