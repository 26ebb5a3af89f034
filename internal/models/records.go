package models

// DepotRecord is one row of the depot reference table
type DepotRecord struct {
	DepotID   int     `json:"depot_id" validate:"gte=0"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// ClientRecord is one row of the client reference table
type ClientRecord struct {
	ClientID  string  `json:"client_id" validate:"required"`
	Demand    int     `json:"demand" validate:"gte=0"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// VehicleRecord is one row of the vehicle reference table
type VehicleRecord struct {
	VehicleID int     `json:"vehicle_id" validate:"gte=0"`
	Capacity  int     `json:"capacity" validate:"gte=0"`
	Range     float64 `json:"range" validate:"gte=0"`
}

// Spec returns the vehicle limits carried by the record
func (v VehicleRecord) Spec() VehicleSpec {
	return VehicleSpec{Capacity: v.Capacity, Range: v.Range}
}
