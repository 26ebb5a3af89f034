package testutil

import (
	"context"
	"fmt"

	"route-verifier/internal/distance"
	"route-verifier/internal/models"
)

// DistanceCall tracks a call to a mock provider or calculator
type DistanceCall struct {
	From string
	To   string
}

// MockProvider is a distance.Provider with fixed pair distances.
// Pairs without an override return Default; pairs listed in Failures
// return an error.
type MockProvider struct {
	Default   float64
	Overrides map[string]float64
	Failures  map[string]error
	Calls     []DistanceCall
	method    distance.Method
}

func NewMockProvider(defaultDistance float64) *MockProvider {
	return &MockProvider{
		Default:   defaultDistance,
		Overrides: make(map[string]float64),
		Failures:  make(map[string]error),
		method:    distance.MethodHaversine,
	}
}

func (m *MockProvider) makeKey(from, to string) string {
	return fmt.Sprintf("%s->%s", from, to)
}

// SetDistance sets a custom distance for a specific ordered pair
func (m *MockProvider) SetDistance(from, to string, d float64) {
	m.Overrides[m.makeKey(from, to)] = d
}

// FailPair makes the ordered pair return err
func (m *MockProvider) FailPair(from, to string, err error) {
	m.Failures[m.makeKey(from, to)] = err
}

func (m *MockProvider) Method() distance.Method { return m.method }

func (m *MockProvider) Distance(ctx context.Context, from, to string) (float64, error) {
	m.Calls = append(m.Calls, DistanceCall{From: from, To: to})

	key := m.makeKey(from, to)
	if err, ok := m.Failures[key]; ok {
		return 0, err
	}
	if d, ok := m.Overrides[key]; ok {
		return d, nil
	}
	if from == to {
		return 0, nil
	}
	return m.Default, nil
}

// ResetCalls clears the recorded calls
func (m *MockProvider) ResetCalls() {
	m.Calls = nil
}

// CountingCalculator is a distance.Calculator that delegates to
// haversine and counts invocations
type CountingCalculator struct {
	Count int
}

func (c *CountingCalculator) Between(ctx context.Context, origin, dest models.Coordinates) (float64, error) {
	c.Count++
	return distance.Haversine(origin, dest), nil
}

// StaticLocator resolves ids from a fixed map
type StaticLocator map[string]models.Location

func (l StaticLocator) Lookup(id string) (models.Location, error) {
	loc, ok := l[id]
	if !ok {
		return models.Location{}, fmt.Errorf("unknown location: %s", id)
	}
	return loc, nil
}
