// Package verifier wires reference data, the distance provider and the
// distance cache into a validation pass.
package verifier

import (
	"context"
	"fmt"
	"log"

	"route-verifier/internal/cache"
	"route-verifier/internal/config"
	"route-verifier/internal/distance"
	"route-verifier/internal/matrix"
	"route-verifier/internal/models"
	"route-verifier/internal/records"
	"route-verifier/internal/registry"
	"route-verifier/internal/validation"
)

// Verifier holds everything built once at startup
type Verifier struct {
	Registry  *registry.Registry
	Vehicles  map[int]models.VehicleSpec
	Provider  distance.Provider
	Cache     cache.Store
	validator *validation.Validator
}

// New loads the reference tables, then either the distance matrix or the
// distance cache depending on the method, and builds the provider
func New(ctx context.Context, cfg *config.Config) (*Verifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	vehicles, err := records.LoadVehicles(cfg.VehiclesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load vehicles: %w", err)
	}
	clients, err := records.LoadClients(cfg.ClientsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}
	depots, err := records.LoadDepots(cfg.DepotsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load depots: %w", err)
	}

	reg, err := registry.New(depots, clients)
	if err != nil {
		return nil, fmt.Errorf("failed to build location registry: %w", err)
	}
	log.Printf("Loaded %d vehicles, %d depots, %d clients", len(vehicles), len(depots), len(reg.Clients()))

	opts := distance.Options{
		Locator:     reg,
		OSRMURL:     cfg.OSRMURL,
		OSRMTimeout: cfg.OSRMTimeout,
	}

	var store cache.Store
	if cfg.Method.Cached() {
		store, err = cache.Open(ctx, cfg.CachePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open distance cache: %w", err)
		}
		if err := store.Load(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to load distance cache: %w", err)
		}
		opts.Cache = store
	} else {
		m, err := matrix.Load(cfg.MatrixPath)
		if err != nil {
			return nil, err
		}
		opts.Matrix = m
	}

	provider, err := distance.New(cfg.Method, opts)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}

	return &Verifier{
		Registry:  reg,
		Vehicles:  vehicles,
		Provider:  provider,
		Cache:     store,
		validator: validation.New(reg, vehicles, provider),
	}, nil
}

// Validate runs one pass over the routes and flushes the cache. A failed
// flush is logged and does not change the verdict.
func (v *Verifier) Validate(ctx context.Context, routes []models.Route) *validation.Result {
	result := v.validator.Validate(ctx, routes)

	if v.Cache != nil {
		if err := v.Cache.Save(ctx); err != nil {
			log.Printf("[ERROR] Failed to save distance cache: %v", err)
		} else {
			log.Printf("[CACHE] Saved distance cache: %d entries", v.Cache.Len())
		}
	}
	return result
}

// Run loads the solution file and validates it
func (v *Verifier) Run(ctx context.Context, solutionPath string) (*validation.Result, error) {
	routes, err := records.LoadSolution(solutionPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load solution: %w", err)
	}
	return v.Validate(ctx, routes), nil
}

// Close releases the cache backend
func (v *Verifier) Close() error {
	if v.Cache == nil {
		return nil
	}
	return v.Cache.Close()
}
