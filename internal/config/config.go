// Package config resolves run settings from flags, the environment and an
// optional .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"route-verifier/internal/distance"
)

const (
	DefaultSolutionPath  = "verificacion_caso1.csv"
	FallbackSolutionPath = "solution.csv"
	DefaultCachePath     = "distance_cache.json"
	DefaultServerAddr    = "127.0.0.1:8080"
)

// ErrMatrixRequired is returned when the matrix method is selected without a matrix file
var ErrMatrixRequired = errors.New("--matrix argument is required when using --method matrix")

// Config holds the settings of one verifier process
type Config struct {
	Method       distance.Method
	MatrixPath   string
	SolutionPath string
	CachePath    string
	VehiclesPath string
	ClientsPath  string
	DepotsPath   string
	OSRMURL      string
	OSRMTimeout  time.Duration
	Verbose      bool
	Addr         string
}

// LoadEnv reads a .env file from the working directory when present
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
}

// Parse builds a Config from command-line arguments. Flag defaults come
// from the environment.
func Parse(name string, args []string, output io.Writer) (*Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)

	method := fs.String("method", getEnv("VERIFY_METHOD", string(distance.MethodHaversine)),
		"distance method: haversine, geodesic, osrm or matrix")
	cfg := &Config{}
	fs.StringVar(&cfg.MatrixPath, "matrix", getEnv("VERIFY_MATRIX", ""),
		"distance matrix file (.json, .json5, .csv, .xlsx); required with -method matrix")
	fs.StringVar(&cfg.SolutionPath, "solution", getEnv("VERIFY_SOLUTION", DefaultSolutionPath),
		"solution file (fallback: "+FallbackSolutionPath+")")
	fs.StringVar(&cfg.CachePath, "cache", getEnv("VERIFY_CACHE", DefaultCachePath),
		"distance cache: JSON file, .db/.sqlite file, postgres:// or redis:// URL (ignored with -method matrix)")
	fs.StringVar(&cfg.VehiclesPath, "vehicles", getEnv("VERIFY_VEHICLES", "vehicles.csv"), "vehicle reference table")
	fs.StringVar(&cfg.ClientsPath, "clients", getEnv("VERIFY_CLIENTS", "clients.csv"), "client reference table")
	fs.StringVar(&cfg.DepotsPath, "depots", getEnv("VERIFY_DEPOTS", "depots.csv"), "depot reference table")
	fs.StringVar(&cfg.OSRMURL, "osrm-url", getEnv("OSRM_URL", distance.DefaultOSRMURL), "OSRM base URL")
	fs.DurationVar(&cfg.OSRMTimeout, "osrm-timeout", getEnvDuration("OSRM_TIMEOUT", distance.DefaultOSRMTimeout),
		"timeout for a single OSRM request")
	fs.BoolVar(&cfg.Verbose, "verbose", getEnvBool("VERIFY_VERBOSE", false), "show detailed output")
	fs.StringVar(&cfg.Addr, "addr", getEnv("SERVER_ADDR", DefaultServerAddr), "listen address for the HTTP service")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	m, err := distance.ParseMethod(*method)
	if err != nil {
		return nil, err
	}
	cfg.Method = m

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks argument combinations
func (c *Config) Validate() error {
	if c.Method == distance.MethodMatrix && c.MatrixPath == "" {
		return ErrMatrixRequired
	}
	return nil
}

// Warnings lists settings that are accepted but have no effect
func (c *Config) Warnings() []string {
	var out []string
	if c.MatrixPath != "" && c.Method != distance.MethodMatrix {
		out = append(out, "--matrix provided but method is not 'matrix'. Matrix file will be ignored.")
	}
	return out
}

// ResolveSolutionPath returns the configured solution path, or the
// fallback name when the configured file does not exist
func (c *Config) ResolveSolutionPath() string {
	if _, err := os.Stat(c.SolutionPath); err == nil || c.SolutionPath == FallbackSolutionPath {
		return c.SolutionPath
	}
	log.Printf("[WARN] %s not found, trying %s...", c.SolutionPath, FallbackSolutionPath)
	return FallbackSolutionPath
}

// Notes returns the informational lines printed before a run
func (c *Config) Notes() []string {
	notes := []string{fmt.Sprintf("Starting solution validation with %s distance calculation...", c.Method)}
	if c.Method == distance.MethodMatrix {
		notes = append(notes, fmt.Sprintf("Using distance matrix from: %s", c.MatrixPath))
	} else {
		notes = append(notes, "Note: TotalDistance, TotalTime, and FuelCost columns are ignored")
	}
	return notes
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("[WARN] Invalid %s=%q, using %v", key, value, defaultValue)
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("[WARN] Invalid %s=%q, using %v", key, value, defaultValue)
		return defaultValue
	}
	return d
}
