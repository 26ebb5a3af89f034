package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"route-verifier/internal/models"
	"route-verifier/internal/validation"
)

// RouteValidator runs one validation pass
type RouteValidator interface {
	Validate(ctx context.Context, routes []models.Route) *validation.Result
}

// Server wraps the fiber app and the validator it serves
type Server struct {
	app       *fiber.App
	validator RouteValidator
	check     *validator.Validate
	mu        sync.Mutex
	listener  net.Listener
	addr      string
}

// Config holds server configuration
type Config struct {
	Addr string // e.g., "127.0.0.1:8080" or "127.0.0.1:0" for random port
}

// New creates a server (does not start it)
func New(cfg Config, v RouteValidator) *Server {
	s := &Server{
		validator: v,
		check:     validator.New(),
		addr:      cfg.Addr,
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          60 * time.Second,
		IdleTimeout:           120 * time.Second,
	})
	s.app.Use(loggingMiddleware)
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.app.Get("/health", s.handleHealthCheck)

	api := s.app.Group("/api/v1")
	api.Get("/health", s.handleHealthCheck)
	api.Post("/validate", s.handleValidate)
}

// Start listens on the configured address and returns the actual address
// (useful for random port)
func (s *Server) Start() (string, error) {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen: %w", err)
	}

	s.listener = listener
	actualAddr := listener.Addr().String()
	log.Printf("Starting server on %s", actualAddr)

	go func() {
		if err := s.app.Listener(listener); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	return actualAddr, nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func loggingMiddleware(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	log.Printf("%s %s %d %v", c.Method(), c.Path(), c.Response().StatusCode(), time.Since(start))
	return err
}
