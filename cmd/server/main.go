package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"route-verifier/internal/config"
	"route-verifier/internal/server"
	"route-verifier/internal/verifier"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	config.LoadEnv()

	cfg, err := config.Parse("server", os.Args[1:], os.Stderr)
	if err != nil {
		return err
	}
	for _, w := range cfg.Warnings() {
		log.Printf("[WARN] %s", w)
	}

	v, err := verifier.New(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize verifier: %w", err)
	}
	defer v.Close()

	srv := server.New(server.Config{Addr: cfg.Addr}, v)

	actualAddr, err := srv.Start()
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	log.Printf("Validating with %s distances at http://%s/api/v1/validate", cfg.Method, actualAddr)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	sig := <-shutdown
	log.Printf("Received signal %v, starting graceful shutdown", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("could not gracefully shutdown the server: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
