package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"route-verifier/internal/config"
	"route-verifier/internal/validation"
	"route-verifier/internal/verifier"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stdout, "\nError during validation: %v\n", err)
		os.Exit(1)
	}
}

// run exits cleanly whenever the validation pass completes, feasible or not
func run(args []string, out io.Writer) error {
	config.LoadEnv()

	cfg, err := config.Parse("verify", args, os.Stderr)
	if err != nil {
		return err
	}

	for _, w := range cfg.Warnings() {
		log.Printf("[WARN] %s", w)
	}
	for _, note := range cfg.Notes() {
		fmt.Fprintln(out, note)
	}
	solutionPath := cfg.ResolveSolutionPath()
	fmt.Fprintf(out, "Reading solution from: %s\n\n", solutionPath)

	ctx := context.Background()
	v, err := verifier.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer v.Close()

	result, err := v.Run(ctx, solutionPath)
	if err != nil {
		return err
	}

	printResult(out, result, cfg.Verbose)
	return nil
}

func printResult(out io.Writer, result *validation.Result, verbose bool) {
	if verbose {
		fmt.Fprintln(out, "Routes:")
		for _, r := range result.Routes {
			status := "ok"
			if !r.Feasible {
				status = "infeasible"
			}
			fmt.Fprintf(out, "  %s (depot %s): distance=%.1f load=%d clients=%d %s\n",
				r.VehicleID, r.DepotID, r.Distance, r.InitialLoad, r.Clients, status)
		}
	}

	if result.Feasible {
		fmt.Fprintln(out, "\n✓ SOLUTION IS FEASIBLE!")
		fmt.Fprintln(out, "All routes satisfy the requirements.")
	} else {
		fmt.Fprintln(out, "\n✗ SOLUTION IS INFEASIBLE!")
		fmt.Fprintln(out, "Errors found:")
		for _, f := range result.Errors {
			fmt.Fprintf(out, "  - %s\n", f.Message)
		}
	}

	if verbose {
		fmt.Fprintln(out, "\nValidation completed successfully!")
	}
}
