// Package main provides the adamrule CLI.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("adamrule %s\n", version)
	case "fit":
		opts, err := parseFitFlags(os.Args[2:])
		if err != nil {
			log.Fatalf("fit: %v", err)
		}
		if _, err := fit(opts, os.Stdout); err != nil {
			log.Fatalf("fit: %v", err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("adamrule - Adam learning rule for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  fit        Minimize a synthetic quadratic with a learning rule")
}

func parseFitFlags(args []string) (fitOptions, error) {
	fs := flag.NewFlagSet("fit", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML learning rule config (rule, name, hyperparameters)")
	rule := fs.String("rule", "", "Learning rule: adam or sgd (overrides config)")
	lr := fs.Float64("lr", 0, "Learning rate (overrides config when > 0)")
	steps := fs.Int("steps", 1000, "Number of update steps")
	dim := fs.Int("dim", 4, "Number of parameters")
	dtype := fs.String("dtype", "float32", "Parameter precision: float32 or float64")
	every := fs.Int("every", 100, "Report loss every N steps (0 = only final)")
	if err := fs.Parse(args); err != nil {
		return fitOptions{}, err
	}

	return fitOptions{
		ConfigPath: *configPath,
		Rule:       *rule,
		LR:         *lr,
		Steps:      *steps,
		Dim:        *dim,
		DType:      *dtype,
		Every:      *every,
	}, nil
}
