package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/aegis-robotics/swarm-coord/cmd/swarm-core-sim/cmd"
)

func main() {
	// Load .env file if present; absence is not an error.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
