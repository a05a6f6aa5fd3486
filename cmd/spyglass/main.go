package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/ashbridge/spyglass/internal/cli"
)

var version = "dev"

func main() {
	// A project-local .env is the common way to point spyglass at the node;
	// a missing file is fine.
	_ = godotenv.Load()

	if err := cli.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
