package main

import (
	"context"
	"fmt"
	"os"

	"github.com/robalb/threeway/internal/server"
)

// The entry point for the server.
// This is just a wrapper around the
// actual business logic, a practice
// that simplifies writing e2e tests.
func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()
	if err := server.Run(ctx, os.Stdout, os.Stderr, os.Args, os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	}
	return 0
}
