// Package main is the entry point for the Lantern CLI. Lantern keeps
// penetration-test findings in per-client SQLite databases mirrored by
// a human-readable markdown tree, and turns them into CSV exports and
// report data.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
