// Package main is the entry point for the rook CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/rook/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
