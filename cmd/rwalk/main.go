// Package main provides the entry point for the rwalk CLI.
package main

import (
	"os"

	"github.com/bethropolis/rwalk/cmd/rwalk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
