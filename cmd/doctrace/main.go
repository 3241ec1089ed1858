// Package main provides the doctrace CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/doctrace/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
