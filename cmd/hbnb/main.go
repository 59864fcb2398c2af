// Package main provides the hbnb object console.
package main

import (
	"os"

	"github.com/leapstack-labs/hbnb/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
