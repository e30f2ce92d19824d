// Package main is the entry point for the negotiator CLI.
package main

import (
	"os"

	"github.com/challengegame/negotiator/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
