// Package main is the entry point for the soccer-rosters CLI.
package main

import (
	"os"

	"github.com/jmylchreest/soccer-rosters/cmd/soccer-rosters/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
