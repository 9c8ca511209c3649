package main

import (
	"os"

	"github.com/dyluth/z32/cmd/z32/commands"
)

// Version information - set during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	// Errors are printed by the printer package before Execute returns
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
