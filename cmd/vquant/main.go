package main

import (
	"os"

	"github.com/wonny/vquant/backend/cmd/vquant/commands"
)

// main is the entry point for the VQuant CLI
// ⭐ Unified CLI entry point: go run ./cmd/vquant [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
