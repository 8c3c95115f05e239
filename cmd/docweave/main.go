package main

import (
	"log"
	"os"

	"github.com/docweave/docweave/internal/cli"
)

var version = "dev"

func main() {
	// Stdout is reserved for command output (and the MCP protocol stream in
	// serve mode); everything else goes to stderr.
	log.SetOutput(os.Stderr)

	if err := cli.NewRootCommand(version).Execute(); err != nil {
		os.Exit(1)
	}
}
