// Package main provides the wisp CLI tool.
//
// Usage:
//
//	wisp [flags] <command> [args]
//
// Commands:
//
//	chat     - Interactive realtime conversation (voice + text)
//	devices  - List audio devices
//	config   - Configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.wisp/
//	Use 'wisp config' commands to manage contexts.
package main

import (
	"fmt"
	"os"

	"github.com/wisp-ai/wisp/cmd/wisp/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
