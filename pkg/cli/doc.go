// Package cli provides common utilities for the wisp command-line tool.
//
// This package includes:
//   - Configuration management (contexts, similar to kubectl)
//   - Output formatting (JSON, YAML, raw)
//   - Request file loading (YAML/JSON)
//   - Terminal UI components (styles, framed panels, transcripts)
//
// Configuration is stored in the ~/.wisp/ directory and supports multiple
// named contexts, each holding an API key, endpoint, and session defaults.
//
// Example usage:
//
//	cfg, err := cli.LoadConfig()
//	ctx, err := cfg.GetCurrentContext()
//
//	cli.Output(result, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	    File:   outputPath,
//	})
package cli
