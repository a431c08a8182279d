// =============================================================================
// FEC to CSV Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the FEC to CSV Converter CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   fecconvert process       - Convert all .fec filings in the input directory
//   fecconvert inspect FILE  - Print a filing's header, cover and record counts
//   fecconvert version       - Display the application version
//
// ARCHITECTURE:
//   This application follows a modular design where:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/FEC-to-CSV-conversion/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
