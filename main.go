// =============================================================================
// Catalog Scanner - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Wholesale Catalog Scanner CLI.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   catalogscan scan <file>     - Parse a wholesaler catalog and detect columns
//   catalogscan templates       - Manage saved wholesaler templates
//   catalogscan version         - Display the application version
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
	"github.com/wholescan/catalog-scanner/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
