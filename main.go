// =============================================================================
// PET Form Processor - Main Entry Point
// =============================================================================
//
// This is the main entry point for the PET Form Processor CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   petform process       - Process all PET form workbooks in the input directory
//   petform validate      - Validate configuration and rule tables without processing
//   petform version       - Display the application version
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
	"github.com/spgmops/petform/cmd"
)

func main() {
	cmd.Execute()
}
