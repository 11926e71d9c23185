// =============================================================================
// PET Form Processor - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs the full normalization
// pipeline over the input directory.
//
// COMMAND USAGE:
//   petform process [flags]
//
// FLAGS:
//   --dry-run : Run the pipeline without writing output files
//   --single  : Process only a single file (specify with --file)
//   --file    : Path to a specific file to process (used with --single)
//
// PROCESSING PIPELINE:
//   1. Load configuration and rule tables
//   2. Load the customer mapping workbook (missing file tolerated)
//   3. Discover .xlsx submissions in the input directory
//   4. For each file (concurrently):
//      a. Read the PET form sheet into a raw grid
//      b. Detect the header row and rename columns
//      c. Build and clean records, resolve dates
//      d. Group duplicate line items, expand across months
//   5. Combine per-file results in input order
//   6. Finalize: customer merge, metadata mapping, naming, validation
//   7. Regenerate the combined extract and the mass upload sheet
//   8. Print the run summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/spgmops/petform/internal/config"
	"github.com/spgmops/petform/internal/custmap"
	"github.com/spgmops/petform/internal/output"
	"github.com/spgmops/petform/internal/pipeline"
	"github.com/spgmops/petform/internal/types"
	"github.com/spgmops/petform/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun runs the pipeline without writing output files.
var dryRun bool

// singleFile indicates whether to process only a single file.
var singleFile bool

// filePath is the path to a specific file to process (used with --single).
var filePath string

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process PET form submissions into the upload sheets",
	Long: `The process command scans the input directory for PET form submissions,
normalizes each one against the canonical schema, expands line items across
calendar months, and regenerates both output workbooks.

Files are processed concurrently and independently: a submission whose sheet
or header cannot be recognized is reported and skipped, never aborting the
batch. Both outputs are rebuilt from scratch on every run.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the process command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Run the pipeline without writing output files",
	)

	processCmd.Flags().BoolVar(
		&singleFile,
		"single",
		false,
		"Process only a single file (use with --file)",
	)

	processCmd.Flags().StringVar(
		&filePath,
		"file",
		"",
		"Path to a specific file to process (used with --single)",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess orchestrates the full pipeline.
func runProcess() error {
	startTime := time.Now()
	batchID := uuid.New().String()

	fmt.Println("=== PET Form Processor ===")
	fmt.Printf("Batch: %s\n", batchID)
	fmt.Println("Loading configuration...")

	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}
	tables, err := config.LoadTables(cfg.TablesFile)
	if err != nil {
		return fmt.Errorf("failed to load rule tables: %w", err)
	}

	// A missing customer mapping is tolerated: the run proceeds and every
	// record is annotated with missing customer attributes instead.
	customers, err := custmap.Load(cfg.CustomerMappingFile)
	if err != nil {
		fmt.Printf("Warning: customer mapping unavailable (%v)\n", err)
		customers = nil
	} else {
		fmt.Printf("Loaded %d customer mapping(s)\n", len(customers))
	}

	// =========================================================================
	// DISCOVER INPUT FILES
	// =========================================================================

	fmt.Println("Discovering input files...")

	var inputFiles []string
	if singleFile {
		if filePath == "" {
			return fmt.Errorf("--single requires --file")
		}
		inputFiles = []string{filePath}
	} else {
		inputFiles, err = utils.DiscoverInputFiles(cfg.InputDir)
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}

	if len(inputFiles) == 0 {
		return fmt.Errorf("no .xlsx files found in %s", cfg.InputDir)
	}
	fmt.Printf("Found %d file(s) to process\n", len(inputFiles))

	// =========================================================================
	// PROCESS FILES CONCURRENTLY
	// =========================================================================
	// One goroutine per file, bounded by MaxConcurrency. Results land in a
	// slice indexed by input position so the combined output keeps input
	// order regardless of completion order.

	fmt.Println("Processing files...")

	proc := pipeline.NewProcessor(tables, cfg.FuzzyThreshold, cfg.MaxHeaderScanRows)
	results := make([]*types.Result, len(inputFiles))

	var wg sync.WaitGroup
	sem := make(chan struct{}, cfg.MaxConcurrency)
	for i, file := range inputFiles {
		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[idx] = proc.ProcessFile(path)
		}(i, file)
	}
	wg.Wait()

	// =========================================================================
	// COLLECT RESULTS
	// =========================================================================

	var combined []*types.PromoRecord
	var processedCount, skippedCount, errorCount int
	for _, res := range results {
		name := filepath.Base(res.FilePath)
		switch {
		case res.Skipped:
			skippedCount++
			fmt.Printf("  SKIP  %s: %v\n", name, res.Err)
		case res.Err != nil:
			errorCount++
			fmt.Printf("  ERROR %s: %v\n", name, res.Err)
			if !cfg.ContinueOnError {
				return fmt.Errorf("processing %s: %w", res.FilePath, res.Err)
			}
		default:
			processedCount++
			combined = append(combined, res.Records...)
			if verbose {
				fmt.Printf("  OK    %s: %d row(s) -> %d group(s) -> %d expanded, %d unit(s)\n",
					name, res.RowsLoaded, res.RowsGrouped, len(res.Records), res.UnitsLoaded)
			}
		}
	}

	// =========================================================================
	// FINALIZE AND WRITE OUTPUTS
	// =========================================================================

	fmt.Printf("Finalizing %d record(s)...\n", len(combined))
	pipeline.NewFinalizer(tables, customers).Finalize(combined)

	if dryRun {
		fmt.Println("Dry run: skipping output generation.")
	} else {
		if err := utils.EnsureDir(cfg.OutputDir); err != nil {
			return err
		}

		combinedPath := filepath.Join(cfg.OutputDir, cfg.CombinedFile)
		if err := utils.RemoveIfExists(combinedPath); err != nil {
			return err
		}
		if err := output.WriteCombined(combinedPath, combined); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", combinedPath)

		massUploadPath := filepath.Join(cfg.OutputDir, cfg.MassUploadFile)
		if err := output.WriteMassUpload(massUploadPath, combined); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", massUploadPath)
	}

	// =========================================================================
	// SUMMARY
	// =========================================================================

	fmt.Println("=== Summary ===")
	fmt.Printf("Batch:     %s\n", batchID)
	fmt.Printf("Processed: %d\n", processedCount)
	fmt.Printf("Skipped:   %d\n", skippedCount)
	fmt.Printf("Errors:    %d\n", errorCount)
	fmt.Printf("Records:   %d\n", len(combined))
	fmt.Printf("Duration:  %s\n", time.Since(startTime).Round(time.Millisecond))

	return nil
}
