// =============================================================================
// FEC to CSV Converter - Process Command
// =============================================================================
//
// This file defines the 'process' command, which converts .fec filings to
// tabular output. It orchestrates the batch pipeline around the streaming
// parser.
//
// COMMAND USAGE:
//   fecconvert process [flags]
//
// FLAGS:
//   --single      : Process only a single filing (specify with --file)
//   --file        : Path to a specific filing to process (used with --single)
//   --format      : Override the configured output format (csv or xlsx)
//
// PROCESSING PIPELINE:
//   1. Load the configuration file
//   2. Build the schema registry (embedded or external database)
//   3. Discover .fec filings in the input directory
//   4. For each filing (concurrently, bounded by max_concurrency):
//      a. Decode header and cover
//      b. Stream body records into the configured writer
//      c. Archive the input on success
//   5. Write the run summary log
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/config"
	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/converter"
	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/schemas"
	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/types"
	"github.com/ginjaninja78/FEC-to-CSV-conversion/pkg/utils"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// singleFile indicates whether to process only a single filing.
var singleFile bool

// filePath is the path to a specific filing to process (used with --single).
var filePath string

// formatOverride overrides the configured output format when non-empty.
var formatOverride string

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Convert .fec filings to CSV or XLSX output",
	Long: `The process command scans the input directory for .fec filings and converts
each one to tabular output: one CSV file per record type code, or one XLSX
workbook with a sheet per code.

Filings are processed concurrently. Errors in one filing do not affect the
processing of others, and malformed individual records inside a filing are
skipped (when skip_bad_records is on) without stopping that filing.

On successful processing:
  - The converted output is placed in the output directory
  - The original filing is moved to the input archive
  - A summary log is written for the run`,

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

	// --single flag: Process only a single filing.
	processCmd.Flags().BoolVar(
		&singleFile,
		"single",
		false,
		"Process only a single filing (use with --file)",
	)

	// --file flag: Path to a specific filing to process.
	processCmd.Flags().StringVar(
		&filePath,
		"file",
		"",
		"Path to a specific filing to process (used with --single)",
	)

	// --format flag: Override the configured output format.
	processCmd.Flags().StringVar(
		&formatOverride,
		"format",
		"",
		"Override the configured output format (csv or xlsx)",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess is the main function that orchestrates the batch pipeline.
func runProcess() error {
	startTime := time.Now()
	runID := uuid.New()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	fmt.Println("=== FEC to CSV Converter ===")
	fmt.Printf("Run ID: %s\n", runID)

	mainConfig, err := loadConfigOrDefaults()
	if err != nil {
		return err
	}
	if formatOverride != "" {
		mainConfig.OutputFormat = formatOverride
	}
	if verbose {
		mainConfig.LogLevel = "debug"
	}

	// =========================================================================
	// STEP 2: BUILD THE SCHEMA REGISTRY
	// =========================================================================
	// The registry is read-only and shared by every goroutine in the run.

	registry, err := buildRegistry(mainConfig)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 3: DISCOVER INPUT FILINGS
	// =========================================================================

	inputFiles, err := discoverFilings(mainConfig)
	if err != nil {
		return err
	}
	if len(inputFiles) == 0 {
		fmt.Println("No .fec filings found in the input directory.")
		return nil
	}
	fmt.Printf("Found %d filing(s) to process\n", len(inputFiles))

	// =========================================================================
	// STEP 4: PROCESS FILINGS CONCURRENTLY
	// =========================================================================
	// A semaphore bounds concurrency at max_concurrency; results come back
	// over a channel as goroutines finish.

	var wg sync.WaitGroup
	sem := make(chan struct{}, mainConfig.MaxConcurrency)
	results := make(chan converter.Result, len(inputFiles))

	for _, file := range inputFiles {
		wg.Add(1)
		go func(fecPath string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			conv := converter.New(fecPath, mainConfig, registry, runID)
			results <- conv.Run()
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// =========================================================================
	// STEP 5: COLLECT RESULTS AND WRITE THE SUMMARY
	// =========================================================================

	summary := utils.ProcessingSummary{
		RunID:     runID,
		StartTime: startTime,
	}
	var successCount, errorCount int

	for result := range results {
		entry := utils.FileSummary{
			InputFile:      result.FilePath,
			OutputPath:     result.OutputPath,
			RecordsWritten: result.Stats.RecordsWritten,
			RecordsSkipped: result.Stats.RecordsSkipped,
			Error:          result.Error,
		}
		summary.Files = append(summary.Files, entry)

		if result.Success {
			successCount++
			fmt.Printf("  OK   %s -> %s (%d records",
				filepath.Base(result.FilePath), result.OutputPath, result.Stats.RecordsWritten)
			if result.Stats.RecordsSkipped > 0 {
				fmt.Printf(", %d skipped", result.Stats.RecordsSkipped)
			}
			fmt.Println(")")
		} else {
			errorCount++
			fmt.Printf("  FAIL %s: %v\n", filepath.Base(result.FilePath), result.Error)
		}
	}

	summary.EndTime = time.Now()
	summaryPath, err := utils.WriteSummaryLog(summary, mainConfig.OutputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not write summary log: %v\n", err)
	}

	// =========================================================================
	// STEP 6: PRINT SUMMARY
	// =========================================================================

	fmt.Println("\n=== Processing Complete ===")
	fmt.Printf("Total filings:   %d\n", len(inputFiles))
	fmt.Printf("Successful:      %d\n", successCount)
	fmt.Printf("Errors:          %d\n", errorCount)
	fmt.Printf("Time elapsed:    %s\n", time.Since(startTime))
	if summaryPath != "" {
		fmt.Printf("Summary log:     %s\n", summaryPath)
	}

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// loadConfigOrDefaults loads the configuration file, falling back to the
// built-in defaults when the default config file does not exist. A config
// file named explicitly via --config must exist.
func loadConfigOrDefaults() (*config.MainConfig, error) {
	if !utils.FileExists(cfgFile) && cfgFile == "config.yaml" {
		return config.DefaultMainConfig(), nil
	}
	mainConfig, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return mainConfig, nil
}

// buildRegistry returns the embedded registry, or one loaded from the
// configured external schema database.
func buildRegistry(mainConfig *config.MainConfig) (types.SchemaRegistry, error) {
	if mainConfig.SchemaDatabase == "" {
		return schemas.Default(), nil
	}

	file, err := os.Open(mainConfig.SchemaDatabase)
	if err != nil {
		return nil, fmt.Errorf("failed to open schema database: %w", err)
	}
	defer file.Close()

	registry, err := schemas.Load(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema database %s: %w", mainConfig.SchemaDatabase, err)
	}
	return registry, nil
}

// discoverFilings returns the filings to process for this run.
func discoverFilings(mainConfig *config.MainConfig) ([]string, error) {
	if singleFile {
		if filePath == "" {
			return nil, fmt.Errorf("--single requires --file")
		}
		if !utils.FileExists(filePath) {
			return nil, fmt.Errorf("filing %s does not exist", filePath)
		}
		return []string{filePath}, nil
	}

	fm := utils.NewFileManager(mainConfig.InputDir, mainConfig.OutputDir, mainConfig.InputArchiveDir)
	if err := fm.EnsureDirectories(); err != nil {
		return nil, err
	}
	return fm.DiscoverInputFiles("*.fec")
}
