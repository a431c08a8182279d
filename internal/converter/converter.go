// =============================================================================
// FEC to CSV Converter - Converter Module
// =============================================================================
//
// This module contains the per-filing conversion logic. It drives the
// parser's three public operations (Header, Cover, NextRecord) and feeds
// every record to a writer.
//
// CONVERSION PIPELINE:
//   1. Open the filing as a lazy FecFile
//   2. Decode the header (format version, dialect) and cover
//   3. Create the configured writer (csv directory or xlsx workbook)
//   4. Stream records: decode one, write one, until end of file
//   5. Close the writer, making output durable
//   6. Archive the input filing
//
// ERROR SCOPES:
//   Header and cover failures fail the filing. Individual record failures
//   (unknown code, bad numeric field) are skipped and counted when
//   skip_bad_records is on, or fail the filing when it is off. Width
//   mismatches are never errors at all.
//
// CONCURRENCY:
//   Each filing is processed in its own goroutine. The converter holds no
//   shared mutable state: one FecFile, one writer, one result per instance.
//
// =============================================================================

package converter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/config"
	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/fecfile"
	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/types"
	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/writers"
	"github.com/ginjaninja78/FEC-to-CSV-conversion/pkg/utils"
	"github.com/google/uuid"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single filing.
type Result struct {
	// FilePath is the path to the input filing that was processed.
	FilePath string

	// OutputPath is the converted output location (a directory for csv, a
	// workbook for xlsx). Empty if processing failed.
	OutputPath string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed. Nil on success.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing of one filing.
type ProcessingStats struct {
	// FECVersion is the filing's declared format version.
	FECVersion string

	// FormType is the cover record's form code, e.g. "F3XN".
	FormType string

	// RecordsWritten is the number of body records converted.
	RecordsWritten int

	// RecordsSkipped is the number of malformed records skipped.
	RecordsSkipped int

	// RecordsByCode counts written records per record type code.
	RecordsByCode map[string]int

	// ProcessingTime is the time taken to process the filing.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter handles the conversion of a single .fec filing.
type Converter struct {
	// fecPath is the path to the input filing.
	fecPath string

	// mainConfig is the main application configuration.
	mainConfig *config.MainConfig

	// registry is the schema lookup table shared by the whole run.
	registry types.SchemaRegistry

	// runID ties this filing's output names to the run.
	runID uuid.UUID

	// logger is used for logging.
	// CUSTOMIZATION: Replace with your preferred logging library.
	logger types.Logger
}

// New creates a new Converter instance.
//
// PARAMETERS:
//   - fecPath: The path to the input filing.
//   - mainConfig: The main application configuration.
//   - registry: The schema registry for the run.
//   - runID: The run's UUID.
func New(fecPath string, mainConfig *config.MainConfig, registry types.SchemaRegistry, runID uuid.UUID) *Converter {
	return &Converter{
		fecPath:    fecPath,
		mainConfig: mainConfig,
		registry:   registry,
		runID:      runID,
		logger:     NewLogger(mainConfig.LogLevel),
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for the filing.
func (c *Converter) Run() Result {
	startTime := time.Now()
	result := Result{
		FilePath: c.fecPath,
		Success:  false,
	}
	result.Stats.RecordsByCode = make(map[string]int)

	// =========================================================================
	// STEP 1: OPEN THE FILING
	// =========================================================================

	fec, err := fecfile.FromPath(c.fecPath,
		fecfile.WithRegistry(c.registry),
		fecfile.WithLogger(c.logger),
	)
	if err != nil {
		result.Error = err
		return result
	}
	defer fec.Close()

	// =========================================================================
	// STEP 2: DECODE HEADER AND COVER
	// =========================================================================
	// Both are fatal for the filing if they fail; no output is produced.

	hdr, err := fec.Header()
	if err != nil {
		result.Error = fmt.Errorf("header: %w", err)
		return result
	}
	result.Stats.FECVersion = hdr.FECVersion
	c.logger.Debug("%s: format version %s (%s)", filepath.Base(c.fecPath), hdr.FECVersion, hdr.SoftwareName)

	cover, err := fec.Cover()
	if err != nil {
		result.Error = err
		return result
	}
	result.Stats.FormType = cover.FormType

	// =========================================================================
	// STEP 3: CREATE THE WRITER
	// =========================================================================

	outputPath, writer, err := c.createWriter()
	if err != nil {
		result.Error = err
		return result
	}

	// The cover is record #1 of the body and belongs in the output too.
	if err := writer.WriteRecord(cover.Record); err != nil {
		writer.Close()
		result.Error = fmt.Errorf("failed to write cover: %w", err)
		return result
	}
	result.Stats.RecordsWritten++
	result.Stats.RecordsByCode[cover.Record.Code()]++

	// =========================================================================
	// STEP 4: STREAM RECORDS
	// =========================================================================

	for {
		rec, err := fec.NextRecord()
		if err == io.EOF {
			break
		}
		if err != nil {
			if c.mainConfig.SkipBadRecords {
				result.Stats.RecordsSkipped++
				c.logger.Warn("%s: skipping record: %v", filepath.Base(c.fecPath), err)
				continue
			}
			writer.Close()
			result.Error = err
			return result
		}

		if err := writer.WriteRecord(rec); err != nil {
			writer.Close()
			result.Error = err
			return result
		}
		result.Stats.RecordsWritten++
		result.Stats.RecordsByCode[rec.Code()]++
	}

	// =========================================================================
	// STEP 5: FINALIZE OUTPUT
	// =========================================================================

	if err := writer.Close(); err != nil {
		result.Error = fmt.Errorf("failed to finalize output: %w", err)
		return result
	}

	// =========================================================================
	// STEP 6: ARCHIVE THE INPUT
	// =========================================================================

	if c.mainConfig.ArchiveInputs {
		fm := utils.NewFileManager(c.mainConfig.InputDir, c.mainConfig.OutputDir, c.mainConfig.InputArchiveDir)
		if _, err := fm.ArchiveInputFile(c.fecPath); err != nil {
			// The conversion itself succeeded; archival failure is worth a
			// warning but not a failed result.
			c.logger.Warn("%s: %v", filepath.Base(c.fecPath), err)
		}
	}

	result.OutputPath = outputPath
	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)
	return result
}

// createWriter builds the configured writer and its destination path.
func (c *Converter) createWriter() (string, writers.RecordWriter, error) {
	name := utils.GenerateOutputName(c.mainConfig.OutputNameFormat, c.fecPath, c.runID)

	switch c.mainConfig.OutputFormat {
	case writers.FormatXLSX:
		path := filepath.Join(c.mainConfig.OutputDir, name+".xlsx")
		if err := os.MkdirAll(c.mainConfig.OutputDir, 0755); err != nil {
			return "", nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		return path, writers.NewXLSXWriter(path), nil

	default:
		dir := filepath.Join(c.mainConfig.OutputDir, name)
		w, err := writers.NewCSVMultiFileWriter(dir)
		if err != nil {
			return "", nil, err
		}
		return dir, w, nil
	}
}
