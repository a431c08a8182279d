// =============================================================================
// FEC to CSV Converter - File Manager Utilities
// =============================================================================
//
// This package contains file-system helpers shared by the CLI commands:
// discovering input filings, archiving processed files, generating output
// names, and writing the end-of-run summary log.
//
// These helpers deliberately know nothing about the .fec format itself;
// they deal purely in paths and directories.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER STRUCTURE
// =============================================================================

// FileManager handles directory discovery and archival for one run.
type FileManager struct {
	// InputDir is the directory scanned for filings.
	InputDir string

	// OutputDir is the directory converted output is written under.
	OutputDir string

	// InputArchiveDir is where successfully processed filings are moved.
	InputArchiveDir string
}

// NewFileManager creates a FileManager for the given directories.
func NewFileManager(inputDir, outputDir, inputArchiveDir string) *FileManager {
	return &FileManager{
		InputDir:        inputDir,
		OutputDir:       outputDir,
		InputArchiveDir: inputArchiveDir,
	}
}

// EnsureDirectories creates any of the managed directories that do not
// exist yet.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{fm.InputDir, fm.OutputDir, fm.InputArchiveDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// DiscoverInputFiles returns the filings in the input directory matching a
// glob pattern (e.g. "*.fec"), sorted by name for a deterministic run order.
func (fm *FileManager) DiscoverInputFiles(pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(fm.InputDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to list input files: %w", err)
	}

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, match)
	}

	sort.Strings(files)
	return files, nil
}

// ArchiveInputFile moves a processed filing into the input archive,
// de-duplicating the target name with a timestamp suffix if needed.
//
// RETURNS:
//   - The path the file was moved to.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	if err := os.MkdirAll(fm.InputArchiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	target := filepath.Join(fm.InputArchiveDir, filepath.Base(filePath))
	if FileExists(target) {
		ext := filepath.Ext(target)
		base := strings.TrimSuffix(target, ext)
		target = fmt.Sprintf("%s_%s%s", base, time.Now().Format("20060102_150405"), ext)
	}

	if err := os.Rename(filePath, target); err != nil {
		// Rename fails across file systems; fall back to copy + remove.
		if err := copyFile(filePath, target); err != nil {
			return "", fmt.Errorf("failed to archive %s: %w", filePath, err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove archived original %s: %w", filePath, err)
		}
	}

	return target, nil
}

// =============================================================================
// OUTPUT NAMING
// =============================================================================

// GenerateOutputName expands an output-name format string.
//
// PARAMETERS:
//   - format: The format string from configuration, e.g. "{name}_{timestamp}".
//   - inputPath: The input filing path; {name} is its base name without
//     extension.
//   - runID: The run's UUID; {uuid} expands to it. A nil UUID generates a
//     fresh one.
func GenerateOutputName(format, inputPath string, runID uuid.UUID) string {
	if runID == uuid.Nil {
		runID = uuid.New()
	}

	name := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	out := format
	out = strings.ReplaceAll(out, "{name}", name)
	out = strings.ReplaceAll(out, "{uuid}", runID.String())
	out = strings.ReplaceAll(out, "{timestamp}", time.Now().Format("20060102_150405"))
	return out
}

// =============================================================================
// SUMMARY LOG
// =============================================================================

// FileSummary is one filing's line in the run summary.
type FileSummary struct {
	// InputFile is the filing that was processed.
	InputFile string

	// OutputPath is where its converted output went. Empty on failure.
	OutputPath string

	// RecordsWritten is the number of body records converted.
	RecordsWritten int

	// RecordsSkipped is the number of malformed records skipped.
	RecordsSkipped int

	// Error is the failure, if the filing failed. Nil on success.
	Error error
}

// ProcessingSummary is the whole run's summary.
type ProcessingSummary struct {
	// RunID identifies the run; output names and the summary share it.
	RunID uuid.UUID

	// StartTime and EndTime bracket the run.
	StartTime time.Time
	EndTime   time.Time

	// Files holds one entry per filing, in processing-completion order.
	Files []FileSummary
}

// WriteSummaryLog writes the run summary as a plain-text log in the output
// directory and returns its path.
func WriteSummaryLog(summary ProcessingSummary, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outputDir, fmt.Sprintf("summary_%s.log", summary.RunID))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create summary log: %w", err)
	}
	defer file.Close()

	var successCount, errorCount int
	for _, f := range summary.Files {
		if f.Error == nil {
			successCount++
		} else {
			errorCount++
		}
	}

	fmt.Fprintf(file, "=== FEC to CSV Converter - Run Summary ===\n")
	fmt.Fprintf(file, "Run ID:       %s\n", summary.RunID)
	fmt.Fprintf(file, "Started:      %s\n", summary.StartTime.Format(time.RFC3339))
	fmt.Fprintf(file, "Finished:     %s\n", summary.EndTime.Format(time.RFC3339))
	fmt.Fprintf(file, "Total files:  %d\n", len(summary.Files))
	fmt.Fprintf(file, "Successful:   %d\n", successCount)
	fmt.Fprintf(file, "Errors:       %d\n\n", errorCount)

	for _, f := range summary.Files {
		if f.Error == nil {
			fmt.Fprintf(file, "OK    %s -> %s (%d records, %d skipped)\n",
				f.InputFile, f.OutputPath, f.RecordsWritten, f.RecordsSkipped)
		} else {
			fmt.Fprintf(file, "FAIL  %s: %v\n", f.InputFile, f.Error)
		}
	}

	return path, nil
}

// =============================================================================
// SMALL HELPERS
// =============================================================================

// FileExists reports whether a path exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// copyFile copies src to dst, creating or truncating dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
