// =============================================================================
// FEC to CSV Converter - CSV Writer
// =============================================================================
//
// Multi-file CSV output: each record type code gets its own <code>.csv in
// the output directory, with a header row taken from the code's schema.
// Filings interleave codes freely (an SA line, then SB, then SA again), so
// the writer keeps every per-code file open until Close.
//
// =============================================================================

package writers

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/types"
)

// codeFile is one open per-code output file.
type codeFile struct {
	file *os.File
	w    *csv.Writer
}

// CSVMultiFileWriter writes records into one CSV file per record type code.
type CSVMultiFileWriter struct {
	dir   string
	files map[string]*codeFile
}

// NewCSVMultiFileWriter creates a writer rooted at the given directory,
// creating the directory if needed.
func NewCSVMultiFileWriter(dir string) (*CSVMultiFileWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &CSVMultiFileWriter{
		dir:   dir,
		files: make(map[string]*codeFile),
	}, nil
}

// WriteRecord appends one record to its code's file, opening the file and
// writing the schema header row on first sight of the code.
func (w *CSVMultiFileWriter) WriteRecord(rec *types.Record) error {
	cf, ok := w.files[rec.Code()]
	if !ok {
		var err error
		cf, err = w.openCodeFile(rec.Schema)
		if err != nil {
			return err
		}
		w.files[rec.Code()] = cf
	}

	row := make([]string, len(rec.Values))
	for i, v := range rec.Values {
		row[i] = v.String()
	}

	if err := cf.w.Write(row); err != nil {
		return fmt.Errorf("failed to write %s row: %w", rec.Code(), err)
	}
	return nil
}

// openCodeFile creates <code>.csv and writes its header row.
func (w *CSVMultiFileWriter) openCodeFile(schema *types.LineSchema) (*codeFile, error) {
	path := filepath.Join(w.dir, schema.Code+".csv")
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	cw := csv.NewWriter(file)
	if err := cw.Write(schema.FieldNames()); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write header for %s: %w", schema.Code, err)
	}

	return &codeFile{file: file, w: cw}, nil
}

// Close flushes and closes every per-code file. The first error is
// returned, but every file is still closed.
func (w *CSVMultiFileWriter) Close() error {
	var firstErr error
	for code, cf := range w.files {
		cf.w.Flush()
		if err := cf.w.Error(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to flush %s: %w", code, err)
		}
		if err := cf.file.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close %s: %w", code, err)
		}
	}
	w.files = make(map[string]*codeFile)
	return firstErr
}
