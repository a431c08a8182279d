// =============================================================================
// FEC to CSV Converter - Writers Module
// =============================================================================
//
// This module contains the output side of the pipeline. The parser core
// exposes exactly three operations — Header, Cover, NextRecord — and every
// writer is just a consumer polling those, responsible for its own output
// format, buffering and file handles.
//
// SUPPORTED FORMATS:
//   - csv  : one <code>.csv file per record type code in an output directory
//   - xlsx : one workbook with one sheet per record type code
//
// Records of the same code share a schema-derived column layout, which is
// what makes the per-code split natural: each output table has a stable
// header row. Rows that carried "extra" values beyond the schema are written
// ragged rather than dropped.
//
// =============================================================================

package writers

import (
	"fmt"

	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/types"
)

// =============================================================================
// WRITER CONTRACT
// =============================================================================

// RecordWriter receives decoded records one at a time, in file order.
//
// Implementations buffer as they see fit but must make all output durable in
// Close. Close must be called exactly once, after the last WriteRecord.
type RecordWriter interface {
	WriteRecord(rec *types.Record) error
	Close() error
}

// =============================================================================
// FACTORY
// =============================================================================

// Supported output format names, as used in configuration and CLI flags.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// New creates a writer for the given format.
//
// PARAMETERS:
//   - format: FormatCSV or FormatXLSX.
//   - dest: For csv, the output directory (created if missing). For xlsx,
//     the workbook path.
func New(format, dest string) (RecordWriter, error) {
	switch format {
	case FormatCSV:
		return NewCSVMultiFileWriter(dest)
	case FormatXLSX:
		return NewXLSXWriter(dest), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (want %q or %q)", format, FormatCSV, FormatXLSX)
	}
}
