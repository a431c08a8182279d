// =============================================================================
// FEC to CSV Converter - XLSX Writer
// =============================================================================
//
// Workbook output: one sheet per record type code, header row from the
// code's schema, one row per record. Values keep their native types so
// amounts land in Excel as numbers, not text.
//
// The whole workbook is held in memory until Close; XLSX is offered for
// hand inspection of small and mid-size filings, while the CSV writer is
// the path for very large ones.
//
// =============================================================================

package writers

import (
	"fmt"

	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/types"
	"github.com/xuri/excelize/v2"
)

// XLSXWriter writes records into one workbook with a sheet per record code.
type XLSXWriter struct {
	path string
	file *excelize.File

	// nextRow tracks the next free row per sheet, 1-indexed. Presence of a
	// code in the map also means its sheet and header row exist.
	nextRow map[string]int
}

// NewXLSXWriter creates a writer that will save the workbook at the given
// path on Close.
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{
		path:    path,
		file:    excelize.NewFile(),
		nextRow: make(map[string]int),
	}
}

// WriteRecord appends one record to its code's sheet, creating the sheet
// and its header row on first sight of the code.
func (w *XLSXWriter) WriteRecord(rec *types.Record) error {
	code := rec.Code()

	row, ok := w.nextRow[code]
	if !ok {
		if err := w.createSheet(rec.Schema); err != nil {
			return err
		}
		row = 2 // row 1 is the header
	}

	cells := make([]interface{}, len(rec.Values))
	for i, v := range rec.Values {
		cells[i] = cellValue(v)
	}

	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to compute cell for %s row %d: %w", code, row, err)
	}
	if err := w.file.SetSheetRow(code, cell, &cells); err != nil {
		return fmt.Errorf("failed to write %s row: %w", code, err)
	}

	w.nextRow[code] = row + 1
	return nil
}

// createSheet adds a sheet for a code and writes its schema header row.
func (w *XLSXWriter) createSheet(schema *types.LineSchema) error {
	if _, err := w.file.NewSheet(schema.Code); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", schema.Code, err)
	}

	names := schema.FieldNames()
	header := make([]interface{}, len(names))
	for i, n := range names {
		header[i] = n
	}
	if err := w.file.SetSheetRow(schema.Code, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header for %s: %w", schema.Code, err)
	}

	// The default sheet excelize creates is dead weight once we have a
	// real one.
	if len(w.nextRow) == 0 {
		w.file.DeleteSheet("Sheet1")
	}

	w.nextRow[schema.Code] = 2
	return nil
}

// cellValue converts a decoded value to the native type excelize stores.
func cellValue(v types.Value) interface{} {
	switch v.Kind {
	case types.KindInteger:
		return v.Int
	case types.KindFloat:
		return v.Float
	case types.KindBoolean:
		return v.Bool
	default:
		return v.Str
	}
}

// Close saves the workbook and releases it.
func (w *XLSXWriter) Close() error {
	defer w.file.Close()
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
