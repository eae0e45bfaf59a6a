// Package export writes comparison results to multi-sheet workbooks.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/errors"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Workbook is a tracking.SectionWriter backed by an xlsx file: every section
// becomes a sheet, every row a spreadsheet row. Section names are expected
// to be sheet-safe already (see tracking.SheetName).
type Workbook struct {
	file  *excelize.File
	sheet string
	row   int
	first bool
}

// NewWorkbook returns an empty workbook ready to receive sections.
func NewWorkbook() *Workbook {
	return &Workbook{
		file:  excelize.NewFile(),
		first: true,
	}
}

// Section starts a new sheet with the given name.
func (w *Workbook) Section(name string) error {
	if w.first {
		// Rename the default sheet instead of leaving it empty.
		if err := w.file.SetSheetName(w.file.GetSheetName(0), name); err != nil {
			return exportError(err, "rename_sheet", name)
		}
		w.first = false
	} else {
		if _, err := w.file.NewSheet(name); err != nil {
			return exportError(err, "new_sheet", name)
		}
	}
	w.sheet = name
	w.row = 1
	return nil
}

// Row appends one row of cells to the current sheet.
func (w *Workbook) Row(cells ...string) error {
	if w.sheet == "" {
		return errors.Newf("row written before any section").
			Component("export").
			Category(errors.CategoryState).
			Build()
	}

	values := make([]interface{}, len(cells))
	for i, cell := range cells {
		values[i] = cell
	}

	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return exportError(err, "cell_coordinates", w.sheet)
	}
	if err := w.file.SetSheetRow(w.sheet, cell, &values); err != nil {
		return exportError(err, "set_row", w.sheet)
	}
	w.row++
	return nil
}

// File exposes the underlying workbook, mainly for tests.
func (w *Workbook) File() *excelize.File {
	return w.file
}

// SaveAs writes the workbook to disk, creating the parent directory if
// needed.
func (w *Workbook) SaveAs(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return exportError(err, "create_export_dir", dir)
		}
	}
	if err := w.file.SaveAs(path); err != nil {
		return exportError(err, "save_workbook", path)
	}
	return nil
}

// Close releases the workbook resources.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// ReportPath builds a unique workbook file name under dir, timestamped and
// suffixed so concurrent report generations never collide.
func ReportPath(dir string) string {
	name := fmt.Sprintf("comparacion_%s_%s.xlsx",
		time.Now().Format("20060102-150405"), uuid.NewString()[:8])
	return filepath.Join(dir, name)
}

// exportError creates a categorized export error with context
func exportError(err error, operation, target string) error {
	return errors.New(err).
		Component("export").
		Category(errors.CategoryExport).
		Context("operation", operation).
		Context("target", target).
		Build()
}
