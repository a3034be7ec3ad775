package application

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ericfisherdev/certpanel/internal/domain/model"
)

// Export file names offered to the browser.
const (
	CSVExportFilename  = "certificates.csv"
	XLSXExportFilename = "certificates.xlsx"
)

const exportSheet = "Certificates"

var exportHeader = []string{"ID", "Student Name", "Student ID", "Course Name", "Issue Date", "Status"}

// exportRow renders one certificate in export column order. The issue date is
// YYYY-MM-DD, or empty when the certificate has none.
func exportRow(c model.Certificate) []string {
	issueDate := ""
	if c.IssueDate != nil {
		issueDate = c.IssueDate.Format("2006-01-02")
	}
	return []string{c.ID, c.StudentName, c.StudentID, c.CourseName, issueDate, string(c.Status)}
}

// WriteCSV writes a header line and one line per certificate, in order.
// Fields containing commas, quotes or newlines are quoted per RFC 4180.
func WriteCSV(w io.Writer, certs []model.Certificate) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range certs {
		if err := cw.Write(exportRow(c)); err != nil {
			return fmt.Errorf("write csv row %s: %w", c.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteXLSX writes the same columns as WriteCSV to a single-sheet workbook
// with a bold header row.
func WriteXLSX(w io.Writer, certs []model.Certificate) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(exportSheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("style header row: %w", err)
	}

	for i, c := range certs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name for row %d: %w", i+2, err)
		}
		row := exportRow(c)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write xlsx row %s: %w", c.ID, err)
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "F", 22); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
