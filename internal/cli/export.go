package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/eshaffer321/attachment-matcher/internal/application/reconcile"
)

const (
	attachmentSheet  = "find_attachment"
	transactionSheet = "find_transaction"
)

var exportHeaders = []string{
	"primary_id", "expected_id", "found_id", "reason",
	"score", "amount", "date", "name", "passed",
}

// ExportReportXLSX writes one sheet per lookup direction
func ExportReportXLSX(report *reconcile.Report, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), attachmentSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(transactionSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	if err := writeRows(f, attachmentSheet, report.AttachmentRows); err != nil {
		return err
	}
	if err := writeRows(f, transactionSheet, report.TransactionRows); err != nil {
		return err
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:       "Match report",
		Description: "run " + report.RunID,
	}); err != nil {
		return fmt.Errorf("failed to set document properties: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

// writeRows fills a sheet and returns the first cell error
func writeRows(f *excelize.File, sheet string, rows []reconcile.Row) error {
	var firstErr error
	set := func(col, row int, value any) {
		if firstErr != nil {
			return
		}
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err == nil {
			err = f.SetCellValue(sheet, cell, value)
		}
		if err != nil {
			firstErr = fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}

	for i, h := range exportHeaders {
		set(i+1, 1, h)
	}

	for i, row := range rows {
		r := i + 2
		set(1, r, row.PrimaryID)
		set(2, r, derefID(row.ExpectedID))
		set(3, r, derefID(row.FoundID))
		set(4, r, string(row.Reason))
		set(5, r, row.Score.Total)
		set(6, r, row.Score.Amount)
		set(7, r, row.Score.Date)
		set(8, r, row.Score.Name)
		set(9, r, row.Passed)
	}

	return firstErr
}

func derefID(v *int64) any {
	if v == nil {
		return ""
	}
	return *v
}
