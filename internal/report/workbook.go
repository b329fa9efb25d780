package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"ledger/internal/core"
	"ledger/internal/services"
)

// WorkbookContentType is the media type of WriteWorkbook output.
const WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// headerRow is the first table row below the title block.
const headerRow = 4

func WorkbookFileName(month string) string {
	return core.ExportFileName(month, "xlsx")
}

// WorkbookSheetName is the name of the single sheet of a month workbook.
func WorkbookSheetName(month string) string {
	return "Transactions " + month
}

// WriteWorkbook writes the export as an XLSX workbook: the title, the month
// and then the table starting at row 4 with a bold header.
func WriteWorkbook(w io.Writer, exp services.Export) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := WorkbookSheetName(exp.Month)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	if err := f.SetCellValue(sheet, "A1", exp.Title); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A2", "Month: "+exp.Month); err != nil {
		return err
	}

	for i, header := range exp.Header {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(exp.Header), headerRow)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", headerRow), last, bold); err != nil {
		return err
	}

	for r, row := range exp.Rows {
		n := headerRow + 1 + r
		cells := []any{row.Index, row.Date, row.Description, row.Amount, row.Type}
		for c, v := range cells {
			cell, err := excelize.CoordinatesToCellName(c+1, n)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	if err := f.SetColWidth(sheet, "B", "B", 12); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "C", "C", 32); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
