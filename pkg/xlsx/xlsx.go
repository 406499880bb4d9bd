// Package xlsx stages Excel workbooks as CSV files so folder-mode imports can
// run them through the regular delimited-text reader.
package xlsx

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// SheetToCSV writes the first sheet of the workbook at xlsxPath as a UTF-8
// comma-separated file at csvPath. Short rows are padded to the header width
// so the staged file is rectangular.
func SheetToCSV(xlsxPath, csvPath string) error {
	workbook, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("workbook %q has no sheets", xlsxPath)
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	out, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create staging file: %w", err)
	}
	defer out.Close()

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	writer := csv.NewWriter(out)
	for _, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write staging file: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write staging file: %w", err)
	}

	return nil
}
