package series

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"taxmeter/internal/model"
)

// BuildXLSX renders s as a single-sheet workbook in canonical column layout.
func BuildXLSX(s model.Series) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "receipts"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	for i, h := range CSVHeader {
		ref, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(sheet, ref, h)
	}
	for i, r := range s {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.Year)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.Month)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.NetReceiptsEUR)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
