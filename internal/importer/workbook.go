package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ParseWorkbook decodes the raw bytes of an .xlsx/.xls workbook into rows.
// Only the first sheet is read, its first row is treated as the header, and
// every following row becomes a header-to-cell mapping. Cells are read raw
// so date serials arrive as numeric strings rather than display text. The
// whole workbook is decoded before any row is returned.
func ParseWorkbook(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	matrix, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(matrix) == 0 {
		return nil, nil
	}

	header := matrix[0]
	rows := make([]Row, 0, len(matrix)-1)
	for _, cells := range matrix[1:] {
		row := make(Row, len(header))
		for j, name := range header {
			if name == "" || j >= len(cells) {
				continue
			}
			row[name] = cells[j]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
