package spreadsheet

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/extrame/xls"
)

// formulaPlaceholder is what the BIFF decoder returns for every formula cell.
const formulaPlaceholder = "FormulaCol"

func extractXLS(ctx context.Context, content []byte) (text string, err error) {
	// The BIFF decoder panics on truncated records.
	defer recoverPanic(&err)

	wb, err := xls.OpenReader(bytes.NewReader(content), "utf-8")
	if err != nil {
		return "", fmt.Errorf("opening workbook: %w", err)
	}

	var w sheetWriter
	for i := 0; i < wb.NumSheets(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}

		w.sheet(sheet.Name)
		for r := 0; r <= int(sheet.MaxRow); r++ {
			if cells, ok := readRow(sheet, r); ok {
				w.row(cells)
			}
		}
	}
	return w.String(), nil
}

// readRow returns the rendered cells of row r. Rows the sheet does not
// store make the decoder panic; those report false and are skipped.
func readRow(sheet *xls.WorkSheet, r int) (cells []string, ok bool) {
	defer func() {
		if recover() != nil {
			cells, ok = nil, false
		}
	}()

	row := sheet.Row(r)
	if row == nil {
		return nil, false
	}

	last := row.LastCol()
	cells = make([]string, 0, last)
	for c := 0; c < last; c++ {
		cells = append(cells, xlsCell(row.Col(c)))
	}
	return cells, true
}

// xlsCell maps the decoder's text for one cell to the display text.
// Numbers already come out in plain decimal form, so only dates and the
// formula placeholder need rewriting.
func xlsCell(s string) string {
	if s == formulaPlaceholder {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return formatDate(t)
	}
	return s
}
