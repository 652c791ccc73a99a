package spreadsheet

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// builtinDateFormats are the predefined number format IDs that render dates or times.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// formatNoise matches quoted literals, bracketed sections and escaped characters.
var formatNoise = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)

func extractXLSX(ctx context.Context, content []byte) (text string, err error) {
	defer recoverPanic(&err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	r := &xlsxRenderer{file: f}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		r.date1904 = *props.Date1904
	}

	var w sheetWriter
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return "", fmt.Errorf("reading sheet %s: %w", sheet, err)
		}

		w.sheet(sheet)
		for rowIdx, row := range rows {
			cells := make([]string, len(row))
			for colIdx, raw := range row {
				cells[colIdx] = r.render(sheet, colIdx+1, rowIdx+1, raw)
			}
			w.row(cells)
		}
	}
	return w.String(), nil
}

type xlsxRenderer struct {
	file     *excelize.File
	date1904 bool
}

// render returns the display text of one cell from its raw stored value.
func (r *xlsxRenderer) render(sheet string, col, row int, raw string) string {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return raw
	}

	if formula, err := r.file.GetCellFormula(sheet, axis); err == nil && formula != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return formatNumber(v)
		}
		return formula
	}

	if raw == "" {
		return ""
	}

	typ, err := r.file.GetCellType(sheet, axis)
	if err != nil {
		return raw
	}

	switch typ {
	case excelize.CellTypeBool:
		if raw == "1" || strings.EqualFold(raw, "true") {
			return "true"
		}
		return "false"
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return raw
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return formatDate(t)
		}
		return raw
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	if r.isDateFormatted(sheet, axis) {
		if t, err := excelize.ExcelDateToTime(v, r.date1904); err == nil {
			return formatDate(t)
		}
	}
	return formatNumber(v)
}

func (r *xlsxRenderer) isDateFormatted(sheet, axis string) bool {
	styleID, err := r.file.GetCellStyle(sheet, axis)
	if err != nil || styleID == 0 {
		return false
	}
	style, err := r.file.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDatePattern(*style.CustomNumFmt)
	}
	return builtinDateFormats[style.NumFmt]
}

// isDatePattern reports whether a custom number format renders a date or time.
func isDatePattern(format string) bool {
	cleaned := strings.ToLower(formatNoise.ReplaceAllString(format, ""))
	if strings.ContainsAny(cleaned, "0#?") {
		return false
	}
	return strings.ContainsAny(cleaned, "ymdhs")
}
