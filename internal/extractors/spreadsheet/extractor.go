// Package spreadsheet extracts workbooks: Office Open XML (.xlsx, .xlsm)
// through excelize and BIFF8 (.xls) through extrame/xls.
//
// Output is one "Feuille: <name>" header per sheet followed by one
// tab-separated line per non-blank row.
package spreadsheet

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// SheetHeader prefixes the name of each sheet in the output.
const SheetHeader = "Feuille: "

// Extractor handles spreadsheet documents.
type Extractor struct{}

// New creates a new spreadsheet extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".xlsx", ".xlsm", ".xls"}
}

// Extract renders every sheet of the workbook.
func (e *Extractor) Extract(ctx context.Context, content []byte, fileName string) (string, error) {
	var (
		text string
		err  error
	)
	if strings.EqualFold(filepath.Ext(fileName), ".xls") {
		text, err = extractXLS(ctx, content)
	} else {
		text, err = extractXLSX(ctx, content)
	}
	if err != nil {
		return "", &domain.ExtractionError{FileName: fileName, Err: err}
	}
	return text, nil
}

// sheetWriter accumulates the text of one workbook.
type sheetWriter struct {
	b strings.Builder
}

func (w *sheetWriter) sheet(name string) {
	w.b.WriteString(SheetHeader)
	w.b.WriteString(name)
	w.b.WriteByte('\n')
}

// row writes cells tab-joined. Rows without any non-empty cell are skipped.
func (w *sheetWriter) row(cells []string) {
	blank := true
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			blank = false
			break
		}
	}
	if blank {
		return
	}
	w.b.WriteString(strings.Join(cells, "\t"))
	w.b.WriteByte('\n')
}

func (w *sheetWriter) String() string {
	return w.b.String()
}

// formatNumber renders a float without scientific notation or trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatDate renders a date, with the time only when it is not midnight.
func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

func recoverPanic(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("malformed workbook: %v", r)
	}
}
