package spreadsheet

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/docaudit/internal/core/domain"
)

// createTestXLSX builds a two-sheet workbook in memory.
func createTestXLSX(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Libellé"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "Montant"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "MARQUEUR"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 1234567890123.5))
	require.NoError(t, f.SetCellValue("Sheet1", "C2", true))
	require.NoError(t, f.SetCellValue("Sheet1", "A4", 1e21))
	require.NoError(t, f.SetCellValue("Sheet1", "C4", false))
	require.NoError(t, f.SetCellFormula("Sheet1", "D4", "SUM(B2:B3)"))
	require.NoError(t, f.SetCellValue("Sheet1", "E4", "fin"))

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Sheet1", "A5", 45292))
	require.NoError(t, f.SetCellStyle("Sheet1", "A5", "A5", dateStyle))

	_, err = f.NewSheet("Données")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Données", "B1", 42))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestExtensions(t *testing.T) {
	exts := New().Extensions()
	assert.ElementsMatch(t, []string{".xlsx", ".xlsm", ".xls"}, exts)
}

func TestExtract_XLSX(t *testing.T) {
	text, err := New().Extract(context.Background(), createTestXLSX(t), "budget.xlsx")
	require.NoError(t, err)

	expected := "Feuille: Sheet1\n" +
		"Libellé\tMontant\n" +
		"MARQUEUR\t1234567890123.5\ttrue\n" +
		"1000000000000000000000\t\tfalse\tSUM(B2:B3)\tfin\n" +
		"2024-01-01\n" +
		"Feuille: Données\n" +
		"\t42\n"
	assert.Equal(t, expected, text)
}

func TestExtract_Corrupt(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
	}{
		{"xlsx", "broken.xlsx"},
		{"xls", "broken.xls"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := New().Extract(context.Background(), []byte("not a workbook"), tt.fileName)
			require.Error(t, err)
			assert.Empty(t, text)

			var extractErr *domain.ExtractionError
			require.True(t, errors.As(err, &extractErr))
			assert.Equal(t, tt.fileName, extractErr.FileName)
		})
	}
}

func TestSheetWriter_SkipsBlankRows(t *testing.T) {
	var w sheetWriter
	w.sheet("S")
	w.row([]string{"", "  ", ""})
	w.row([]string{"a", "", "b"})
	w.row(nil)

	assert.Equal(t, "Feuille: S\na\t\tb\n", w.String())
}

func TestIsDatePattern(t *testing.T) {
	tests := []struct {
		format   string
		expected bool
	}{
		{"dd/mm/yyyy", true},
		{"yyyy-mm-dd hh:mm", true},
		{"[h]:mm:ss", true},
		{"[$-40C]d mmmm yyyy", true},
		{"0.00", false},
		{"#,##0 \"jours\"", false},
		{"General", false},
		{"0%", false},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Equal(t, tt.expected, isDatePattern(tt.format))
		})
	}
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "42", formatNumber(42))
	assert.Equal(t, "0.1", formatNumber(0.1))
	assert.Equal(t, "100000000000000000000", formatNumber(1e20))

	assert.Equal(t, "2024-03-01", formatDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-01 08:30:00", formatDate(time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)))

}

func TestXLSCell(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"date at midnight", "1899-12-31T00:00:00Z", "1899-12-31"},
		{"date with time", "2024-03-01T08:30:00Z", "2024-03-01 08:30:00"},
		{"formula placeholder", "FormulaCol", ""},
		{"lot code left alone", "1E5", "1E5"},
		{"boolean-looking text left alone", "TRUE", "TRUE"},
		{"plain number", "1234.5", "1234.5"},
		{"label", "Excellent", "Excellent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, xlsCell(tt.in))
		})
	}
}

func TestExtract_XLS(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("..", "testdata", "multisheet.xls"))
	require.NoError(t, err)

	text, err := New().Extract(context.Background(), content, "multisheet.xls")
	require.NoError(t, err)

	first := strings.Index(text, "Feuille: Test sheet 1")
	second := strings.Index(text, "Feuille: Test sheet 2")
	empty := strings.Index(text, "Feuille: Sheet3")
	require.True(t, first >= 0 && second > first && empty > second, "sheet headers out of order:\n%s", text)

	assert.Contains(t, text, "Lorem")
	assert.Contains(t, text, "Avocado")
	assert.NotContains(t, text, "T00:00:00Z")
	assert.True(t, strings.HasSuffix(text, "Feuille: Sheet3\n"), "empty sheet should contribute only its header")
}
