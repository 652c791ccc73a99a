// Package pdf extracts PDF documents in physical reading order.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

const (
	// lineTolerance is the fraction of the font size within which fragments share a line.
	lineTolerance = 0.5

	// wordGap is the fraction of the font size above which a horizontal gap becomes a space.
	wordGap = 0.25
)

// Extractor handles PDF documents.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".pdf"}
}

// Extract returns page text top to bottom, left to right. Pages are
// separated by a blank line.
func (e *Extractor) Extract(ctx context.Context, content []byte, fileName string) (text string, err error) {
	// The decoder panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &domain.ExtractionError{FileName: fileName, Err: fmt.Errorf("malformed pdf: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", &domain.ExtractionError{FileName: fileName, Err: err}
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", &domain.ExtractionError{FileName: fileName, Err: err}
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pages = append(pages, layoutPage(page.Content().Text))
	}

	return strings.Join(pages, "\n\n"), nil
}

// layoutPage orders glyph fragments into lines and joins them.
func layoutPage(fragments []pdf.Text) string {
	if len(fragments) == 0 {
		return ""
	}

	sorted := make([]pdf.Text, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var lines [][]pdf.Text
	var current []pdf.Text
	lineY := sorted[0].Y
	for _, f := range sorted {
		if len(current) > 0 && math.Abs(f.Y-lineY) > tolerance(f.FontSize) {
			lines = append(lines, current)
			current = nil
		}
		if len(current) == 0 {
			lineY = f.Y
		}
		current = append(current, f)
	}
	lines = append(lines, current)

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, joinLine(line))
	}
	return strings.Join(out, "\n")
}

func joinLine(line []pdf.Text) string {
	sort.SliceStable(line, func(i, j int) bool {
		return line[i].X < line[j].X
	})

	var b strings.Builder
	for i, f := range line {
		if i > 0 {
			prev := line[i-1]
			gap := f.X - (prev.X + prev.W)
			if gap > wordGap*size(f.FontSize) &&
				!strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(f.S, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(f.S)
	}
	return strings.TrimRight(b.String(), " ")
}

func tolerance(fontSize float64) float64 {
	return lineTolerance * size(fontSize)
}

func size(fontSize float64) float64 {
	if fontSize <= 0 {
		return 1
	}
	return fontSize
}
