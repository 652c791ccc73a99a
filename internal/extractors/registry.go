package extractors

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driven"
	"github.com/custodia-labs/docaudit/internal/extractors/docx"
	"github.com/custodia-labs/docaudit/internal/extractors/msdoc"
	"github.com/custodia-labs/docaudit/internal/extractors/pdf"
	"github.com/custodia-labs/docaudit/internal/extractors/plaintext"
	"github.com/custodia-labs/docaudit/internal/extractors/spreadsheet"
	"github.com/custodia-labs/docaudit/internal/logger"
)

var log = logger.Named("extract")

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps normalised extensions to extractors.
type Registry struct {
	mu    sync.RWMutex
	byExt map[string]driven.TextExtractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]driven.TextExtractor)}
}

// Default creates a registry with every built-in extractor.
func Default() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(pdf.New())
	r.Register(docx.New())
	r.Register(msdoc.New())
	r.Register(spreadsheet.New())
	return r
}

// Register adds an extractor for each of its extensions.
func (r *Registry) Register(e driven.TextExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range e.Extensions() {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// Extract returns the text of content, or "" for an unsupported extension.
// Failures are always *domain.ExtractionError.
func (r *Registry) Extract(ctx context.Context, content []byte, fileName string) (string, error) {
	e := r.lookup(fileName)
	if e == nil {
		log.Debug("No extractor for %q, extension %q unsupported", fileName, Extension(fileName))
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", &domain.ExtractionError{FileName: fileName, Err: err}
	}

	text, err := e.Extract(ctx, content, fileName)
	if err != nil {
		var extractErr *domain.ExtractionError
		if errors.As(err, &extractErr) {
			return "", err
		}
		return "", &domain.ExtractionError{FileName: fileName, Err: err}
	}

	log.Debug("Extracted %d bytes of text from %s", len(text), fileName)
	return text, nil
}

// Preview returns at most maxChars characters of the extracted text, without marker.
func (r *Registry) Preview(ctx context.Context, content []byte, fileName string, maxChars int) (string, error) {
	text, err := r.Extract(ctx, content, fileName)
	if err != nil {
		return "", err
	}
	return firstRunes(text, maxChars), nil
}

// Supports returns true if an extractor handles the file's extension.
func (r *Registry) Supports(fileName string) bool {
	return r.lookup(fileName) != nil
}

// SupportedExtensions returns all registered extensions, sorted.
func (r *Registry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func (r *Registry) lookup(fileName string) driven.TextExtractor {
	ext := Extension(fileName)
	if ext == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byExt[ext]
}

// Extension returns the lower-cased extension of fileName, including the dot.
func Extension(fileName string) string {
	return strings.ToLower(filepath.Ext(fileName))
}

func firstRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
