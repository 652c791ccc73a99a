package services

import (
	"context"

	"github.com/custodia-labs/docaudit/internal/core/ports/driven"
	"github.com/custodia-labs/docaudit/internal/core/ports/driving"
)

// Ensure ExtractionService implements the interface.
var _ driving.ExtractionService = (*ExtractionService)(nil)

// ExtractionService exposes the extractor registry to driving adapters.
type ExtractionService struct {
	registry     driven.ExtractorRegistry
	previewChars int
}

// NewExtractionService creates a new extraction service.
// previewChars is used by Preview when the caller passes zero or less.
func NewExtractionService(registry driven.ExtractorRegistry, previewChars int) *ExtractionService {
	return &ExtractionService{registry: registry, previewChars: previewChars}
}

// Extract returns the text of content, "" for unsupported kinds.
func (s *ExtractionService) Extract(ctx context.Context, content []byte, fileName string) (string, error) {
	return s.registry.Extract(ctx, content, fileName)
}

// Preview returns at most maxChars characters of the text.
func (s *ExtractionService) Preview(ctx context.Context, content []byte, fileName string, maxChars int) (string, error) {
	if maxChars <= 0 {
		maxChars = s.previewChars
	}
	return s.registry.Preview(ctx, content, fileName, maxChars)
}

// Supports returns true if the file's kind can be extracted.
func (s *ExtractionService) Supports(fileName string) bool {
	return s.registry.Supports(fileName)
}

// SupportedExtensions lists the extractable extensions.
func (s *ExtractionService) SupportedExtensions() []string {
	return s.registry.SupportedExtensions()
}
