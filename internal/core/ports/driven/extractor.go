package driven

import "context"

// TextExtractor converts the raw bytes of one file kind into plain text.
type TextExtractor interface {
	// Extensions returns the lower-case extensions handled, including the dot.
	Extensions() []string

	// Extract returns the document text.
	// Unreadable content fails with a *domain.ExtractionError.
	Extract(ctx context.Context, content []byte, fileName string) (string, error)
}

// ExtractorRegistry dispatches extraction on the declared file name.
type ExtractorRegistry interface {
	// Register adds an extractor for each of its extensions.
	// A later registration replaces an earlier one for the same extension.
	Register(extractor TextExtractor)

	// Extract returns the text of content. Unsupported extensions yield "" and no error.
	Extract(ctx context.Context, content []byte, fileName string) (string, error)

	// Preview is Extract truncated to maxChars characters.
	Preview(ctx context.Context, content []byte, fileName string, maxChars int) (string, error)

	// Supports returns true if an extractor handles the file's extension.
	Supports(fileName string) bool

	// SupportedExtensions returns all registered extensions, sorted.
	SupportedExtensions() []string
}
