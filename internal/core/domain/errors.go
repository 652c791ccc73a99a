package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file kind no extractor handles.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidTransition indicates an illegal document status change.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrEmptyContent indicates extraction produced no usable text.
	ErrEmptyContent = errors.New("no text could be extracted")

	// ErrTemplateNotFound indicates the audit's rule template does not exist.
	ErrTemplateNotFound = errors.New("rule template not found")

	// ErrNoDocuments indicates an audit has no documents to analyse.
	ErrNoDocuments = errors.New("audit has no documents")

	// ErrAnalysisInProgress indicates the document is already being analysed.
	ErrAnalysisInProgress = errors.New("analysis in progress")

	// ErrDocumentTooLarge indicates an upload exceeds the configured size limit.
	ErrDocumentTooLarge = errors.New("document too large")
)

// ExtractionError reports unreadable content for a supported file kind.
type ExtractionError struct {
	FileName string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.FileName, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// GatewayError reports a failed AI completion call.
// StatusCode is zero for transport failures.
type GatewayError struct {
	StatusCode int
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ai gateway (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("ai gateway: %v", e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Retryable returns true for transport failures, rate limiting and server errors.
func (e *GatewayError) Retryable() bool {
	return e.StatusCode == 0 || e.StatusCode == 429 || e.StatusCode >= 500
}

// PersistenceError reports a failed store operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
