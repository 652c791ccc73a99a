package domain

import (
	"fmt"
	"time"
)

// DocumentStatus is the analysis state of a document.
type DocumentStatus string

// Document statuses.
const (
	// DocumentUploaded is the initial state set by the upload collaborator.
	DocumentUploaded DocumentStatus = "UPLOADED"

	// DocumentProcessing marks an analysis attempt in progress.
	DocumentProcessing DocumentStatus = "PROCESSING"

	// DocumentAnalyzed marks a successful analysis attempt.
	DocumentAnalyzed DocumentStatus = "ANALYZED"

	// DocumentError marks a failed analysis attempt.
	DocumentError DocumentStatus = "ERROR"
)

// IsValid returns true if the status is recognised.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentUploaded, DocumentProcessing, DocumentAnalyzed, DocumentError:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for the end states of an analysis attempt.
func (s DocumentStatus) IsTerminal() bool {
	return s == DocumentAnalyzed || s == DocumentError
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Any status may start a new PROCESSING cycle; only PROCESSING may end one.
func (s DocumentStatus) CanTransitionTo(next DocumentStatus) bool {
	switch next {
	case DocumentProcessing:
		return s.IsValid()
	case DocumentAnalyzed, DocumentError:
		return s == DocumentProcessing
	default:
		return false
	}
}

// String returns the string representation.
func (s DocumentStatus) String() string {
	return string(s)
}

// Document is an uploaded file belonging to an audit.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// AuditID links to the owning Audit.
	AuditID string

	// Name is the display name. Its extension declares the file kind.
	Name string

	// Locator is resolved to the document bytes by a BlobStore.
	Locator string

	// SizeBytes is the size of the uploaded content.
	SizeBytes int64

	// PageCount is filled at upload for PDF documents when it can be read.
	PageCount *int

	// Status is the analysis state.
	Status DocumentStatus

	// AnalyzedAt is set only when Status is ANALYZED.
	AnalyzedAt *time.Time

	// ErrorMessage is set only when Status is ERROR.
	ErrorMessage string

	// IssuesCount is the number of issues produced by the last successful analysis.
	IssuesCount int

	// CreatedAt is when the document was uploaded.
	CreatedAt time.Time

	// UpdatedAt is when the document was last modified.
	UpdatedAt time.Time
}

// StartProcessing begins a new analysis attempt and clears the previous outcome.
func (d *Document) StartProcessing(now time.Time) error {
	if err := d.transition(DocumentProcessing); err != nil {
		return err
	}
	d.AnalyzedAt = nil
	d.ErrorMessage = ""
	d.IssuesCount = 0
	d.UpdatedAt = now
	return nil
}

// MarkAnalyzed ends the current attempt successfully.
func (d *Document) MarkAnalyzed(now time.Time, issuesCount int) error {
	if err := d.transition(DocumentAnalyzed); err != nil {
		return err
	}
	at := now
	d.AnalyzedAt = &at
	d.ErrorMessage = ""
	d.IssuesCount = issuesCount
	d.UpdatedAt = now
	return nil
}

// MarkFailed ends the current attempt with an error message.
func (d *Document) MarkFailed(now time.Time, message string) error {
	if err := d.transition(DocumentError); err != nil {
		return err
	}
	d.AnalyzedAt = nil
	d.ErrorMessage = message
	d.IssuesCount = 0
	d.UpdatedAt = now
	return nil
}

func (d *Document) transition(next DocumentStatus) error {
	if !d.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.Status, next)
	}
	d.Status = next
	return nil
}
