package domain

import "time"

// IssueStatus is the review state of an issue.
type IssueStatus string

// Issue statuses.
const (
	// IssueOpen is the state of every newly created issue.
	IssueOpen IssueStatus = "Open"

	// IssueResolved is set by the resolution workflow.
	IssueResolved IssueStatus = "Resolved"
)

// IsValid returns true if the status is recognised.
func (s IssueStatus) IsValid() bool {
	return s == IssueOpen || s == IssueResolved
}

// String returns the string representation.
func (s IssueStatus) String() string {
	return string(s)
}

// Issue types with fixed meaning.
const (
	// DefaultIssueType is used when the AI reply omits issueType.
	DefaultIssueType = "Problème détecté"

	// FallbackIssueType marks the single issue produced from an unstructured reply.
	FallbackIssueType = "Analyse IA - Réponse non structurée"
)

// Issue is a single finding produced by analysis.
type Issue struct {
	// ID is the unique identifier for the issue.
	ID string

	// AuditID links to the owning Audit.
	AuditID string

	// DocumentID links to the analysed Document. Nil for ad-hoc text analysis.
	DocumentID *string

	// IssueType is a free-text category.
	IssueType string

	// Description explains the problem.
	Description string

	// Suggestion proposes a fix.
	Suggestion string

	// PageNumber locates the issue, when known.
	PageNumber *int

	// ParagraphNumber locates the issue, when known.
	ParagraphNumber *int

	// Status is Open at creation.
	Status IssueStatus

	// CreatedAt is when the issue was created.
	CreatedAt time.Time
}

// IsDetached returns true if the issue is not attached to a document.
func (i Issue) IsDetached() bool {
	return i.DocumentID == nil
}
