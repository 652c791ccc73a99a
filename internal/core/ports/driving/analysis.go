package driving

import (
	"context"
	"errors"

	"github.com/custodia-labs/docaudit/internal/core/domain"
)

// AnalysisService runs documents and text through the analysis pipeline.
type AnalysisService interface {
	// AnalyzeDocument analyses one document of an audit against a template.
	// The document ends ANALYZED, or ERROR with the returned error.
	AnalyzeDocument(ctx context.Context, audit domain.Audit, doc *domain.Document,
		tmpl domain.RuleTemplate) ([]domain.Issue, error)

	// AnalyzeDocumentByID loads the document, its audit and template, then analyses it.
	AnalyzeDocumentByID(ctx context.Context, documentID string) ([]domain.Issue, error)

	// AnalyzeAudit analyses every document of an audit.
	// Missing template or empty document set abort before any document is touched.
	AnalyzeAudit(ctx context.Context, auditID string) (*AuditReport, error)

	// AnalyzeText analyses arbitrary text. Issues are detached and not persisted.
	AnalyzeText(ctx context.Context, text string, tmpl domain.RuleTemplate, audit domain.Audit) ([]domain.Issue, error)
}

// DocumentResult is the outcome of one document within an audit run.
type DocumentResult struct {
	DocumentID  string
	Name        string
	Status      domain.DocumentStatus
	IssuesCount int
	Err         error
}

// AuditReport aggregates per-document outcomes in iteration order.
type AuditReport struct {
	AuditID string
	Results []DocumentResult
}

// Analyzed returns the number of documents that ended ANALYZED.
func (r *AuditReport) Analyzed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of documents that did not end ANALYZED.
func (r *AuditReport) Failed() int {
	return len(r.Results) - r.Analyzed()
}

// TotalIssues returns the number of issues produced across documents.
func (r *AuditReport) TotalIssues() int {
	n := 0
	for _, res := range r.Results {
		n += res.IssuesCount
	}
	return n
}

// Err joins the per-document errors. Nil when every document succeeded.
func (r *AuditReport) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}
