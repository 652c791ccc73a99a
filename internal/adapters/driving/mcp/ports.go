package mcp

import (
	"github.com/custodia-labs/docaudit/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Analysis runs documents and text through the analysis pipeline.
	Analysis driving.AnalysisService

	// Template resolves the rule template used by analyze_text.
	Template driving.TemplateService

	// Audit lists audits and their documents.
	Audit driving.AuditService

	// Issue reads stored issues.
	Issue driving.IssueService

	// Extraction previews local files.
	Extraction driving.ExtractionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	if p.Template == nil {
		return ErrMissingTemplateService
	}
	// Audit, Issue and Extraction disable their tools and resources when nil.
	return nil
}
