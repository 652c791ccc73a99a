package mcp

import (
	"context"

	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driving"
)

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	issues []domain.Issue
	report *driving.AuditReport
	err    error

	gotText     string
	gotTemplate domain.RuleTemplate
	gotAudit    domain.Audit
	gotDocument string
}

func (m *mockAnalysisService) AnalyzeDocument(
	_ context.Context,
	_ domain.Audit,
	_ *domain.Document,
	_ domain.RuleTemplate,
) ([]domain.Issue, error) {
	return m.issues, m.err
}

func (m *mockAnalysisService) AnalyzeDocumentByID(_ context.Context, documentID string) ([]domain.Issue, error) {
	m.gotDocument = documentID
	return m.issues, m.err
}

func (m *mockAnalysisService) AnalyzeAudit(_ context.Context, _ string) (*driving.AuditReport, error) {
	return m.report, m.err
}

func (m *mockAnalysisService) AnalyzeText(
	_ context.Context,
	text string,
	tmpl domain.RuleTemplate,
	audit domain.Audit,
) ([]domain.Issue, error) {
	m.gotText = text
	m.gotTemplate = tmpl
	m.gotAudit = audit
	return m.issues, m.err
}

// mockTemplateService is a mock implementation of driving.TemplateService.
type mockTemplateService struct {
	templates []domain.RuleTemplate
	err       error
}

func (m *mockTemplateService) Create(_ context.Context, tmpl domain.RuleTemplate) (*domain.RuleTemplate, error) {
	return &tmpl, m.err
}

func (m *mockTemplateService) Get(_ context.Context, id string) (*domain.RuleTemplate, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.templates {
		if m.templates[i].ID == id {
			return &m.templates[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockTemplateService) List(_ context.Context) ([]domain.RuleTemplate, error) {
	return m.templates, m.err
}

func (m *mockTemplateService) Delete(_ context.Context, _ string) error {
	return m.err
}

// mockAuditService is a mock implementation of driving.AuditService.
type mockAuditService struct {
	audits    []domain.Audit
	documents []domain.Document
	err       error
}

func (m *mockAuditService) Create(_ context.Context, name, templateID string) (*domain.Audit, error) {
	return &domain.Audit{ID: "new", Name: name, TemplateID: templateID}, m.err
}

func (m *mockAuditService) Get(_ context.Context, id string) (*domain.Audit, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.audits {
		if m.audits[i].ID == id {
			return &m.audits[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockAuditService) List(_ context.Context) ([]domain.Audit, error) {
	return m.audits, m.err
}

func (m *mockAuditService) Upload(_ context.Context, auditID, fileName string, content []byte) (*domain.Document, error) {
	return &domain.Document{AuditID: auditID, Name: fileName, SizeBytes: int64(len(content))}, m.err
}

func (m *mockAuditService) Documents(_ context.Context, _ string) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockAuditService) Document(_ context.Context, _ string) (*domain.Document, error) {
	if len(m.documents) == 0 {
		return nil, domain.ErrNotFound
	}
	return &m.documents[0], m.err
}

// mockIssueService is a mock implementation of driving.IssueService.
type mockIssueService struct {
	issues   []domain.Issue
	critical []domain.Issue
	err      error
	lastCall string
}

func (m *mockIssueService) ListByAudit(_ context.Context, _ string) ([]domain.Issue, error) {
	m.lastCall = "audit"
	return m.issues, m.err
}

func (m *mockIssueService) ListByDocument(_ context.Context, _ string) ([]domain.Issue, error) {
	m.lastCall = "document"
	return m.issues, m.err
}

func (m *mockIssueService) Critical(_ context.Context, _ string) ([]domain.Issue, error) {
	m.lastCall = "critical"
	return m.critical, m.err
}

func (m *mockIssueService) Resolve(_ context.Context, _ string) error {
	return m.err
}

// mockExtractionService is a mock implementation of driving.ExtractionService.
type mockExtractionService struct {
	text      string
	err       error
	supported bool
	gotMax    int
	gotName   string
	gotBytes  []byte
}

func (m *mockExtractionService) Extract(_ context.Context, _ []byte, _ string) (string, error) {
	return m.text, m.err
}

func (m *mockExtractionService) Preview(_ context.Context, content []byte, fileName string, maxChars int) (string, error) {
	m.gotBytes = content
	m.gotName = fileName
	m.gotMax = maxChars
	return m.text, m.err
}

func (m *mockExtractionService) Supports(_ string) bool {
	return m.supported
}

func (m *mockExtractionService) SupportedExtensions() []string {
	return []string{".txt"}
}
