package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driving"
)

// mockAuditService records uploads.
type mockAuditService struct {
	mu        sync.Mutex
	uploads   []string
	uploadErr error
}

func (m *mockAuditService) Create(_ context.Context, name, templateID string) (*domain.Audit, error) {
	return &domain.Audit{ID: "audit-1", Name: name, TemplateID: templateID}, nil
}

func (m *mockAuditService) Get(_ context.Context, id string) (*domain.Audit, error) {
	return &domain.Audit{ID: id}, nil
}

func (m *mockAuditService) List(_ context.Context) ([]domain.Audit, error) {
	return nil, nil
}

func (m *mockAuditService) Upload(_ context.Context, auditID, fileName string, content []byte) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.uploads = append(m.uploads, fileName)
	return &domain.Document{
		ID:        "doc-" + fileName,
		AuditID:   auditID,
		Name:      fileName,
		SizeBytes: int64(len(content)),
		Status:    domain.DocumentUploaded,
	}, nil
}

func (m *mockAuditService) Documents(_ context.Context, _ string) ([]domain.Document, error) {
	return nil, nil
}

func (m *mockAuditService) Document(_ context.Context, _ string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (m *mockAuditService) uploaded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.uploads...)
}

// mockAnalysisService returns a fixed number of issues.
type mockAnalysisService struct {
	issues int
	err    error
}

func (m *mockAnalysisService) AnalyzeDocument(
	_ context.Context,
	_ domain.Audit,
	_ *domain.Document,
	_ domain.RuleTemplate,
) ([]domain.Issue, error) {
	return make([]domain.Issue, m.issues), m.err
}

func (m *mockAnalysisService) AnalyzeDocumentByID(_ context.Context, _ string) ([]domain.Issue, error) {
	if m.err != nil {
		return nil, m.err
	}
	return make([]domain.Issue, m.issues), nil
}

func (m *mockAnalysisService) AnalyzeAudit(_ context.Context, auditID string) (*driving.AuditReport, error) {
	return &driving.AuditReport{AuditID: auditID}, m.err
}

func (m *mockAnalysisService) AnalyzeText(
	_ context.Context,
	_ string,
	_ domain.RuleTemplate,
	_ domain.Audit,
) ([]domain.Issue, error) {
	return nil, m.err
}

// mockExtractionService supports .txt and .pdf.
type mockExtractionService struct{}

func (mockExtractionService) Extract(_ context.Context, content []byte, _ string) (string, error) {
	return string(content), nil
}

func (mockExtractionService) Preview(_ context.Context, content []byte, _ string, _ int) (string, error) {
	return string(content), nil
}

func (mockExtractionService) Supports(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	return ext == ".txt" || ext == ".pdf"
}

func (mockExtractionService) SupportedExtensions() []string {
	return []string{".pdf", ".txt"}
}
