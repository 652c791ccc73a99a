package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driven"
	"github.com/custodia-labs/docaudit/internal/core/ports/driving"
	"github.com/custodia-labs/docaudit/internal/logger"
)

var auditLog = logger.Named("audit")

// Ensure AuditService implements the interface.
var _ driving.AuditService = (*AuditService)(nil)

// AuditService manages audits and document uploads.
type AuditService struct {
	auditStore    driven.AuditStore
	templateStore driven.TemplateStore
	docStore      driven.DocumentStore
	blobs         driven.BlobStore
	maxSize       int64

	now   func() time.Time
	newID func() string
}

// NewAuditService creates a new audit service.
// A maxDocumentSize of zero or less disables the upload limit.
func NewAuditService(
	auditStore driven.AuditStore,
	templateStore driven.TemplateStore,
	docStore driven.DocumentStore,
	blobs driven.BlobStore,
	maxDocumentSize int64,
) *AuditService {
	return &AuditService{
		auditStore:    auditStore,
		templateStore: templateStore,
		docStore:      docStore,
		blobs:         blobs,
		maxSize:       maxDocumentSize,
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

// Create creates an audit bound to an existing template.
func (s *AuditService) Create(ctx context.Context, name, templateID string) (*domain.Audit, error) {
	name = strings.TrimSpace(name)
	if name == "" || templateID == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.templateStore.Get(ctx, templateID); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, templateID)
		}
		return nil, fmt.Errorf("get template: %w", err)
	}

	audit := domain.Audit{
		ID:         s.newID(),
		Name:       name,
		TemplateID: templateID,
		CreatedAt:  s.now(),
	}
	if err := s.auditStore.Save(ctx, audit); err != nil {
		return nil, fmt.Errorf("save audit: %w", err)
	}
	return &audit, nil
}

// Get retrieves an audit by ID.
func (s *AuditService) Get(ctx context.Context, id string) (*domain.Audit, error) {
	return s.auditStore.Get(ctx, id)
}

// List returns all audits.
func (s *AuditService) List(ctx context.Context) ([]domain.Audit, error) {
	return s.auditStore.List(ctx)
}

// Upload stores content and registers it as an UPLOADED document.
func (s *AuditService) Upload(ctx context.Context, auditID, fileName string, content []byte) (*domain.Document, error) {
	name := filepath.Base(strings.TrimSpace(fileName))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, fmt.Errorf("%w: file name is required", domain.ErrInvalidInput)
	}
	if s.maxSize > 0 && int64(len(content)) > s.maxSize {
		return nil, fmt.Errorf("%w: %s is %s, limit is %s", domain.ErrDocumentTooLarge, name,
			units.HumanSize(float64(len(content))), units.HumanSize(float64(s.maxSize)))
	}
	if _, err := s.auditStore.Get(ctx, auditID); err != nil {
		return nil, fmt.Errorf("get audit: %w", err)
	}

	id := s.newID()
	locator, err := s.blobs.Write(ctx, path.Join(auditID, id, name), content)
	if err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	now := s.now()
	doc := &domain.Document{
		ID:        id,
		AuditID:   auditID,
		Name:      name,
		Locator:   locator,
		SizeBytes: int64(len(content)),
		PageCount: pageCount(name, content),
		Status:    domain.DocumentUploaded,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.docStore.Save(ctx, doc); err != nil {
		if delErr := s.blobs.Delete(context.WithoutCancel(ctx), locator); delErr != nil {
			auditLog.Warn("Removing orphaned blob %s: %v", locator, delErr)
		}
		return nil, fmt.Errorf("save document: %w", err)
	}

	auditLog.Info("Uploaded %s (%s) to audit %s", name, units.HumanSize(float64(doc.SizeBytes)), auditID)
	return doc, nil
}

// Documents returns an audit's documents.
func (s *AuditService) Documents(ctx context.Context, auditID string) ([]domain.Document, error) {
	if _, err := s.auditStore.Get(ctx, auditID); err != nil {
		return nil, fmt.Errorf("get audit: %w", err)
	}
	return s.docStore.ListByAudit(ctx, auditID)
}

// Document retrieves a document by ID.
func (s *AuditService) Document(ctx context.Context, id string) (*domain.Document, error) {
	return s.docStore.Get(ctx, id)
}

// pageCount reads the page count of a PDF. Unreadable PDFs yield nil.
func pageCount(name string, content []byte) *int {
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return nil
	}
	count, err := api.PageCount(bytes.NewReader(content), model.NewDefaultConfiguration())
	if err != nil {
		auditLog.Debug("Could not count pages of %s: %v", name, err)
		return nil
	}
	return &count
}
