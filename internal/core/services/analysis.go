package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driven"
	"github.com/custodia-labs/docaudit/internal/core/ports/driving"
	"github.com/custodia-labs/docaudit/internal/core/prompt"
	"github.com/custodia-labs/docaudit/internal/core/response"
	"github.com/custodia-labs/docaudit/internal/logger"
)

var analysisLog = logger.Named("analysis")

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// TextDocumentName is the document name used in prompts for ad-hoc text.
const TextDocumentName = "Texte libre"

// AnalysisService drives documents through extraction, prompting,
// completion and parsing, and records the outcome.
type AnalysisService struct {
	docStore      driven.DocumentStore
	issueStore    driven.IssueStore
	auditStore    driven.AuditStore
	templateStore driven.TemplateStore
	blobs         driven.BlobStore
	extractor     driven.ExtractorRegistry
	gateway       driven.CompletionProvider
	settings      domain.AnalysisSettings

	now   func() time.Time
	newID func() string

	// One analysis per document at a time.
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewAnalysisService creates a new analysis service.
func NewAnalysisService(
	docStore driven.DocumentStore,
	issueStore driven.IssueStore,
	auditStore driven.AuditStore,
	templateStore driven.TemplateStore,
	blobs driven.BlobStore,
	extractor driven.ExtractorRegistry,
	gateway driven.CompletionProvider,
	settings domain.AnalysisSettings,
) *AnalysisService {
	if settings.Workers < 1 {
		settings.Workers = 1
	}
	return &AnalysisService{
		docStore:      docStore,
		issueStore:    issueStore,
		auditStore:    auditStore,
		templateStore: templateStore,
		blobs:         blobs,
		extractor:     extractor,
		gateway:       gateway,
		settings:      settings,
		now:           time.Now,
		newID:         uuid.NewString,
		inFlight:      make(map[string]struct{}),
	}
}

// AnalyzeDocument analyses one document. The PROCESSING state is persisted
// before any work starts; the document always ends ANALYZED or ERROR.
func (s *AnalysisService) AnalyzeDocument(
	ctx context.Context,
	audit domain.Audit,
	doc *domain.Document,
	tmpl domain.RuleTemplate,
) ([]domain.Issue, error) {
	if doc == nil || doc.ID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !s.claim(doc.ID) {
		return nil, fmt.Errorf("%w: %s", domain.ErrAnalysisInProgress, doc.ID)
	}
	defer s.release(doc.ID)

	// 1. Mark PROCESSING and persist before touching the content
	if err := doc.StartProcessing(s.now()); err != nil {
		return nil, err
	}
	if err := s.docStore.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	analysisLog.Info("Analysing %s (%s)", doc.Name, doc.ID)

	// 2-4. Extract, prompt, complete, parse
	issues, err := s.analyze(ctx, audit, doc, tmpl)

	// 5. Persist issues, then the terminal state
	if err == nil {
		if saveErr := s.issueStore.SaveAll(ctx, issues); saveErr != nil {
			err = fmt.Errorf("save issues: %w", saveErr)
		}
	}
	if err != nil {
		s.fail(ctx, doc, err)
		return nil, err
	}

	// The ANALYZED state is committed to doc only once it is stored, so a
	// failed save can still move the document to ERROR.
	analyzed := *doc
	if err := analyzed.MarkAnalyzed(s.now(), len(issues)); err != nil {
		s.fail(ctx, doc, err)
		return nil, err
	}
	if err := s.docStore.Save(ctx, &analyzed); err != nil {
		err = fmt.Errorf("save document: %w", err)
		s.fail(ctx, doc, err)
		return nil, err
	}
	*doc = analyzed

	analysisLog.Info("Analysed %s: %d issue(s)", doc.Name, len(issues))
	return issues, nil
}

// AnalyzeDocumentByID loads the document, its audit and template, then analyses it.
func (s *AnalysisService) AnalyzeDocumentByID(ctx context.Context, documentID string) ([]domain.Issue, error) {
	doc, err := s.docStore.Get(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	audit, tmpl, err := s.loadAudit(ctx, doc.AuditID)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeDocument(ctx, *audit, doc, *tmpl)
}

// AnalyzeAudit analyses every document of an audit. A failing document is
// recorded in the report and does not stop the others.
func (s *AnalysisService) AnalyzeAudit(ctx context.Context, auditID string) (*driving.AuditReport, error) {
	audit, tmpl, err := s.loadAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}
	docs, err := s.docStore.ListByAudit(ctx, auditID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoDocuments, auditID)
	}

	logger.Section("Audit " + audit.Name)
	analysisLog.Info("Analysing %d document(s) with %d worker(s)", len(docs), s.settings.Workers)

	report := &driving.AuditReport{
		AuditID: auditID,
		Results: make([]driving.DocumentResult, len(docs)),
	}

	var g errgroup.Group
	g.SetLimit(s.settings.Workers)

	for i := range docs {
		doc := &docs[i]
		if err := ctx.Err(); err != nil {
			report.Results[i] = resultFor(doc, 0, err)
			continue
		}
		g.Go(func() error {
			issues, err := s.AnalyzeDocument(ctx, *audit, doc, *tmpl)
			if err != nil {
				analysisLog.Warn("Document %s failed: %v", doc.Name, err)
			}
			report.Results[i] = resultFor(doc, len(issues), err)
			return nil
		})
	}
	_ = g.Wait()

	analysisLog.Info("Audit %s: %d analysed, %d failed, %d issue(s)",
		audit.Name, report.Analyzed(), report.Failed(), report.TotalIssues())
	return report, nil
}

// AnalyzeText analyses arbitrary text against a template. The issues are
// detached from any document and are not persisted.
func (s *AnalysisService) AnalyzeText(
	ctx context.Context,
	text string,
	tmpl domain.RuleTemplate,
	audit domain.Audit,
) ([]domain.Issue, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrInvalidInput)
	}
	return s.complete(ctx, audit, nil, TextDocumentName, text, tmpl)
}

func (s *AnalysisService) analyze(
	ctx context.Context,
	audit domain.Audit,
	doc *domain.Document,
	tmpl domain.RuleTemplate,
) ([]domain.Issue, error) {
	content, err := s.blobs.Read(ctx, doc.Locator)
	if err != nil {
		return nil, &domain.ExtractionError{FileName: doc.Name, Err: err}
	}

	text, err := s.extractor.Extract(ctx, content, doc.Name)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, &domain.ExtractionError{FileName: doc.Name, Err: domain.ErrEmptyContent}
	}

	docID := doc.ID
	return s.complete(ctx, audit, &docID, doc.Name, text, tmpl)
}

// complete runs the prompt, gateway and parse stages.
func (s *AnalysisService) complete(
	ctx context.Context,
	audit domain.Audit,
	documentID *string,
	name, text string,
	tmpl domain.RuleTemplate,
) ([]domain.Issue, error) {
	if limit := s.settings.MaxContentChars; limit > 0 {
		truncated := prompt.TruncateContent(text, limit)
		if len(truncated) != len(text) {
			analysisLog.Debug("Truncated %s to %d characters", name, limit)
		}
		text = truncated
	}

	raw, err := s.gateway.Complete(ctx, prompt.Build(tmpl, text, name))
	if err != nil {
		return nil, err
	}

	result := response.Parse(raw)
	if result.Kind == response.Fallback {
		analysisLog.Warn("Unstructured AI reply for %s: %v", name, result.Cause)
	}
	if result.Skipped > 0 {
		analysisLog.Warn("Skipped %d malformed issue(s) for %s", result.Skipped, name)
	}

	now := s.now()
	issues := result.Issues
	for i := range issues {
		issues[i].ID = s.newID()
		issues[i].AuditID = audit.ID
		issues[i].DocumentID = documentID
		issues[i].Status = domain.IssueOpen
		issues[i].CreatedAt = now
	}
	return issues, nil
}

// fail records the ERROR state. The save outlives ctx cancellation so a
// timed-out document does not stay PROCESSING.
func (s *AnalysisService) fail(ctx context.Context, doc *domain.Document, cause error) {
	analysisLog.Warn("Analysis of %s failed: %v", doc.Name, cause)
	if err := doc.MarkFailed(s.now(), cause.Error()); err != nil {
		analysisLog.Error("Marking %s failed: %v", doc.ID, err)
		return
	}
	if err := s.docStore.Save(context.WithoutCancel(ctx), doc); err != nil {
		analysisLog.Error("Saving ERROR state for %s: %v", doc.ID, err)
	}
}

func (s *AnalysisService) loadAudit(ctx context.Context, auditID string) (*domain.Audit, *domain.RuleTemplate, error) {
	audit, err := s.auditStore.Get(ctx, auditID)
	if err != nil {
		return nil, nil, fmt.Errorf("get audit: %w", err)
	}
	tmpl, err := s.templateStore.Get(ctx, audit.TemplateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, audit.TemplateID)
		}
		return nil, nil, fmt.Errorf("get template: %w", err)
	}
	return audit, tmpl, nil
}

func (s *AnalysisService) claim(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *AnalysisService) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}

func resultFor(doc *domain.Document, issuesCount int, err error) driving.DocumentResult {
	return driving.DocumentResult{
		DocumentID:  doc.ID,
		Name:        doc.Name,
		Status:      doc.Status,
		IssuesCount: issuesCount,
		Err:         err,
	}
}
