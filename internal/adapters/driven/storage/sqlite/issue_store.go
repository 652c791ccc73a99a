package sqlite

import (
	"context"
	"database/sql"

	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driven"
)

// issueStore implements driven.IssueStore.
type issueStore struct {
	store *Store
}

var _ driven.IssueStore = (*issueStore)(nil)

const issueColumns = `id, audit_id, document_id, issue_type, description, suggestion,
	page_number, paragraph_number, status, created_at`

// SaveAll inserts issues in a single transaction.
func (s *issueStore) SaveAll(ctx context.Context, issues []domain.Issue) error {
	if len(issues) == 0 {
		return nil
	}
	for _, issue := range issues {
		if issue.ID == "" {
			return domain.ErrInvalidInput
		}
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.PersistenceError{Op: "beginning issue transaction", Err: err}
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO issues (`+issueColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return &domain.PersistenceError{Op: "preparing issue insert", Err: err}
	}
	defer stmt.Close()

	for _, issue := range issues {
		status := issue.Status
		if status == "" {
			status = domain.IssueOpen
		}
		var documentID any
		if issue.DocumentID != nil {
			documentID = *issue.DocumentID
		}
		if _, err := stmt.ExecContext(ctx, issue.ID, issue.AuditID, documentID, issue.IssueType,
			issue.Description, issue.Suggestion, nullableInt(issue.PageNumber),
			nullableInt(issue.ParagraphNumber), string(status), utc(issue.CreatedAt)); err != nil {
			return &domain.PersistenceError{Op: "saving issue", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &domain.PersistenceError{Op: "committing issues", Err: err}
	}
	return nil
}

// Get retrieves an issue by ID.
func (s *issueStore) Get(ctx context.Context, id string) (*domain.Issue, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+issueColumns+` FROM issues WHERE id = ?`, id)
	issue, err := scanIssue(row)
	if err != nil {
		return nil, notFoundOr("scanning issue", err)
	}
	return issue, nil
}

// ListByAudit returns an audit's issues ordered by creation time.
func (s *issueStore) ListByAudit(ctx context.Context, auditID string) ([]domain.Issue, error) {
	return s.list(ctx, `SELECT `+issueColumns+` FROM issues
		WHERE audit_id = ? ORDER BY created_at, rowid`, auditID)
}

// ListByDocument returns a document's issues ordered by creation time.
func (s *issueStore) ListByDocument(ctx context.Context, documentID string) ([]domain.Issue, error) {
	return s.list(ctx, `SELECT `+issueColumns+` FROM issues
		WHERE document_id = ? ORDER BY created_at, rowid`, documentID)
}

// UpdateStatus changes the review status of an issue.
func (s *issueStore) UpdateStatus(ctx context.Context, id string, status domain.IssueStatus) error {
	if !status.IsValid() {
		return domain.ErrInvalidInput
	}
	res, err := s.store.db.ExecContext(ctx, "UPDATE issues SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return &domain.PersistenceError{Op: "updating issue status", Err: err}
	}
	return requireAffected(res)
}

func (s *issueStore) list(ctx context.Context, query string, args ...any) ([]domain.Issue, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "querying issues", Err: err}
	}
	defer rows.Close()

	issues := make([]domain.Issue, 0)
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, &domain.PersistenceError{Op: "scanning issue", Err: err}
		}
		issues = append(issues, *issue)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "iterating issues", Err: err}
	}
	return issues, nil
}

func scanIssue(row rowScanner) (*domain.Issue, error) {
	var issue domain.Issue
	var documentID sql.NullString
	var page, paragraph sql.NullInt64
	var status string

	if err := row.Scan(&issue.ID, &issue.AuditID, &documentID, &issue.IssueType, &issue.Description,
		&issue.Suggestion, &page, &paragraph, &status, &issue.CreatedAt); err != nil {
		return nil, err
	}

	if documentID.Valid {
		id := documentID.String
		issue.DocumentID = &id
	}
	issue.PageNumber = intPtr(page)
	issue.ParagraphNumber = intPtr(paragraph)
	issue.Status = domain.IssueStatus(status)
	return &issue, nil
}
