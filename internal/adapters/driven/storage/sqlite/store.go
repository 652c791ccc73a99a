package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docaudit/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driven"
)

// DatabaseFileName is the name of the database file inside the data directory.
const DatabaseFileName = "docaudit.db"

// Store is a unified SQLite-based storage that provides access to
// all store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.docaudit/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docaudit", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFileName)

	// WAL lets readers proceed while a document is being saved.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// AuditStore returns an AuditStore interface backed by this store.
func (s *Store) AuditStore() driven.AuditStore {
	return &auditStore{store: s}
}

// TemplateStore returns a TemplateStore interface backed by this store.
func (s *Store) TemplateStore() driven.TemplateStore {
	return &templateStore{store: s}
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// IssueStore returns an IssueStore interface backed by this store.
func (s *Store) IssueStore() driven.IssueStore {
	return &issueStore{store: s}
}

// migrate runs all pending migrations, each in its own transaction.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Audit Store ====================

// auditStore implements driven.AuditStore.
type auditStore struct {
	store *Store
}

var _ driven.AuditStore = (*auditStore)(nil)

// Save stores or updates an audit.
func (s *auditStore) Save(ctx context.Context, audit domain.Audit) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO audits (id, name, template_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			template_id = excluded.template_id
	`, audit.ID, audit.Name, audit.TemplateID, utc(audit.CreatedAt))
	if err != nil {
		return &domain.PersistenceError{Op: "saving audit", Err: err}
	}
	return nil
}

// Get retrieves an audit by ID.
func (s *auditStore) Get(ctx context.Context, id string) (*domain.Audit, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, template_id, created_at FROM audits WHERE id = ?
	`, id)

	var audit domain.Audit
	if err := row.Scan(&audit.ID, &audit.Name, &audit.TemplateID, &audit.CreatedAt); err != nil {
		return nil, notFoundOr("scanning audit", err)
	}
	return &audit, nil
}

// List returns all audits ordered by creation time.
func (s *auditStore) List(ctx context.Context) ([]domain.Audit, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, template_id, created_at FROM audits ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "querying audits", Err: err}
	}
	defer rows.Close()

	audits := make([]domain.Audit, 0)
	for rows.Next() {
		var audit domain.Audit
		if err := rows.Scan(&audit.ID, &audit.Name, &audit.TemplateID, &audit.CreatedAt); err != nil {
			return nil, &domain.PersistenceError{Op: "scanning audit", Err: err}
		}
		audits = append(audits, audit)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "iterating audits", Err: err}
	}
	return audits, nil
}

// ==================== Template Store ====================

// templateStore implements driven.TemplateStore.
type templateStore struct {
	store *Store
}

var _ driven.TemplateStore = (*templateStore)(nil)

// Save stores or updates a rule template.
func (s *templateStore) Save(ctx context.Context, tmpl domain.RuleTemplate) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO rule_templates (id, name, organization, description, rule_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			organization = excluded.organization,
			description = excluded.description,
			rule_count = excluded.rule_count
	`, tmpl.ID, tmpl.Name, tmpl.Organization, tmpl.Description, tmpl.RuleCount, utc(tmpl.CreatedAt))
	if err != nil {
		return &domain.PersistenceError{Op: "saving rule template", Err: err}
	}
	return nil
}

// Get retrieves a rule template by ID.
func (s *templateStore) Get(ctx context.Context, id string) (*domain.RuleTemplate, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, organization, description, rule_count, created_at
		FROM rule_templates WHERE id = ?
	`, id)

	var tmpl domain.RuleTemplate
	if err := row.Scan(&tmpl.ID, &tmpl.Name, &tmpl.Organization, &tmpl.Description,
		&tmpl.RuleCount, &tmpl.CreatedAt); err != nil {
		return nil, notFoundOr("scanning rule template", err)
	}
	return &tmpl, nil
}

// List returns all rule templates ordered by name.
func (s *templateStore) List(ctx context.Context) ([]domain.RuleTemplate, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, organization, description, rule_count, created_at
		FROM rule_templates ORDER BY name, id
	`)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "querying rule templates", Err: err}
	}
	defer rows.Close()

	templates := make([]domain.RuleTemplate, 0)
	for rows.Next() {
		var tmpl domain.RuleTemplate
		if err := rows.Scan(&tmpl.ID, &tmpl.Name, &tmpl.Organization, &tmpl.Description,
			&tmpl.RuleCount, &tmpl.CreatedAt); err != nil {
			return nil, &domain.PersistenceError{Op: "scanning rule template", Err: err}
		}
		templates = append(templates, tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "iterating rule templates", Err: err}
	}
	return templates, nil
}

// Delete removes a rule template.
func (s *templateStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM rule_templates WHERE id = ?", id)
	if err != nil {
		return &domain.PersistenceError{Op: "deleting rule template", Err: err}
	}
	return requireAffected(res)
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

const documentColumns = `id, audit_id, name, locator, size_bytes, page_count, status,
	analyzed_at, error_message, issues_count, created_at, updated_at`

// Save stores or updates a document.
func (s *documentStore) Save(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}

	var analyzedAt any
	if doc.AnalyzedAt != nil {
		analyzedAt = utc(*doc.AnalyzedAt)
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			locator = excluded.locator,
			size_bytes = excluded.size_bytes,
			page_count = excluded.page_count,
			status = excluded.status,
			analyzed_at = excluded.analyzed_at,
			error_message = excluded.error_message,
			issues_count = excluded.issues_count,
			updated_at = excluded.updated_at
	`, doc.ID, doc.AuditID, doc.Name, doc.Locator, doc.SizeBytes, nullableInt(doc.PageCount),
		string(doc.Status), analyzedAt, doc.ErrorMessage, doc.IssuesCount,
		utc(doc.CreatedAt), utc(doc.UpdatedAt))
	if err != nil {
		return &domain.PersistenceError{Op: "saving document", Err: err}
	}
	return nil
}

// Get retrieves a document by ID.
func (s *documentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if err != nil {
		return nil, notFoundOr("scanning document", err)
	}
	return doc, nil
}

// ListByAudit returns an audit's documents ordered by creation time.
func (s *documentStore) ListByAudit(ctx context.Context, auditID string) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE audit_id = ? ORDER BY created_at, rowid
	`, auditID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "querying documents", Err: err}
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, &domain.PersistenceError{Op: "scanning document", Err: err}
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "iterating documents", Err: err}
	}
	return docs, nil
}

// Delete removes a document. Its issues are kept.
func (s *documentStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return &domain.PersistenceError{Op: "deleting document", Err: err}
	}
	return requireAffected(res)
}

// ==================== Helper Functions ====================

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var status string
	var pageCount sql.NullInt64
	var analyzedAt sql.NullTime

	if err := row.Scan(&doc.ID, &doc.AuditID, &doc.Name, &doc.Locator, &doc.SizeBytes, &pageCount,
		&status, &analyzedAt, &doc.ErrorMessage, &doc.IssuesCount, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}

	doc.Status = domain.DocumentStatus(status)
	doc.PageCount = intPtr(pageCount)
	if analyzedAt.Valid {
		t := analyzedAt.Time
		doc.AnalyzedAt = &t
	}
	return &doc, nil
}

// notFoundOr maps sql.ErrNoRows to domain.ErrNotFound.
func notFoundOr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return &domain.PersistenceError{Op: op, Err: err}
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return &domain.PersistenceError{Op: "reading affected rows", Err: err}
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

// utc keeps stored timestamps in one zone so that text ordering matches time ordering.
func utc(t time.Time) time.Time {
	return t.UTC()
}
