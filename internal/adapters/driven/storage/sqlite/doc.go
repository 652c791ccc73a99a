// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. It implements the store interfaces through a single database connection:
//
//   - AuditStore: audits
//   - TemplateStore: rule templates
//   - DocumentStore: uploaded documents and their analysis status
//   - IssueStore: issues produced by analysis
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// The database is stored at <data dir>/docaudit.db, by default ~/.docaudit/data.
//
// # Thread Safety
//
// All operations are safe for concurrent use. The store relies on SQLite WAL mode
// and a busy timeout.
package sqlite
