// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - TextExtractor: Converts one file kind into plain text
//   - ExtractorRegistry: Selects a TextExtractor by file extension
//   - CompletionProvider: Sends a prompt to an AI backend (live or simulated)
//   - BlobStore: Byte access to uploaded documents
//   - DocumentStore, IssueStore, AuditStore, TemplateStore: Persistence
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
