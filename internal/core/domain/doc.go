// Package domain defines the core business entities for docaudit.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Audit: A unit of work grouping documents analysed against one template
//   - RuleTemplate: What an analysis should look for
//   - Document: An uploaded file and its analysis status
//   - Issue: A single finding produced by analysis
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
