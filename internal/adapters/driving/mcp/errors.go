// Package mcp provides an MCP (Model Context Protocol) server adapter for docaudit.
// It lets AI assistants analyse text and documents and read the resulting issues.
package mcp

import "errors"

// ErrMissingAnalysisService is returned when the analysis service is not provided.
var ErrMissingAnalysisService = errors.New("mcp: analysis service is required")

// ErrMissingTemplateService is returned when the template service is not provided.
var ErrMissingTemplateService = errors.New("mcp: template service is required")

// ErrServiceUnavailable is returned by tools whose backing service was not provided.
var ErrServiceUnavailable = errors.New("mcp: service not available")
