package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// URIScheme is the custom URI scheme for docaudit resources.
	uriScheme = "docaudit://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing templates.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "templates",
		Name:        "templates",
		Description: "Rule templates available for analysis",
		MIMEType:    "application/json",
	}, s.handleTemplatesResource)

	// Static resource for listing audits.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "audits",
		Name:        "audits",
		Description: "List of all audits",
		MIMEType:    "application/json",
	}, s.handleAuditsResource)

	// Template for audit documents.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "audits/{auditId}/documents",
		Name:        "audit-documents",
		Description: "Documents uploaded to a specific audit with their analysis status",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)
}

// handleTemplatesResource returns the rule templates.
func (s *Server) handleTemplatesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	templates, err := s.ports.Template.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	type templateInfo struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Organization string `json:"organization,omitempty"`
		RuleCount    int    `json:"rule_count"`
	}

	infos := make([]templateInfo, len(templates))
	for i := range templates {
		infos[i] = templateInfo{
			ID:           templates[i].ID,
			Name:         templates[i].Name,
			Organization: templates[i].Organization,
			RuleCount:    templates[i].RuleCount,
		}
	}
	return jsonResult(req.Params.URI, infos)
}

// handleAuditsResource returns a list of all audits.
func (s *Server) handleAuditsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Audit == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	audits, err := s.ports.Audit.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing audits: %w", err)
	}

	type auditInfo struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		TemplateID string `json:"template_id"`
		URI        string `json:"uri"`
	}

	infos := make([]auditInfo, len(audits))
	for i := range audits {
		infos[i] = auditInfo{
			ID:         audits[i].ID,
			Name:       audits[i].Name,
			TemplateID: audits[i].TemplateID,
			URI:        uriScheme + "audits/" + audits[i].ID + "/documents",
		}
	}
	return jsonResult(req.Params.URI, infos)
}

// handleDocumentsResource returns documents for a specific audit.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Audit == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract auditId from URI: docaudit://audits/{auditId}/documents
	auditID := extractAuditID(req.Params.URI)
	if auditID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	docs, err := s.ports.Audit.Documents(ctx, auditID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	type docInfo struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Status       string `json:"status"`
		IssuesCount  int    `json:"issues_count"`
		ErrorMessage string `json:"error_message,omitempty"`
	}

	infos := make([]docInfo, len(docs))
	for i := range docs {
		infos[i] = docInfo{
			ID:           docs[i].ID,
			Name:         docs[i].Name,
			Status:       docs[i].Status.String(),
			IssuesCount:  docs[i].IssuesCount,
			ErrorMessage: docs[i].ErrorMessage,
		}
	}
	return jsonResult(req.Params.URI, infos)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractAuditID extracts the audit ID from a URI like docaudit://audits/{auditId}/documents.
func extractAuditID(uri string) string {
	const prefix = uriScheme + "audits/"
	const suffix = "/documents"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
