package mcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docaudit/internal/core/domain"
)

// AnalyzeTextInput is the input schema for the analyze_text tool.
type AnalyzeTextInput struct {
	Text       string `json:"text" jsonschema:"the text to analyse"`
	TemplateID string `json:"template_id" jsonschema:"ID of the rule template describing what to look for"`
	AuditID    string `json:"audit_id,omitempty" jsonschema:"optional audit the issues are attributed to"`
}

// AnalyzeDocumentInput is the input schema for the analyze_document tool.
type AnalyzeDocumentInput struct {
	DocumentID string `json:"document_id" jsonschema:"ID of an uploaded document"`
}

// ListIssuesInput is the input schema for the list_issues tool.
type ListIssuesInput struct {
	AuditID    string `json:"audit_id,omitempty" jsonschema:"list the issues of this audit"`
	DocumentID string `json:"document_id,omitempty" jsonschema:"list the issues of this document instead"`
	Critical   bool   `json:"critical,omitempty" jsonschema:"only issues whose type signals a critical problem (audit only)"`
}

// ExtractFileInput is the input schema for the extract_file tool.
type ExtractFileInput struct {
	Path          string `json:"path,omitempty" jsonschema:"local path of the file to extract"`
	FileName      string `json:"file_name,omitempty" jsonschema:"declared file name when content is inlined"`
	ContentBase64 string `json:"content_base64,omitempty" jsonschema:"base64 file content, used when path is empty"`
	MaxChars      int    `json:"max_chars,omitempty" jsonschema:"maximum characters to return (default from settings)"`
}

// IssuesOutput is the output schema for tools returning issues.
type IssuesOutput struct {
	Issues []IssueOutput `json:"issues"`
	Count  int           `json:"count"`
}

// IssueOutput represents a single issue.
type IssueOutput struct {
	ID              string `json:"id"`
	AuditID         string `json:"audit_id,omitempty"`
	DocumentID      string `json:"document_id,omitempty"`
	IssueType       string `json:"issue_type"`
	Description     string `json:"description"`
	Suggestion      string `json:"suggestion,omitempty"`
	PageNumber      *int   `json:"page_number,omitempty"`
	ParagraphNumber *int   `json:"paragraph_number,omitempty"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
}

// ExtractFileOutput is the output schema for the extract_file tool.
type ExtractFileOutput struct {
	FileName  string `json:"file_name"`
	Supported bool   `json:"supported"`
	Text      string `json:"text"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_text",
		Description: "Analyse free text against a rule template and return the issues found",
	}, s.handleAnalyzeText)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_document",
		Description: "Analyse an uploaded document and store its issues",
	}, s.handleAnalyzeDocument)

	if s.ports.Issue != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_issues",
			Description: "List the issues of an audit or a document",
		}, s.handleListIssues)
	}

	if s.ports.Extraction != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "extract_file",
			Description: "Extract the plain text of a PDF, Word, Excel or text file",
		}, s.handleExtractFile)
	}
}

// handleAnalyzeText handles the analyze_text tool invocation.
func (s *Server) handleAnalyzeText(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeTextInput,
) (*mcp.CallToolResult, IssuesOutput, error) {
	if input.TemplateID == "" {
		return nil, IssuesOutput{}, fmt.Errorf("template_id is required: %w", domain.ErrInvalidInput)
	}

	tmpl, err := s.ports.Template.Get(ctx, input.TemplateID)
	if err != nil {
		return nil, IssuesOutput{}, fmt.Errorf("getting template: %w", err)
	}

	audit := domain.Audit{ID: input.AuditID, TemplateID: tmpl.ID}
	if input.AuditID != "" && s.ports.Audit != nil {
		found, err := s.ports.Audit.Get(ctx, input.AuditID)
		if err != nil {
			return nil, IssuesOutput{}, fmt.Errorf("getting audit: %w", err)
		}
		audit = *found
	}

	issues, err := s.ports.Analysis.AnalyzeText(ctx, input.Text, *tmpl, audit)
	if err != nil {
		return nil, IssuesOutput{}, err
	}
	return nil, toIssuesOutput(issues), nil
}

// handleAnalyzeDocument handles the analyze_document tool invocation.
func (s *Server) handleAnalyzeDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeDocumentInput,
) (*mcp.CallToolResult, IssuesOutput, error) {
	if input.DocumentID == "" {
		return nil, IssuesOutput{}, fmt.Errorf("document_id is required: %w", domain.ErrInvalidInput)
	}

	issues, err := s.ports.Analysis.AnalyzeDocumentByID(ctx, input.DocumentID)
	if err != nil {
		return nil, IssuesOutput{}, err
	}
	return nil, toIssuesOutput(issues), nil
}

// handleListIssues handles the list_issues tool invocation.
func (s *Server) handleListIssues(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListIssuesInput,
) (*mcp.CallToolResult, IssuesOutput, error) {
	if s.ports.Issue == nil {
		return nil, IssuesOutput{}, ErrServiceUnavailable
	}

	var (
		issues []domain.Issue
		err    error
	)
	switch {
	case input.DocumentID != "":
		issues, err = s.ports.Issue.ListByDocument(ctx, input.DocumentID)
	case input.AuditID == "":
		return nil, IssuesOutput{}, fmt.Errorf("audit_id or document_id is required: %w", domain.ErrInvalidInput)
	case input.Critical:
		issues, err = s.ports.Issue.Critical(ctx, input.AuditID)
	default:
		issues, err = s.ports.Issue.ListByAudit(ctx, input.AuditID)
	}
	if err != nil {
		return nil, IssuesOutput{}, err
	}
	return nil, toIssuesOutput(issues), nil
}

// handleExtractFile handles the extract_file tool invocation.
func (s *Server) handleExtractFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractFileInput,
) (*mcp.CallToolResult, ExtractFileOutput, error) {
	if s.ports.Extraction == nil {
		return nil, ExtractFileOutput{}, ErrServiceUnavailable
	}

	name, content, err := readExtractInput(input)
	if err != nil {
		return nil, ExtractFileOutput{}, err
	}

	output := ExtractFileOutput{
		FileName:  name,
		Supported: s.ports.Extraction.Supports(name),
	}
	if !output.Supported {
		return nil, output, nil
	}

	output.Text, err = s.ports.Extraction.Preview(ctx, content, name, input.MaxChars)
	if err != nil {
		return nil, ExtractFileOutput{}, err
	}
	return nil, output, nil
}

// readExtractInput resolves the file name and bytes from a path or inline content.
func readExtractInput(input ExtractFileInput) (string, []byte, error) {
	if input.Path != "" {
		content, err := os.ReadFile(input.Path)
		if err != nil {
			return "", nil, fmt.Errorf("reading %s: %w", input.Path, err)
		}
		name := input.FileName
		if name == "" {
			name = filepath.Base(input.Path)
		}
		return name, content, nil
	}

	if strings.TrimSpace(input.FileName) == "" {
		return "", nil, fmt.Errorf("path or file_name is required: %w", domain.ErrInvalidInput)
	}
	content, err := base64.StdEncoding.DecodeString(input.ContentBase64)
	if err != nil {
		return "", nil, fmt.Errorf("decoding content: %w", domain.ErrInvalidInput)
	}
	return input.FileName, content, nil
}

func toIssuesOutput(issues []domain.Issue) IssuesOutput {
	output := IssuesOutput{
		Issues: make([]IssueOutput, len(issues)),
		Count:  len(issues),
	}
	for i := range issues {
		output.Issues[i] = toIssueOutput(&issues[i])
	}
	return output
}

func toIssueOutput(issue *domain.Issue) IssueOutput {
	out := IssueOutput{
		ID:              issue.ID,
		AuditID:         issue.AuditID,
		IssueType:       issue.IssueType,
		Description:     issue.Description,
		Suggestion:      issue.Suggestion,
		PageNumber:      issue.PageNumber,
		ParagraphNumber: issue.ParagraphNumber,
		Status:          issue.Status.String(),
		CreatedAt:       issue.CreatedAt.Format(time.RFC3339),
	}
	if issue.DocumentID != nil {
		out.DocumentID = *issue.DocumentID
	}
	return out
}
