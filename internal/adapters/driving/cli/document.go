package cli

import (
	"errors"
	"fmt"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage uploaded documents",
	Long:  `Analyse a single document or show its status and issues.`,
}

var documentAnalyzeCmd = &cobra.Command{
	Use:   "analyze [doc-id]",
	Short: "Analyse one document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentAnalyze,
}

var documentShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show document info and issues",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentShow,
}

func init() {
	documentCmd.AddCommand(documentAnalyzeCmd)
	documentCmd.AddCommand(documentShowCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentAnalyze(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	issues, err := analysisService.AnalyzeDocumentByID(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to analyse document: %w", err)
	}

	cmd.Printf("Analysed document %s: %d issues\n\n", args[0], len(issues))
	printIssues(cmd, issues)
	return nil
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	if auditService == nil {
		return errors.New("audit service not configured")
	}

	doc, err := auditService.Document(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Name:     %s\n", doc.Name)
	cmd.Printf("  Audit:    %s\n", doc.AuditID)
	cmd.Printf("  Size:     %s\n", units.HumanSize(float64(doc.SizeBytes)))
	if doc.PageCount != nil {
		cmd.Printf("  Pages:    %d\n", *doc.PageCount)
	}
	cmd.Printf("  Status:   %s\n", renderStatus(doc.Status))
	cmd.Printf("  Uploaded: %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	if doc.AnalyzedAt != nil {
		cmd.Printf("  Analysed: %s\n", doc.AnalyzedAt.Format("2006-01-02 15:04:05"))
	}
	if doc.ErrorMessage != "" {
		cmd.Printf("  Error:    %s\n", styles.Error.Render(doc.ErrorMessage))
	}

	if issueService == nil {
		return nil
	}

	issues, err := issueService.ListByDocument(cmd.Context(), doc.ID)
	if err != nil {
		return fmt.Errorf("failed to list issues: %w", err)
	}
	cmd.Printf("\nIssues (%d):\n\n", len(issues))
	printIssues(cmd, issues)
	return nil
}
