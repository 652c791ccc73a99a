package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driving"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Manage audits",
	Long:  `Create audits, upload documents to them, and analyse every document of an audit.`,
}

var auditCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create an audit bound to a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditCreate,
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audits",
	Args:  cobra.NoArgs,
	RunE:  runAuditList,
}

var auditUploadCmd = &cobra.Command{
	Use:   "upload [audit-id] [file...]",
	Short: "Upload documents to an audit",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runAuditUpload,
}

var auditDocumentsCmd = &cobra.Command{
	Use:   "documents [audit-id]",
	Short: "List the documents of an audit",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditDocuments,
}

var auditAnalyzeCmd = &cobra.Command{
	Use:   "analyze [audit-id]",
	Short: "Analyse every document of an audit",
	Long: `Analyse every document of an audit against its template.

A document that fails ends in ERROR and does not stop the others.`,
	Args: cobra.ExactArgs(1),
	RunE: runAuditAnalyze,
}

// auditTemplate is the --template flag for the create command.
var auditTemplate string

func init() {
	auditCreateCmd.Flags().StringVarP(&auditTemplate, "template", "t", "", "Rule template ID")
	_ = auditCreateCmd.MarkFlagRequired("template")

	auditCmd.AddCommand(auditCreateCmd)
	auditCmd.AddCommand(auditListCmd)
	auditCmd.AddCommand(auditUploadCmd)
	auditCmd.AddCommand(auditDocumentsCmd)
	auditCmd.AddCommand(auditAnalyzeCmd)
	rootCmd.AddCommand(auditCmd)
}

func runAuditCreate(cmd *cobra.Command, args []string) error {
	if auditService == nil {
		return errors.New("audit service not configured")
	}

	audit, err := auditService.Create(cmd.Context(), args[0], auditTemplate)
	if err != nil {
		return fmt.Errorf("failed to create audit: %w", err)
	}

	cmd.Printf("Created audit: %s\n", audit.ID)
	return nil
}

func runAuditList(cmd *cobra.Command, _ []string) error {
	if auditService == nil {
		return errors.New("audit service not configured")
	}

	audits, err := auditService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list audits: %w", err)
	}

	if len(audits) == 0 {
		cmd.Println("No audits yet.")
		cmd.Println("Create one with: docaudit audit create <name> --template <template-id>")
		return nil
	}

	cmd.Println(styles.Title.Render("Audits:"))
	cmd.Println()
	for i := range audits {
		cmd.Printf("  %s\n", styles.Label.Render(audits[i].ID))
		cmd.Printf("    Name:     %s\n", audits[i].Name)
		cmd.Printf("    Template: %s\n", audits[i].TemplateID)
		cmd.Printf("    Created:  %s\n", audits[i].CreatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d audits\n", len(audits))
	return nil
}

func runAuditUpload(cmd *cobra.Command, args []string) error {
	if auditService == nil {
		return errors.New("audit service not configured")
	}

	auditID := args[0]
	for _, path := range args[1:] {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		doc, err := auditService.Upload(cmd.Context(), auditID, path, content)
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", path, err)
		}

		cmd.Printf("Uploaded %s: %s (%s)\n", doc.Name, doc.ID, units.HumanSize(float64(doc.SizeBytes)))
	}
	return nil
}

func runAuditDocuments(cmd *cobra.Command, args []string) error {
	if auditService == nil {
		return errors.New("audit service not configured")
	}

	auditID := args[0]
	docs, err := auditService.Documents(cmd.Context(), auditID)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Printf("No documents in audit: %s\n", auditID)
		return nil
	}

	cmd.Printf("Documents in audit %s:\n\n", auditID)
	for i := range docs {
		printDocumentSummary(cmd, &docs[i])
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runAuditAnalyze(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	report, err := analysisService.AnalyzeAudit(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to analyse audit: %w", err)
	}

	printAuditReport(cmd, report)
	if report.Failed() > 0 {
		return fmt.Errorf("%d of %d documents failed", report.Failed(), len(report.Results))
	}
	return nil
}

func printDocumentSummary(cmd *cobra.Command, doc *domain.Document) {
	cmd.Printf("  %s\n", styles.Label.Render(doc.ID))
	cmd.Printf("    Name:   %s\n", doc.Name)
	cmd.Printf("    Size:   %s\n", units.HumanSize(float64(doc.SizeBytes)))
	cmd.Printf("    Status: %s\n", renderStatus(doc.Status))
	switch doc.Status {
	case domain.DocumentAnalyzed:
		cmd.Printf("    Issues: %d\n", doc.IssuesCount)
	case domain.DocumentError:
		cmd.Printf("    Error:  %s\n", doc.ErrorMessage)
	}
	cmd.Println()
}

func printAuditReport(cmd *cobra.Command, report *driving.AuditReport) {
	cmd.Printf("Audit %s:\n\n", report.AuditID)
	for _, res := range report.Results {
		line := fmt.Sprintf("  %s  %-30s %s", renderStatus(res.Status), res.Name, res.DocumentID)
		if res.Err != nil {
			cmd.Printf("%s\n    %s\n", line, styles.Error.Render(res.Err.Error()))
			continue
		}
		cmd.Printf("%s  (%d issues)\n", line, res.IssuesCount)
	}
	cmd.Println()
	cmd.Printf("Analysed: %d, failed: %d, issues: %d\n", report.Analyzed(), report.Failed(), report.TotalIssues())
}
