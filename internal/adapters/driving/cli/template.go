package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docaudit/internal/core/domain"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage rule templates",
	Long:  `Add, list, show, or delete the rule templates documents are audited against.`,
}

var templateAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a rule template",
	Args:  cobra.NoArgs,
	RunE:  runTemplateAdd,
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rule templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplateList,
}

var templateShowCmd = &cobra.Command{
	Use:   "show [template-id]",
	Short: "Show a rule template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateShow,
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete [template-id]",
	Short: "Delete a rule template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateDelete,
}

// Flags for the add command.
var (
	templateID           string
	templateName         string
	templateOrganization string
	templateDescription  string
	templateRuleCount    int
)

func init() {
	templateAddCmd.Flags().StringVar(&templateID, "id", "", "Template ID (generated when empty)")
	templateAddCmd.Flags().StringVarP(&templateName, "name", "n", "", "Template name")
	templateAddCmd.Flags().StringVarP(&templateOrganization, "org", "o", "", "Issuing organization")
	templateAddCmd.Flags().StringVarP(&templateDescription, "description", "d", "", "Rules covered by the template")
	templateAddCmd.Flags().IntVarP(&templateRuleCount, "rules", "r", 0, "Number of rules")
	_ = templateAddCmd.MarkFlagRequired("name")

	templateCmd.AddCommand(templateAddCmd)
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateDeleteCmd)
	rootCmd.AddCommand(templateCmd)
}

func runTemplateAdd(cmd *cobra.Command, _ []string) error {
	if templateService == nil {
		return errors.New("template service not configured")
	}

	tmpl, err := templateService.Create(cmd.Context(), domain.RuleTemplate{
		ID:           templateID,
		Name:         templateName,
		Organization: templateOrganization,
		Description:  templateDescription,
		RuleCount:    templateRuleCount,
	})
	if err != nil {
		return fmt.Errorf("failed to add template: %w", err)
	}

	cmd.Printf("Added template: %s\n", tmpl.ID)
	return nil
}

func runTemplateList(cmd *cobra.Command, _ []string) error {
	if templateService == nil {
		return errors.New("template service not configured")
	}

	templates, err := templateService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}

	if len(templates) == 0 {
		cmd.Println("No templates configured.")
		cmd.Println("Add one with: docaudit template add --name <name>")
		return nil
	}

	cmd.Println(styles.Title.Render("Rule templates:"))
	cmd.Println()
	for i := range templates {
		cmd.Printf("  %s\n", styles.Label.Render(templates[i].ID))
		cmd.Printf("    Name:  %s\n", templates[i].Name)
		if templates[i].Organization != "" {
			cmd.Printf("    Org:   %s\n", templates[i].Organization)
		}
		cmd.Printf("    Rules: %d\n", templates[i].RuleCount)
		cmd.Println()
	}

	cmd.Printf("Total: %d templates\n", len(templates))
	return nil
}

func runTemplateShow(cmd *cobra.Command, args []string) error {
	if templateService == nil {
		return errors.New("template service not configured")
	}

	tmpl, err := templateService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get template: %w", err)
	}

	cmd.Printf("Template: %s\n\n", tmpl.ID)
	cmd.Printf("  Name:         %s\n", tmpl.Name)
	cmd.Printf("  Organization: %s\n", tmpl.Organization)
	cmd.Printf("  Rules:        %d\n", tmpl.RuleCount)
	cmd.Printf("  Created:      %s\n", tmpl.CreatedAt.Format("2006-01-02 15:04:05"))
	if tmpl.Description != "" {
		cmd.Printf("\n  %s\n", tmpl.Description)
	}
	return nil
}

func runTemplateDelete(cmd *cobra.Command, args []string) error {
	if templateService == nil {
		return errors.New("template service not configured")
	}

	if err := templateService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	cmd.Printf("Deleted template: %s\n", args[0])
	return nil
}
