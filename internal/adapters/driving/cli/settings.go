package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docaudit/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the AI provider, analysis limits and storage.

Settings are read from the configuration file, then overridden by
DOCAUDIT_* environment variables.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a setting",
	Long: `Set one setting in the configuration file.

When the key is ai.api_key and no value is given, the key is read from the
terminal without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Remove a setting from the configuration file",
	Long:  `Remove one setting so that its default, or its DOCAUDIT_* override, applies.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsUnset,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the setting keys",
	Long:  `List every recognised key. Keys with a value in the configuration file are marked with *.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsUnsetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	ai := settings.AI
	cmd.Println("[AI]")
	cmd.Printf("  Provider: %s\n", ai.Provider.Description())
	cmd.Printf("  Model: %s\n", ai.Model)
	if ai.Endpoint != "" {
		cmd.Printf("  Endpoint: %s\n", ai.Endpoint)
	}
	if ai.Provider.RequiresAPIKey() {
		if ai.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(ai.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	if ai.VertexProject != "" {
		cmd.Printf("  Vertex: %s (%s)\n", ai.VertexProject, ai.VertexLocation)
	}
	cmd.Printf("  Max Tokens: %d\n", ai.MaxTokens)
	cmd.Printf("  Temperature: %.2f\n", ai.Temperature)
	cmd.Printf("  Timeout: %s\n", ai.Timeout)
	mode := "live"
	if !ai.HasCredential() {
		mode = "simulation"
	}
	cmd.Printf("  Mode: %s\n", mode)
	cmd.Println()

	cmd.Println("[Analysis]")
	if settings.Analysis.MaxContentChars > 0 {
		cmd.Printf("  Max Content: %d characters\n", settings.Analysis.MaxContentChars)
	} else {
		cmd.Printf("  Max Content: unlimited\n")
	}
	cmd.Printf("  Workers: %d\n", settings.Analysis.Workers)
	cmd.Printf("  Preview: %d characters\n", settings.Analysis.PreviewChars)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend)
	cmd.Printf("  Data Dir: %s\n", settings.Storage.DataDir)
	cmd.Printf("  Max Document Size: %s\n", units.HumanSize(float64(settings.Storage.MaxDocumentSize)))
	if settings.Storage.GCSBucket != "" {
		cmd.Printf("  GCS Bucket: %s\n", settings.Storage.GCSBucket)
	}
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'docaudit settings set <key> <value>' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	if path := settingsService.Path(); path != "" {
		cmd.Printf("Config file: %s\n", path)
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case key == services.KeyAIAPIKey:
		cmd.Print("API key: ")
		value = readPassword()
		cmd.Println()
	default:
		return fmt.Errorf("a value is required for %s", key)
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if key == services.KeyAIAPIKey {
		value = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runSettingsUnset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Unset(args[0]); err != nil {
		return fmt.Errorf("failed to unset %s: %w", args[0], err)
	}
	cmd.Printf("Unset %s\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	stored := make(map[string]bool)
	for _, key := range settingsService.Stored() {
		stored[key] = true
	}
	for _, key := range settingsService.Keys() {
		mark := " "
		if stored[key] {
			mark = "*"
		}
		cmd.Printf("%s %s\n", mark, key)
	}
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
