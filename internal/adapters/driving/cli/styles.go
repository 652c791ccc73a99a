package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docaudit/internal/core/domain"
)

// Theme defines the colour palette for terminal output.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Warning indicates caution.
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:   lipgloss.Color("#7C3AED"), // Purple
		Secondary: lipgloss.Color("#06B6D4"), // Cyan
		Muted:     lipgloss.Color("#6C7086"), // Medium gray
		Success:   lipgloss.Color("#A6E3A1"), // Green
		Warning:   lipgloss.Color("#F9E2AF"), // Yellow
		Error:     lipgloss.Color("#F38BA8"), // Red
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	// Title style for headers.
	Title lipgloss.Style

	// Label style for field names and IDs.
	Label lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Success style for success messages.
	Success lipgloss.Style

	// Warning style for warning messages.
	Warning lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Label:   lipgloss.NewStyle().Foreground(theme.Secondary),
		Muted:   lipgloss.NewStyle().Foreground(theme.Muted),
		Success: lipgloss.NewStyle().Foreground(theme.Success),
		Warning: lipgloss.NewStyle().Foreground(theme.Warning),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(theme.Error),
	}
}

var styles = NewStyles(nil)

// StatusStyle returns the style used to render a document status.
func (s *Styles) StatusStyle(status domain.DocumentStatus) lipgloss.Style {
	switch status {
	case domain.DocumentAnalyzed:
		return s.Success
	case domain.DocumentProcessing:
		return s.Warning
	case domain.DocumentError:
		return s.Error
	default:
		return s.Muted
	}
}

// renderStatus renders a document status in its colour.
func renderStatus(status domain.DocumentStatus) string {
	return styles.StatusStyle(status).Render(status.String())
}

// renderIssueStatus renders an issue status in its colour.
func renderIssueStatus(status domain.IssueStatus) string {
	if status == domain.IssueResolved {
		return styles.Success.Render(status.String())
	}
	return styles.Warning.Render(status.String())
}
