package domain

import "time"

// Audit groups documents analysed against one rule template.
type Audit struct {
	// ID is the unique identifier for the audit.
	ID string

	// Name is the human-readable name.
	Name string

	// TemplateID links to the RuleTemplate used for analysis.
	TemplateID string

	// CreatedAt is when the audit was created.
	CreatedAt time.Time
}

// RuleTemplate describes what an analysis should look for.
// It only informs prompt content and is never enforced programmatically.
type RuleTemplate struct {
	// ID is the unique identifier for the template.
	ID string

	// Name is the human-readable name.
	Name string

	// Organization is free text naming the issuing body.
	Organization string

	// Description explains the rules the template covers.
	Description string

	// RuleCount is informational and only appears in prompt text.
	RuleCount int

	// CreatedAt is when the template was created.
	CreatedAt time.Time
}
