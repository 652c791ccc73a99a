package driving

import "github.com/custodia-labs/docaudit/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the effective settings: defaults, then file, then environment.
	Get() (*domain.AppSettings, error)

	// Set validates and persists one dotted key.
	Set(key, value string) error

	// Unset removes a stored key so its default applies again.
	Unset(key string) error

	// Stored returns the recognised keys set in the config store, sorted.
	Stored() []string

	// Keys returns the recognised keys in display order.
	Keys() []string

	// Path returns the configuration file path.
	Path() string
}
