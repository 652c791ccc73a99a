package driven

// ConfigStore persists settings under dotted keys such as "ai.model".
// Typed getters return the zero value when a key is missing or holds another type.
type ConfigStore interface {
	// Get returns the raw value and whether the key is stored.
	Get(key string) (any, bool)

	GetString(key string) string

	// GetInt accepts any integer type the backing format produced.
	GetInt(key string) int

	// GetFloat converts integers.
	GetFloat(key string) float64

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Unset removes a key so its default applies again.
	// Removing a key that is not stored is not an error.
	Unset(key string) error

	// Keys returns the stored keys in sorted order.
	Keys() []string

	// Save writes the current values to storage.
	Save() error

	// Load replaces the current values with the stored ones.
	Load() error

	// Path describes where values are stored.
	Path() string
}
