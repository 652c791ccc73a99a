package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"

	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driven"
	"github.com/custodia-labs/docaudit/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyAIProvider        = "ai.provider"
	KeyAIEndpoint        = "ai.endpoint"
	KeyAIAPIKey          = "ai.api_key"
	KeyAIModel           = "ai.model"
	KeyAIMaxTokens       = "ai.max_tokens"
	KeyAITemperature     = "ai.temperature"
	KeyAITimeout         = "ai.timeout"
	KeyAIRateLimit       = "ai.rate_limit"
	KeyAIMaxRetries      = "ai.max_retries"
	KeyAIVertexProject   = "ai.vertex_project"
	KeyAIVertexLocation  = "ai.vertex_location"
	KeyAICredentialsFile = "ai.credentials_file"
	KeyMaxContentChars   = "analysis.max_content_chars"
	KeyWorkers           = "analysis.workers"
	KeyPreviewChars      = "analysis.preview_chars"
	KeyStorageBackend    = "storage.backend"
	KeyStorageDataDir    = "storage.data_dir"
	KeyMaxDocumentSize   = "storage.max_document_size"
	KeyStorageGCSBucket  = "storage.gcs_bucket"
)

// defaultDataDir is relative to the home directory.
const defaultDataDir = ".docaudit/data"

// Environment variables that override the configuration file.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
var envOverrides = map[string]string{
	"DOCAUDIT_AI_PROVIDER": KeyAIProvider,
	"DOCAUDIT_AI_ENDPOINT": KeyAIEndpoint,
	"DOCAUDIT_AI_API_KEY":  KeyAIAPIKey,
	"DOCAUDIT_AI_MODEL":    KeyAIModel,
	"DOCAUDIT_DATA_DIR":    KeyStorageDataDir,
}

// keyKind tells Set how to parse and store a value.
type keyKind int

const (
	kindString keyKind = iota
	kindProvider
	kindPositiveInt
	kindNonNegativeInt
	kindFloat
	kindDuration
	kindSize
	kindBackend
)

var settingKeys = []struct {
	key  string
	kind keyKind
}{
	{KeyAIProvider, kindProvider},
	{KeyAIEndpoint, kindString},
	{KeyAIAPIKey, kindString},
	{KeyAIModel, kindString},
	{KeyAIMaxTokens, kindPositiveInt},
	{KeyAITemperature, kindFloat},
	{KeyAITimeout, kindDuration},
	{KeyAIRateLimit, kindFloat},
	{KeyAIMaxRetries, kindNonNegativeInt},
	{KeyAIVertexProject, kindString},
	{KeyAIVertexLocation, kindString},
	{KeyAICredentialsFile, kindString},
	{KeyMaxContentChars, kindNonNegativeInt},
	{KeyWorkers, kindPositiveInt},
	{KeyPreviewChars, kindPositiveInt},
	{KeyStorageBackend, kindBackend},
	{KeyStorageDataDir, kindString},
	{KeyMaxDocumentSize, kindSize},
	{KeyStorageGCSBucket, kindString},
}

// SettingsService manages application settings.
// Precedence is defaults, then the config store, then environment variables.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// Get returns the effective settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := domain.AIProvider(s.getString(KeyAIProvider, defaults.AI.Provider.String()))
	if !provider.IsValid() {
		return nil, fmt.Errorf("%w: unknown ai provider %q", domain.ErrInvalidInput, provider)
	}

	timeout, err := s.getDuration(KeyAITimeout, defaults.AI.Timeout)
	if err != nil {
		return nil, err
	}
	maxSize, err := s.getSize(KeyMaxDocumentSize, defaults.Storage.MaxDocumentSize)
	if err != nil {
		return nil, err
	}
	dataDir, err := s.dataDir()
	if err != nil {
		return nil, err
	}

	settings := &domain.AppSettings{
		AI: domain.AISettings{
			Provider:        provider,
			Endpoint:        s.getString(KeyAIEndpoint, provider.DefaultEndpoint()),
			APIKey:          s.getString(KeyAIAPIKey, ""),
			Model:           s.getString(KeyAIModel, provider.DefaultModel()),
			MaxTokens:       s.getInt(KeyAIMaxTokens, defaults.AI.MaxTokens),
			Temperature:     s.getFloat(KeyAITemperature, defaults.AI.Temperature),
			Timeout:         timeout,
			RateLimit:       s.getFloat(KeyAIRateLimit, defaults.AI.RateLimit),
			MaxRetries:      s.getInt(KeyAIMaxRetries, defaults.AI.MaxRetries),
			VertexProject:   s.getString(KeyAIVertexProject, ""),
			VertexLocation:  s.getString(KeyAIVertexLocation, defaults.AI.VertexLocation),
			CredentialsFile: s.getString(KeyAICredentialsFile, ""),
		},
		Analysis: domain.AnalysisSettings{
			MaxContentChars: s.getInt(KeyMaxContentChars, defaults.Analysis.MaxContentChars),
			Workers:         s.getInt(KeyWorkers, defaults.Analysis.Workers),
			PreviewChars:    s.getInt(KeyPreviewChars, defaults.Analysis.PreviewChars),
		},
		Storage: domain.StorageSettings{
			Backend:         s.getString(KeyStorageBackend, defaults.Storage.Backend),
			DataDir:         dataDir,
			MaxDocumentSize: maxSize,
			GCSBucket:       s.getString(KeyStorageGCSBucket, ""),
		},
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Set validates and persists one key. Values are stored with their natural TOML type.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := lookupKind(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := parseValue(kind, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Unset removes a stored key so its default, or its environment override, applies again.
func (s *SettingsService) Unset(key string) error {
	if _, ok := lookupKind(key); !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := s.configStore.Unset(key); err != nil {
		return fmt.Errorf("unset %s: %w", key, err)
	}
	return nil
}

// Stored returns the recognised keys that have a value in the config store.
func (s *SettingsService) Stored() []string {
	var stored []string
	for _, key := range s.configStore.Keys() {
		if _, ok := lookupKind(key); ok {
			stored = append(stored, key)
		}
	}
	return stored
}

// Keys returns the recognised keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.key
	}
	return keys
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func lookupKind(key string) (keyKind, bool) {
	for _, k := range settingKeys {
		if k.key == key {
			return k.kind, true
		}
	}
	return kindString, false
}

func parseValue(kind keyKind, value string) (any, error) {
	switch kind {
	case kindProvider:
		if !domain.AIProvider(value).IsValid() {
			return nil, fmt.Errorf("unknown provider %q", value)
		}
		return value, nil
	case kindBackend:
		if value != domain.StorageBackendSQLite && value != domain.StorageBackendMemory {
			return nil, fmt.Errorf("unknown backend %q", value)
		}
		return value, nil
	case kindPositiveInt, kindNonNegativeInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("not an integer: %q", value)
		}
		if n < 0 || (kind == kindPositiveInt && n == 0) {
			return nil, fmt.Errorf("out of range: %d", n)
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", value)
		}
		if f < 0 {
			return nil, fmt.Errorf("must not be negative: %v", f)
		}
		return f, nil
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, err
		}
		if d <= 0 {
			return nil, fmt.Errorf("must be positive: %s", d)
		}
		return value, nil
	case kindSize:
		n, err := units.FromHumanSize(value)
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, fmt.Errorf("must be positive: %s", value)
		}
		return value, nil
	default:
		return value, nil
	}
}

// Helper methods for reading config with defaults and environment overrides.

func (s *SettingsService) env(key string) (string, bool) {
	for name, k := range envOverrides {
		if k != key {
			continue
		}
		if v, ok := s.lookupEnv(name); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if v, ok := s.env(key); ok {
		return v
	}
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

// getDuration accepts "90s" style strings or a number of seconds.
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val, exists := s.configStore.Get(key)
	if !exists {
		return defaultVal, nil
	}
	if str, ok := val.(string); ok {
		d, err := time.ParseDuration(str)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
		return d, nil
	}
	return time.Duration(s.configStore.GetFloat(key) * float64(time.Second)), nil
}

// getSize accepts "50MB" style strings or a number of bytes.
func (s *SettingsService) getSize(key string, defaultVal int64) (int64, error) {
	val, exists := s.configStore.Get(key)
	if !exists {
		return defaultVal, nil
	}
	if str, ok := val.(string); ok {
		n, err := units.FromHumanSize(str)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
		return n, nil
	}
	return int64(s.configStore.GetInt(key)), nil
}

func (s *SettingsService) dataDir() (string, error) {
	if dir := s.getString(KeyStorageDataDir, ""); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	return filepath.Join(home, defaultDataDir), nil
}
