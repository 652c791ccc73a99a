package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies the completion backend used for analysis.
type AIProvider string

// Available AI providers.
const (
	// AIProviderSimulation returns a fixed fixture without any network call.
	AIProviderSimulation AIProvider = "simulation"

	// AIProviderOpenAI is any OpenAI-compatible chat completions endpoint.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic Messages API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderVertex is Gemini on Google Cloud Vertex AI.
	AIProviderVertex AIProvider = "vertex"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderSimulation, AIProviderOpenAI, AIProviderAnthropic, AIProviderOllama, AIProviderVertex:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs without a remote service.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderSimulation
}

// DefaultEndpoint returns the endpoint used when none is configured.
func (p AIProvider) DefaultEndpoint() string {
	switch p {
	case AIProviderOpenAI:
		return "https://api.openai.com/v1/chat/completions"
	case AIProviderAnthropic:
		return "https://api.anthropic.com/v1/messages"
	case AIProviderOllama:
		return "http://localhost:11434"
	default:
		return ""
	}
}

// DefaultModel returns the model used when none is configured.
func (p AIProvider) DefaultModel() string {
	switch p {
	case AIProviderOpenAI:
		return "gpt-4o-mini"
	case AIProviderAnthropic:
		return "claude-3-5-haiku-latest"
	case AIProviderOllama:
		return "llama3.2"
	case AIProviderVertex:
		return "gemini-1.5-flash"
	case AIProviderSimulation:
		return "simulation"
	default:
		return ""
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderSimulation:
		return "Simulation (offline fixture)"
	case AIProviderOpenAI:
		return "OpenAI-compatible (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderVertex:
		return "Vertex AI Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// AISettings configures the AI gateway.
type AISettings struct {
	// Provider selects the wire format.
	Provider AIProvider

	// Endpoint is the completion URL. Empty uses the provider default.
	Endpoint string

	// APIKey is the bearer credential. Empty selects simulation for key-based providers.
	APIKey string

	// Model is the model name sent with each request.
	Model string

	// MaxTokens caps the completion length.
	MaxTokens int

	// Temperature is the sampling temperature.
	Temperature float64

	// Timeout bounds a single completion call.
	Timeout time.Duration

	// RateLimit is the maximum number of calls per second. Zero disables limiting.
	RateLimit float64

	// MaxRetries is the number of extra attempts after a retryable failure.
	MaxRetries int

	// VertexProject is the Google Cloud project for the vertex provider.
	VertexProject string

	// VertexLocation is the Google Cloud region for the vertex provider.
	VertexLocation string

	// CredentialsFile is an optional service account key for Google Cloud.
	CredentialsFile string
}

// HasCredential reports whether the configured provider can run live.
func (s AISettings) HasCredential() bool {
	switch s.Provider {
	case AIProviderSimulation:
		return false
	case AIProviderOllama:
		return true
	case AIProviderVertex:
		return s.VertexProject != ""
	default:
		return s.APIKey != ""
	}
}

// AnalysisSettings configures the orchestrator.
type AnalysisSettings struct {
	// MaxContentChars truncates extracted text before prompting. Zero disables truncation.
	MaxContentChars int

	// Workers is the number of documents analysed concurrently within an audit.
	Workers int

	// PreviewChars is the default preview length.
	PreviewChars int
}

// Storage backends.
const (
	StorageBackendSQLite = "sqlite"
	StorageBackendMemory = "memory"
)

// StorageSettings configures persistence and blob storage.
type StorageSettings struct {
	// Backend is "sqlite" or "memory".
	Backend string

	// DataDir holds the database and uploaded files.
	DataDir string

	// MaxDocumentSize is the upload limit in bytes.
	MaxDocumentSize int64

	// GCSBucket stores uploads in Google Cloud Storage when set.
	GCSBucket string
}

// AppSettings holds all configurable application settings.
type AppSettings struct {
	AI       AISettings
	Analysis AnalysisSettings
	Storage  StorageSettings
}

// DefaultAppSettings returns settings with documented defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		AI: AISettings{
			Provider:       AIProviderOpenAI,
			Endpoint:       AIProviderOpenAI.DefaultEndpoint(),
			Model:          AIProviderOpenAI.DefaultModel(),
			MaxTokens:      4000,
			Temperature:    0.3,
			Timeout:        120 * time.Second,
			VertexLocation: "us-central1",
		},
		Analysis: AnalysisSettings{
			MaxContentChars: 100000,
			Workers:         1,
			PreviewChars:    2000,
		},
		Storage: StorageSettings{
			Backend:         StorageBackendSQLite,
			MaxDocumentSize: 50 * 1000 * 1000,
		},
	}
}

// Validate checks settings for values the application cannot run with.
func (s AppSettings) Validate() error {
	if !s.AI.Provider.IsValid() {
		return fmt.Errorf("%w: unknown ai provider %q", ErrInvalidInput, s.AI.Provider)
	}
	if s.AI.MaxTokens <= 0 {
		return fmt.Errorf("%w: ai.max_tokens must be positive", ErrInvalidInput)
	}
	if s.AI.Temperature < 0 || s.AI.Temperature > 2 {
		return fmt.Errorf("%w: ai.temperature must be between 0 and 2", ErrInvalidInput)
	}
	if s.AI.Timeout <= 0 {
		return fmt.Errorf("%w: ai.timeout must be positive", ErrInvalidInput)
	}
	if s.AI.RateLimit < 0 || s.AI.MaxRetries < 0 {
		return fmt.Errorf("%w: ai.rate_limit and ai.max_retries must not be negative", ErrInvalidInput)
	}
	if s.Analysis.MaxContentChars < 0 {
		return fmt.Errorf("%w: analysis.max_content_chars must not be negative", ErrInvalidInput)
	}
	if s.Analysis.Workers < 1 {
		return fmt.Errorf("%w: analysis.workers must be at least 1", ErrInvalidInput)
	}
	switch s.Storage.Backend {
	case StorageBackendSQLite, StorageBackendMemory:
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidInput, s.Storage.Backend)
	}
	return nil
}
