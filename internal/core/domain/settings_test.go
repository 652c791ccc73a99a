package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	for _, p := range []AIProvider{AIProviderSimulation, AIProviderOpenAI, AIProviderAnthropic, AIProviderOllama, AIProviderVertex} {
		assert.True(t, p.IsValid(), p)
		assert.NotEqual(t, unknownDescription, p.Description())
		assert.NotEmpty(t, p.DefaultModel())
	}
	assert.False(t, AIProvider("mistral").IsValid())
	assert.Equal(t, unknownDescription, AIProvider("mistral").Description())
}

func TestAISettings_HasCredential(t *testing.T) {
	tests := []struct {
		name     string
		settings AISettings
		expected bool
	}{
		{"openai without key", AISettings{Provider: AIProviderOpenAI}, false},
		{"openai with key", AISettings{Provider: AIProviderOpenAI, APIKey: "sk-test"}, true},
		{"anthropic without key", AISettings{Provider: AIProviderAnthropic}, false},
		{"ollama needs no key", AISettings{Provider: AIProviderOllama}, true},
		{"vertex without project", AISettings{Provider: AIProviderVertex}, false},
		{"vertex with project", AISettings{Provider: AIProviderVertex, VertexProject: "acme"}, true},
		{"simulation ignores key", AISettings{Provider: AIProviderSimulation, APIKey: "sk-test"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.HasCredential())
		})
	}
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, AIProviderOpenAI, s.AI.Provider)
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", s.AI.Endpoint)
	assert.Equal(t, 4000, s.AI.MaxTokens)
	assert.Equal(t, 0.3, s.AI.Temperature)
	assert.Equal(t, 120*time.Second, s.AI.Timeout)
	assert.Zero(t, s.AI.MaxRetries)
	assert.Equal(t, 100000, s.Analysis.MaxContentChars)
	assert.Equal(t, 1, s.Analysis.Workers)
	assert.Equal(t, StorageBackendSQLite, s.Storage.Backend)
	assert.NoError(t, s.Validate())
}

func TestAppSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppSettings)
	}{
		{"unknown provider", func(s *AppSettings) { s.AI.Provider = "mistral" }},
		{"zero max tokens", func(s *AppSettings) { s.AI.MaxTokens = 0 }},
		{"temperature too high", func(s *AppSettings) { s.AI.Temperature = 3 }},
		{"zero timeout", func(s *AppSettings) { s.AI.Timeout = 0 }},
		{"negative retries", func(s *AppSettings) { s.AI.MaxRetries = -1 }},
		{"negative content budget", func(s *AppSettings) { s.Analysis.MaxContentChars = -1 }},
		{"no workers", func(s *AppSettings) { s.Analysis.Workers = 0 }},
		{"unknown backend", func(s *AppSettings) { s.Storage.Backend = "postgres" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultAppSettings()
			tt.mutate(&s)
			err := s.Validate()
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}
