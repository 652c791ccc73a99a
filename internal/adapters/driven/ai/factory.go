// Package ai selects and wraps the completion provider used for analysis.
package ai

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docaudit/internal/adapters/driven/completion/anthropic"
	"github.com/custodia-labs/docaudit/internal/adapters/driven/completion/ollama"
	"github.com/custodia-labs/docaudit/internal/adapters/driven/completion/openai"
	"github.com/custodia-labs/docaudit/internal/adapters/driven/completion/simulation"
	"github.com/custodia-labs/docaudit/internal/adapters/driven/completion/vertex"
	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driven"
)

// New creates the provider for settings wrapped in a Gateway.
func New(ctx context.Context, settings domain.AISettings) (*Gateway, error) {
	provider, err := NewProvider(ctx, settings)
	if err != nil {
		return nil, err
	}
	return NewGateway(provider, GatewayConfig{
		Timeout:    settings.Timeout,
		RateLimit:  settings.RateLimit,
		MaxRetries: settings.MaxRetries,
	}), nil
}

// NewProvider creates the completion provider selected by settings.
// Simulation is used when the provider cannot run live for lack of a credential.
func NewProvider(ctx context.Context, settings domain.AISettings) (driven.CompletionProvider, error) {
	if !settings.HasCredential() {
		if settings.Provider != domain.AIProviderSimulation {
			log.Info("No credential configured for %s, using simulation mode", settings.Provider)
		}
		return simulation.New(), nil
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return openai.New(openai.Config{
			APIKey:      settings.APIKey,
			Endpoint:    settings.Endpoint,
			Model:       settings.Model,
			MaxTokens:   settings.MaxTokens,
			Temperature: settings.Temperature,
			Timeout:     settings.Timeout,
		})

	case domain.AIProviderAnthropic:
		return anthropic.New(anthropic.Config{
			APIKey:      settings.APIKey,
			Endpoint:    settings.Endpoint,
			Model:       settings.Model,
			MaxTokens:   settings.MaxTokens,
			Temperature: settings.Temperature,
			Timeout:     settings.Timeout,
		})

	case domain.AIProviderOllama:
		return ollama.New(ollama.Config{
			BaseURL:     settings.Endpoint,
			Model:       settings.Model,
			MaxTokens:   settings.MaxTokens,
			Temperature: settings.Temperature,
			Timeout:     settings.Timeout,
		}), nil

	case domain.AIProviderVertex:
		return vertex.New(ctx, vertex.Config{
			Project:         settings.VertexProject,
			Location:        settings.VertexLocation,
			Model:           settings.Model,
			MaxTokens:       settings.MaxTokens,
			Temperature:     settings.Temperature,
			CredentialsFile: settings.CredentialsFile,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported ai provider %q", domain.ErrInvalidInput, settings.Provider)
	}
}
