// Package simulation provides an offline completion provider.
//
// It never touches the network and answers every prompt with the same
// three-issue payload, so the whole pipeline can run without credentials.
package simulation

import (
	"context"

	"github.com/custodia-labs/docaudit/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.CompletionProvider = (*Provider)(nil)

// ModelName is the model reported by the simulation provider.
const ModelName = "simulation"

// Payload is the reply returned for every prompt.
const Payload = `{
  "issues": [
    {
      "issueType": "FORMATTING",
      "severity": "HIGH",
      "description": "Mise en forme incohérente des titres et des paragraphes.",
      "suggestion": "Appliquer une feuille de style unique à l'ensemble du document.",
      "pageNumber": 1,
      "paragraphNumber": 1
    },
    {
      "issueType": "CONTENT",
      "severity": "MEDIUM",
      "description": "Informations obligatoires manquantes dans la section d'introduction.",
      "suggestion": "Compléter l'introduction avec l'objet, le périmètre et les références.",
      "pageNumber": 1,
      "paragraphNumber": 2
    },
    {
      "issueType": "STRUCTURE",
      "severity": "LOW",
      "description": "Ordre des sections différent du plan attendu.",
      "suggestion": "Réorganiser les sections selon le modèle de référence.",
      "pageNumber": 2,
      "paragraphNumber": 1
    }
  ]
}`

// Provider returns Payload without any network call.
type Provider struct{}

// New creates a simulation provider.
func New() *Provider {
	return &Provider{}
}

// Complete returns Payload whatever the prompt.
func (p *Provider) Complete(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return Payload, nil
}

// ModelName returns the name of the model being used.
func (p *Provider) ModelName() string {
	return ModelName
}

// Close releases resources.
func (p *Provider) Close() error {
	return nil
}
