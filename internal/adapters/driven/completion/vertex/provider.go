// Package vertex provides a completion provider using Gemini on Vertex AI.
package vertex

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.CompletionProvider = (*Provider)(nil)

// Default configuration values.
const (
	DefaultLocation  = "us-central1"
	DefaultModel     = "gemini-1.5-flash"
	DefaultMaxTokens = 4000
)

// Config holds configuration for the Vertex AI provider.
type Config struct {
	// Project is the Google Cloud project ID (required).
	Project string

	// Location is the Vertex AI region (default: us-central1).
	Location string

	// Model is the Gemini model name (default: gemini-1.5-flash).
	Model string

	// MaxTokens caps the output length (default: 4000).
	MaxTokens int

	// Temperature is the sampling temperature.
	Temperature float64

	// CredentialsFile is an optional service account key.
	// Application default credentials are used when empty.
	CredentialsFile string
}

// Provider sends prompts to a Gemini model.
type Provider struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

// New creates a Vertex AI provider.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.Project == "" {
		return nil, fmt.Errorf("vertex: project is required")
	}
	if cfg.Location == "" {
		cfg.Location = DefaultLocation
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := genai.NewClient(ctx, cfg.Project, cfg.Location, opts...)
	if err != nil {
		return nil, fmt.Errorf("vertex: create client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(float32(cfg.Temperature))
	model.SetMaxOutputTokens(int32(cfg.MaxTokens))

	return &Provider{client: client, model: model, name: cfg.Model}, nil
}

// Complete sends prompt as a single text part and joins the text of the first candidate.
func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &domain.GatewayError{StatusCode: statusCode(err), Err: err}
	}

	text, ok := responseText(resp)
	if !ok {
		return "", &domain.GatewayError{StatusCode: http.StatusOK, Err: errors.New("response has no text content")}
	}
	return text, nil
}

// ModelName returns the name of the model being used.
func (p *Provider) ModelName() string {
	return p.name
}

// Close releases the underlying client.
func (p *Provider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

func responseText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", false
	}

	var b strings.Builder
	found := false
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
			found = true
		}
	}
	return b.String(), found
}

// statusCode maps gRPC codes onto HTTP statuses so that retry rules stay uniform.
// Zero means the failure did not come from the service.
func statusCode(err error) int {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return 0
	}
	st, ok := status.FromError(err)
	if !ok {
		return 0
	}

	switch st.Code() {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
